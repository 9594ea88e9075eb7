package remotesvc

import (
	"context"
	"net/http"
	"regexp"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/iiw24/turma/core"
	"github.com/iiw24/turma/core/timetable"
)

// embeddedData matches the JSON payload GitHub embeds in its repository tree pages.
var embeddedData = regexp.MustCompile(`<script type="application/json" data-target="react-app.embeddedData">([^<]+)</script>`)

// Fetcher retrieves timetable documents and directory listings over HTTP.
type Fetcher struct {
	client *rest.Client
}

var _ timetable.Fetcher = (*Fetcher)(nil)

func NewFetcher(conf *core.Config) *Fetcher {
	return &Fetcher{
		client: &rest.Client{HTTPClient: &http.Client{Timeout: conf.Remote.Timeout}},
	}
}

func (f *Fetcher) get(ctx context.Context, url string) (*rest.Response, error) {
	res, err := f.client.SendWithContext(ctx, rest.Request{
		Method:  rest.Get,
		BaseURL: url,
		Headers: map[string]string{"Accept": "text/html, text/plain, */*"},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", url)
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return nil, errors.Wrapf(timetable.ErrNotFound, "GET %s: %d", url, res.StatusCode)
	}
	return res, nil
}

func (f *Fetcher) FetchText(ctx context.Context, url string) (string, error) {
	res, err := f.get(ctx, url)
	if err != nil {
		return "", err
	}
	return res.Body, nil
}

func (f *Fetcher) ListDirectory(ctx context.Context, url string) ([]timetable.Entry, error) {
	res, err := f.get(ctx, url)
	if err != nil {
		if errors.Is(err, timetable.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ParseListing(res.Body)
}

// ParseListing extracts the entries of a repository tree page.
// It returns nil when the page holds no listing.
func ParseListing(page string) ([]timetable.Entry, error) {
	match := embeddedData.FindStringSubmatch(page)
	if match == nil {
		return nil, nil
	}
	payload := []byte(match[1])

	entries := make([]timetable.Entry, 0)
	var itemErr error
	_, err := jsonparser.ArrayEach(payload, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
		if itemErr != nil {
			return
		}
		if err != nil {
			itemErr = err
			return
		}
		var entry timetable.Entry
		if entry.Name, err = jsonparser.GetString(value, "name"); err != nil {
			itemErr = errors.Wrap(err, "reading entry name")
			return
		}
		entry.ContentType, _ = jsonparser.GetString(value, "contentType")
		entries = append(entries, entry)
	}, "payload", "tree", "items")
	if err != nil {
		if errors.Is(err, jsonparser.KeyPathNotFoundError) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "parsing directory listing")
	}
	if itemErr != nil {
		return nil, errors.Wrap(itemErr, "parsing directory listing")
	}
	return entries, nil
}
