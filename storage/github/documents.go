package githubstore

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/iiw24/turma/core"
	"github.com/iiw24/turma/core/agenda"
)

var errMissingCredentials = errors.New("github owner, repo and token are required")

// DocumentStore keeps the agenda document as a file of a GitHub repository, through the contents API.
type DocumentStore struct {
	client *github.Client
	owner  string
	repo   string
	path   string
	branch string
}

var _ agenda.DocumentStore = (*DocumentStore)(nil)

func NewDocumentStore(conf *core.Config) (*DocumentStore, error) {
	gh := conf.GitHub
	if gh.Owner == "" || gh.Repo == "" || gh.Token == "" {
		return nil, errMissingCredentials
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: gh.Token})
	httpClient := oauth2.NewClient(context.Background(), ts)
	httpClient.Timeout = conf.Remote.Timeout

	client := github.NewClient(httpClient)
	if gh.APIBaseURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(gh.APIBaseURL, "/") + "/")
		if err != nil {
			return nil, errors.Wrap(err, "parsing github api base url")
		}
		client.BaseURL = baseURL
	}
	return newDocumentStore(client, gh), nil
}

func newDocumentStore(client *github.Client, gh core.GitHubConfig) *DocumentStore {
	return &DocumentStore{
		client: client,
		owner:  gh.Owner,
		repo:   gh.Repo,
		path:   gh.AgendaPath,
		branch: gh.Branch,
	}
}

func (s *DocumentStore) getFile(ctx context.Context) (*github.RepositoryContent, error) {
	opts := &github.RepositoryContentGetOptions{Ref: s.branch}
	file, _, resp, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, s.path, opts)
	if err != nil {
		if statusIs(resp, http.StatusNotFound) {
			return nil, agenda.ErrDocumentMissing
		}
		return nil, errors.Wrapf(err, "getting contents of %s", s.path)
	}
	if file == nil {
		return nil, errors.Errorf("%s is a directory", s.path)
	}
	return file, nil
}

func (s *DocumentStore) ReadDocument(ctx context.Context) ([]byte, string, error) {
	file, err := s.getFile(ctx)
	if err != nil {
		return nil, "", err
	}
	content, err := file.GetContent()
	if err != nil {
		return nil, "", errors.Wrapf(err, "decoding contents of %s", s.path)
	}
	return []byte(content), file.GetSHA(), nil
}

func (s *DocumentStore) ReadVersion(ctx context.Context) (string, error) {
	file, err := s.getFile(ctx)
	if err != nil {
		return "", err
	}
	return file.GetSHA(), nil
}

func (s *DocumentStore) WriteDocument(ctx context.Context, content []byte, version, message string) (string, error) {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(message),
		Content: content,
		Branch:  github.String(s.branch),
	}
	if version != "" {
		opts.SHA = github.String(version)
	}

	res, resp, err := s.client.Repositories.UpdateFile(ctx, s.owner, s.repo, s.path, opts)
	if err != nil {
		// 409: sha does not match; 422: sha missing because the file was created meanwhile
		if statusIs(resp, http.StatusConflict) || (version == "" && statusIs(resp, http.StatusUnprocessableEntity)) {
			return "", errors.Wrap(agenda.ErrVersionConflict, err.Error())
		}
		return "", errors.Wrapf(err, "updating contents of %s", s.path)
	}
	return res.GetContent().GetSHA(), nil
}

func statusIs(resp *github.Response, code int) bool {
	return resp != nil && resp.StatusCode == code
}
