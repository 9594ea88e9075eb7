package remotesvc

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iiw24/turma/core/timetable"
	"github.com/iiw24/turma/tests"
)

const listingPayload = `{"payload":{"allShortcutsEnabled":false,"path":"docs/sala","repo":{"id":1},` +
	`"tree":{"items":[{"name":"bloco1","path":"docs/sala/bloco1","contentType":"directory"},` +
	`{"name":"README.md","path":"docs/sala/README.md","contentType":"file"}],"totalCount":2}}}`

func listingPage(payload string) string {
	return `<!DOCTYPE html><html><body><react-app app-name="react-code-view">` +
		`<script type="application/json" data-target="react-app.embeddedData">` + payload + `</script>` +
		`</react-app></body></html>`
}

func TestParseListing(t *testing.T) {
	entries, err := ParseListing(listingPage(listingPayload))
	require.NoError(t, err)
	assert.Equal(t, []timetable.Entry{
		{Name: "bloco1", ContentType: "directory"},
		{Name: "README.md", ContentType: "file"},
	}, entries)
	assert.True(t, entries[0].IsDir())

	entries, err = ParseListing("<html>rate limited</html>")
	require.NoError(t, err)
	assert.Nil(t, entries)

	entries, err = ParseListing(listingPage(`{"payload":{}}`))
	require.NoError(t, err)
	assert.Nil(t, entries)

	_, err = ParseListing(listingPage(`{"payload":{"tree":{"items":[{"path":"x"}]}}}`))
	assert.Error(t, err)
}

func TestFetcher(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/docs/turma/iiw/iiw2024a.mdx", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "export const data = {weekClasses: []}")
	})
	mux.HandleFunc("/tree/docs/sala", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, listingPage(listingPayload))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := NewFetcher(testutil.NewConfig())
	ctx := context.Background()

	text, err := f.FetchText(ctx, srv.URL+"/docs/turma/iiw/iiw2024a.mdx")
	require.NoError(t, err)
	assert.Equal(t, "export const data = {weekClasses: []}", text)

	_, err = f.FetchText(ctx, srv.URL+"/docs/turma/iiw/iiw1999a.mdx")
	assert.ErrorIs(t, err, timetable.ErrNotFound)

	entries, err := f.ListDirectory(ctx, srv.URL+"/tree/docs/sala")
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	entries, err = f.ListDirectory(ctx, srv.URL+"/tree/docs/nope")
	require.NoError(t, err)
	assert.Nil(t, entries)
}
