package inmemdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iiw24/turma/core/agenda"
	"github.com/iiw24/turma/tests"
)

func TestDocumentStore(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()

	_, _, err := store.ReadDocument(ctx)
	assert.ErrorIs(t, err, agenda.ErrDocumentMissing)
	_, err = store.ReadVersion(ctx)
	assert.ErrorIs(t, err, agenda.ErrDocumentMissing)

	v1, err := store.WriteDocument(ctx, []byte("{}"), "", "create")
	require.NoError(t, err)
	assert.Equal(t, "9e26dfeeb6e641a33dae4961196235bdb965b21b", v1, "git blob sha of {}")

	_, err = store.WriteDocument(ctx, []byte(`{"a": []}`), "", "stale")
	assert.ErrorIs(t, err, agenda.ErrVersionConflict)

	v2, err := store.WriteDocument(ctx, []byte(`{"a": []}`), v1, "update")
	require.NoError(t, err)
	assert.NotEqual(t, v1, v2)

	content, version, err := store.ReadDocument(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"a": []}`, string(content))
	assert.Equal(t, v2, version)
	assert.Equal(t, []string{"create", "update"}, store.Commits())
}

func TestDocumentStore_AgendaService(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()
	store.Seed([]byte(`{"iiw24a": []}`))

	svc := agenda.NewService(store, testutil.NewConfig(), testutil.NewLogger(t))
	item, err := svc.Add(ctx, "iiw24a", agenda.ItemInput{Title: "Prova", Description: "d", Date: "2024-10-10", Tag: agenda.TagExam})
	require.NoError(t, err)

	items, err := svc.Query(ctx, "iiw24a")
	require.NoError(t, err)
	assert.Equal(t, []agenda.Item{item}, items)
	assert.Len(t, store.Commits(), 1)
}
