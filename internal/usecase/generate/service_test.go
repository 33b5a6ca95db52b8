package generate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/furnimatch/internal/domain"
	"github.com/kailas-cloud/furnimatch/internal/domain/batch"
	"github.com/kailas-cloud/furnimatch/internal/domain/catalog"
	"github.com/kailas-cloud/furnimatch/internal/usecase/ingest"
)

type mockGenerator struct {
	items []catalog.Item
	err   error
	asked int
}

func (m *mockGenerator) Generate(_ context.Context, count int) ([]catalog.Item, error) {
	m.asked = count
	return m.items, m.err
}

type mockMerger struct {
	source string
	got    []catalog.Item
	calls  int
}

func (m *mockMerger) Merge(_ context.Context, source string, items []catalog.Item) ([]batch.Result, error) {
	m.calls++
	m.source = source
	m.got = items
	out := make([]batch.Result, len(items))
	for i, it := range items {
		out[i] = batch.NewOK(it.ID)
	}
	return out, nil
}

func TestRun_MarksItemsPending(t *testing.T) {
	gen := &mockGenerator{items: []catalog.Item{
		{ID: "g1", Embedding: catalog.EmbeddingRetrieved, Vector: []float32{1}},
		{ID: "g2"},
	}}
	m := &mockMerger{}
	svc := New(gen, m, 2, nil)

	results, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, 2, gen.asked)
	assert.Equal(t, ingest.SourceGenerate, m.source)
	for _, it := range m.got {
		assert.Equal(t, catalog.EmbeddingPending, it.Embedding, it.ID)
		assert.Nil(t, it.Vector, it.ID)
	}
}

func TestRun_DefaultCount(t *testing.T) {
	gen := &mockGenerator{}
	svc := New(gen, &mockMerger{}, 0, nil)

	_, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultCount, gen.asked)
}

func TestRun_EmptyGenerationSkipsMerge(t *testing.T) {
	m := &mockMerger{}
	svc := New(&mockGenerator{}, m, 3, nil)

	results, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, m.calls)
}

func TestRun_ParseFailurePropagates(t *testing.T) {
	gen := &mockGenerator{err: errors.Join(domain.ErrGenerationParse, errors.New("unexpected shape"))}
	m := &mockMerger{}
	svc := New(gen, m, 1, nil)

	_, err := svc.Run(context.Background())
	require.ErrorIs(t, err, domain.ErrGenerationParse)
	assert.Zero(t, m.calls)
}
