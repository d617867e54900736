package embedder

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingEmbedder records every batch it receives and can be told to fail
// batches containing a marker text.
type countingEmbedder struct {
	mu       sync.Mutex
	batches  [][]string
	failWith string // any batch containing this text fails
}

func (c *countingEmbedder) GenerateEmbedding(ctx context.Context, req EmbeddingRequest) (*Embedding, error) {
	resp, err := c.GenerateBatch(ctx, BatchEmbeddingRequest{Texts: []string{req.Text}, Role: req.Role})
	if err != nil {
		return nil, err
	}
	return resp.Embeddings[0], nil
}

func (c *countingEmbedder) GenerateBatch(ctx context.Context, req BatchEmbeddingRequest) (*BatchEmbeddingResponse, error) {
	c.mu.Lock()
	c.batches = append(c.batches, req.Texts)
	c.mu.Unlock()

	for _, text := range req.Texts {
		if c.failWith != "" && strings.Contains(text, c.failWith) {
			return nil, fmt.Errorf("%w: injected failure", ErrProviderFailed)
		}
	}

	embeddings := make([]*Embedding, len(req.Texts))
	for i, text := range req.Texts {
		embeddings[i] = &Embedding{
			Vector:    []float32{float32(len(text)), 1},
			Dimension: 2,
			Provider:  "mock",
			Model:     "mock-model",
		}
	}
	return &BatchEmbeddingResponse{Embeddings: embeddings, Provider: "mock", Model: "mock-model"}, nil
}

func (c *countingEmbedder) Dimension() int   { return 2 }
func (c *countingEmbedder) Provider() string { return "mock" }
func (c *countingEmbedder) Model() string    { return "mock-model" }
func (c *countingEmbedder) Close() error     { return nil }

func (c *countingEmbedder) batchCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.batches)
}

func makeItems(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{
			Identity: fmt.Sprintf("file-%03d", i),
			Text:     fmt.Sprintf("content %d", i),
		}
	}
	return items
}

func TestBatcherPartitioning(t *testing.T) {
	emb := &countingEmbedder{}
	b := NewBatcher(emb, 10)

	results, failed := b.EmbedAll(context.Background(), makeItems(25), RoleDocument)

	assert.Equal(t, 0, failed)
	assert.Len(t, results, 25)
	assert.Equal(t, 3, emb.batchCount(), "25 items at batch size 10 should make 3 requests")

	// Every batch respects the size bound.
	for _, batch := range emb.batches {
		assert.LessOrEqual(t, len(batch), 10)
	}
}

func TestBatcherEmptyInput(t *testing.T) {
	emb := &countingEmbedder{}
	b := NewBatcher(emb, 10)

	results, failed := b.EmbedAll(context.Background(), nil, RoleDocument)
	assert.Empty(t, results)
	assert.Equal(t, 0, failed)
	assert.Equal(t, 0, emb.batchCount(), "no requests for empty input")
}

func TestBatcherPartialFailure(t *testing.T) {
	// Items 10-19 land in the second batch; poison one of them.
	items := makeItems(25)
	items[12].Text = "content POISON"

	emb := &countingEmbedder{failWith: "POISON"}
	b := NewBatcher(emb, 10)

	results, failed := b.EmbedAll(context.Background(), items, RoleDocument)

	assert.Equal(t, 10, failed, "the whole poisoned batch is dropped")
	assert.Len(t, results, 15, "other batches still succeed")

	// Nothing from the failed batch appears in the results.
	for i := 10; i < 20; i++ {
		_, ok := results[items[i].Identity]
		assert.False(t, ok, "identity %s belongs to the failed batch", items[i].Identity)
	}
	// Entries from surviving batches are present and correct.
	require.Contains(t, results, "file-000")
	require.Contains(t, results, "file-024")
}

func TestBatcherDefaultsToMaxBatchSize(t *testing.T) {
	emb := &countingEmbedder{}
	b := NewBatcher(emb, 0)

	_, failed := b.EmbedAll(context.Background(), makeItems(MaxBatchSize+1), RoleDocument)
	assert.Equal(t, 0, failed)
	assert.Equal(t, 2, emb.batchCount())
}
