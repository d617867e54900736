package embedder

import (
	"context"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultBatchConcurrency bounds how many batches are in flight at once.
// Kept small to trade latency against remote rate-limit risk.
const DefaultBatchConcurrency = 4

// Item is one (identity, text) pair submitted for batch embedding.
type Item struct {
	Identity string
	Text     string
}

// Batcher partitions embedding work into bounded-size batches and submits
// them through an Embedder. A batch that fails is logged and dropped; its
// identities are simply absent from the result, never substituted with a
// stale or wrong vector. Fewer-but-correct results beat failing the whole
// call.
type Batcher struct {
	emb         Embedder
	batchSize   int
	concurrency int
}

// NewBatcher creates a Batcher over the given embedder. batchSize is capped
// at the provider's per-request limit; zero or negative selects the cap.
func NewBatcher(emb Embedder, batchSize int) *Batcher {
	if batchSize <= 0 || batchSize > MaxBatchSize {
		batchSize = MaxBatchSize
	}
	return &Batcher{
		emb:         emb,
		batchSize:   batchSize,
		concurrency: DefaultBatchConcurrency,
	}
}

// EmbedAll embeds every item under the given role and returns a mapping
// from identity to vector, plus the number of items whose batch failed.
// Batches run concurrently up to the configured bound.
func (b *Batcher) EmbedAll(ctx context.Context, items []Item, role Role) (map[string][]float32, int) {
	results := make(map[string][]float32, len(items))
	if len(items) == 0 {
		return results, 0
	}

	var (
		mu     sync.Mutex
		failed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for start := 0; start < len(items); start += b.batchSize {
		end := start + b.batchSize
		if end > len(items) {
			end = len(items)
		}
		batch := items[start:end]

		g.Go(func() error {
			texts := make([]string, len(batch))
			for i, item := range batch {
				texts[i] = item.Text
			}

			resp, err := b.emb.GenerateBatch(gctx, BatchEmbeddingRequest{
				Texts: texts,
				Role:  role,
			})
			if err == nil && len(resp.Embeddings) != len(batch) {
				err = ErrProviderFailed
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// Drop the batch; a later call retries these naturally
				// because their cache entries stay stale.
				failed += len(batch)
				log.Printf("embedder: batch of %d failed: %v", len(batch), err)
				return nil
			}
			for i, item := range batch {
				results[item.Identity] = resp.Embeddings[i].Vector
			}
			return nil
		})
	}

	// Workers never return errors; per-batch failures are absorbed above.
	_ = g.Wait()

	return results, failed
}
