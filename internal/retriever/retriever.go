package retriever

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/semscout/semscout/internal/cachestore"
	"github.com/semscout/semscout/internal/embedder"
	"github.com/semscout/semscout/internal/fingerprint"
	"github.com/semscout/semscout/internal/ranker"
	"github.com/semscout/semscout/internal/source"
	"github.com/semscout/semscout/pkg/types"
)

// Notification kinds emitted through the Notifier.
const (
	// KindProgress fires when a call has run past the latency budget and is
	// still working.
	KindProgress = "progress"

	// KindResults fires once ranking completes, carrying the selected file
	// names so the caller can show them before the full text is assembled.
	KindResults = "results"
)

// DefaultProgressAfter is the latency budget after which a still-working
// notification fires.
const DefaultProgressAfter = 5 * time.Second

// Notifier receives fire-and-forget progress signals. Implementations must
// not block: the orchestrator calls Notify inline and a slow sink would
// stall retrieval.
type Notifier interface {
	Notify(kind, payload string)
}

// Options configures a Retriever.
type Options struct {
	TopK          int           // Number of files to return (default ranker.DefaultTopK)
	BatchSize     int           // Embedding batch size (default embedder.MaxBatchSize)
	ProgressAfter time.Duration // Latency budget for the still-working signal
	Notifier      Notifier      // Optional progress sink
}

// Retriever coordinates one workspace's retrieval pipeline: enumerate
// candidate files, detect changes by fingerprint, refresh only stale
// embeddings, persist the cache, embed the query, and rank.
//
// A Retriever is constructed once per workspace session. Concurrent
// Retrieve calls are safe: the cache store serializes merge-and-persist
// internally, so overlapping calls cannot lose each other's embeddings.
type Retriever struct {
	source   source.Source
	emb      embedder.Embedder
	batcher  *embedder.Batcher
	store    *cachestore.Store
	notifier Notifier

	topK          int
	progressAfter time.Duration
}

// New creates a Retriever. The embedder must already hold a valid
// credential; remote providers fail at construction, before any file I/O.
func New(src source.Source, emb embedder.Embedder, store *cachestore.Store, opts Options) (*Retriever, error) {
	if src == nil {
		return nil, types.ErrNoWorkspace
	}
	if emb == nil {
		return nil, fmt.Errorf("retriever: %w", embedder.ErrNoCredential)
	}
	if store == nil {
		return nil, fmt.Errorf("retriever: cache store is required")
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = ranker.DefaultTopK
	}
	progressAfter := opts.ProgressAfter
	if progressAfter <= 0 {
		progressAfter = DefaultProgressAfter
	}

	return &Retriever{
		source:        src,
		emb:           emb,
		batcher:       embedder.NewBatcher(emb, opts.BatchSize),
		store:         store,
		notifier:      opts.Notifier,
		topK:          topK,
		progressAfter: progressAfter,
	}, nil
}

// Retrieve ranks the workspace's files against the query and returns the
// top matches. Cache problems, individual file failures, and failed
// embedding batches degrade the result instead of aborting it; only a
// missing workspace, a missing credential, a failed query embedding, or
// mixed embedding models abort the call.
func (r *Retriever) Retrieve(ctx context.Context, query string) (*types.RetrievalResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("retriever: query cannot be empty")
	}

	start := time.Now()

	// Still-working signal, suppressed if the call completes first.
	timer := time.AfterFunc(r.progressAfter, func() {
		r.notify(KindProgress, "still searching, large workspaces take a moment")
	})
	defer timer.Stop()

	// Listing
	files, err := r.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing: %w", err)
	}
	if len(files) == 0 {
		return &types.RetrievalResult{
			FileNames: []string{},
			Ranked:    []types.RankedResult{},
			Stats:     types.RetrievalStats{Duration: time.Since(start)},
		}, nil
	}

	// Diffing: an entry is reusable only if both its fingerprint and its
	// model tag match; either mismatch marks the file stale.
	cache := r.store.Snapshot()
	model := r.emb.Model()

	vectors := make(map[string][]float32, len(files))
	fps := make(map[string]string, len(files))
	var stale []embedder.Item
	for _, f := range files {
		fp := fingerprint.Compute(f.Text)
		fps[f.Identity] = fp
		if entry, ok := cache[f.Identity]; ok && entry.Fingerprint == fp && entry.Model == model {
			vectors[f.Identity] = entry.Vector
		} else {
			stale = append(stale, embedder.Item{Identity: f.Identity, Text: f.Text})
		}
	}
	reused := len(vectors)

	// Embedding: failed batches are logged by the batcher and their files
	// drop out of this call's candidate pool.
	fresh, failed := r.batcher.EmbedAll(ctx, stale, embedder.RoleDocument)

	// Persisting: save before ranking so future calls benefit from this
	// call's embedding work even if ranking fails. Write failures are
	// recovered; the call continues on the in-memory cache.
	updates := make(map[string]cachestore.Entry, len(fresh))
	keep := make(map[string]bool, len(files))
	for _, f := range files {
		keep[f.Identity] = true
	}
	for _, f := range files {
		vec, ok := fresh[f.Identity]
		if !ok {
			continue
		}
		vectors[f.Identity] = vec
		updates[f.Identity] = cachestore.Entry{
			Fingerprint: fps[f.Identity],
			Model:       model,
			Vector:      vec,
		}
	}
	if err := r.store.Apply(updates, keep); err != nil {
		log.Printf("retriever: persist cache: %v", err)
	}

	// QueryEmbedding: without a query vector the result set is undefined,
	// so this failure aborts the call.
	queryEmb, err := r.emb.GenerateEmbedding(ctx, embedder.EmbeddingRequest{
		Text: query,
		Role: embedder.RoleQuery,
	})
	if err != nil {
		return nil, fmt.Errorf("query embedding: %w", err)
	}

	// Ranking over the union of reused and freshly embedded vectors, in
	// enumeration order for stable ties.
	candidates := make([]ranker.Candidate, 0, len(vectors))
	for _, f := range files {
		vec, ok := vectors[f.Identity]
		if !ok {
			continue
		}
		candidates = append(candidates, ranker.Candidate{
			Identity:    f.Identity,
			DisplayName: f.DisplayName,
			Vector:      vec,
		})
	}

	ranked, err := ranker.Rank(queryEmb.Vector, candidates, r.topK)
	if err != nil {
		return nil, fmt.Errorf("ranking: %w", err)
	}

	names := make([]string, len(ranked))
	for i, res := range ranked {
		names[i] = res.DisplayName
	}
	if len(names) > 0 {
		r.notify(KindResults, "found: "+strings.Join(names, ", "))
	}

	return &types.RetrievalResult{
		Context:   buildContext(files, ranked),
		FileNames: names,
		Ranked:    ranked,
		Stats: types.RetrievalStats{
			FilesListed:   len(files),
			FilesReused:   reused,
			FilesEmbedded: len(fresh),
			FilesFailed:   failed,
			Duration:      time.Since(start),
		},
	}, nil
}

// notify forwards a signal to the sink, if any.
func (r *Retriever) notify(kind, payload string) {
	if r.notifier == nil {
		return
	}
	r.notifier.Notify(kind, payload)
}

// buildContext concatenates the rendered text of the selected files in
// ranked order and trims trailing whitespace.
func buildContext(files []types.CandidateFile, ranked []types.RankedResult) string {
	texts := make(map[string]string, len(files))
	for _, f := range files {
		texts[f.Identity] = f.Text
	}

	var sb strings.Builder
	for i, res := range ranked {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(texts[res.Identity])
	}
	return strings.TrimRight(sb.String(), " \t\r\n")
}
