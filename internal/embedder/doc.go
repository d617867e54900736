// Package embedder generates vector embeddings for workspace files and
// queries using various providers.
//
// The package supports multiple providers (Jina AI, OpenAI, local) behind a
// single Embedder interface, with batching, in-memory caching, and retry
// handling. Every request carries a Role: retrieval models embed documents
// and queries asymmetrically, so the role is part of a text's embedding
// identity and of its cache key.
//
// # Provider Selection
//
// The factory selects a provider based on environment variables:
//
//  1. If SEMSCOUT_EMBEDDING_PROVIDER is set → use the named provider
//  2. Else if JINA_API_KEY is set → use Jina AI
//  3. Else if OPENAI_API_KEY is set → use OpenAI
//  4. Else → fall back to the local provider (offline mode)
//
// A remote provider without its API key fails at construction time, before
// any file I/O has been attempted.
//
// # Batch Processing
//
// The Batcher partitions large candidate sets into batches of at most
// MaxBatchSize texts and submits them concurrently:
//
//	b := embedder.NewBatcher(emb, 0)
//	vectors, failed := b.EmbedAll(ctx, items, embedder.RoleDocument)
//
// A failed batch is logged and its identities are omitted from the result;
// the caller ranks over whatever succeeded.
package embedder
