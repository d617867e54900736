// Package retriever ranks workspace files against a natural-language query
// while avoiding redundant embedding work across calls.
//
// Each call moves through a fixed pipeline:
//
//	listing -> diffing -> embedding -> persisting -> query embedding -> ranking
//
// Listing renders every candidate file into identity-bearing text. Diffing
// compares content fingerprints (and the embedding model tag) against the
// durable per-workspace cache and partitions files into reusable and stale.
// Only stale files are sent to the embedding provider, in bounded batches;
// a failed batch drops its files from this call's pool rather than aborting
// the call. The refreshed cache is persisted before ranking so the work is
// kept even if ranking fails. Finally the query is embedded under the query
// role and candidates are ordered by Euclidean distance.
//
// Progress is surfaced through a Notifier: a still-working signal if the
// call outlives its latency budget, and a results signal naming the
// selected files once ranking completes.
package retriever
