// Package tasks orchestrates the two pipeline operations: seed track
// resolution and similarity-based playlist generation.
//
// # Resolver
//
// [Resolver] maps user-supplied seed descriptions to canonical provider
// tracks through a four-stage search waterfall (exact, normalized,
// partial, fuzzy). Seeds are resolved concurrently in bounded batches;
// a failure on one seed never aborts the batch. Accepted resolutions
// are cached with a TTL so repeated runs skip the provider roundtrip.
//
// # Engine
//
// [Engine] builds an audio feature profile from resolved seeds, searches
// providers for candidates, scores them against the profile, and applies
// diversity selection to produce the final [models.Playlist].
//
// Both operations emit [ProgressUpdate] events via channels for
// non-blocking status reporting to the CLI layer.
package tasks
