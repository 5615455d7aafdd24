// Package similarity scores candidate tracks against a feature profile
// derived from seed tracks, and turns a ranked candidate pool into a
// diverse playlist.
//
// [BuildProfile] derives a tolerant per-feature envelope from resolved
// seeds; [Calculator] scores arbitrary candidates against it; [Selector]
// applies the three diversity passes (artist cap, greedy feature
// diversity, era quotas). Profiles are rebuilt fresh for every
// playlist-generation call and never mutated.
package similarity
