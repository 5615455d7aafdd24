// Package models defines the domain entities for seed-based playlist generation.
//
// The package contains three categories of types:
//
// 1. User input: [SeedTrack], a possibly inaccurate track/artist reference
// parsed from free-form strings or record maps. Immutable once constructed;
// the constructor validates confidence thresholds and release years.
//
// 2. Catalog records: [Track] and [AudioFeatures], canonical provider data.
// AudioFeatures values are independently optional bounded scalars and fail
// validation when out of range rather than being silently clamped.
//
// 3. Pipeline output: [ResolvedSeedTrack] (a seed mapped to a catalog track
// with permanent confidence/method provenance), [ScoredTrack] and [Playlist].
package models
