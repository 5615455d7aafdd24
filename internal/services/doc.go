// Package services defines the [Provider] interface for music catalog
// backends and the supporting pieces built on top of it.
//
// # Provider Interface
//
// All catalog backends implement a common abstraction so that seed
// resolution and similarity search work uniformly across providers.
//
// # Catalog Implementation
//
// [CatalogProvider] serves an offline JSON catalog loaded entirely into
// memory, standing in for remote streaming APIs. Multiple catalogs can be
// registered under different provider names with different weights.
//
// # Fallback Features
//
// [FallbackFeatures] deterministically estimates audio features from a
// hash of the track and artist names when no backend has analysis data,
// so every candidate can be scored against a seed profile.
package services
