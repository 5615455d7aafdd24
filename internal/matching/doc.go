// Package matching implements fuzzy track/artist string matching.
//
// It provides three layers, leaves first:
//
//   - normalization: [Normalize], [NormalizeTrack], [NormalizeArtist] strip
//     case, diacritics, release-annotation noise and featuring suffixes so
//     that catalog spellings and user spellings land on the same form.
//   - metrics: four independent [0,1] scorers over normalized strings
//     (edit distance, Jaro-Winkler, token Jaccard, Soundex) plus an
//     [AliasTable] for artists known under several names.
//   - [TrackMatcher]: combines the metrics into a single track-pair
//     similarity score and generates search query variations for the
//     resolver's partial-match stage.
//
// All functions are pure; the only state is the immutable alias table
// injected into TrackMatcher at construction.
package matching
