package tasks

import (
	"fmt"

	"github.com/seedmix/seedmix/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced consumers
}

// Operation phase enumeration
type Phase int

const (
	ResolveSeeds Phase = iota
	BuildProfile
	SearchCandidates
	ScoreCandidates
	ApplyDiversity
	CreatePlaylist
)

func (p Phase) String() string {
	switch p {
	case ResolveSeeds:
		return "resolve_seeds"
	case BuildProfile:
		return "build_profile"
	case SearchCandidates:
		return "search_candidates"
	case ScoreCandidates:
		return "score_candidates"
	case ApplyDiversity:
		return "apply_diversity"
	case CreatePlaylist:
		return "create_playlist"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default so progress reporting never stalls the pipeline.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func resolveSeedUpdate(step, total int, seed models.SeedTrack) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveSeeds,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Resolving: %s", step, total, seed.DisplayName()),
	}
}

func seedResolvedUpdate(step, total int, resolved *models.ResolvedSeedTrack) ProgressUpdate {
	return ProgressUpdate{
		Phase: ResolveSeeds,
		Step:  step,
		Total: total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%s, %.2f)", step, total,
			resolved.ResolvedTrack.DisplayName(), resolved.ResolutionMethod, resolved.ConfidenceScore),
		Data: resolved,
	}
}

func seedUnresolvedUpdate(step, total int, seed models.SeedTrack) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveSeeds,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: no acceptable match", step, total, seed.DisplayName()),
	}
}

func buildProfileUpdate(seedCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BuildProfile,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Building feature profile from %d seed tracks...", seedCount),
	}
}

func searchCandidatesUpdate(queryCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchCandidates,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Searching providers with %d queries...", queryCount),
	}
}

func scoreCandidatesUpdate(candidateCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScoreCandidates,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Scoring %d candidate tracks...", candidateCount),
	}
}

func applyDiversityUpdate(rankedCount, targetLength int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ApplyDiversity,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Selecting %d of %d ranked tracks...", targetLength, rankedCount),
	}
}

func createPlaylistUpdate(pl *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created: %s (%d tracks)", pl.Name, len(pl.Tracks)),
		Data:    pl,
	}
}
