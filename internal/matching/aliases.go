package matching

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// AliasBonus is added to artist similarity when both names fall in the same
// alias group.
const AliasBonus = 0.2

// AliasTable is an immutable lookup of artists known under several names.
// It is constructed once at startup and injected into [TrackMatcher]; it is
// never reloaded per call.
type AliasTable struct {
	groups map[string][]string // canonical name -> aliases, all in NormalizeArtist form
}

// DefaultAliasTable returns the built-in alias groups used when no alias
// file is configured.
func DefaultAliasTable() *AliasTable {
	return newAliasTable(map[string][]string{
		"eminem":            {"slim shady", "marshall mathers", "b-rabbit"},
		"jay-z":             {"jay z", "shawn carter", "hov"},
		"the beatles":       {"beatles", "fab four"},
		"beyonce":           {"beyoncé", "destiny's child"},
		"justin timberlake": {"nsync", "*nsync"},
		"lady gaga":         {"stefani germanotta"},
		"kanye west":        {"ye", "yeezy"},
		"taylor swift":      {"t swift"},
		"bruno mars":        {"peter hernandez"},
		"the weeknd":        {"weeknd", "abel tesfaye"},
	})
}

// LoadAliasTable reads alias groups from a JSON file mapping canonical
// artist names to alias lists.
func LoadAliasTable(path string) (*AliasTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read alias file: %w", err)
	}

	var groups map[string][]string
	if err := json.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("failed to parse alias file: %w", err)
	}

	return newAliasTable(groups), nil
}

// newAliasTable canonicalizes every entry through [NormalizeArtist] so the
// table matches the normalized names [TrackMatcher] feeds into SameGroup.
func newAliasTable(groups map[string][]string) *AliasTable {
	normalized := make(map[string][]string, len(groups))
	for canonical, aliases := range groups {
		list := make([]string, 0, len(aliases))
		for _, alias := range aliases {
			if name := NormalizeArtist(alias); name != "" {
				list = append(list, name)
			}
		}
		normalized[NormalizeArtist(canonical)] = list
	}
	return &AliasTable{groups: normalized}
}

// SameGroup reports whether both artist names belong to the same alias
// group, either as the canonical name or as a listed alias.
func (t *AliasTable) SameGroup(artist1, artist2 string) bool {
	a1 := strings.ToLower(artist1)
	a2 := strings.ToLower(artist2)

	for canonical, aliases := range t.groups {
		if t.inGroup(a1, canonical, aliases) && t.inGroup(a2, canonical, aliases) {
			return true
		}
	}
	return false
}

func (t *AliasTable) inGroup(name, canonical string, aliases []string) bool {
	if name == canonical {
		return true
	}
	for _, alias := range aliases {
		if name == alias {
			return true
		}
	}
	return false
}
