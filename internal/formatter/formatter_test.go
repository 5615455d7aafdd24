package formatter

import (
	"strings"
	"testing"

	"github.com/seedmix/seedmix/internal/models"
)

func testPlaylist() *models.Playlist {
	return &models.Playlist{
		ID:          "pl1",
		Name:        "Test Playlist",
		Description: "Generated from 2 seed tracks",
		Tracks: []models.Track{
			{
				ID:          "track1",
				Name:        "Bohemian Rhapsody",
				Artist:      "Queen",
				Album:       "A Night at the Opera",
				DurationMS:  354000,
				ReleaseDate: "1975-10-31",
				Provider:    "catalog",
			},
			{
				ID:         "track2",
				Name:       "Dream On",
				Artist:     "Aerosmith",
				DurationMS: 267000,
				Provider:   "catalog",
			},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testPlaylist())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "ID,Name,Artist,Album,Duration,Year,Provider") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "track1,Bohemian Rhapsody,Queen,A Night at the Opera,5:54,1975,catalog") {
			t.Errorf("CSV missing track1 row, got: %s", output)
		}
		if !strings.Contains(output, "track2,Dream On,Aerosmith,,4:27,,catalog") {
			t.Errorf("CSV missing track2 row with empty album and year, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(testPlaylist())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "# Test Playlist") {
			t.Errorf("Markdown missing title")
		}
		if !strings.Contains(output, "**Description**: Generated from 2 seed tracks") {
			t.Errorf("Markdown missing description")
		}
		if !strings.Contains(output, "**Tracks**: 2") {
			t.Errorf("Markdown missing track count")
		}
		if !strings.Contains(output, "## Tracks") {
			t.Errorf("Markdown missing tracks section")
		}
		if !strings.Contains(output, "1. Queen - Bohemian Rhapsody (A Night at the Opera) [5:54]") {
			t.Errorf("Markdown missing track1, got: %s", output)
		}
		if !strings.Contains(output, "2. Aerosmith - Dream On [4:27]") {
			t.Errorf("Markdown missing track2 (no album)")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testPlaylist())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Playlist: Test Playlist") {
			t.Errorf("Text missing playlist name")
		}
		if !strings.Contains(output, "Tracks: 2") {
			t.Errorf("Text missing track count")
		}
		if !strings.Contains(output, "1. Queen - Bohemian Rhapsody") {
			t.Errorf("Text missing track1")
		}
		if !strings.Contains(output, "2. Aerosmith - Dream On") {
			t.Errorf("Text missing track2")
		}
	})
}

func TestExport(t *testing.T) {
	playlist := testPlaylist()

	cases := []struct {
		format string
		needle string
	}{
		{"csv", "ID,Name,Artist"},
		{"markdown", "# Test Playlist"},
		{"md", "# Test Playlist"},
		{"text", "Playlist: Test Playlist"},
		{"txt", "Playlist: Test Playlist"},
	}
	for _, tc := range cases {
		t.Run(tc.format, func(t *testing.T) {
			data, err := Export(playlist, tc.format)
			if err != nil {
				t.Fatalf("Export(%q) failed: %v", tc.format, err)
			}
			if !strings.Contains(string(data), tc.needle) {
				t.Errorf("Export(%q) missing %q", tc.format, tc.needle)
			}
		})
	}

	t.Run("UnsupportedFormat", func(t *testing.T) {
		if _, err := Export(playlist, "xml"); err == nil {
			t.Error("Expected error for unsupported format")
		}
	})
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		ms   int
		want string
	}{
		{354000, "5:54"},
		{267000, "4:27"},
		{59000, "0:59"},
		{60000, "1:00"},
		{0, "0:00"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.ms); got != tc.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tc.ms, got, tc.want)
		}
	}
}
