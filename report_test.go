package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testReportPodcast(t *testing.T) *Podcast {
	t.Helper()
	config := defaultConfig()
	config.CacheDirectory = t.TempDir()
	if err := config.compile(); err != nil {
		t.Fatal(err)
	}

	folder := Path(t.TempDir()).appendingPathComponent("My Show")
	metadataDir := filepath.Join(string(folder), config.MetadataDirectory)
	if err := os.MkdirAll(metadataDir, 0755); err != nil {
		t.Fatal(err)
	}
	meta := `{
		"description": "A show about history.",
		"link": "https://example.com/show",
		"feedUrl": "https://example.com/feed.rss",
		"categories": ["History", "history", "Education"]
	}`
	if err := os.WriteFile(filepath.Join(metadataDir, "meta.json"), []byte(meta), 0644); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{
		"My Show - 2019-03-01 1. First.mp3",
		"My Show - 2023-11-20 2. Last.mp3",
	} {
		if err := os.WriteFile(filepath.Join(string(folder), name), mp3Frame(9, false), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return newPodcast(folder, "", "", &config, newFetcher(&config), false)
}

func TestReportGenerate(t *testing.T) {
	podcast := testReportPodcast(t)
	report := newReport(podcast, podcast.config)

	if err := report.generate(false); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(string(report.filePath(false)))
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	for _, want := range []string{
		"My Show",
		"A show about history.",
		"Tags: history, education",
		"Format: MP3",
		"Bitrate: 128 kbps",
		"Files: 2",
		"Last episode included: November 20 2023",
		"Website: https://example.com/show",
		"RSS Feed: https://example.com/feed.rss",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("report missing %q:\n%s", want, content)
		}
	}
}

func TestReportGenerateFilesOnly(t *testing.T) {
	podcast := testReportPodcast(t)
	report := newReport(podcast, podcast.config)

	if err := report.generate(true); err != nil {
		t.Fatal(err)
	}
	target := report.filePath(true)
	if got := target.lastPathComponent(); got != "My Show.files.txt" {
		t.Errorf("files-only report path = %q", got)
	}
	if report.filePath(false).exists() {
		t.Error("files-only run should not touch the full report")
	}
	data, err := os.ReadFile(string(target))
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if strings.Contains(content, "A show about history.") {
		t.Error("files-only report should not carry the description")
	}
	for _, want := range []string{
		"Format: MP3",
		"Bitrates:",
		"128 kbps (2)",
		"File formats:",
		"MP3 (2)",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("files-only report missing %q:\n%s", want, content)
		}
	}
}

func TestReportExternalData(t *testing.T) {
	podcast := testReportPodcast(t)
	podcast.metadata.externalData = []*PodcastResult{{
		Source:   "Podchaser",
		Title:    "My Show",
		URL:      "https://podchaser.example/my-show",
		Rating:   "4.5 (120 ratings)",
		Episodes: 42,
	}}
	report := newReport(podcast, podcast.config)

	if err := report.generate(false); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(string(report.filePath(false)))
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.Contains(content, "Podchaser: My Show, rated 4.5 (120 ratings), 42 episodes") {
		t.Errorf("report missing external data line:\n%s", content)
	}
	if !strings.Contains(content, "Podchaser: https://podchaser.example/my-show") {
		t.Errorf("report missing external link:\n%s", content)
	}
}

func TestReportCompletedShowOmitsLastEpisode(t *testing.T) {
	podcast := testReportPodcast(t)
	podcast.completed = true
	report := newReport(podcast, podcast.config)

	if err := report.generate(false); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(string(report.filePath(false)))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "Last episode included") {
		t.Errorf("completed show should not list the last episode:\n%s", data)
	}
}

func TestReportMixedValues(t *testing.T) {
	podcast := testReportPodcast(t)
	report := newReport(podcast, podcast.config)

	breakdown := map[string][]Path{
		"128 kbps": {"a.mp3"},
		"192 kbps": {"b.mp3"},
	}
	if got := report.overallValue(breakdown); got != "Mixed" {
		t.Errorf("overallValue = %q, want Mixed", got)
	}
}

func TestMetadataTagsDeduplicated(t *testing.T) {
	podcast := testReportPodcast(t)

	tags := podcast.metadata.getTags()
	if len(tags) != 2 || tags[0] != "history" || tags[1] != "education" {
		t.Errorf("tags = %v", tags)
	}
}

func TestMetadataMissingFile(t *testing.T) {
	config := defaultConfig()
	config.CacheDirectory = t.TempDir()
	if err := config.compile(); err != nil {
		t.Fatal(err)
	}
	folder := Path(t.TempDir())
	podcast := newPodcast(folder, "", "", &config, newFetcher(&config), false)

	if got := podcast.metadata.getDescription(); got != "" {
		t.Errorf("description = %q", got)
	}
	if links := podcast.metadata.getLinks(); len(links) != 0 {
		t.Errorf("links = %v", links)
	}
}
