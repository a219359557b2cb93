package main

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func testRules(t *testing.T) numberingRules {
	t.Helper()
	config := defaultConfig()
	if err := config.compile(); err != nil {
		t.Fatal(err)
	}
	return config.numberingRules()
}

func makeFiles(t *testing.T, names ...string) Path {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return Path(dir)
}

func folderNames(t *testing.T, folder Path) []string {
	t.Helper()
	files, err := folder.getFilesRecursively()
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, file := range files {
		names = append(names, file.lastPathComponent())
	}
	sort.Strings(names)
	return names
}

func assertNames(t *testing.T, folder Path, want ...string) {
	t.Helper()
	got := folderNames(t, folder)
	sort.Strings(want)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestParseFileName(t *testing.T) {
	rules := testRules(t)

	tests := []struct {
		name       string
		wantDate   string
		wantLabel  string
		wantSpace  string
		wantNumber int
	}{
		{"Show - 2023-05-01 Ep. 7 Title.mp3", "2023-05-01", "Ep.", " ", 7},
		{"Show - Episode 23.mp3", "", "Episode", " ", 23},
		{"Show - ep12.mp3", "", "ep", "", 12},
		{"Show - EPISODE  4.mp3", "", "EPISODE", "  ", 4},
		{"Show - 2023-05-01 Title.mp3", "2023-05-01", "", "", 0},
	}
	for _, tt := range tests {
		parsed := parseFileName(tt.name, rules)
		if parsed.date != tt.wantDate {
			t.Errorf("%s: date = %q, want %q", tt.name, parsed.date, tt.wantDate)
		}
		if tt.wantLabel == "" {
			if parsed.marker != nil {
				t.Errorf("%s: unexpected marker %+v", tt.name, parsed.marker)
			}
			continue
		}
		if parsed.marker == nil {
			t.Errorf("%s: no marker found", tt.name)
			continue
		}
		if parsed.marker.label != tt.wantLabel || parsed.marker.spacing != tt.wantSpace || parsed.marker.number != tt.wantNumber {
			t.Errorf("%s: marker = %+v", tt.name, parsed.marker)
		}
	}
}

func TestPadEpisodeNumbers(t *testing.T) {
	rules := testRules(t)
	folder := makeFiles(t,
		"Show - Ep. 1 Pilot.mp3",
		"Show - Episode 23 Finale.mp3",
		"Show - ep7 Middle.mp3",
		"Show - 2023-05-01 No Marker.mp3",
	)

	if err := padEpisodeNumbers(folder, rules); err != nil {
		t.Fatal(err)
	}
	assertNames(t, folder,
		"Show - Ep. 01 Pilot.mp3",
		"Show - Episode 23 Finale.mp3",
		"Show - ep07 Middle.mp3",
		"Show - 2023-05-01 No Marker.mp3",
	)
}

func TestPadEpisodeNumbersIsIdempotent(t *testing.T) {
	rules := testRules(t)
	folder := makeFiles(t,
		"Show - Ep. 01 Pilot.mp3",
		"Show - Episode 23 Finale.mp3",
	)

	for i := 0; i < 2; i++ {
		if err := padEpisodeNumbers(folder, rules); err != nil {
			t.Fatal(err)
		}
	}
	assertNames(t, folder,
		"Show - Ep. 01 Pilot.mp3",
		"Show - Episode 23 Finale.mp3",
	)
}

func TestPadEpisodeNumbersNoMarkersIsNoOp(t *testing.T) {
	rules := testRules(t)
	folder := makeFiles(t,
		"Show - 2023-05-01 First.mp3",
		"Show - 2023-05-08 Second.mp3",
	)

	if err := padEpisodeNumbers(folder, rules); err != nil {
		t.Fatal(err)
	}
	assertNames(t, folder,
		"Show - 2023-05-01 First.mp3",
		"Show - 2023-05-08 Second.mp3",
	)
}

func TestPadEpisodeNumbersPreservesLabelAndSpacing(t *testing.T) {
	rules := testRules(t)
	folder := makeFiles(t,
		"Show - EPISODE  4.mp3",
		"Show - ep101.mp3",
	)

	if err := padEpisodeNumbers(folder, rules); err != nil {
		t.Fatal(err)
	}
	assertNames(t, folder,
		"Show - EPISODE  004.mp3",
		"Show - ep101.mp3",
	)
}

func TestFindMissingNumbers(t *testing.T) {
	rules := testRules(t)
	folder := makeFiles(t,
		"Show - 2023-05-01 First.mp3",
		"Show - 2023-05-01 First Extra.mp3",
		"Show - 2023-05-08 Second.mp3",
		"Show - 2023-05-08 Ep. 2 Second.mp3",  // has a marker, not missing
		"Show - 2023-05-08 03. Canonical.mp3", // already numbered
		"Show - No Date At All.mp3",           // no date, skipped
	)

	groups, err := findMissingNumbers(folder, rules)
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].date != "2023-05-01" || len(groups[0].files) != 2 {
		t.Errorf("group 0 = %s with %d files", groups[0].date, len(groups[0].files))
	}
	if groups[1].date != "2023-05-08" || len(groups[1].files) != 1 {
		t.Errorf("group 1 = %s with %d files", groups[1].date, len(groups[1].files))
	}
}

func TestFindMissingNumbersKeepsTraversalOrder(t *testing.T) {
	rules := testRules(t)
	folder := makeFiles(t,
		"A Show - 2023-06-01 Later Date First Name.mp3",
		"B Show - 2023-05-01 Earlier Date Second Name.mp3",
	)

	groups, err := findMissingNumbers(folder, rules)
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	// traversal order, not chronological order
	if groups[0].date != "2023-06-01" || groups[1].date != "2023-05-01" {
		t.Errorf("group order = %s, %s", groups[0].date, groups[1].date)
	}
}

func TestAssignNumbersFromFeed(t *testing.T) {
	rules := testRules(t)
	folder := makeFiles(t,
		"My Show - 2023-05-01 Episode Two.mp3",
	)
	groups, err := findMissingNumbers(folder, rules)
	if err != nil {
		t.Fatal(err)
	}

	titles := []string{"Episode One", "Episode Two", "Episode Three"}
	if err := assignNumbersFromFeed(groups, titles, rules); err != nil {
		t.Fatal(err)
	}
	assertNames(t, folder, "My Show - 2023-05-01 2. Episode Two.mp3")
}

func TestAssignNumbersWidthFollowsTitleCount(t *testing.T) {
	rules := testRules(t)
	folder := makeFiles(t,
		"My Show - 2023-05-01 Opener.mp3",
	)
	groups, err := findMissingNumbers(folder, rules)
	if err != nil {
		t.Fatal(err)
	}

	titles := make([]string, 12)
	titles[0] = "Opener"
	for i := 1; i < len(titles); i++ {
		titles[i] = "Filler"
	}
	if err := assignNumbersFromFeed(groups, titles, rules); err != nil {
		t.Fatal(err)
	}
	assertNames(t, folder, "My Show - 2023-05-01 01. Opener.mp3")
}

func TestAssignNumbersFirstMatchWins(t *testing.T) {
	rules := testRules(t)
	folder := makeFiles(t,
		"My Show - 2023-05-01 The Big Interview Part Two.mp3",
	)
	groups, err := findMissingNumbers(folder, rules)
	if err != nil {
		t.Fatal(err)
	}

	// both titles are contained in the filename; the lower ordinal wins
	titles := []string{"The Big Interview", "The Big Interview Part Two"}
	if err := assignNumbersFromFeed(groups, titles, rules); err != nil {
		t.Fatal(err)
	}
	assertNames(t, folder, "My Show - 2023-05-01 1. The Big Interview Part Two.mp3")
}

func TestAssignNumbersNoMatchLeavesFileAlone(t *testing.T) {
	rules := testRules(t)
	folder := makeFiles(t,
		"My Show - 2023-05-01 Bonus Material.mp3",
	)
	groups, err := findMissingNumbers(folder, rules)
	if err != nil {
		t.Fatal(err)
	}

	titles := []string{"Episode One", "Episode Two"}
	if err := assignNumbersFromFeed(groups, titles, rules); err != nil {
		t.Fatal(err)
	}
	assertNames(t, folder, "My Show - 2023-05-01 Bonus Material.mp3")
}

func TestAssignNumbersEmptySequenceAssignsNothing(t *testing.T) {
	rules := testRules(t)
	folder := makeFiles(t,
		"My Show - 2023-05-01 Something.mp3",
	)
	groups, err := findMissingNumbers(folder, rules)
	if err != nil {
		t.Fatal(err)
	}

	if err := assignNumbersFromFeed(groups, nil, rules); err != nil {
		t.Fatal(err)
	}
	assertNames(t, folder, "My Show - 2023-05-01 Something.mp3")
}

func TestAssignNumbersMatchingIgnoresCaseAndPunctuation(t *testing.T) {
	rules := testRules(t)
	folder := makeFiles(t,
		"My Show - 2023-05-01 whats going on.mp3",
	)
	groups, err := findMissingNumbers(folder, rules)
	if err != nil {
		t.Fatal(err)
	}

	titles := []string{"Intro", "What's Going On?"}
	if err := assignNumbersFromFeed(groups, titles, rules); err != nil {
		t.Fatal(err)
	}
	assertNames(t, folder, "My Show - 2023-05-01 2. whats going on.mp3")
}

func TestCheckNumberingFullPass(t *testing.T) {
	rules := testRules(t)
	folder := makeFiles(t,
		"My Show - 2023-05-01 1. Pilot.mp3",
		"My Show - 2023-05-08 Second Week.mp3",
		"My Show - 2023-05-15 Unmatched Bonus.mp3",
	)

	// feed order is newest first
	titlesNewestFirst := []string{"Third Week", "Second Week", "Pilot"}
	asked := 0
	ask := func(prompt string) string {
		asked++
		return "9"
	}

	if err := checkNumbering(folder, rules, titlesNewestFirst, ask); err != nil {
		t.Fatal(err)
	}
	if asked != 1 {
		t.Errorf("manual prompt asked %d times, want 1", asked)
	}
	assertNames(t, folder,
		"My Show - 2023-05-01 1. Pilot.mp3",
		"My Show - 2023-05-08 2. Second Week.mp3",
		"My Show - 2023-05-15 9. Unmatched Bonus.mp3",
	)
}

func TestCheckNumberingBlankAnswerSkips(t *testing.T) {
	rules := testRules(t)
	folder := makeFiles(t,
		"My Show - 2023-05-15 Unmatched Bonus.mp3",
	)

	ask := func(prompt string) string { return "" }
	if err := checkNumbering(folder, rules, nil, ask); err != nil {
		t.Fatal(err)
	}
	assertNames(t, folder, "My Show - 2023-05-15 Unmatched Bonus.mp3")
}

func TestRenamePathRefusesToOverwrite(t *testing.T) {
	folder := makeFiles(t, "a.mp3", "b.mp3")

	_, err := renamePath(folder.appendingPathComponent("a.mp3"), "b.mp3")
	if err == nil {
		t.Fatal("expected an error renaming onto an existing file")
	}
	assertNames(t, folder, "a.mp3", "b.mp3")
}

func TestRenamePathSameNameIsNoOp(t *testing.T) {
	folder := makeFiles(t, "a.mp3")

	p, err := renamePath(folder.appendingPathComponent("a.mp3"), "a.mp3")
	if err != nil {
		t.Fatal(err)
	}
	if p.lastPathComponent() != "a.mp3" {
		t.Fatalf("got %s", p)
	}
}
