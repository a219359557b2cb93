package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// episodeMarker is an "Ep. 12" style substring found in a filename.
type episodeMarker struct {
	label   string // matched label text as written, e.g. "Ep." or "episode"
	spacing string // whitespace between label and number, preserved verbatim
	number  int
	start   int // byte offsets of the full marker within the name
	end     int
}

// parsedName is the explicit per-filename parse result the numbering stages
// share, instead of each stage re-deriving substrings with its own regex pass.
type parsedName struct {
	name   string
	date   string
	marker *episodeMarker
}

func parseFileName(name string, rules numberingRules) parsedName {
	parsed := parsedName{name: name}

	if loc := rules.date.FindStringIndex(name); loc != nil {
		parsed.date = name[loc[0]:loc[1]]
	}

	if m := rules.episode.FindStringSubmatchIndex(name); m != nil {
		number, err := strconv.Atoi(name[m[6]:m[7]])
		if err == nil {
			parsed.marker = &episodeMarker{
				label:   name[m[2]:m[3]],
				spacing: name[m[4]:m[5]],
				number:  number,
				start:   m[0],
				end:     m[1],
			}
		}
	}

	return parsed
}

// renamePath renames a file within its directory. A different file already
// occupying the target name is an error, never a silent overwrite.
func renamePath(p Path, newName string) (Path, error) {
	target := p.withName(newName)
	if target == p {
		return p, nil
	}
	if target.exists() {
		return p, fmt.Errorf("cannot rename %q to %q: target already exists", p.lastPathComponent(), newName)
	}
	if err := os.Rename(string(p), string(target)); err != nil {
		return p, err
	}
	LogDebug("renamed", p.lastPathComponent(), "to", newName)
	return target, nil
}

// padEpisodeNumbers rewrites every episode marker in the folder so its number
// is zero-padded to the width of the highest number seen, keeping textual
// sort order consistent. No marker anywhere is a valid no-op.
func padEpisodeNumbers(folder Path, rules numberingRules) error {
	files, err := folder.getFilesRecursively()
	if err != nil {
		return err
	}

	type markedFile struct {
		path   Path
		parsed parsedName
	}
	var marked []markedFile
	maxNumber := 0
	for _, file := range files {
		parsed := parseFileName(file.lastPathComponent(), rules)
		if parsed.marker == nil {
			continue
		}
		marked = append(marked, markedFile{path: file, parsed: parsed})
		if parsed.marker.number > maxNumber {
			maxNumber = parsed.marker.number
		}
	}
	if len(marked) == 0 {
		return nil
	}

	width := len(strconv.Itoa(maxNumber))
	for _, mf := range marked {
		m := mf.parsed.marker
		name := mf.parsed.name
		newName := name[:m.start] + m.label + m.spacing + fmt.Sprintf("%0*d", width, m.number) + name[m.end:]
		if newName == name {
			continue
		}
		if _, err := renamePath(mf.path, newName); err != nil {
			return err
		}
	}
	return nil
}

// dateGroup is the set of files sharing one calendar-date substring, in
// filesystem traversal order.
type dateGroup struct {
	date  string
	files []Path
}

// findMissingNumbers partitions files by their embedded date and returns, per
// date, the files that carry no episode marker. Files without a date are not
// this stage's problem. Group and member order follow traversal order since
// assignment relies on it for tie-breaking.
func findMissingNumbers(folder Path, rules numberingRules) ([]dateGroup, error) {
	files, err := folder.getFilesRecursively()
	if err != nil {
		return nil, err
	}

	var groups []dateGroup
	groupIdx := make(map[string]int)
	for _, file := range files {
		parsed := parseFileName(file.lastPathComponent(), rules)
		if parsed.date == "" || parsed.marker != nil || rules.numbered.MatchString(parsed.name) {
			continue
		}
		idx, ok := groupIdx[parsed.date]
		if !ok {
			idx = len(groups)
			groupIdx[parsed.date] = idx
			groups = append(groups, dateGroup{date: parsed.date})
		}
		groups[idx].files = append(groups[idx].files, file)
	}
	return groups, nil
}

func renderRenameTemplate(template, prefix, date, episode, suffix string) string {
	return strings.NewReplacer(
		"{prefix}", prefix,
		"{date}", date,
		"{episode}", episode,
		"{suffix}", suffix,
	).Replace(template)
}

// assignNumbersFromFeed numbers the files in each date group by locating each
// filename's title inside the chronological episode title sequence. The
// 1-based sequence position is the episode ordinal; the first (oldest)
// containing title wins. Files matching no title are left alone, and an empty
// sequence assigns nothing. Matching is plain substring containment over
// normalized strings; two files may legitimately claim the same ordinal.
func assignNumbersFromFeed(groups []dateGroup, titles []string, rules numberingRules) error {
	if len(titles) == 0 {
		return nil
	}

	normalizedTitles := make([]string, len(titles))
	for idx, title := range titles {
		normalizedTitles[idx] = normalizeForMatching(title)
	}
	width := len(strconv.Itoa(len(titles)))

	for _, group := range groups {
		for _, file := range group.files {
			name := file.lastPathComponent()
			normalizedName := normalizeForMatching(name)

			ordinal := 0
			for idx, normalizedTitle := range normalizedTitles {
				if normalizedTitle == "" {
					continue
				}
				if strings.Contains(normalizedName, normalizedTitle) {
					ordinal = idx + 1
					break
				}
			}
			if ordinal == 0 {
				LogDebug("no feed title matches", name)
				continue
			}

			remainder := strings.Replace(name, group.date, "", 1)
			prefix, suffix, _ := strings.Cut(remainder, " - ")
			newName := renderRenameTemplate(rules.renameTemplate,
				strings.TrimSpace(prefix),
				group.date,
				fmt.Sprintf("%0*d", width, ordinal),
				strings.TrimSpace(suffix))
			if _, err := renamePath(file, newName); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkNumbering runs the three automated numbering stages and then prompts
// for a manual episode number for every audio file still lacking one. Each
// stage re-scans the folder, since the previous stage renamed files in place.
func checkNumbering(folder Path, rules numberingRules, titlesNewestFirst []string, ask askFunc) error {
	announce("Checking if episode numbers are present and consistent", "info")

	if err := padEpisodeNumbers(folder, rules); err != nil {
		return err
	}

	groups, err := findMissingNumbers(folder, rules)
	if err != nil {
		return err
	}
	if len(groups) > 0 {
		titles := make([]string, len(titlesNewestFirst))
		for idx, title := range titlesNewestFirst {
			titles[len(titles)-1-idx] = title
		}
		if err := assignNumbersFromFeed(groups, titles, rules); err != nil {
			return err
		}
	}

	return manualNumbering(folder, rules, ask)
}

func manualNumbering(folder Path, rules numberingRules, ask askFunc) error {
	files, err := folder.getFilesRecursively()
	if err != nil {
		return err
	}

	for _, file := range files {
		if !file.isAudioFile() {
			continue
		}
		name := file.lastPathComponent()
		if rules.numbered.MatchString(name) {
			continue
		}
		match := rules.unnumbered.FindStringSubmatch(name)
		if match == nil {
			continue
		}

		number := ask(fmt.Sprintf("Episode number for '%s' (blank skips)", name))
		if number == "" {
			continue
		}

		prefix := match[1]
		date := match[2]
		title := strings.TrimSpace(match[3])
		extension := match[4]
		newName := fmt.Sprintf("%s - %s %s. %s%s", prefix, date, number, title, extension)
		if _, err := renamePath(file, newName); err != nil {
			return err
		}
	}
	return nil
}
