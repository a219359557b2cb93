package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/template"
)

// dominanceThreshold is the share of files a bitrate or format has to cover
// before the report treats it as the archive's overall value.
const dominanceThreshold = 0.8

// Report writes the release description file next to the archive folder.
type Report struct {
	podcast *Podcast
	config  *Config
}

func newReport(podcast *Podcast, config *Config) *Report {
	return &Report{podcast: podcast, config: config}
}

// filePath returns the report location; the files-only report lives next to
// the full one under a distinct name so neither clobbers the other.
func (r *Report) filePath(checkFilesOnly bool) Path {
	name := r.podcast.name + ".txt"
	if checkFilesOnly {
		name = r.podcast.name + ".files.txt"
	}
	return r.podcast.folderPath.
		removingLastPathComponent().
		appendingPathComponent(name)
}

// generate renders the report. With checkFilesOnly set, only the file
// statistics sections are written.
func (r *Report) generate(checkFilesOnly bool) error {
	target := r.filePath(checkFilesOnly)
	if target.exists() {
		if !askYesNo(fmt.Sprintf("Report %s already exists, overwrite it?", target.lastPathComponent())) {
			Log("keeping existing report", target)
			return nil
		}
	}

	data, err := r.collectData(checkFilesOnly)
	if err != nil {
		return err
	}
	content, err := renderTemplate("report", r.config.ReportTemplate, data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(string(target), []byte(content), 0644); err != nil {
		return err
	}
	announce(fmt.Sprintf("Report written to %s", target), "celebrate")
	return nil
}

func (r *Report) collectData(checkFilesOnly bool) (map[string]interface{}, error) {
	analyzer := r.podcast.analyzer
	if err := analyzer.analyze(); err != nil {
		return nil, err
	}

	fileCount := 0
	for _, files := range analyzer.fileFormats {
		fileCount += len(files)
	}

	fileFormat := r.overallValue(analyzer.fileFormats)
	overallBitrate := r.overallBitrate()
	data := map[string]interface{}{
		"file_format":     fileFormat,
		"overall_bitrate": overallBitrate,
		"number_of_files": fileCount,
	}
	// the files-only report always carries the full breakdowns
	if fileFormat == "Mixed" || checkFilesOnly {
		data["file_format_breakdown"] = breakdownSummary(analyzer.fileFormats)
	} else if len(analyzer.fileFormats) > 1 {
		data["differing_file_formats"] = differingFiles(analyzer.fileFormats)
	}
	if overallBitrate == "Mixed" || checkFilesOnly {
		data["bitrate_breakdown"] = breakdownSummary(analyzer.bitrates)
	} else if len(analyzer.bitrates) > 1 && !analyzer.allVBR {
		data["differing_bitrates"] = differingFiles(analyzer.bitrates)
	}
	if checkFilesOnly {
		return data, nil
	}

	// a completed show's year range already names the final date
	if analyzer.lastEpisodeDate != "" && !r.podcast.completed {
		data["last_episode_included"] = formatLastDate(analyzer.lastEpisodeDate, r.config.DateFormatLong)
	}
	data["name"], _ = r.renderName()
	data["description"] = r.formattedDescription()
	if tags := r.podcast.metadata.getTags(); len(tags) > 0 {
		data["tags"] = strings.Join(tags, ", ")
	}
	if external := r.externalSummary(); external != "" {
		data["external_data"] = external
	}
	links, err := r.renderLinks()
	if err != nil {
		return nil, err
	}
	if links != "" {
		data["links"] = links
	}
	return data, nil
}

// overallValue picks the dominant value from a breakdown, falling back to
// "Mixed" when nothing covers the threshold.
func (r *Report) overallValue(breakdown map[string][]Path) string {
	if value := dominantValue(breakdown, dominanceThreshold); value != "" {
		return value
	}
	return "Mixed"
}

func (r *Report) overallBitrate() string {
	analyzer := r.podcast.analyzer
	if value := dominantValue(analyzer.bitrates, dominanceThreshold); value != "" {
		return value
	}
	if analyzer.allVBR {
		return "VBR"
	}
	return "Mixed"
}

// externalSummary renders what the search services reported about the show,
// one line per service.
func (r *Report) externalSummary() string {
	var lines []string
	for _, result := range r.podcast.metadata.externalData {
		if result == nil {
			continue
		}
		line := result.Source + ": " + result.Title
		if result.Rating != "" {
			line += ", rated " + result.Rating
		}
		if result.Episodes > 0 {
			line += fmt.Sprintf(", %d episodes", result.Episodes)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// differingFiles lists the files outside the dominant group, one per line.
func differingFiles(breakdown map[string][]Path) string {
	dominant := dominantValue(breakdown, dominanceThreshold)
	var lines []string
	for key, files := range breakdown {
		if key == dominant {
			continue
		}
		for _, file := range files {
			lines = append(lines, fmt.Sprintf("%s: %s", file.lastPathComponent(), key))
		}
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}

func (r *Report) renderName() (string, error) {
	premium := r.podcast.rss.checkForPremiumShow()
	completeStr := ""
	if r.podcast.completed {
		completeStr = " (Complete)"
	}
	return renderTemplate("name", r.config.NameTemplate, map[string]interface{}{
		"podcast_name": r.podcast.name,
		"premium_show": premium,
		"complete_str": completeStr,
	})
}

// formattedDescription prefers the meta.json description and falls back to
// whatever a search service returned.
func (r *Report) formattedDescription() string {
	description := r.podcast.metadata.getDescription()
	if description == "" {
		for _, result := range r.podcast.metadata.externalData {
			if result != nil && result.Description != "" {
				description = strings.TrimSpace(result.Description)
				break
			}
		}
	}
	return newDataFormatter(r.config).format("description", description)
}

func (r *Report) renderLinks() (string, error) {
	links := r.podcast.metadata.getLinks()
	if len(links) == 0 {
		return "", nil
	}
	var rendered []string
	for _, link := range links {
		line, err := renderTemplate("link", r.config.LinkTemplate, map[string]interface{}{
			"text": link[0],
			"link": link[1],
		})
		if err != nil {
			return "", err
		}
		rendered = append(rendered, line)
	}
	return renderTemplate("links", r.config.LinksSectionTemplate, map[string]interface{}{
		"links": strings.Join(rendered, "\n"),
	})
}

func renderTemplate(name, text string, data map[string]interface{}) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", fmt.Errorf("invalid %s template: %w", name, err)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
