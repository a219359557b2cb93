package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// PodcastMetadata reads the podcast-dl meta.json file and the external data
// gathered from the search services.
type PodcastMetadata struct {
	podcast *Podcast
	config  *Config

	metadata     map[string]interface{}
	externalData []*PodcastResult
}

func newPodcastMetadata(podcast *Podcast, config *Config) *PodcastMetadata {
	return &PodcastMetadata{podcast: podcast, config: config}
}

// load reads meta.json from the metadata directory. A missing file is not an
// error; callers see it as empty metadata.
func (m *PodcastMetadata) load() error {
	if m.metadata != nil {
		return nil
	}
	metadataDirectory := getMetadataDirectory(m.podcast.folderPath, m.config)
	file, err := openFileCaseInsensitive("meta.json", metadataDirectory)
	if err != nil {
		return err
	}
	if file == nil {
		LogDebug("no meta.json found in", metadataDirectory)
		m.metadata = map[string]interface{}{}
		return nil
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, &m.metadata); err != nil {
		return fmt.Errorf("failed to parse meta.json: %w", err)
	}
	return nil
}

func (m *PodcastMetadata) stringValue(key string) string {
	if err := m.load(); err != nil {
		LogError("error loading metadata:", err)
		return ""
	}
	value, _ := m.metadata[key].(string)
	return value
}

func (m *PodcastMetadata) getDescription() string {
	description := m.stringValue("description")
	description = performReplacements(description, m.config.DescriptionReplacements)
	return strings.TrimSpace(description)
}

func (m *PodcastMetadata) getRSSFeedURL() string {
	return m.stringValue("feedUrl")
}

// getLinks returns the known links about the show, keeping a stable label
// order so reports come out the same every run.
func (m *PodcastMetadata) getLinks() [][2]string {
	var links [][2]string
	if url := m.stringValue("link"); url != "" {
		links = append(links, [2]string{"Website", url})
	}
	if url := m.getRSSFeedURL(); url != "" {
		links = append(links, [2]string{"RSS Feed", url})
	}
	for _, result := range m.externalData {
		if result != nil && result.URL != "" {
			links = append(links, [2]string{result.Source, result.URL})
		}
	}
	return links
}

func (m *PodcastMetadata) getTags() []string {
	if err := m.load(); err != nil {
		return nil
	}
	raw, ok := m.metadata["categories"].([]interface{})
	if !ok {
		return nil
	}
	var tags []string
	seen := map[string]bool{}
	for _, entry := range raw {
		tag, ok := entry.(string)
		if !ok {
			continue
		}
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// fetchExternalData queries the configured search services for additional
// show data. Failures of individual services are logged and skipped.
func (m *PodcastMetadata) fetchExternalData(fetcher *Fetcher, ask askFunc) {
	if m.externalData != nil {
		return
	}
	name := m.podcast.name

	if m.config.Podchaser.Token != "" {
		result, err := findPodcast(newPodchaserAPI(m.config, fetcher), name, ask)
		if err != nil {
			LogError("podchaser lookup failed:", err)
		} else if result != nil {
			m.externalData = append(m.externalData, result)
		}
	}
	if m.config.Podcastindex.Key != "" {
		result, err := findPodcast(newPodcastindexAPI(m.config, fetcher), name, ask)
		if err != nil {
			LogError("podcastindex lookup failed:", err)
		} else if result != nil {
			m.externalData = append(m.externalData, result)
		}
	}
	if m.config.PodnewsURL != "" {
		result, err := findPodcast(newPodnewsAPI(m.config, fetcher), name, ask)
		if err != nil {
			LogError("podnews lookup failed:", err)
		} else if result != nil {
			m.externalData = append(m.externalData, result)
		}
	}
}
