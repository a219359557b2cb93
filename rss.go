package main

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mmcdole/gofeed"
)

// Rss handles downloading, parsing and housekeeping of the podcast feed file.
type Rss struct {
	podcast       *Podcast
	sourceRssFile string
	config        *Config
	fetcher       *Fetcher
	censorRss     bool
	totalEpisodes int
}

func newRss(podcast *Podcast, sourceRssFile string, config *Config, fetcher *Fetcher, censorRss bool) *Rss {
	return &Rss{
		podcast:       podcast,
		sourceRssFile: sourceRssFile,
		config:        config,
		fetcher:       fetcher,
		censorRss:     censorRss,
	}
}

func (r *Rss) defaultFilePath() Path {
	fileName := "podcast.rss"
	if r.podcast.name != unknownPodcastName {
		fileName = r.podcast.name + ".rss"
	}
	return getMetadataDirectory(r.podcast.folderPath, r.config).appendingPathComponent(fileName)
}

// filePath returns the feed file location, or "" when no feed file exists.
func (r *Rss) filePath() Path {
	metadataDirectory := getMetadataDirectory(r.podcast.folderPath, r.config)
	if !metadataDirectory.exists() {
		return ""
	}
	if r.defaultFilePath().exists() {
		return r.defaultFilePath()
	}
	rssFiles := findCaseInsensitiveFiles("*.rss", metadataDirectory)
	if len(rssFiles) == 0 {
		return ""
	}
	return rssFiles[0]
}

// getFile puts the feed file in place, downloading it or moving a local file.
func (r *Rss) getFile() error {
	if r.sourceRssFile == "" {
		return nil
	}
	if err := os.MkdirAll(string(r.defaultFilePath().removingLastPathComponent()), 0755); err != nil {
		return err
	}

	source := Path(r.sourceRssFile)
	if source.exists() {
		return r.loadLocalFile(source)
	}
	return r.downloadFile()
}

func (r *Rss) loadLocalFile(source Path) error {
	if r.config.KeepSourceRss {
		data, err := os.ReadFile(string(source))
		if err != nil {
			return err
		}
		return os.WriteFile(string(r.defaultFilePath()), data, 0644)
	}
	err := os.Rename(string(source), string(r.defaultFilePath()))
	if err == nil {
		r.sourceRssFile = ""
	}
	return err
}

func (r *Rss) downloadFile() error {
	announce("Downloading RSS feed", "info")
	// Browser-ish headers; a few hosts refuse plain Go user agents.
	data, err := r.fetcher.Download(r.sourceRssFile, map[string]string{
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		"Accept-Language": "en-US,en;q=0.9",
	})
	if err != nil {
		return fmt.Errorf("failed to download RSS feed: %w", err)
	}
	if err := os.WriteFile(string(r.defaultFilePath()), data, 0644); err != nil {
		return err
	}
	LogDebug("RSS feed downloaded to", r.defaultFilePath())
	return nil
}

func (r *Rss) parseFeed() (*gofeed.Feed, error) {
	filePath := r.filePath()
	if filePath == "" {
		return nil, fmt.Errorf("RSS file does not exist")
	}
	f, err := os.Open(string(filePath))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return gofeed.NewParser().Parse(f)
}

// extractShowTitle pulls the show title from the feed, cleaned up through the
// title replacement table and title-casing.
func (r *Rss) extractShowTitle() string {
	feed, err := r.parseFeed()
	if err != nil || feed.Title == "" {
		return ""
	}
	title := strings.TrimSpace(performReplacements(feed.Title, r.config.TitleReplacements))
	return titlecase(title, r.config)
}

func (r *Rss) episodeCount() int {
	feed, err := r.parseFeed()
	if err != nil {
		return 0
	}
	return len(feed.Items)
}

// episodeTitles returns the feed's episode titles in feed order, newest
// first. A missing or unparsable feed yields an empty list, never an error;
// the numbering stage treats that as "no assignments possible".
func (r *Rss) episodeTitles() []string {
	feed, err := r.parseFeed()
	if err != nil {
		LogError("error parsing RSS feed:", err)
		return nil
	}
	var titles []string
	for _, item := range feed.Items {
		if item.Title != "" {
			titles = append(titles, item.Title)
		}
	}
	return titles
}

// getMetadata extracts the show name from the feed and renames the podcast
// folder and feed file accordingly.
func (r *Rss) getMetadata() (bool, error) {
	if r.filePath() == "" {
		if err := r.getFile(); err != nil {
			return false, err
		}
	}
	if r.filePath() == "" {
		LogError("RSS file could not be fetched")
		return false, nil
	}

	announce("Getting metadata from feed", "info")
	name := r.extractShowTitle()
	if name == "" {
		return false, fmt.Errorf("failed to extract name from RSS feed")
	}

	newFolderPath := r.podcast.folderPath.withName(name)
	if newFolderPath != r.podcast.folderPath {
		if newFolderPath.exists() {
			if !askYesNo(fmt.Sprintf("Folder %s already exists, do you want to overwrite it?", newFolderPath)) {
				return false, fmt.Errorf("folder %s already exists", newFolderPath)
			}
			if err := newFolderPath.removeItem(); err != nil {
				return false, err
			}
		}
		oldFeedName := r.defaultFilePath().lastPathComponent()
		if err := os.Rename(string(r.podcast.folderPath), string(newFolderPath)); err != nil {
			return false, err
		}
		LogDebug("folder renamed to", newFolderPath)
		r.podcast.folderPath = newFolderPath
		r.podcast.name = name
		if err := r.renameFeedFile(oldFeedName); err != nil {
			return false, err
		}
	}

	r.totalEpisodes = r.episodeCount()
	Logf("feed lists %d episodes\n", r.totalEpisodes)
	r.checkForPremiumShow()
	return true, nil
}

func (r *Rss) renameFeedFile(oldName string) error {
	metadataDirectory := getMetadataDirectory(r.podcast.folderPath, r.config)
	oldFilePath := metadataDirectory.appendingPathComponent(oldName)
	newFilePath := metadataDirectory.appendingPathComponent(r.podcast.name + ".rss")
	if !oldFilePath.exists() || oldFilePath == newFilePath {
		return nil
	}
	LogDebug("renaming RSS file from", oldFilePath, "to", newFilePath)
	return os.Rename(string(oldFilePath), string(newFilePath))
}

// checkForPremiumShow inspects the channel for configured premium-network
// tags, returning the display suffix for the show name.
func (r *Rss) checkForPremiumShow() string {
	filePath := r.filePath()
	if filePath == "" {
		Log("RSS file does not exist, can't check for premium status")
		return ""
	}
	data, err := os.ReadFile(string(filePath))
	if err != nil {
		return ""
	}

	for _, network := range r.config.PremiumNetworks {
		if network.Tag == "" || network.Text == "" || network.Name == "" {
			LogDebug("invalid premium network configuration:", network.Name)
			continue
		}
		text, ok := channelElementText(data, network.Tag)
		if ok && strings.Contains(text, network.Text) {
			LogDebug("identified premium network", network.Name, "from RSS feed")
			r.censorRss = true
			if !r.config.IncludePremiumTag {
				return ""
			}
			return fmt.Sprintf(" (%s)", network.Name)
		}
	}
	return ""
}

// channelElementText finds the character data of the first channel-level
// element with the given local name. gofeed doesn't surface arbitrary custom
// channel tags, so this walks the raw XML tokens.
func channelElementText(data []byte, tagName string) (string, bool) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	depth := 0
	inChannel := false
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return "", false
		}
		if err != nil {
			return "", false
		}
		switch element := token.(type) {
		case xml.StartElement:
			depth++
			if element.Name.Local == "channel" {
				inChannel = true
			} else if inChannel && depth == 3 && element.Name.Local == tagName {
				var text string
				if err := decoder.DecodeElement(&text, &element); err != nil {
					return "", false
				}
				return text, true
			}
		case xml.EndElement:
			depth--
		}
	}
}

// editFeed censors the feed file in place using the configured patterns.
func (r *Rss) editFeed() error {
	filePath := r.filePath()
	if filePath == "" {
		return nil
	}
	data, err := os.ReadFile(string(filePath))
	if err != nil {
		return err
	}
	if len(data) == 0 {
		Log("RSS file is empty, can't be edited")
		return nil
	}
	content := performReplacements(string(data), r.config.CensorRssPatterns)
	return os.WriteFile(string(filePath), []byte(content), 0644)
}

// archiveFile archives and then censors or deletes the feed file as
// configured.
func (r *Rss) archiveFile() error {
	filePath := r.filePath()
	if filePath == "" {
		Log("RSS file does not exist, can't be archived")
		return nil
	}
	if r.config.ArchiveMetadata {
		LogDebug("archiving RSS feed", filePath.lastPathComponent())
		if err := archiveMetadataFile(filePath, r.config.ArchiveMetadataDirectory); err != nil {
			return err
		}
	}
	if !r.censorRss {
		return nil
	}
	if r.config.RssCensorMode == "edit" {
		LogDebug("editing RSS feed since censor was requested:", filePath)
		return r.editFeed()
	}
	LogDebug("deleting RSS feed since censor was requested:", filePath)
	return filePath.removeItem()
}
