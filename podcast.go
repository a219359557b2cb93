package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const unknownPodcastName = "Unknown Podcast"

// folderDecorationRegex strips year-range or "(Complete)" suffixes when
// deriving the show name from a folder name.
var folderDecorationRegex = regexp.MustCompile(`\s*\(.*\)\s*$`)

// Podcast ties together everything known about one show's archive folder.
type Podcast struct {
	name       string
	folderPath Path
	completed  bool

	config  *Config
	fetcher *Fetcher

	rss      *Rss
	metadata *PodcastMetadata
	analyzer *FileAnalyzer
	image    *PodcastImage
}

func newPodcast(folderPath Path, name, rssFile string, config *Config, fetcher *Fetcher, censorRss bool) *Podcast {
	p := &Podcast{
		folderPath: folderPath,
		config:     config,
		fetcher:    fetcher,
	}
	if name == "" {
		name = strings.TrimSpace(folderDecorationRegex.ReplaceAllString(folderPath.lastPathComponent(), ""))
	}
	if name == "" {
		name = unknownPodcastName
	}
	p.name = name

	p.rss = newRss(p, rssFile, config, fetcher, censorRss)
	p.metadata = newPodcastMetadata(p, config)
	p.analyzer = newFileAnalyzer(p, config)
	p.image = newPodcastImage(p, config)
	return p
}

// downloadEpisodes pulls the full feed archive with podcast-dl, reporting
// progress as episodes finish.
func (p *Podcast) downloadEpisodes() error {
	feedURL := Coalesce(p.rss.sourceRssFile, p.metadata.getRSSFeedURL())
	if feedURL == "" {
		return fmt.Errorf("no RSS feed URL known for %s", p.name)
	}

	announce(fmt.Sprintf("Downloading episodes of %s", p.name), "info")
	args := []string{
		"--url", feedURL,
		"--out-dir", string(p.folderPath),
		"--include-meta",
		"--include-episode-meta",
		"--episode-template", p.config.PdlEpisodeTemplate,
		"--threads", strconv.Itoa(p.config.Threads),
	}

	downloaded := 0
	err := runCommand("podcast-dl", args, func(line string) {
		if strings.Contains(line, "Download complete") {
			downloaded++
			Logf("downloaded %d episodes\n", downloaded)
		}
	})
	if err != nil {
		return err
	}
	announce(fmt.Sprintf("Downloaded %d episodes", downloaded), "celebrate")
	return nil
}

// audioFileCount counts the episode files currently in the archive.
func (p *Podcast) audioFileCount() (int, error) {
	files, err := p.folderPath.getFilesRecursively()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, file := range files {
		if file.isAudioFile() {
			count++
		}
	}
	return count, nil
}

// warnIfIncomplete compares the archive against the feed's episode count.
func (p *Podcast) warnIfIncomplete() {
	if p.rss.totalEpisodes == 0 {
		return
	}
	count, err := p.audioFileCount()
	if err != nil {
		LogError("could not count archive files:", err)
		return
	}
	if count < p.rss.totalEpisodes {
		announce(fmt.Sprintf("Archive has %d files but the feed lists %d episodes", count, p.rss.totalEpisodes), "warning")
	}
}

// checkForDuplicates warns when the tracker already has a matching release.
func (p *Podcast) checkForDuplicates() error {
	dupes, err := checkForDuplicates(p.name, p.config, p.fetcher)
	if err != nil {
		return err
	}
	if len(dupes) == 0 {
		return nil
	}
	announce(fmt.Sprintf("Found %d possible duplicate(s):", len(dupes)), "warning")
	for _, dupe := range dupes {
		Log(" -", dupe)
	}
	if !askYesNo("Continue anyway?") {
		return fmt.Errorf("aborted due to existing release")
	}
	return nil
}

// archiveFiles copies the metadata files aside and censors or removes the
// feed as configured.
func (p *Podcast) archiveFiles() error {
	if err := p.rss.archiveFile(); err != nil {
		return err
	}
	if err := p.image.archiveFile(); err != nil {
		return err
	}
	if !p.config.ArchiveMetadata {
		return nil
	}
	metadataDirectory := getMetadataDirectory(p.folderPath, p.config)
	if !metadataDirectory.exists() {
		return nil
	}
	files, err := metadataDirectory.getDirectoryContents()
	if err != nil {
		return err
	}
	for _, file := range files {
		if file.isDirectory() {
			continue
		}
		if err := archiveMetadataFile(file, p.config.ArchiveMetadataDirectory); err != nil {
			return err
		}
	}
	return nil
}

// recordInventory stores the archive's file list in the local database and
// logs files that are new since the previous run.
func (p *Podcast) recordInventory() error {
	if p.config.DatabasePath == "" {
		return nil
	}
	db, err := initializeDB(p.config.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	podcastID, err := insertPodcast(db, p.name, p.folderPath)
	if err != nil {
		return err
	}
	files, err := p.folderPath.getFilesRecursively()
	if err != nil {
		return err
	}
	var audioFiles []Path
	for _, file := range files {
		if file.isAudioFile() {
			audioFiles = append(audioFiles, file)
		}
	}
	newFiles, err := recordPodcastFiles(db, podcastID, audioFiles)
	if err != nil {
		return err
	}
	if len(newFiles) > 0 {
		Logf("%d file(s) new since last run\n", len(newFiles))
		for _, name := range newFiles {
			LogDebug("new file:", name)
		}
	}
	return nil
}
