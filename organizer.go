package main

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// FileOrganizer renames and tidies the episode files in the podcast folder.
type FileOrganizer struct {
	podcast *Podcast
	config  *Config
}

func newFileOrganizer(podcast *Podcast, config *Config) *FileOrganizer {
	return &FileOrganizer{podcast: podcast, config: config}
}

// organizeFiles runs the full organizing pass over the podcast folder.
func (o *FileOrganizer) organizeFiles() error {
	if err := o.renameFolder(); err != nil {
		return err
	}
	announce("Organizing episode files", "info")
	if err := o.renameFiles(); err != nil {
		return err
	}
	if err := o.findUnwantedFiles(); err != nil {
		return err
	}
	return checkNumbering(o.podcast.folderPath, o.config.numberingRules(), o.podcast.rss.episodeTitles(), takeInput)
}

func (o *FileOrganizer) renameFiles() error {
	files, err := o.podcast.folderPath.getFilesRecursively()
	if err != nil {
		return err
	}
	metadataDirectory := string(getMetadataDirectory(o.podcast.folderPath, o.config))
	for _, file := range files {
		if strings.HasPrefix(string(file), metadataDirectory+string(os.PathSeparator)) {
			continue
		}
		if err := o.renameFile(file); err != nil {
			return err
		}
	}
	return nil
}

// renameFile title-cases a filename, applies the configured replacement
// table, then moves a trailing episode number into canonical position.
func (o *FileOrganizer) renameFile(file Path) error {
	newName := titlecaseFilename(file, o.config)
	newName = performReplacements(newName, o.config.FileReplacements)

	file, err := renamePath(file, newName)
	if err != nil {
		return err
	}

	_, err = o.fixEpisodeNumbering(file)
	return err
}

// fixEpisodeNumbering turns "Show - 2006-01-02 Title - 3.mp3" into
// "Show - 2006-01-02 3. Title.mp3".
func (o *FileOrganizer) fixEpisodeNumbering(file Path) (Path, error) {
	match := o.config.epNrAtEndRegex.FindStringSubmatch(file.lastPathComponent())
	if match == nil {
		return file, nil
	}

	prefix := match[1]
	date := match[2]
	title := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(match[3]), "-"))
	number := match[4]
	extension := match[5]

	newName := fmt.Sprintf("%s%s %s. %s%s", prefix, date, number, title, extension)
	return renamePath(file, newName)
}

// findUnwantedFiles offers to delete files matching the configured unwanted
// name fragments.
func (o *FileOrganizer) findUnwantedFiles() error {
	if len(o.config.UnwantedFiles) == 0 {
		return nil
	}
	announce("Checking if there are episodes we don't want", "info")
	files, err := o.podcast.folderPath.getFilesRecursively()
	if err != nil {
		return err
	}
	for _, file := range files {
		name := strings.ToLower(file.lastPathComponent())
		for _, unwanted := range o.config.UnwantedFiles {
			if !strings.Contains(name, strings.ToLower(unwanted)) {
				continue
			}
			if askYesNo(fmt.Sprintf("Would you like to remove '%s'", file.lastPathComponent())) {
				if err := file.removeItem(); err != nil {
					return err
				}
			}
			break
		}
	}
	return nil
}

// renameFolder decorates the podcast folder name with its year range, or with
// "(Complete)" when the show looks finished. Folders already decorated are
// left alone.
func (o *FileOrganizer) renameFolder() error {
	if strings.Contains(o.podcast.folderPath.lastPathComponent(), "(") {
		return nil
	}

	analyzer := o.podcast.analyzer
	if err := analyzer.analyze(); err != nil {
		return err
	}
	startYearStr := "Unknown"
	if analyzer.earliestYear != 0 {
		startYearStr = fmt.Sprintf("%d", analyzer.earliestYear)
	}
	lastEpisodeDateStr := "Unknown"
	var lastEpisodeDate time.Time
	if analyzer.lastEpisodeDate != "" {
		lastEpisodeDateStr = formatLastDate(analyzer.lastEpisodeDate, o.config.DateFormatLong)
		lastEpisodeDate, _ = time.Parse("2006-01-02", analyzer.lastEpisodeDate)
	}

	var newFolderName string
	threshold := time.Duration(o.config.CompletedThresholdDays) * 24 * time.Hour
	if !lastEpisodeDate.IsZero() && time.Since(lastEpisodeDate) > threshold {
		if askYesNo(fmt.Sprintf("Would you like to rename the folder to %s (Complete)", o.podcast.name)) {
			newFolderName = fmt.Sprintf("%s (Complete)", o.podcast.name)
			o.podcast.completed = true
		}
	}
	if newFolderName == "" {
		if askYesNo(fmt.Sprintf("Would you like to rename the folder to %s (%s-%s)", o.podcast.name, startYearStr, lastEpisodeDateStr)) {
			newFolderName = fmt.Sprintf("%s (%s-%s)", o.podcast.name, startYearStr, lastEpisodeDateStr)
		}
	}
	if newFolderName == "" {
		newFolderName = takeInput("Enter a custom name for the folder (blank skips)")
	}
	if newFolderName == "" {
		return nil
	}

	newFolderPath, err := renamePath(o.podcast.folderPath, newFolderName)
	if err != nil {
		return err
	}
	LogDebug("renamed folder to", newFolderPath)
	o.podcast.folderPath = newFolderPath
	return nil
}
