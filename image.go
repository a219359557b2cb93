package main

import (
	"fmt"
	"os"

	"github.com/disintegration/imaging"
)

// PodcastImage handles the cover art stored by podcast-dl next to the
// episode files.
type PodcastImage struct {
	podcast *Podcast
	config  *Config
}

func newPodcastImage(podcast *Podcast, config *Config) *PodcastImage {
	return &PodcastImage{podcast: podcast, config: config}
}

// filePath returns the downloaded feed image in the podcast folder, or ""
// when none exists.
func (p *PodcastImage) filePath() Path {
	images := findCaseInsensitiveFiles("*.image.*", p.podcast.folderPath)
	for _, image := range images {
		if image.isImageFile() {
			return image
		}
	}
	return ""
}

// metaFilePath is where the original image ends up when metadata is kept
// with the release.
func (p *PodcastImage) metaFilePath() Path {
	return getMetadataDirectory(p.podcast.folderPath, p.config).
		appendingPathComponent(p.podcast.name + ".jpg")
}

// createCover resizes the feed image into a square cover next to the podcast
// folder, named after the show.
func (p *PodcastImage) createCover() (Path, error) {
	source := p.filePath()
	if source == "" {
		return "", fmt.Errorf("no podcast image found")
	}

	img, err := imaging.Open(string(source), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to open image %s: %w", source, err)
	}

	size := p.config.CoverSize
	if size <= 0 {
		size = 500
	}
	cover := imaging.Fit(img, size, size, imaging.Lanczos)

	target := p.podcast.folderPath.
		removingLastPathComponent().
		appendingPathComponent(p.podcast.name + "_cover.jpg")
	if err := imaging.Save(cover, string(target), imaging.JPEGQuality(90)); err != nil {
		return "", fmt.Errorf("failed to save cover %s: %w", target, err)
	}
	Log("cover image created:", target)
	return target, nil
}

// archiveFile puts the feed image where the configuration wants it: copied
// into the archive, deleted when metadata is excluded from the release, or
// resized into a cover with the original moved to the metadata directory.
func (p *PodcastImage) archiveFile() error {
	source := p.filePath()
	if source == "" {
		LogDebug("no podcast image to archive")
		return nil
	}

	if p.config.ArchiveMetadata {
		if err := archiveMetadataFile(source, p.config.ArchiveMetadataDirectory); err != nil {
			return err
		}
	}

	if !p.config.IncludeMetadata {
		Log("deleting image", source.lastPathComponent())
		return os.Remove(string(source))
	}

	if _, err := p.createCover(); err != nil {
		Log("no cover image created:", err)
	}

	target := p.metaFilePath()
	if err := os.MkdirAll(string(target.removingLastPathComponent()), 0755); err != nil {
		return err
	}
	if err := os.Rename(string(source), string(target)); err != nil {
		return fmt.Errorf("failed to move image %s: %w", source, err)
	}
	LogDebug("moved image to", target)
	return nil
}
