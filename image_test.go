package main

import (
	"bytes"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func jpegFixture(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height)), nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func testImagePodcast(t *testing.T, config *Config) *Podcast {
	t.Helper()
	config.CacheDirectory = t.TempDir()
	if err := config.compile(); err != nil {
		t.Fatal(err)
	}
	folder := Path(t.TempDir()).appendingPathComponent("My Show")
	if err := os.MkdirAll(string(folder), 0755); err != nil {
		t.Fatal(err)
	}
	source := filepath.Join(string(folder), "My Show.image.jpg")
	if err := os.WriteFile(source, jpegFixture(t, 32, 32), 0644); err != nil {
		t.Fatal(err)
	}
	return newPodcast(folder, "", "", config, newFetcher(config), false)
}

func TestImageArchiveFileDeletesWhenMetadataExcluded(t *testing.T) {
	config := defaultConfig()
	config.IncludeMetadata = false
	config.ArchiveMetadata = true
	config.ArchiveMetadataDirectory = t.TempDir()
	podcast := testImagePodcast(t, &config)

	if err := podcast.image.archiveFile(); err != nil {
		t.Fatal(err)
	}

	archived := Path(config.ArchiveMetadataDirectory).appendingPathComponent("My Show.image.jpg")
	if !archived.exists() {
		t.Error("image was not archived")
	}
	source := podcast.folderPath.appendingPathComponent("My Show.image.jpg")
	if source.exists() {
		t.Error("source image should have been deleted")
	}
	cover := podcast.folderPath.removingLastPathComponent().appendingPathComponent("My Show_cover.jpg")
	if cover.exists() {
		t.Error("no cover should be created when metadata is excluded")
	}
}

func TestImageArchiveFileKeepsMetadata(t *testing.T) {
	config := defaultConfig()
	config.IncludeMetadata = true
	podcast := testImagePodcast(t, &config)

	if err := podcast.image.archiveFile(); err != nil {
		t.Fatal(err)
	}

	cover := podcast.folderPath.removingLastPathComponent().appendingPathComponent("My Show_cover.jpg")
	if !cover.exists() {
		t.Error("cover image was not created next to the podcast folder")
	}
	moved := getMetadataDirectory(podcast.folderPath, &config).appendingPathComponent("My Show.jpg")
	if !moved.exists() {
		t.Error("original image was not moved to the metadata directory")
	}
	source := podcast.folderPath.appendingPathComponent("My Show.image.jpg")
	if source.exists() {
		t.Error("source image should have been moved out of the podcast folder")
	}
}

func TestImageCreateCoverResizes(t *testing.T) {
	config := defaultConfig()
	config.CoverSize = 16
	podcast := testImagePodcast(t, &config)

	target, err := podcast.image.createCover()
	if err != nil {
		t.Fatal(err)
	}
	img, err := imaging.Open(string(target))
	if err != nil {
		t.Fatal(err)
	}
	bounds := img.Bounds()
	if bounds.Dx() > 16 || bounds.Dy() > 16 {
		t.Errorf("cover not resized: %dx%d", bounds.Dx(), bounds.Dy())
	}
}
