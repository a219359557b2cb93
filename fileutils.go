package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

func getMetadataDirectory(folderPath Path, config *Config) Path {
	return folderPath.appendingPathComponent(config.MetadataDirectory)
}

// findCaseInsensitiveFiles finds files directly inside a folder whose names
// match a glob pattern, ignoring case.
func findCaseInsensitiveFiles(pattern string, folderPath Path) []Path {
	contents, err := folderPath.getDirectoryContents()
	if err != nil {
		return nil
	}
	pattern = strings.ToLower(pattern)
	var matches []Path
	for _, file := range contents {
		ok, err := filepath.Match(pattern, strings.ToLower(file.lastPathComponent()))
		if err == nil && ok {
			matches = append(matches, file)
		}
	}
	return matches
}

// openFileCaseInsensitive opens a file in a folder matching the given name
// regardless of case. Returns nil with no error if nothing matches.
func openFileCaseInsensitive(filename string, folderPath Path) (*os.File, error) {
	target := strings.ToLower(filename)
	contents, err := folderPath.getDirectoryContents()
	if err != nil {
		return nil, err
	}
	for _, file := range contents {
		if strings.ToLower(file.lastPathComponent()) == target && !file.isDirectory() {
			return os.Open(string(file))
		}
	}
	LogDebug("no file matching", filename, "found in", folderPath)
	return nil, nil
}

// archiveMetadataFile copies a metadata file into the archive directory.
func archiveMetadataFile(filePath Path, targetDir string) error {
	if targetDir == "" {
		return nil
	}
	target := Path(targetDir)
	if !target.exists() {
		if err := os.MkdirAll(string(target), 0755); err != nil {
			return err
		}
	}

	src, err := os.Open(string(filePath))
	if err != nil {
		return err
	}
	defer src.Close()

	targetFile := target.appendingPathComponent(filePath.lastPathComponent())
	dst, err := os.Create(string(targetFile))
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}
	LogDebug("archived metadata file to", targetFile)
	return nil
}

// formatLastDate renders a YYYY-MM-DD date string in the long display format.
func formatLastDate(dateStr string, layoutLong string) string {
	dt, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return dateStr
	}
	return dt.Format(layoutLong)
}
