package main

import (
	"os"
	"path/filepath"
	"strings"
)

// Path represents a wrapper around a string to provide path manipulation methods.
type Path string

// appendingPathComponent adds a component to the path.
func (p Path) appendingPathComponent(component string) Path {
	return Path(filepath.Join(string(p), component))
}

// lastPathComponent returns the last component of the path.
func (p Path) lastPathComponent() string {
	return filepath.Base(string(p))
}

// removingLastPathComponent removes the last component from the path.
func (p Path) removingLastPathComponent() Path {
	return Path(filepath.Dir(string(p)))
}

// isDirectory checks if the path represents a directory.
func (p Path) isDirectory() bool {
	info, err := os.Stat(string(p))
	if err != nil {
		return false
	}
	return info.IsDir()
}

func (p Path) getDirectoryContents() ([]Path, error) {
	files, err := os.ReadDir(string(p))
	if err != nil {
		return nil, err
	}

	var fileNames []Path
	for _, file := range files {
		if strings.HasPrefix(file.Name(), ".") {
			continue
		}
		fileNames = append(fileNames, p.appendingPathComponent(file.Name()))
	}

	return fileNames, nil
}

// getFilesRecursively lists all regular files under the path, in traversal order.
func (p Path) getFilesRecursively() ([]Path, error) {
	var files []Path
	err := filepath.Walk(string(p), func(s string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && !strings.HasPrefix(info.Name(), ".") {
			files = append(files, Path(s))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (p Path) extension() string {
	return strings.TrimPrefix(filepath.Ext(string(p)), ".")
}

func (p Path) removingPathExtension() Path {
	ext := p.extension()
	if ext == "" {
		return p
	}
	return Path(strings.TrimSuffix(string(p), "."+ext))
}

// withName replaces the last path component, keeping the parent directory.
func (p Path) withName(name string) Path {
	return p.removingLastPathComponent().appendingPathComponent(name)
}

var audioExtensions []string = []string{"mp3", "m4a", "m4b", "aac", "ogg", "opus", "flac", "wav", "wma"}

func (p Path) isAudioFile() bool {
	if strings.HasPrefix(p.lastPathComponent(), ".") {
		return false
	}
	ext := p.extension()
	for _, audioExt := range audioExtensions {
		if strings.EqualFold(ext, audioExt) {
			return true
		}
	}
	return false
}

var imageExtensions []string = []string{"jpg", "jpeg", "png", "gif", "webp", "bmp", "tif", "tiff", "avif"}

func (p Path) isImageFile() bool {
	ext := p.extension()
	for _, imageExt := range imageExtensions {
		if strings.EqualFold(ext, imageExt) {
			return true
		}
	}
	return false
}

func (p Path) exists() bool {
	if _, err := os.Lstat(string(p)); err == nil {
		return true
	} else {
		return !os.IsNotExist(err)
	}
}

func (p Path) removeItem() error {
	if p.isDirectory() {
		return os.RemoveAll(string(p))
	} else {
		return os.Remove(string(p))
	}
}
