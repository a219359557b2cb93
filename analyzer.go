package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dhowden/tag"
)

// FileAnalyzer walks the archive's audio files and summarizes their formats,
// bitrates and date range.
type FileAnalyzer struct {
	podcast *Podcast
	config  *Config

	fileFormats     map[string][]Path
	bitrates        map[string][]Path
	earliestYear    int
	lastEpisodeDate string
	allVBR          bool
	analyzed        bool
}

func newFileAnalyzer(podcast *Podcast, config *Config) *FileAnalyzer {
	return &FileAnalyzer{
		podcast:     podcast,
		config:      config,
		fileFormats: map[string][]Path{},
		bitrates:    map[string][]Path{},
	}
}

// analyze inspects every audio file once; subsequent calls are no-ops.
func (a *FileAnalyzer) analyze() error {
	if a.analyzed {
		return nil
	}
	a.analyzed = true

	files, err := a.podcast.folderPath.getFilesRecursively()
	if err != nil {
		return err
	}

	vbrSeen, cbrSeen := false, false
	for _, file := range files {
		if !file.isAudioFile() {
			continue
		}
		format := strings.ToUpper(file.extension())
		a.fileFormats[format] = append(a.fileFormats[format], file)

		info, err := analyzeAudioFile(file)
		if err != nil {
			LogDebug("could not analyze", file, ":", err)
		} else {
			key := info.bitrateLabel()
			a.bitrates[key] = append(a.bitrates[key], file)
			if info.vbr {
				vbrSeen = true
			} else {
				cbrSeen = true
			}
		}

		a.recordDate(file)
	}
	a.allVBR = vbrSeen && !cbrSeen
	return nil
}

// recordDate keeps track of the earliest year and latest episode date seen in
// the file names.
func (a *FileAnalyzer) recordDate(file Path) {
	match := a.config.dateRegex.FindString(file.lastPathComponent())
	if match == "" {
		return
	}
	if _, err := time.Parse("2006-01-02", match); err != nil {
		return
	}
	year, _ := strconv.Atoi(match[:4])
	if a.earliestYear == 0 || year < a.earliestYear {
		a.earliestYear = year
	}
	if match > a.lastEpisodeDate {
		a.lastEpisodeDate = match
	}
}

// dominantValue returns the key covering at least threshold (0..1) of the
// files in the given breakdown, or "" when no value dominates.
func dominantValue(breakdown map[string][]Path, threshold float64) string {
	total := 0
	for _, files := range breakdown {
		total += len(files)
	}
	if total == 0 {
		return ""
	}
	for key, files := range breakdown {
		if float64(len(files))/float64(total) >= threshold {
			return key
		}
	}
	return ""
}

// breakdownSummary renders a "128 kbps (12), V0 (3)" style summary, largest
// group first.
func breakdownSummary(breakdown map[string][]Path) string {
	keys := make([]string, 0, len(breakdown))
	for key := range breakdown {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(breakdown[keys[i]]) != len(breakdown[keys[j]]) {
			return len(breakdown[keys[i]]) > len(breakdown[keys[j]])
		}
		return keys[i] < keys[j]
	})
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s (%d)", key, len(breakdown[key])))
	}
	return strings.Join(parts, ", ")
}

type audioInfo struct {
	bitrateKbps int
	vbr         bool
}

func (i audioInfo) bitrateLabel() string {
	if i.bitrateKbps == 0 {
		return "unknown"
	}
	if i.vbr {
		return fmt.Sprintf("VBR ~%d kbps", i.bitrateKbps)
	}
	return fmt.Sprintf("%d kbps", i.bitrateKbps)
}

// analyzeAudioFile reads the file's tags to skip past any leading metadata
// block, then sniffs the audio stream for bitrate information. Only MP3
// streams report a bitrate; other formats come back as unknown.
func analyzeAudioFile(file Path) (audioInfo, error) {
	f, err := os.Open(string(file))
	if err != nil {
		return audioInfo{}, err
	}
	defer f.Close()

	// tag.ReadFrom leaves the reader positioned after the metadata.
	if _, err := tag.ReadFrom(f); err != nil && err != tag.ErrNoTagsFound {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return audioInfo{}, err
		}
	}

	if strings.EqualFold(file.extension(), "mp3") {
		return sniffMP3Info(f)
	}
	return audioInfo{}, nil
}

var mp3Bitrates = [...]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320}

// sniffMP3Info locates the first MPEG-1 Layer III frame header and reports
// its bitrate. A frame followed by a Xing/Info header marks the file as VBR.
func sniffMP3Info(r io.Reader) (audioInfo, error) {
	buf := make([]byte, 8192)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return audioInfo{}, err
	}
	buf = buf[:n]

	for i := 0; i+4 <= len(buf); i++ {
		if buf[i] != 0xFF || buf[i+1]&0xE0 != 0xE0 {
			continue
		}
		version := buf[i+1] >> 3 & 0x03
		layer := buf[i+1] >> 1 & 0x03
		bitrateIdx := buf[i+2] >> 4
		if version != 3 || layer != 1 || bitrateIdx == 0 || bitrateIdx == 15 {
			continue
		}
		info := audioInfo{bitrateKbps: mp3Bitrates[bitrateIdx]}
		// Xing header sits 36 bytes into an MPEG-1 Layer III frame
		// (32-byte side info for stereo plus the 4-byte header).
		for _, offset := range []int{i + 36, i + 21} {
			if offset+4 > len(buf) {
				continue
			}
			magic := binary.BigEndian.Uint32(buf[offset:])
			if magic == 0x58696E67 || magic == 0x496E666F { // "Xing" / "Info"
				info.vbr = true
			}
		}
		return info, nil
	}
	return audioInfo{}, fmt.Errorf("no MPEG frame header found")
}
