package main

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"github.com/hekmon/transmissionrpc/v3"
)

// TorrentCreator builds a torrent for the finished archive with mktorrent
// and hands it to Transmission for seeding.
type TorrentCreator struct {
	podcast *Podcast
	config  *Config
}

func newTorrentCreator(podcast *Podcast, config *Config) *TorrentCreator {
	return &TorrentCreator{podcast: podcast, config: config}
}

func (t *TorrentCreator) torrentPath() Path {
	dir := Path(t.config.TorrentDir)
	if dir == "" {
		dir = t.podcast.folderPath.removingLastPathComponent()
	}
	return dir.appendingPathComponent(t.podcast.name + ".torrent")
}

// create builds the torrent file. An existing torrent is only replaced after
// confirmation.
func (t *TorrentCreator) create() (Path, error) {
	target := t.torrentPath()
	if target.exists() {
		if !askYesNo(fmt.Sprintf("Torrent %s already exists, recreate it?", target.lastPathComponent())) {
			return target, nil
		}
		if err := target.removeItem(); err != nil {
			return "", err
		}
	}

	size, err := directorySize(t.podcast.folderPath)
	if err != nil {
		return "", err
	}
	pieceSize := calculatePieceSize(size)
	Logf("creating torrent with piece size 2^%d for %d bytes\n", pieceSize, size)

	args := []string{
		"-l", fmt.Sprintf("%d", pieceSize),
		"-p",
		"-o", string(target),
	}
	if t.config.AnnounceURL != "" {
		args = append(args, "-a", t.config.AnnounceURL)
	}
	args = append(args, string(t.podcast.folderPath))

	if err := runCommand("mktorrent", args, nil); err != nil {
		return "", fmt.Errorf("mktorrent failed: %w", err)
	}
	announce(fmt.Sprintf("Torrent created: %s", target), "celebrate")
	return target, nil
}

// seed adds the torrent to Transmission, pointing it at the existing data.
func (t *TorrentCreator) seed(torrentFile Path) error {
	if t.config.TransmissionRPC == "" {
		LogDebug("transmission not configured, skipping seeding")
		return nil
	}
	endpoint, err := url.Parse(t.config.TransmissionRPC)
	if err != nil {
		return err
	}
	client, err := transmissionrpc.New(endpoint, nil)
	if err != nil {
		return err
	}

	downloadDir := string(t.podcast.folderPath.removingLastPathComponent())
	torrent, err := client.TorrentAddFile(context.Background(), string(torrentFile))
	if err != nil {
		return fmt.Errorf("failed to add torrent to transmission: %w", err)
	}
	if torrent.ID != nil {
		if err := client.TorrentSetLocation(context.Background(), *torrent.ID, downloadDir, false); err != nil {
			return fmt.Errorf("failed to set torrent location: %w", err)
		}
	}
	Log("torrent added to transmission for seeding:", torrentFile.lastPathComponent())
	return nil
}

// calculatePieceSize picks the smallest power-of-two piece size (as the
// exponent mktorrent expects) that keeps the torrent under 1000 pieces,
// clamped to the 32 KiB .. 16 MiB range.
func calculatePieceSize(totalBytes int64) int {
	for exp := 15; exp < 24; exp++ {
		if totalBytes/(1<<exp) <= 1000 {
			return exp
		}
	}
	return 24
}

func directorySize(folder Path) (int64, error) {
	files, err := folder.getFilesRecursively()
	if err != nil {
		return 0, err
	}
	var total int64
	for _, file := range files {
		info, err := os.Stat(string(file))
		if err != nil {
			return 0, err
		}
		total += info.Size()
	}
	return total, nil
}
