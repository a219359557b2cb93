package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	configFlag := flag.String("config", "", "Path to the configuration file")
	flag.StringVar(configFlag, "c", "", "Path to the configuration file (shorthand)")
	folderFlag := flag.String("folder", "", "Podcast archive folder (defaults to the working directory)")
	nameFlag := flag.String("name", "", "Podcast name (defaults to the folder name)")
	rssFlag := flag.String("rss", "", "RSS feed URL or local feed file")
	censorFlag := flag.Bool("censor-rss", false, "Censor or remove the archived RSS feed")
	downloadFlag := flag.Bool("download", false, "Download the full episode archive before organizing")
	filesReportFlag := flag.Bool("files-report", false, "Only write a file statistics report")
	torrentFlag := flag.Bool("torrent", false, "Create a torrent and start seeding when done")

	flag.Parse()

	var configFile Path
	if *configFlag != "" {
		configFile = Path(*configFlag)
	}
	config, err := LoadConfig(configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error loading config:", err)
		os.Exit(1)
	}
	if err := setupLogging(config); err != nil {
		fmt.Fprintln(os.Stderr, "error setting up logging:", err)
		os.Exit(1)
	}

	folderPath := Path(*folderFlag)
	if folderPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		folderPath = Path(wd)
	}
	if !folderPath.isDirectory() {
		fmt.Fprintf(os.Stderr, "%s is not a directory\n", folderPath)
		os.Exit(1)
	}

	fetcher := newFetcher(config)
	podcast := newPodcast(folderPath, *nameFlag, *rssFlag, config, fetcher, *censorFlag)

	if err := run(podcast, config, fetcher, *downloadFlag, *filesReportFlag, *torrentFlag); err != nil {
		announce(err.Error(), "critical")
		os.Exit(1)
	}
}

// run drives the full archive pipeline: fetch metadata, download, organize,
// report, and optionally create a torrent.
func run(podcast *Podcast, config *Config, fetcher *Fetcher, download, filesReportOnly, torrent bool) error {
	report := newReport(podcast, config)

	if filesReportOnly {
		return report.generate(true)
	}

	if ok, err := podcast.rss.getMetadata(); err != nil {
		return err
	} else if !ok {
		Log("continuing without RSS metadata")
	}

	if err := podcast.checkForDuplicates(); err != nil {
		return err
	}

	if download {
		if err := podcast.downloadEpisodes(); err != nil {
			return err
		}
	}

	podcast.metadata.fetchExternalData(fetcher, takeInput)

	organizer := newFileOrganizer(podcast, config)
	if err := organizer.organizeFiles(); err != nil {
		return err
	}
	podcast.warnIfIncomplete()

	if err := report.generate(false); err != nil {
		return err
	}

	if err := podcast.archiveFiles(); err != nil {
		return err
	}
	if err := podcast.recordInventory(); err != nil {
		return err
	}

	if torrent {
		creator := newTorrentCreator(podcast, config)
		torrentFile, err := creator.create()
		if err != nil {
			return err
		}
		if err := creator.seed(torrentFile); err != nil {
			return err
		}
	}

	announce(fmt.Sprintf("All done with %s", podcast.name), "celebrate")
	return nil
}
