package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Replacement is one entry of a regex replacement table.
type Replacement struct {
	Pattern             string `yaml:"pattern"`
	Replacement         string `yaml:"replacement"`
	RepeatUntilNoChange bool   `yaml:"repeat_until_no_change"`

	compiled *regexp.Regexp
}

// PremiumNetwork describes how a paywalled network announces itself in a feed.
type PremiumNetwork struct {
	Name string `yaml:"name"`
	Tag  string `yaml:"tag"`
	Text string `yaml:"text"`
}

// Formatter is a configured post-processing step for scraped metadata.
type Formatter struct {
	Method   string `yaml:"method"`
	Settings struct {
		MaxLength int `yaml:"max_length"`
	} `yaml:"settings"`
}

type PodchaserConfig struct {
	Token  string        `yaml:"token"`
	URL    string        `yaml:"url"`
	Fields []interface{} `yaml:"fields"`
}

type PodcastindexConfig struct {
	Key    string `yaml:"key"`
	Secret string `yaml:"secret"`
	URL    string `yaml:"url"`
}

// Config represents the configuration structure.
type Config struct {
	MetadataDirectory        string `yaml:"metadata_directory"`
	IncludeMetadata          bool   `yaml:"include_metadata"`
	ArchiveMetadata          bool   `yaml:"archive_metadata"`
	ArchiveMetadataDirectory string `yaml:"archive_metadata_directory"`

	CacheDirectory string `yaml:"cache_directory"`
	CacheHours     int    `yaml:"cache_hours"`
	DatabasePath   string `yaml:"database_path"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	// Numbering / renaming patterns. All have usable defaults.
	EpisodePattern           string `yaml:"episode_pattern"`
	DatePattern              string `yaml:"date_pattern"`
	NumberedEpisodePattern   string `yaml:"numbered_episode_pattern"`
	UnnumberedEpisodePattern string `yaml:"unnumbered_episode_pattern"`
	EpNrAtEndFilePattern     string `yaml:"ep_nr_at_end_file_pattern"`
	RenameTemplate           string `yaml:"rename_template"`

	FileReplacements        []Replacement `yaml:"file_replacements"`
	TitleReplacements       []Replacement `yaml:"title_replacements"`
	DescriptionReplacements []Replacement `yaml:"description_replacements"`
	CensorRssPatterns       []Replacement `yaml:"censor_rss_patterns"`

	ForceUppercase     []string `yaml:"force_uppercase"`
	ForceTitlecase     []string `yaml:"force_titlecase"`
	SkipCapitalization []string `yaml:"skip_capitalization"`

	UnwantedFiles []string `yaml:"unwanted_files"`

	KeepSourceRss     bool             `yaml:"keep_source_rss"`
	RssCensorMode     string           `yaml:"rss_censor_mode"`
	PremiumNetworks   []PremiumNetwork `yaml:"premium_networks"`
	IncludePremiumTag bool             `yaml:"include_premium_tag"`

	CompletedThresholdDays int    `yaml:"completed_threshold_days"`
	DateFormatLong         string `yaml:"date_format_long"`

	PdlEpisodeTemplate string `yaml:"pdl_episode_template"`
	Threads            int    `yaml:"threads"`

	Podchaser    PodchaserConfig    `yaml:"podchaser"`
	Podcastindex PodcastindexConfig `yaml:"podcastindex"`
	PodnewsURL   string             `yaml:"podnews_url"`

	Formatters map[string][]Formatter `yaml:"formatters"`

	DupecheckURL string `yaml:"dupecheck_url"`
	APIKey       string `yaml:"api_key"`

	AnnounceURL     string `yaml:"announce_url"`
	TorrentDir      string `yaml:"torrent_dir"`
	TransmissionRPC string `yaml:"transmission_rpc"`

	CoverSize int `yaml:"cover_size"`

	ReportTemplate       string `yaml:"report_template"`
	NameTemplate         string `yaml:"name_template"`
	LinkTemplate         string `yaml:"link_template"`
	LinksSectionTemplate string `yaml:"links_section_template"`

	episodeRegex           *regexp.Regexp
	dateRegex              *regexp.Regexp
	numberedEpisodeRegex   *regexp.Regexp
	unnumberedEpisodeRegex *regexp.Regexp
	epNrAtEndRegex         *regexp.Regexp
	forceUppercase         []*regexp.Regexp
	forceTitlecase         []*regexp.Regexp
	skipCapitalization     []*regexp.Regexp
}

const defaultReportTemplate = `{{if .name}}{{.name}}

{{end}}{{if .description}}{{.description}}

{{end}}{{if .tags}}Tags: {{.tags}}

{{end}}Format: {{.file_format}}
Bitrate: {{.overall_bitrate}}
Files: {{.number_of_files}}
{{if .last_episode_included}}Last episode included: {{.last_episode_included}}
{{end}}{{if .bitrate_breakdown}}
Bitrates:
{{.bitrate_breakdown}}
{{end}}{{if .differing_bitrates}}
Files differing from the most common bitrate:
{{.differing_bitrates}}
{{end}}{{if .file_format_breakdown}}
File formats:
{{.file_format_breakdown}}
{{end}}{{if .differing_file_formats}}
Files differing from the most common format:
{{.differing_file_formats}}
{{end}}{{if .external_data}}
{{.external_data}}
{{end}}{{if .links}}
{{.links}}
{{end}}`

func defaultConfig() Config {
	return Config{
		MetadataDirectory: "Metadata",
		CacheHours:        24,
		DatabasePath:      "podshare.db",
		LogLevel:          "warning",
		LogFile:           "logs/podshare.log",

		EpisodePattern:           `(?i)(ep\.?|episode)(\s*)(\d+)`,
		DatePattern:              `\d{4}-\d{2}-\d{2}`,
		NumberedEpisodePattern:   `^(.* - )(\d{4}-\d{2}-\d{2}) (\d+)\. (.*)(\.\w+)$`,
		UnnumberedEpisodePattern: `^(.*) - (\d{4}-\d{2}-\d{2}) (.*?)(\.\w+)$`,
		EpNrAtEndFilePattern:     `^(.* - )(\d{4}-\d{2}-\d{2}) (.*?) - (\d+)(\.\w+)$`,
		RenameTemplate:           "{prefix} - {date} {episode}. {suffix}",

		RssCensorMode:     "delete",
		IncludePremiumTag: true,

		CompletedThresholdDays: 365,
		DateFormatLong:         "January 2 2006",

		PdlEpisodeTemplate: "{{podcast_title}} - {{release_year}}-{{release_month}}-{{release_day}} {{title}}",
		Threads:            1,

		Podchaser: PodchaserConfig{
			URL: "https://api.podchaser.com/graphql",
			Fields: []interface{}{
				"id", "title", "url", "description",
				map[string]interface{}{"ratings": []interface{}{"rating", "count"}},
			},
		},
		Podcastindex: PodcastindexConfig{
			URL: "https://api.podcastindex.org/api/1.0/search/byterm?q=",
		},
		PodnewsURL: "https://podnews.net/search?q=",

		CoverSize: 800,

		ReportTemplate:       defaultReportTemplate,
		NameTemplate:         "{{.podcast_name}}{{.premium_show}}{{.complete_str}}",
		LinkTemplate:         "{{.text}}: {{.link}}",
		LinksSectionTemplate: "Links:\n{{.links}}",
	}
}

// ConfigPath returns the path to the configuration file.
func ConfigPath(path Path) Path {
	if path == "" {
		exePath, _ := os.Executable()
		return Path(filepath.Dir(exePath)).appendingPathComponent("config.yaml")
	}
	if path.isDirectory() {
		return path.appendingPathComponent("config.yaml")
	}
	return path
}

// LoadConfig loads the built-in defaults overlaid with the user configuration
// file, if one exists at the given path.
func LoadConfig(configFile Path) (*Config, error) {
	config := defaultConfig()

	configFile = ConfigPath(configFile)
	data, err := os.ReadFile(string(configFile))
	if err == nil {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("could not parse config %s: %w", configFile, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if config.Podchaser.Token == "" {
		config.Podchaser.Token = os.Getenv("PODCHASER_TOKEN")
	}
	if config.Podcastindex.Key == "" {
		config.Podcastindex.Key = os.Getenv("PODCASTINDEX_KEY")
	}
	if config.Podcastindex.Secret == "" {
		config.Podcastindex.Secret = os.Getenv("PODCASTINDEX_SECRET")
	}
	if config.APIKey == "" {
		config.APIKey = os.Getenv("DUPECHECK_API_KEY")
	}

	if err := config.compile(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) compile() error {
	var err error
	if c.episodeRegex, err = regexp.Compile(c.EpisodePattern); err != nil {
		return fmt.Errorf("could not compile episode_pattern `%s`: %w", c.EpisodePattern, err)
	}
	if c.dateRegex, err = regexp.Compile(c.DatePattern); err != nil {
		return fmt.Errorf("could not compile date_pattern `%s`: %w", c.DatePattern, err)
	}
	if c.numberedEpisodeRegex, err = regexp.Compile(c.NumberedEpisodePattern); err != nil {
		return fmt.Errorf("could not compile numbered_episode_pattern `%s`: %w", c.NumberedEpisodePattern, err)
	}
	if c.unnumberedEpisodeRegex, err = regexp.Compile(c.UnnumberedEpisodePattern); err != nil {
		return fmt.Errorf("could not compile unnumbered_episode_pattern `%s`: %w", c.UnnumberedEpisodePattern, err)
	}
	if c.epNrAtEndRegex, err = regexp.Compile(c.EpNrAtEndFilePattern); err != nil {
		return fmt.Errorf("could not compile ep_nr_at_end_file_pattern `%s`: %w", c.EpNrAtEndFilePattern, err)
	}

	tables := [][]Replacement{c.FileReplacements, c.TitleReplacements, c.DescriptionReplacements, c.CensorRssPatterns}
	for _, table := range tables {
		for idx := range table {
			table[idx].compiled, err = regexp.Compile(table[idx].Pattern)
			if err != nil {
				return fmt.Errorf("could not compile replacement `%s`: %w", table[idx].Pattern, err)
			}
		}
	}

	if c.forceUppercase, err = compilePatterns(c.ForceUppercase); err != nil {
		return err
	}
	if c.forceTitlecase, err = compilePatterns(c.ForceTitlecase); err != nil {
		return err
	}
	if c.skipCapitalization, err = compilePatterns(c.SkipCapitalization); err != nil {
		return err
	}
	return nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	var compiled []*regexp.Regexp
	for _, pattern := range patterns {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, fmt.Errorf("could not compile pattern `%s`: %w", pattern, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// numberingRules bundles the compiled patterns the numbering engine needs,
// passed explicitly into each stage.
type numberingRules struct {
	episode        *regexp.Regexp
	date           *regexp.Regexp
	numbered       *regexp.Regexp
	unnumbered     *regexp.Regexp
	renameTemplate string
}

func (c *Config) numberingRules() numberingRules {
	return numberingRules{
		episode:        c.episodeRegex,
		date:           c.dateRegex,
		numbered:       c.numberedEpisodeRegex,
		unnumbered:     c.unnumberedEpisodeRegex,
		renameTemplate: c.RenameTemplate,
	}
}
