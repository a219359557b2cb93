package main

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// PodcastindexAPI searches shows through the Podcast Index API.
type PodcastindexAPI struct {
	config  *Config
	fetcher *Fetcher

	// now is swappable so tests get stable auth headers
	now func() time.Time
}

func newPodcastindexAPI(config *Config, fetcher *Fetcher) PodcastindexAPI {
	return PodcastindexAPI{config: config, fetcher: fetcher, now: time.Now}
}

func (PodcastindexAPI) Name() string { return "Podcast Index" }

// authHeaders builds the podcastindex.org request signature: the SHA-1 of
// key, secret and the unix timestamp concatenated.
func (api PodcastindexAPI) authHeaders() map[string]string {
	epoch := strconv.FormatInt(api.now().Unix(), 10)
	hash := sha1.Sum([]byte(api.config.Podcastindex.Key + api.config.Podcastindex.Secret + epoch))
	return map[string]string{
		"X-Auth-Date":   epoch,
		"X-Auth-Key":    api.config.Podcastindex.Key,
		"Authorization": fmt.Sprintf("%x", hash),
		"User-Agent":    "podshare/1.0",
	}
}

func (api PodcastindexAPI) Search(query string) ([]PodcastResult, error) {
	requestURL := api.config.Podcastindex.URL + url.QueryEscape(query)
	data, err := api.fetcher.FetchURL(requestURL, api.authHeaders())
	if err != nil {
		return nil, err
	}

	var response struct {
		Status string `json:"status"`
		Feeds  []struct {
			Title        string `json:"title"`
			Link         string `json:"link"`
			Description  string `json:"description"`
			EpisodeCount int    `json:"episodeCount"`
		} `json:"feeds"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse podcastindex response: %w", err)
	}
	if response.Status != "true" {
		return nil, fmt.Errorf("podcastindex: %s", response.Description)
	}

	results := make([]PodcastResult, 0, len(response.Feeds))
	for _, feed := range response.Feeds {
		results = append(results, PodcastResult{
			Source:      api.Name(),
			Title:       feed.Title,
			URL:         feed.Link,
			Description: feed.Description,
			Episodes:    feed.EpisodeCount,
		})
	}
	return results, nil
}
