package main

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// checkForDuplicates queries the tracker's dupe-check endpoint for existing
// releases matching the show name. Returns the titles of potential dupes.
func checkForDuplicates(name string, config *Config, fetcher *Fetcher) ([]string, error) {
	if config.DupecheckURL == "" || config.APIKey == "" {
		LogDebug("dupe check not configured, skipping")
		return nil, nil
	}

	requestURL := config.DupecheckURL + url.QueryEscape(name)
	data, err := fetcher.FetchURL(requestURL, map[string]string{
		"Authorization": config.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("dupe check failed: %w", err)
	}

	var response struct {
		Data []struct {
			Attributes struct {
				Name string `json:"name"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse dupe check response: %w", err)
	}

	var titles []string
	for _, entry := range response.Data {
		if entry.Attributes.Name != "" {
			titles = append(titles, entry.Attributes.Name)
		}
	}
	return titles, nil
}
