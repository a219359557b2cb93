package main

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PodchaserAPI searches shows through the Podchaser GraphQL endpoint.
type PodchaserAPI struct {
	config  *Config
	fetcher *Fetcher
}

func newPodchaserAPI(config *Config, fetcher *Fetcher) PodchaserAPI {
	return PodchaserAPI{config: config, fetcher: fetcher}
}

func (PodchaserAPI) Name() string { return "Podchaser" }

func (api PodchaserAPI) Search(query string) ([]PodcastResult, error) {
	gql := fmt.Sprintf(
		`{ podcasts(searchTerm: %q, first: 10) { data { %s } } }`,
		query, buildFields(api.config.Podchaser.Fields))

	body := map[string]interface{}{"query": gql}
	cacheKey := ReplaceInvalidFilenameChars(api.config.Podchaser.URL+"_"+query) + ".json"
	data, err := api.fetcher.PostJSON(api.config.Podchaser.URL, map[string]string{
		"Authorization": "Bearer " + api.config.Podchaser.Token,
	}, body, cacheKey)
	if err != nil {
		return nil, err
	}

	var response struct {
		Data struct {
			Podcasts struct {
				Data []struct {
					Title       string `json:"title"`
					URL         string `json:"url"`
					Description string `json:"description"`
					Ratings     struct {
						Rating float64 `json:"rating"`
						Count  int     `json:"count"`
					} `json:"ratings"`
				} `json:"data"`
			} `json:"podcasts"`
		} `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse podchaser response: %w", err)
	}
	if len(response.Errors) > 0 {
		return nil, fmt.Errorf("podchaser: %s", response.Errors[0].Message)
	}

	results := make([]PodcastResult, 0, len(response.Data.Podcasts.Data))
	for _, entry := range response.Data.Podcasts.Data {
		result := PodcastResult{
			Source:      api.Name(),
			Title:       entry.Title,
			URL:         entry.URL,
			Description: entry.Description,
		}
		if entry.Ratings.Count > 0 {
			result.Rating = fmt.Sprintf("%.1f (%d ratings)", entry.Ratings.Rating, entry.Ratings.Count)
		}
		results = append(results, result)
	}
	return results, nil
}

// buildFields renders the configured field list as a GraphQL selection set.
// Strings become plain fields, maps become nested selections.
func buildFields(fields []interface{}) string {
	var parts []string
	for _, field := range fields {
		switch value := field.(type) {
		case string:
			parts = append(parts, value)
		case map[string]interface{}:
			for name, nested := range value {
				children, ok := nested.([]interface{})
				if !ok {
					continue
				}
				parts = append(parts, fmt.Sprintf("%s { %s }", name, buildFields(children)))
			}
		}
	}
	return strings.Join(parts, " ")
}
