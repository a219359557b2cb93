package main

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PodnewsAPI searches shows by scraping podnews.net, which has no public API.
type PodnewsAPI struct {
	config  *Config
	fetcher *Fetcher
}

func newPodnewsAPI(config *Config, fetcher *Fetcher) PodnewsAPI {
	return PodnewsAPI{config: config, fetcher: fetcher}
}

func (PodnewsAPI) Name() string { return "Podnews" }

func (api PodnewsAPI) Search(query string) ([]PodcastResult, error) {
	requestURL := api.config.PodnewsURL + url.QueryEscape(query)
	data, err := api.fetcher.FetchURL(requestURL, nil)
	if err != nil {
		return nil, err
	}

	document, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse podnews search page: %w", err)
	}

	var results []PodcastResult
	seen := map[string]bool{}
	document.Find(`a[href^="/podcast/"]`).Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		title := strings.TrimSpace(link.Text())
		if title == "" || seen[href] {
			return
		}
		seen[href] = true
		results = append(results, PodcastResult{
			Source: api.Name(),
			Title:  title,
			URL:    "https://podnews.net" + href,
		})
	})

	// the search page shows no ratings; fetch them from the top result only
	if len(results) > 0 {
		if rating := api.fetchRating(results[0].URL); rating != "" {
			results[0].Rating = rating
		}
	}
	return results, nil
}

// fetchRating scrapes the show page's rating line, e.g. "4.5 out of 5".
func (api PodnewsAPI) fetchRating(showURL string) string {
	data, err := api.fetcher.FetchURL(showURL, nil)
	if err != nil {
		LogDebug("failed to fetch podnews show page:", err)
		return ""
	}
	document, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	rating, _ := document.Find(`[itemprop="ratingValue"]`).First().Attr("content")
	count, _ := document.Find(`[itemprop="ratingCount"]`).First().Attr("content")
	if rating == "" {
		return ""
	}
	if count != "" {
		return fmt.Sprintf("%s (%s ratings)", rating, count)
	}
	return rating
}
