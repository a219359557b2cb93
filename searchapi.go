package main

import (
	"fmt"

	"github.com/agnivade/levenshtein"
)

// PodcastResult is a single show found on one of the search services.
type PodcastResult struct {
	Source      string
	Title       string
	URL         string
	Description string
	Episodes    int
	Rating      string
}

type PodcastAPI interface {
	PodchaserAPI | PodcastindexAPI | PodnewsAPI

	Name() string
	Search(query string) ([]PodcastResult, error)
}

// findPodcast queries one search service and picks the best-matching show.
// Low-confidence matches are confirmed interactively; a rejected match lets
// the user retype the query. A nil result without error means "not found".
func findPodcast[API PodcastAPI](api API, name string, ask askFunc) (*PodcastResult, error) {
	query := name
	for {
		results, err := api.Search(query)
		if err != nil {
			return nil, err
		}

		idx, score := findBestMatchingPodcast(results, query)
		if idx >= 0 && score >= 90 {
			Logf("found %q on %s: %d\n", results[idx].Title, api.Name(), score)
			return &results[idx], nil
		}
		if idx >= 0 && score > 60 {
			if askYesNo(fmt.Sprintf("Is %q the show you are looking for on %s?", results[idx].Title, api.Name())) {
				return &results[idx], nil
			}
		}

		answer := ask(fmt.Sprintf("No match for %q on %s. Enter an alternative search (blank to skip): ", query, api.Name()))
		if answer == "" {
			return nil, nil
		}
		query = answer
	}
}

func findBestMatchingPodcast(results []PodcastResult, query string) ( /*bestMatchIndex*/ int /*score*/, int) {
	bestScore := -1
	bestMatch := -1

	normalizedQuery := normalizeForMatching(query)
	for idx, result := range results {
		if result.Title == "" {
			continue
		}
		title := normalizeForMatching(result.Title)

		score := computeSimilarityScore(title, normalizedQuery, true)
		if score == bestScore && bestMatch >= 0 {
			// break ties with plain edit distance
			prev := normalizeForMatching(results[bestMatch].Title)
			if levenshtein.ComputeDistance(title, normalizedQuery) <
				levenshtein.ComputeDistance(prev, normalizedQuery) {
				bestMatch = idx
			}
			continue
		}
		if score > bestScore {
			bestScore = score
			bestMatch = idx
		}
		if score == 100 {
			break
		}
	}

	return bestMatch, bestScore
}
