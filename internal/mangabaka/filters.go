package mangabaka

import (
	"strings"

	"github.com/comictalker/mangabaka/internal/errors"
)

// Search filters. These run on raw records after cache storage and before
// normalization, so a cached search can be re-filtered under new settings.

// ageRatingRange expands a ceiling ("suggestive") into the list of accepted
// ratings ({"safe", "suggestive"}). The ceiling must be one of the
// provider's published ratings.
func ageRatingRange(ceiling string) ([]string, error) {
	for i, rating := range ContentRatings {
		if rating == ceiling {
			return ContentRatings[:i+1], nil
		}
	}
	return nil, errors.NewConfigError("mangabaka.age-filter",
		"unknown content rating "+ceiling+"; valid ratings are: "+strings.Join(ContentRatings, ", "))
}

// filterByAgeRating keeps records whose content rating is within the allowed
// set.
func filterByAgeRating(records []Series, allowed []string) []Series {
	filtered := make([]Series, 0, len(records))
	for _, record := range records {
		for _, rating := range allowed {
			if record.ContentRating == rating {
				filtered = append(filtered, record)
				break
			}
		}
	}
	return filtered
}

// filterByType keeps only records of the given type (manga, novel, ...).
func filterByType(records []Series, seriesType string) []Series {
	filtered := make([]Series, 0, len(records))
	for _, record := range records {
		if record.Type == seriesType {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

// filterDoujinshi drops records tagged with the Doujinshi genre. Records
// without genre data are kept; absence of genres says nothing about the
// work.
func filterDoujinshi(records []Series) []Series {
	filtered := make([]Series, 0, len(records))
	for _, record := range records {
		if !hasGenre(record.Genres, "doujinshi") {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

func hasGenre(genres []string, genre string) bool {
	for _, g := range genres {
		if strings.EqualFold(g, genre) {
			return true
		}
	}
	return false
}
