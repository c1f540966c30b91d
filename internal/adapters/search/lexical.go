package search

import (
	"sort"
	"strings"

	"github.com/eventseekr/backend/internal/domain/entities"
)

// Field weights for keyword scoring. A token is scored once, at the highest
// priority field that contains it.
const (
	scoreName        = 15
	scoreSummary     = 10
	scoreCategory    = 8
	scorePrice       = 5
	scoreOther       = 1
	scoreExactPhrase = 25
)

// RankLexical scores events against the query's whitespace tokens and
// returns the matches sorted by descending score. Ties keep their original
// order. Events matching no token are dropped; an empty token set returns
// the input unchanged.
//
// This is a deliberately simple heuristic. Reproducible ordering matters
// more here than retrieval sophistication, so there is no stemming and no
// TF-IDF.
func RankLexical(query string, events []entities.Event) []entities.Event {
	phrase := strings.ToLower(strings.TrimSpace(query))
	tokens := strings.Fields(phrase)
	if len(tokens) == 0 {
		return events
	}

	type scored struct {
		event entities.Event
		score int
	}

	matches := make([]scored, 0, len(events))
	for _, event := range events {
		searchText := event.SearchText()
		name := strings.ToLower(event.Name)
		summary := strings.ToLower(event.Summary)
		category := strings.ToLower(event.Category)
		price := strings.ToLower(event.PriceLabel())

		score := 0
		matched := 0
		for _, token := range tokens {
			if !strings.Contains(searchText, token) {
				continue
			}
			matched++
			switch {
			case strings.Contains(name, token):
				score += scoreName
			case strings.Contains(summary, token):
				score += scoreSummary
			case strings.Contains(category, token):
				score += scoreCategory
			case strings.Contains(price, token):
				score += scorePrice
			default:
				score += scoreOther
			}
		}
		if matched == 0 {
			continue
		}
		if strings.Contains(searchText, phrase) {
			score += scoreExactPhrase
		}
		matches = append(matches, scored{event: event, score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	out := make([]entities.Event, len(matches))
	for i, m := range matches {
		out[i] = m.event
	}
	return out
}
