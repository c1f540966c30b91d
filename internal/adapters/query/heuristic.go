package query

import (
	"context"
	"regexp"
	"strings"

	"github.com/eventseekr/backend/internal/domain/entities"
)

// categoryKeyword maps a query keyword to the category label it implies.
// The table is ordered; the first keyword found in the query wins.
type categoryKeyword struct {
	keyword  string
	category string
}

var categoryKeywords = []categoryKeyword{
	{"hackathon", "Hackathon"},
	{"workshop", "Workshop"},
	{"meetup", "Networking & Community"},
	{"networking", "Networking & Community"},
	{"conference", "Conference"},
	{"startup", "Startup & Entrepreneurship"},
	{"entrepreneurship", "Startup & Entrepreneurship"},
	{"ai", "Tech & AI"},
	{"machine learning", "Tech & AI"},
	{"tech", "Tech & AI"},
	{"technology", "Tech & AI"},
	{"seminar", "Seminar"},
	{"webinar", "Webinar"},
	{"panel", "Panel Discussion"},
	{"discussion", "Panel Discussion"},
	{"lecture", "Lecture"},
	{"training", "Training"},
	{"course", "Training"},
	{"education", "Education & Research"},
	{"research", "Education & Research"},
	{"career", "Career & Skills"},
	{"skills", "Career & Skills"},
	{"finance", "Finance & Business"},
	{"business", "Finance & Business"},
	{"marketing", "Marketing & Branding"},
	{"branding", "Marketing & Branding"},
}

var (
	freeKeywordPattern = regexp.MustCompile(`(?i)\b(free|no cost|\$0)\b`)
	paidKeywordPattern = regexp.MustCompile(`(?i)\b(paid|cost|\$)\b`)
)

var keywordStripPatterns = buildKeywordStripPatterns()

func buildKeywordStripPatterns() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(categoryKeywords))
	for _, entry := range categoryKeywords {
		if _, ok := patterns[entry.keyword]; ok {
			continue
		}
		patterns[entry.keyword] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(entry.keyword) + `\b`)
	}
	return patterns
}

// HeuristicParser extracts cost and category filters with keyword tables.
// It never fails, which makes it the terminal strategy in a parser chain.
type HeuristicParser struct{}

// NewHeuristicParser creates a heuristic query parser.
func NewHeuristicParser() *HeuristicParser {
	return &HeuristicParser{}
}

// Name identifies the strategy in logs.
func (p *HeuristicParser) Name() string { return "heuristic" }

// Parse lowercases the query, extracts cost and category keywords, then
// strips the matched keywords to leave the semantic query.
func (p *HeuristicParser) Parse(ctx context.Context, raw string, categories []string) (*entities.ParsedQuery, error) {
	lower := strings.ToLower(strings.TrimSpace(raw))

	cost := ""
	if strings.Contains(lower, "free") || strings.Contains(lower, "no cost") || strings.Contains(lower, "$0") {
		cost = entities.CostFree
	} else if strings.Contains(lower, "paid") || strings.Contains(lower, "cost") || strings.Contains(lower, "$") {
		cost = entities.CostPaid
	}

	category := ""
	for _, entry := range categoryKeywords {
		if strings.Contains(lower, entry.keyword) {
			category = entry.category
			break
		}
	}

	semantic := raw
	switch cost {
	case entities.CostFree:
		semantic = strings.TrimSpace(freeKeywordPattern.ReplaceAllString(semantic, ""))
	case entities.CostPaid:
		semantic = strings.TrimSpace(paidKeywordPattern.ReplaceAllString(semantic, ""))
	}
	if category != "" {
		for _, entry := range categoryKeywords {
			semantic = strings.TrimSpace(keywordStripPatterns[entry.keyword].ReplaceAllString(semantic, ""))
		}
	}

	return &entities.ParsedQuery{
		SemanticQuery: semantic,
		Filters: entities.Filters{
			Cost:     cost,
			Category: category,
		},
	}, nil
}
