package query

import (
	"fmt"
	"strings"
)

const parserInstructions = `You are a search query parser for an events website. Your job is to extract a semantic search query and structured filters from a user's input.

The user is searching for events. You must identify:
1. A 'cost' filter, which can be 'free' or 'paid'. If the user doesn't specify cost, the value should be null.
2. A 'category' filter from this list: %s. If the user doesn't specify a category, the value should be null.
3. The rest of the query should be treated as the semantic search term.

Here are examples:

Example 1:
User query: "are there any free hackathons?"
Response:
{
  "semanticQuery": "hackathons",
  "filters": {
    "cost": "free",
    "category": "Hackathon"
  }
}

Example 2:
User query: "find me workshops about AI"
Response:
{
  "semanticQuery": "workshops about AI",
  "filters": {
    "cost": null,
    "category": "Workshop"
  }
}

Example 3:
User query: "networking events for startups"
Response:
{
  "semanticQuery": "networking events for startups",
  "filters": {
    "cost": null,
    "category": "Networking & Community"
  }
}

Now, parse the following user query.
User query: "%s"

Respond with ONLY the JSON object.`

func buildParserPrompt(rawQuery string, categories []string) string {
	return fmt.Sprintf(parserInstructions, strings.Join(categories, ", "), rawQuery)
}
