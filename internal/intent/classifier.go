// Package intent classifies user utterances into a small fixed set of
// command categories using compiled regex patterns. Anything that matches
// no pattern falls through to IntentGeneral and is handed to the model
// backend.
package intent

import (
	"regexp"
	"strings"
)

// Intent is the classified purpose of a user utterance.
type Intent string

// Intent enum values.
const (
	IntentTime        Intent = "time"
	IntentDate        Intent = "date"
	IntentWeather     Intent = "weather"
	IntentSearch      Intent = "search"
	IntentOpenWebsite Intent = "open_website"
	IntentGreeting    Intent = "greeting"
	IntentThanks      Intent = "thanks"
	IntentStatus      Intent = "status"
	IntentClear       Intent = "clear"
	IntentGeneral     Intent = "general"
)

// Match is the result of classifying an utterance. Argument carries the
// extracted search query or website name when the pattern captured one.
type Match struct {
	Intent   Intent
	Argument string
}

type patternSet struct {
	intent   Intent
	patterns []*regexp.Regexp
}

// Classifier pattern-matches utterances against a fixed, ordered category
// table. Order matters: the first category with a matching pattern wins.
type Classifier struct {
	sets []patternSet
}

// NewClassifier compiles the pattern table.
func NewClassifier() *Classifier {
	return &Classifier{sets: []patternSet{
		{IntentTime, compileAll(
			`\b(what\s+time|current\s+time|time\s+is|tell\s+me\s+the\s+time)\b`,
			`\btime\b`,
		)},
		{IntentDate, compileAll(
			`\b(what\s+date|current\s+date|date\s+is|today\s+is)\b`,
			`\bdate\b`,
		)},
		{IntentWeather, compileAll(
			`\b(weather|temperature|forecast|climate)\b`,
		)},
		{IntentSearch, compileAll(
			`^(search\s+for|look\s+up|find\s+information\s+about|tell\s+me\s+about)\s+(.+)`,
			`^(what\s+is|who\s+is|where\s+is|when\s+is|how\s+is)\s+(.+)`,
			`^(define|explain|describe)\s+(.+)`,
		)},
		{IntentOpenWebsite, compileAll(
			`^open\s+(.+)`,
			`^go\s+to\s+(.+)`,
			`^navigate\s+to\s+(.+)`,
		)},
		{IntentGreeting, compileAll(
			`\b(hello|hi|hey|greetings|good\s+morning|good\s+afternoon|good\s+evening)\b`,
		)},
		{IntentThanks, compileAll(
			`\b(thank\s+you|thanks|appreciate|grateful)\b`,
		)},
		{IntentStatus, compileAll(
			`\b(how\s+are\s+you|status|condition|state)\b`,
		)},
		{IntentClear, compileAll(
			`\b(clear\s+screen|clear\s+display|clean\s+screen)\b`,
		)},
	}}
}

// Classify assigns an intent to the utterance. The last capture group of
// the winning pattern, if any, becomes the Argument.
func (c *Classifier) Classify(text string) Match {
	text = strings.ToLower(strings.TrimSpace(text))

	for _, set := range c.sets {
		for _, re := range set.patterns {
			m := re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			arg := ""
			if len(m) > 1 {
				arg = strings.TrimSpace(m[len(m)-1])
			}
			return Match{Intent: set.intent, Argument: arg}
		}
	}

	return Match{Intent: IntentGeneral, Argument: text}
}

// searchPrefixes are stripped when a search query has to be recovered from
// an utterance whose pattern captured nothing useful.
var searchPrefixes = []string{
	"search for", "look up", "find information about", "tell me about",
	"what is", "who is", "where is", "when is", "how is",
	"define", "explain", "describe",
}

// ExtractSearchQuery returns the search query for a classified utterance,
// preferring the captured argument and falling back to prefix stripping.
func ExtractSearchQuery(text, argument string) string {
	if argument != "" {
		return argument
	}

	lower := strings.ToLower(strings.TrimSpace(text))
	for _, prefix := range searchPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return strings.TrimSpace(lower[len(prefix):])
		}
	}
	return strings.TrimSpace(text)
}

func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(`(?i)` + p)
	}
	return compiled
}
