package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// verdictObject covers the shapes backends actually produce when asked for a
// JSON verdict. Validated here at the boundary so downstream code never sees
// a loosely-typed attribute bag.
type verdictObject struct {
	Match   *bool  `json:"match"`
	Verdict string `json:"verdict"`
	Answer  string `json:"answer"`
}

var jsonObjectPattern = regexp.MustCompile(`\{[^{}]*\}`)
var affirmativePattern = regexp.MustCompile(`(?i)\b(yes|true|match(es)?|supported)\b`)
var negativePattern = regexp.MustCompile(`(?i)\b(no|false|not?\s+match(ed)?|unsupported|absent)\b`)

// ParseVerdict defensively extracts a yes/no verdict from raw backend output:
// structured JSON first, then an embedded JSON object, then keyword matching
// as a last resort. A response that supports neither reading returns an
// error, which callers treat as "no answer" rather than a failure.
func ParseVerdict(raw string) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, fmt.Errorf("empty backend response")
	}

	if match, ok := parseVerdictJSON(raw); ok {
		return match, nil
	}

	// Some backends wrap the JSON in prose or markdown fences.
	for _, fragment := range jsonObjectPattern.FindAllString(raw, -1) {
		if match, ok := parseVerdictJSON(fragment); ok {
			return match, nil
		}
	}

	// Last resort: keyword extraction. Negatives are checked first because
	// "no match" also contains "match".
	if negativePattern.MatchString(raw) {
		return false, nil
	}
	if affirmativePattern.MatchString(raw) {
		return true, nil
	}

	return false, fmt.Errorf("no parseable verdict in backend response")
}

func parseVerdictJSON(s string) (bool, bool) {
	var obj verdictObject
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return false, false
	}

	if obj.Match != nil {
		return *obj.Match, true
	}

	for _, text := range []string{obj.Verdict, obj.Answer} {
		switch strings.ToLower(strings.TrimSpace(text)) {
		case "yes", "true", "match", "supported":
			return true, true
		case "no", "false", "no match", "unsupported":
			return false, true
		}
	}

	return false, false
}
