package llm

import "testing"

func TestParseVerdict_StructuredJSON(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{`{"match": true}`, true},
		{`{"match": false}`, false},
		{`{"verdict": "yes"}`, true},
		{`{"verdict": "no"}`, false},
		{`{"answer": "supported"}`, true},
		{`{"answer": "unsupported"}`, false},
	}
	for _, tc := range cases {
		got, err := ParseVerdict(tc.raw)
		if err != nil {
			t.Errorf("ParseVerdict(%q) errored: %v", tc.raw, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseVerdict(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestParseVerdict_EmbeddedJSON(t *testing.T) {
	raw := "Sure, here is my analysis:\n```json\n{\"match\": true}\n```\nHope that helps."

	got, err := ParseVerdict(raw)
	if err != nil {
		t.Fatalf("Expected embedded JSON to parse, got %v", err)
	}
	if !got {
		t.Error("Expected true verdict from embedded JSON")
	}
}

func TestParseVerdict_KeywordFallback(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"Yes, the evidence matches the source.", true},
		{"No, the quotation does not match.", false},
		{"The claim is unsupported by the text.", false},
		{"TRUE", true},
	}
	for _, tc := range cases {
		got, err := ParseVerdict(tc.raw)
		if err != nil {
			t.Errorf("ParseVerdict(%q) errored: %v", tc.raw, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseVerdict(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestParseVerdict_NegativeBeatsAffirmative(t *testing.T) {
	// "no match" contains "match"; the negative reading must win.
	got, err := ParseVerdict("There is no match between evidence and source.")
	if err != nil {
		t.Fatal(err)
	}
	if got {
		t.Error("Expected negative keyword to take precedence")
	}
}

func TestParseVerdict_Unparseable(t *testing.T) {
	for _, raw := range []string{"", "   ", "I cannot determine this.", "{\"something\": 42}"} {
		if _, err := ParseVerdict(raw); err == nil {
			t.Errorf("Expected error for %q", raw)
		}
	}
}
