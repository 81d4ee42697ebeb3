package extract

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jadonwu-dev/axwise-flow-sub004/internal/model"
)

// knownClaimFields is the persona schema the upstream extractor emits.
// Unknown fields are kept after normalization so a schema bump upstream does
// not silently drop evidence, but they are surfaced in Warnings.
var knownClaimFields = map[string]struct{}{
	"demographics":          {},
	"goals_and_motivations": {},
	"pain_points":           {},
	"behaviors":             {},
	"needs":                 {},
	"attitudes":             {},
	"skills":                {},
	"context":               {},
	"representative_quotes": {},
}

// ClaimSet is the parsed, validated content of one claims file.
type ClaimSet struct {
	DocumentID string          `json:"document_id" yaml:"document_id"`
	Speakers   []SpeakerClaims `json:"speakers" yaml:"speakers"`

	// Warnings records boundary-validation findings (unknown fields,
	// dropped empty claims). Informational only.
	Warnings []string `json:"-" yaml:"-"`
}

// SpeakerClaims carries one speaker's claims in file order, plus any
// externally supplied evidence (pre-filled representative quotes are
// protected by the allocator).
type SpeakerClaims struct {
	SpeakerID   string                          `json:"speaker_id" yaml:"speaker_id"`
	SpeakerRole string                          `json:"speaker_role,omitempty" yaml:"speaker_role,omitempty"`
	Claims      []model.Claim                   `json:"claims" yaml:"claims"`
	Evidence    map[string][]model.EvidenceItem `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

// LoadClaimSet reads and validates a claims file. JSON and YAML are both
// accepted; the format is chosen by extension with YAML as the fallback
// parser (it accepts JSON input too). Validation happens here at the
// boundary: downstream code never sees unparsed backend output.
func LoadClaimSet(path string) (*ClaimSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read claims file: %w", err)
	}

	var set ClaimSet
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		if err := json.Unmarshal(data, &set); err != nil {
			return nil, fmt.Errorf("parse claims JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &set); err != nil {
			return nil, fmt.Errorf("parse claims YAML: %w", err)
		}
	}

	if len(set.Speakers) == 0 {
		return nil, fmt.Errorf("claims file has no speakers")
	}

	validateClaimSet(&set)
	return &set, nil
}

// validateClaimSet normalizes field names, drops claims with empty values,
// and records warnings for anything outside the known persona schema.
func validateClaimSet(set *ClaimSet) {
	for i := range set.Speakers {
		sp := &set.Speakers[i]

		kept := sp.Claims[:0]
		for _, claim := range sp.Claims {
			field := normalizeFieldName(claim.FieldName)
			value := strings.TrimSpace(claim.Value)

			if field == "" || value == "" {
				set.Warnings = append(set.Warnings,
					fmt.Sprintf("speaker %q: dropped empty claim (field %q)", sp.SpeakerID, claim.FieldName))
				continue
			}

			if _, ok := knownClaimFields[field]; !ok {
				set.Warnings = append(set.Warnings,
					fmt.Sprintf("speaker %q: unknown claim field %q", sp.SpeakerID, field))
			}

			kept = append(kept, model.Claim{FieldName: field, Value: value})
		}
		sp.Claims = kept
	}
}

func normalizeFieldName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")
	return name
}
