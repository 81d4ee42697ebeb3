package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Loader reads transcript documents from disk with a size cap, so one
// oversized export cannot blow up a batch run.
type Loader struct {
	maxBytes int64
}

// NewLoader creates a loader. maxBytes <= 0 disables the cap.
func NewLoader(maxBytes int64) *Loader {
	return &Loader{maxBytes: maxBytes}
}

// Load reads the document and derives its document ID from the file name.
func (l *Loader) Load(path string) (content string, docID string, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", "", fmt.Errorf("stat transcript: %w", err)
	}
	if l.maxBytes > 0 && info.Size() > l.maxBytes {
		return "", "", fmt.Errorf("transcript %s exceeds size limit (%d > %d bytes)", path, info.Size(), l.maxBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read transcript: %w", err)
	}

	return string(data), DocumentID(path), nil
}

// DocumentID derives a document identifier from a transcript path.
func DocumentID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ResolveClaimsPath finds the claims file paired with a transcript: an
// explicit path wins; otherwise the sibling <name>.claims.{json,yaml,yml}
// is used.
func ResolveClaimsPath(transcriptPath, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	base := strings.TrimSuffix(transcriptPath, filepath.Ext(transcriptPath))
	for _, ext := range []string{".claims.json", ".claims.yaml", ".claims.yml"} {
		candidate := base + ext
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no claims file found for %s (expected %s.claims.{json,yaml,yml})", transcriptPath, base)
}
