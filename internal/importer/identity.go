package importer

// identity.go derives the stable identity key used for duplicate
// detection. The key is never persisted as a business key; it only
// answers "have we seen this candidate before".

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// IdentityKey returns the dedup key for a candidate. A native source ID
// (CustomCSV carries one) is used verbatim; otherwise the key is a hash
// of the lowercased email and trimmed title, so the same submission
// re-exported through a different format still collides.
func IdentityKey(c RawCandidate) string {
	if c.SourceID != "" {
		return c.SourceID
	}
	return identityHash(c.SpeakerEmail, c.Title)
}

func identityHash(email, title string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email)) + "|" + strings.TrimSpace(title)))
	return hex.EncodeToString(sum[:])
}

// synthesizeSourceID builds a source ID for formats that carry no native
// one (PaperCall CSV and JSON exports).
func synthesizeSourceID(email, title string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(email) + "-" + strings.TrimSpace(title)))
	return hex.EncodeToString(sum[:16])
}
