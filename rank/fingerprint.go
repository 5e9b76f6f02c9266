package rank

import (
	"crypto/sha256"
	"encoding/hex"
)

// computeFingerprint generates a stable hash of the candidate slice.
// It changes whenever an ID, a text, or the order of candidates changes.
func computeFingerprint(candidates []Candidate) string {
	h := sha256.New()

	for _, c := range candidates {
		h.Write([]byte(c.ID))
		h.Write([]byte{0})
		h.Write([]byte(c.Text))
		h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil))
}

// cacheKey combines a query with a candidate-set fingerprint.
func cacheKey(query string, candidates []Candidate) string {
	return query + "\x00" + computeFingerprint(candidates)
}
