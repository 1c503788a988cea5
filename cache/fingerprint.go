// Package cache provides the content-addressable result cache for agent runs.
//
// A fingerprint is the deterministic identity of a unit of work: two
// requests with the same fingerprint are the same computation. Collisions
// are treated as correctness bugs, so the key is a full SHA-256 over the
// canonical form of the inputs rather than a truncated fast hash.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/richinex/scribe/model"
)

// Fingerprint is the cache identity of one agent computation.
type Fingerprint string

// NewFingerprint derives the identity for an agent kind and its normalized
// input payload. The payload must be JSON-serializable; struct field order
// and map key order do not affect the result (encoding/json emits map keys
// sorted, and struct order is fixed by the type).
func NewFingerprint(kind model.AgentKind, payload any) (Fingerprint, error) {
	canonical, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("fingerprint payload not serializable: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(kind.String()))
	h.Write([]byte{0})
	h.Write(canonical)

	return Fingerprint(hex.EncodeToString(h.Sum(nil))), nil
}

// NormalizeText canonicalizes free-form text before fingerprinting so that
// whitespace-only differences do not split cache entries.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
