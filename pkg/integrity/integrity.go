// Package integrity provides tamper-evidence helpers for issued verdicts.
// A verdict digest covers the immutable fields; audit entries chain on the
// previous entry's hash so any rewrite of history is detectable downstream.
package integrity

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"

	dErrors "concord/pkg/domain-errors"
)

// Digest hashes the canonical field representation with BLAKE2b-256.
func Digest(fields ...string) (string, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not initialize digest")
	}
	for _, f := range fields {
		// Length-prefix each field so concatenation is unambiguous.
		fmt.Fprintf(h, "%d:%s", len(f), f)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ChainEntry hashes one audit entry onto the chain. prev is the previous
// entry's hash, empty for the first entry.
func ChainEntry(prev string, ts time.Time, action, actor, details string) (string, error) {
	return Digest(prev, ts.UTC().Format(time.RFC3339Nano), action, actor, details)
}

// VerifyChain recomputes the chain and reports the first mismatching index,
// or -1 when the chain is intact.
type ChainedEntry struct {
	Timestamp time.Time
	Action    string
	Actor     string
	Details   string
	Hash      string
}

func VerifyChain(entries []ChainedEntry) (int, error) {
	prev := ""
	for i, e := range entries {
		want, err := ChainEntry(prev, e.Timestamp, e.Action, e.Actor, e.Details)
		if err != nil {
			return i, err
		}
		if !strings.EqualFold(want, e.Hash) {
			return i, nil
		}
		prev = e.Hash
	}
	return -1, nil
}
