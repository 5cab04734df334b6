// Package ledger persists which opportunity identities have already
// fired an alert, so repeat analysis cycles never re-alert the same
// setup. Storage is a single JSON document, rewritten in full on every
// mutation. Single writer only.
package ledger

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tradewatch/fxwatch/internal/service/recommendation"
)

const DefaultRetention = 7 * 24 * time.Hour

// Entry is one append-only ledger row, created at first successful
// notification for its key and never mutated afterwards.
type Entry struct {
	Key          string                   `json:"key"`
	Pair         string                   `json:"pair"`
	Entry        decimal.Decimal          `json:"entry"`
	Direction    recommendation.Direction `json:"direction"`
	CurrentPrice decimal.Decimal          `json:"current_price"`
	SentAt       time.Time                `json:"sent_at"`
	Sent         bool                     `json:"sent"`
}

type Ledger struct {
	path string

	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
}

// Open loads the ledger at path. A missing or unreadable file yields
// an empty ledger with a warning, never an error: losing history is
// recoverable, refusing to start is not.
func Open(path string) *Ledger {
	l := &Ledger{path: path, now: time.Now}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to read alert ledger, starting empty", "path", path, "error", err)
		}
		return l
	}
	if err := json.Unmarshal(raw, &l.entries); err != nil {
		slog.Warn("corrupt alert ledger, starting empty", "path", path, "error", err)
		l.entries = nil
	}
	return l
}

// HasFired reports whether an alert was already sent for this
// opportunity's identity key.
func (l *Ledger) HasFired(opp recommendation.Opportunity) bool {
	key := opp.Key()
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.Key == key && e.Sent {
			return true
		}
	}
	return false
}

// Record appends an entry for the opportunity and persists the full
// ledger. The in-memory append is kept even when persisting fails, so
// the worst case after a crash is one duplicate alert per key.
func (l *Ledger) Record(opp recommendation.Opportunity, sentPrice decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, Entry{
		Key:          opp.Key(),
		Pair:         opp.Pair.String(),
		Entry:        opp.Entry,
		Direction:    opp.Direction,
		CurrentPrice: sentPrice,
		SentAt:       l.now(),
		Sent:         true,
	})
	if err := l.persist(); err != nil {
		slog.Error("failed to persist alert ledger", "path", l.path, "error", err)
		return err
	}
	return nil
}

// Prune drops entries older than retention and persists when anything
// was removed.
func (l *Ledger) Prune(retention time.Duration) error {
	cutoff := l.now().Add(-retention)

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.entries[:0]
	for _, e := range l.entries {
		if !e.SentAt.Before(cutoff) {
			kept = append(kept, e)
		}
	}
	removed := len(l.entries) - len(kept)
	l.entries = kept
	if removed == 0 {
		return nil
	}
	slog.Info("pruned old alerts", "removed", removed, "retention", retention)
	return l.persist()
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// persist rewrites the backing file via a temp file and rename, which
// is atomic enough under the single-writer assumption.
func (l *Ledger) persist() error {
	raw, err := json.MarshalIndent(l.entries, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, l.path); err != nil {
		return fmt.Errorf("replace ledger file: %w", err)
	}
	return nil
}
