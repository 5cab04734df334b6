package ledger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradewatch/fxwatch/internal/service/recommendation"
	"github.com/tradewatch/fxwatch/pkg/decimalx"
)

func buyEurUsd() recommendation.Opportunity {
	return recommendation.Opportunity{
		Pair:      recommendation.Pair{Base: "EUR", Quote: "USD"},
		Entry:     decimalx.MustFromString("1.1000"),
		Direction: recommendation.Buy,
	}
}

func TestRecordRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerts.json")

	l := Open(path)
	opp := buyEurUsd()
	assert.False(t, l.HasFired(opp))

	require.NoError(t, l.Record(opp, decimalx.MustFromString("1.10050")))
	assert.True(t, l.HasFired(opp))

	// same identity, different rationale
	dup := opp
	dup.Rationale = "different text"
	dup.PositionSize = "2%"
	assert.True(t, l.HasFired(dup))

	// different identity
	other := opp
	other.Direction = recommendation.Sell
	assert.False(t, l.HasFired(other))

	// survives a reload from disk
	reloaded := Open(path)
	assert.True(t, reloaded.HasFired(opp))
	assert.False(t, reloaded.HasFired(other))
	assert.Equal(t, 1, reloaded.Len())
}

func TestOpenMissingFile(t *testing.T) {
	l := Open(filepath.Join(t.TempDir(), "does-not-exist.json"))
	assert.Equal(t, 0, l.Len())
	assert.False(t, l.HasFired(buyEurUsd()))
}

func TestOpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerts.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	l := Open(path)
	assert.Equal(t, 0, l.Len())

	// still usable afterwards
	require.NoError(t, l.Record(buyEurUsd(), decimalx.MustFromString("1.1")))
	assert.True(t, Open(path).HasFired(buyEurUsd()))
}

func TestPrune(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerts.json")
	l := Open(path)

	now := time.Now()
	l.now = func() time.Time { return now.Add(-10 * 24 * time.Hour) }
	require.NoError(t, l.Record(buyEurUsd(), decimalx.MustFromString("1.1")))

	fresh := buyEurUsd()
	fresh.Entry = decimalx.MustFromString("1.2000")
	l.now = func() time.Time { return now }
	require.NoError(t, l.Record(fresh, decimalx.MustFromString("1.2")))

	require.NoError(t, l.Prune(DefaultRetention))
	assert.Equal(t, 1, l.Len())
	assert.False(t, l.HasFired(buyEurUsd()))
	assert.True(t, l.HasFired(fresh))

	// prune result is persisted
	assert.Equal(t, 1, Open(path).Len())
}

func TestPruneNoopKeepsFileUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerts.json")
	l := Open(path)
	require.NoError(t, l.Record(buyEurUsd(), decimalx.MustFromString("1.1")))
	require.NoError(t, l.Prune(DefaultRetention))
	assert.Equal(t, 1, l.Len())
}
