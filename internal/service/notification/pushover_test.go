package notification

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradewatch/fxwatch/internal/service/recommendation"
	"github.com/tradewatch/fxwatch/pkg/decimalx"
)

func TestPushoverPush(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		got = map[string]string{
			"token":    r.PostForm.Get("token"),
			"user":     r.PostForm.Get("user"),
			"title":    r.PostForm.Get("title"),
			"priority": r.PostForm.Get("priority"),
		}
		w.Write([]byte(`{"status": 1}`))
	}))
	defer srv.Close()

	svc := NewPushoverService("tok", "usr", WithPushoverEndpoint(srv.URL))
	err := svc.Push(context.Background(), "hello", "body", PriorityHigh)
	require.NoError(t, err)
	assert.Equal(t, "tok", got["token"])
	assert.Equal(t, "usr", got["user"])
	assert.Equal(t, "hello", got["title"])
	assert.Equal(t, "1", got["priority"])
}

func TestPushoverRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": 0, "errors": ["user key is invalid"]}`))
	}))
	defer srv.Close()

	svc := NewPushoverService("tok", "usr", WithPushoverEndpoint(srv.URL))
	err := svc.Push(context.Background(), "hello", "body", PriorityNormal)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user key is invalid")
}

func TestPushoverUnreachable(t *testing.T) {
	srv := httptest.NewServer(nil)
	srv.Close()

	svc := NewPushoverService("tok", "usr", WithPushoverEndpoint(srv.URL))
	assert.Error(t, svc.Push(context.Background(), "hello", "body", PriorityNormal))
}

func TestEntryHitMessage(t *testing.T) {
	opp := recommendation.Opportunity{
		Pair:         recommendation.Pair{Base: "EUR", Quote: "USD"},
		Entry:        decimalx.MustFromString("1.1000"),
		Exit:         decimalx.MustFromString("1.1100"),
		StopLoss:     decimalx.MustFromString("1.0950"),
		Direction:    recommendation.Buy,
		PositionSize: "1%",
		Rationale:    "momentum continuation setup",
	}
	msg := entryHitMessage(opp, decimalx.MustFromString("1.1005"))

	assert.Contains(t, msg, "EUR/USD Entry Point Triggered!")
	assert.Contains(t, msg, "Direction: BUY")
	assert.Contains(t, msg, "Entry Price: 1.1")
	assert.Contains(t, msg, "Current Price: 1.10050")
	assert.Contains(t, msg, "Target: 1.11")
	assert.Contains(t, msg, "Stop Loss: 1.095")
	assert.Contains(t, msg, "Position Size: 1%")
	assert.Contains(t, msg, "momentum continuation setup")
}

func TestEntryHitMessageOmitsEmptyFields(t *testing.T) {
	opp := recommendation.Opportunity{
		Pair:      recommendation.Pair{Base: "USD", Quote: "JPY"},
		Entry:     decimalx.MustFromString("150.00"),
		Direction: recommendation.Sell,
	}
	msg := entryHitMessage(opp, decimalx.MustFromString("150.05"))
	assert.NotContains(t, msg, "Target")
	assert.NotContains(t, msg, "Stop Loss")
	assert.NotContains(t, msg, "Position Size")
	assert.NotContains(t, msg, "Recommendation")
}
