package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradewatch/fxwatch/internal/service/recommendation"
	"github.com/tradewatch/fxwatch/pkg/decimalx"
)

func newFeed(t *testing.T, rates map[string]string, calls *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		to := r.URL.Query().Get("to")
		rate, ok := rates[to]
		if !ok {
			w.Write([]byte(`{"rates": {}}`))
			return
		}
		w.Write([]byte(`{"rates": {"` + to + `": ` + rate + `}}`))
	}))
}

func TestRateDirect(t *testing.T) {
	feed := newFeed(t, map[string]string{"USD": "1.0850"}, nil)
	defer feed.Close()

	svc := NewFrankfurterService(WithBaseURL(feed.URL))
	rate, err := svc.Rate(context.Background(), recommendation.Pair{Base: "EUR", Quote: "USD"})
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimalx.MustFromString("1.0850")))
}

func TestRateInverted(t *testing.T) {
	feed := newFeed(t, map[string]string{"USD": "1.25"}, nil)
	defer feed.Close()

	svc := NewFrankfurterService(WithBaseURL(feed.URL))
	rate, err := svc.Rate(context.Background(), recommendation.Pair{Base: "USD", Quote: "EUR"})
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimalx.MustFromString("0.8")))
}

func TestRateCross(t *testing.T) {
	feed := newFeed(t, map[string]string{"GBP": "0.80", "JPY": "150.0"}, nil)
	defer feed.Close()

	svc := NewFrankfurterService(WithBaseURL(feed.URL))
	rate, err := svc.Rate(context.Background(), recommendation.Pair{Base: "GBP", Quote: "JPY"})
	require.NoError(t, err)
	// 150.0 / 0.80
	assert.True(t, rate.Equal(decimalx.MustFromString("187.5")))
}

func TestRateCachesPerLeg(t *testing.T) {
	var calls atomic.Int64
	feed := newFeed(t, map[string]string{"GBP": "0.80", "JPY": "150.0"}, &calls)
	defer feed.Close()

	svc := NewFrankfurterService(WithBaseURL(feed.URL), WithTTL(time.Minute))
	ctx := context.Background()
	pair := recommendation.Pair{Base: "GBP", Quote: "JPY"}

	_, err := svc.Rate(ctx, pair)
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())

	// both legs served from cache
	_, err = svc.Rate(ctx, pair)
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())

	// a fetch for an unrelated leg must not refresh the others
	_, err = svc.Rate(ctx, recommendation.Pair{Base: "EUR", Quote: "GBP"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestRateCacheExpires(t *testing.T) {
	var calls atomic.Int64
	feed := newFeed(t, map[string]string{"USD": "1.10"}, &calls)
	defer feed.Close()

	svc := NewFrankfurterService(WithBaseURL(feed.URL), WithTTL(time.Nanosecond))
	ctx := context.Background()
	pair := recommendation.Pair{Base: "EUR", Quote: "USD"}

	_, err := svc.Rate(ctx, pair)
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = svc.Rate(ctx, pair)
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestRateMissingFromResponse(t *testing.T) {
	feed := newFeed(t, map[string]string{}, nil)
	defer feed.Close()

	svc := NewFrankfurterService(WithBaseURL(feed.URL))
	_, err := svc.Rate(context.Background(), recommendation.Pair{Base: "EUR", Quote: "USD"})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRateFeedDown(t *testing.T) {
	feed := newFeed(t, nil, nil)
	feed.Close()

	svc := NewFrankfurterService(WithBaseURL(feed.URL))
	_, err := svc.Rate(context.Background(), recommendation.Pair{Base: "EUR", Quote: "USD"})
	assert.ErrorIs(t, err, ErrUnavailable)
}
