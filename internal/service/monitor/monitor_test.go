package monitor

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tradewatch/fxwatch/internal/service/rates"
	"github.com/tradewatch/fxwatch/internal/service/recommendation"
	"github.com/tradewatch/fxwatch/internal/service/tracker"
	"github.com/tradewatch/fxwatch/pkg/decimalx"
)

// ============ Mock 定义 ============

type MockRateService struct {
	mock.Mock
}

func (m *MockRateService) Rate(ctx context.Context, pair recommendation.Pair) (decimal.Decimal, error) {
	args := m.Called(ctx, pair)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyEntryHit(ctx context.Context, opp recommendation.Opportunity, currentPrice decimal.Decimal) error {
	args := m.Called(ctx, opp, currentPrice)
	return args.Error(0)
}

type memLedger struct {
	fired     map[string]bool
	recordErr error
}

func newMemLedger() *memLedger {
	return &memLedger{fired: map[string]bool{}}
}

func (l *memLedger) HasFired(opp recommendation.Opportunity) bool {
	return l.fired[opp.Key()]
}

func (l *memLedger) Record(opp recommendation.Opportunity, sentPrice decimal.Decimal) error {
	l.fired[opp.Key()] = true
	return l.recordErr
}

func newSet(opps ...recommendation.Opportunity) *tracker.Set {
	s := tracker.NewSet()
	s.Replace(opps)
	return s
}

func eurUsdBuy(entry string) recommendation.Opportunity {
	return recommendation.Opportunity{
		Pair:      recommendation.Pair{Base: "EUR", Quote: "USD"},
		Entry:     decimalx.MustFromString(entry),
		Direction: recommendation.Buy,
	}
}

func TestScanFiresOnceOnHit(t *testing.T) {
	opp := eurUsdBuy("1.1000")
	price := decimalx.MustFromString("1.0990")

	rateSvc := new(MockRateService)
	rateSvc.On("Rate", mock.Anything, opp.Pair).Return(price, nil)

	notifier := new(MockNotifier)
	notifier.On("NotifyEntryHit", mock.Anything, opp, price).Return(nil).Once()

	led := newMemLedger()
	m := NewEntryMonitor(newSet(opp), led, rateSvc, WithNotifier(notifier))

	require.NoError(t, m.Scan(context.Background()))
	assert.True(t, led.HasFired(opp))

	// second pass: ledger silences the same setup
	require.NoError(t, m.Scan(context.Background()))
	notifier.AssertNumberOfCalls(t, "NotifyEntryHit", 1)
}

func TestScanNoHitNoNotify(t *testing.T) {
	opp := eurUsdBuy("1.1000")

	rateSvc := new(MockRateService)
	rateSvc.On("Rate", mock.Anything, opp.Pair).Return(decimalx.MustFromString("1.2000"), nil)

	notifier := new(MockNotifier)
	led := newMemLedger()
	m := NewEntryMonitor(newSet(opp), led, rateSvc, WithNotifier(notifier))

	require.NoError(t, m.Scan(context.Background()))
	assert.False(t, led.HasFired(opp))
	notifier.AssertNotCalled(t, "NotifyEntryHit", mock.Anything, mock.Anything, mock.Anything)
}

func TestScanNotifierFailureLeavesLedgerUntouched(t *testing.T) {
	opp := eurUsdBuy("1.1000")
	price := decimalx.MustFromString("1.0990")

	rateSvc := new(MockRateService)
	rateSvc.On("Rate", mock.Anything, opp.Pair).Return(price, nil)

	notifier := new(MockNotifier)
	notifier.On("NotifyEntryHit", mock.Anything, opp, price).Return(errors.New("push api down")).Once()
	notifier.On("NotifyEntryHit", mock.Anything, opp, price).Return(nil).Once()

	led := newMemLedger()
	m := NewEntryMonitor(newSet(opp), led, rateSvc, WithNotifier(notifier))

	require.NoError(t, m.Scan(context.Background()))
	assert.False(t, led.HasFired(opp), "no ledger write on notifier failure")

	// retried on the next tick
	require.NoError(t, m.Scan(context.Background()))
	assert.True(t, led.HasFired(opp))
	notifier.AssertNumberOfCalls(t, "NotifyEntryHit", 2)
}

func TestScanSkipsOnRateLookupFailure(t *testing.T) {
	unavailable := eurUsdBuy("1.1000")
	hit := recommendation.Opportunity{
		Pair:      recommendation.Pair{Base: "GBP", Quote: "JPY"},
		Entry:     decimalx.MustFromString("190.00"),
		Direction: recommendation.Sell,
	}
	price := decimalx.MustFromString("191.00")

	rateSvc := new(MockRateService)
	rateSvc.On("Rate", mock.Anything, unavailable.Pair).Return(decimal.Decimal{}, rates.ErrUnavailable)
	rateSvc.On("Rate", mock.Anything, hit.Pair).Return(price, nil)

	notifier := new(MockNotifier)
	notifier.On("NotifyEntryHit", mock.Anything, hit, price).Return(nil)

	led := newMemLedger()
	m := NewEntryMonitor(newSet(unavailable, hit), led, rateSvc, WithNotifier(notifier))

	// one failing opportunity never blocks the rest of the pass
	require.NoError(t, m.Scan(context.Background()))
	assert.False(t, led.HasFired(unavailable))
	assert.True(t, led.HasFired(hit))
}

func TestScanLedgerWriteFailureStillCounts(t *testing.T) {
	opp := eurUsdBuy("1.1000")
	price := decimalx.MustFromString("1.0990")

	rateSvc := new(MockRateService)
	rateSvc.On("Rate", mock.Anything, opp.Pair).Return(price, nil)

	notifier := new(MockNotifier)
	notifier.On("NotifyEntryHit", mock.Anything, opp, price).Return(nil).Once()

	led := newMemLedger()
	led.recordErr = errors.New("disk full")
	m := NewEntryMonitor(newSet(opp), led, rateSvc, WithNotifier(notifier))

	// persist failure is logged, the in-memory append still silences
	// the key for this process
	require.NoError(t, m.Scan(context.Background()))
	require.NoError(t, m.Scan(context.Background()))
	notifier.AssertNumberOfCalls(t, "NotifyEntryHit", 1)
}

func TestScanEmptySet(t *testing.T) {
	rateSvc := new(MockRateService)
	m := NewEntryMonitor(newSet(), newMemLedger(), rateSvc)
	require.NoError(t, m.Scan(context.Background()))
	rateSvc.AssertNotCalled(t, "Rate", mock.Anything, mock.Anything)
}
