package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tradewatch/fxwatch/internal/service/recommendation"
)

const (
	DefaultBaseURL = "https://api.frankfurter.app/latest"
	DefaultPivot   = "EUR"
	DefaultTTL     = 60 * time.Second
)

// FrankfurterService fetches spot rates from a Frankfurter-shaped quote
// endpoint ({"rates": {"USD": 1.08, ...}}). The feed reports rates
// against a single pivot currency, cross rates are derived from two
// pivot legs. Fetched legs are cached, each with its own timestamp.
type FrankfurterService struct {
	baseURL string
	pivot   string
	ttl     time.Duration
	client  *http.Client

	mu    sync.Mutex
	cache map[string]cachedRate
}

type cachedRate struct {
	rate      decimal.Decimal
	fetchedAt time.Time
}

type Option func(s *FrankfurterService)

func WithBaseURL(baseURL string) Option {
	return func(s *FrankfurterService) {
		s.baseURL = baseURL
	}
}

func WithPivot(pivot string) Option {
	return func(s *FrankfurterService) {
		s.pivot = pivot
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(s *FrankfurterService) {
		s.ttl = ttl
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(s *FrankfurterService) {
		s.client = client
	}
}

func NewFrankfurterService(opts ...Option) *FrankfurterService {
	svc := &FrankfurterService{
		baseURL: DefaultBaseURL,
		pivot:   DefaultPivot,
		ttl:     DefaultTTL,
		client:  &http.Client{Timeout: 5 * time.Second},
		cache:   make(map[string]cachedRate),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Rate resolves the current rate for pair. When neither leg is the
// pivot currency the cross rate is derived as
// rate(pivot, quote) / rate(pivot, base).
func (s *FrankfurterService) Rate(ctx context.Context, pair recommendation.Pair) (decimal.Decimal, error) {
	switch {
	case pair.Base == s.pivot:
		return s.pivotRate(ctx, pair.Quote)
	case pair.Quote == s.pivot:
		rate, err := s.pivotRate(ctx, pair.Base)
		if err != nil {
			return decimal.Decimal{}, err
		}
		return decimal.NewFromInt(1).Div(rate), nil
	default:
		quoteRate, err := s.pivotRate(ctx, pair.Quote)
		if err != nil {
			return decimal.Decimal{}, err
		}
		baseRate, err := s.pivotRate(ctx, pair.Base)
		if err != nil {
			return decimal.Decimal{}, err
		}
		return quoteRate.Div(baseRate), nil
	}
}

// pivotRate returns rate(pivot, code), from cache when fresh.
func (s *FrankfurterService) pivotRate(ctx context.Context, code string) (decimal.Decimal, error) {
	s.mu.Lock()
	cached, ok := s.cache[code]
	s.mu.Unlock()
	if ok && time.Since(cached.fetchedAt) < s.ttl {
		return cached.rate, nil
	}

	rate, err := s.fetch(ctx, code)
	if err != nil {
		slog.Warn("rate fetch failed", "pivot", s.pivot, "code", code, "error", err)
		return decimal.Decimal{}, fmt.Errorf("%w: %s/%s", ErrUnavailable, s.pivot, code)
	}

	s.mu.Lock()
	s.cache[code] = cachedRate{rate: rate, fetchedAt: time.Now()}
	s.mu.Unlock()
	return rate, nil
}

func (s *FrankfurterService) fetch(ctx context.Context, code string) (decimal.Decimal, error) {
	q := url.Values{}
	q.Set("from", s.pivot)
	q.Set("to", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return decimal.Decimal{}, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return decimal.Decimal{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Rates map[string]json.Number `json:"rates"`
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return decimal.Decimal{}, fmt.Errorf("decode response: %w", err)
	}

	raw, ok := body.Rates[code]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("no rate for %s in response", code)
	}
	rate, err := decimal.NewFromString(raw.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("bad rate %q: %w", raw.String(), err)
	}
	if !rate.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("non-positive rate %s", rate)
	}
	return rate, nil
}
