package universe

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rgajunior/trading/internal/model"
	"github.com/rgajunior/trading/pkg/screener"
)

// Store is the persistence slice the selector needs.
type Store interface {
	Latest() (*model.Universe, error)
	Replace(u *model.Universe) error
}

// Options bounds which screened quotes make the universe.
type Options struct {
	MinPrice     float64
	MaxPrice     float64
	FloatCeiling float64 // 0 disables the float filter
	TTL          time.Duration
}

// Selector serves the persisted universe while it is fresh and
// rebuilds it from the screener once it expires.
type Selector struct {
	source screener.Client
	store  Store
	opts   Options
	now    func() time.Time
}

func NewSelector(source screener.Client, store Store, opts Options) *Selector {
	return &Selector{
		source: source,
		store:  store,
		opts:   opts,
		now:    time.Now,
	}
}

// Select returns the current universe, hitting the screener only when
// the persisted one has expired.
func (s *Selector) Select(ctx context.Context) (*model.Universe, error) {
	cached, err := s.store.Latest()
	if err != nil {
		return nil, fmt.Errorf("load universe: %w", err)
	}
	if cached.Fresh(s.now(), s.opts.TTL) {
		slog.Debug("universe cache hit", "symbols", cached.Size(), "captured_at", cached.CapturedAt)
		return cached, nil
	}

	quotes, err := s.source.Screen(ctx)
	if err != nil {
		return nil, fmt.Errorf("symbol source: %w", err)
	}

	u := &model.Universe{CapturedAt: s.now()}
	for _, q := range quotes {
		if s.keep(q) {
			u.Symbols = append(u.Symbols, q.Symbol)
		}
	}

	// A persist failure is not worth losing the cycle over; the next
	// refresh retries it.
	if err := s.store.Replace(u); err != nil {
		slog.Warn("persist universe failed", "error", err)
	}

	slog.Info("universe refreshed", "symbols", u.Size(), "screened", len(quotes))
	return u, nil
}

// keep applies the price band and optional float ceiling. The
// comparisons are written so NaN quotes (unparseable rows) drop out.
func (s *Selector) keep(q screener.Quote) bool {
	if !(q.Price >= s.opts.MinPrice && q.Price < s.opts.MaxPrice) {
		return false
	}
	if s.opts.FloatCeiling > 0 && !(q.FloatShares < s.opts.FloatCeiling) {
		return false
	}
	return true
}
