package dailylimit

import (
	"context"
	"encoding/json"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/gridrace/gridrace/internal/localstore"
	"github.com/gridrace/gridrace/internal/models"
)

// Action is a premium-gated action tracked against a daily quota.
type Action string

const (
	ActionUndo      Action = "undo"
	ActionCheckGrid Action = "check_grid"
)

// Quotas carries the per-day allowance for each gated action. Values come
// from configuration, not code.
type Quotas struct {
	Undo      int `yaml:"undo"`
	CheckGrid int `yaml:"check_grid"`
}

// DefaultQuotas returns the free-tier allowances.
func DefaultQuotas() Quotas {
	return Quotas{Undo: 2, CheckGrid: 2}
}

// CounterStore defines what the limiter needs from device-local storage.
type CounterStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Limiter gates premium actions against today's usage. Storage is
// best-effort: a failed read behaves as an empty counter and a failed write
// is logged and dropped, never surfaced to the calling action.
//
// CanUse and Increment are deliberately not transactional with each other;
// callers check then increment, and a benign double-increment under rapid
// concurrent taps is accepted over blocking the caller.
type Limiter struct {
	store  CounterStore
	quotas Quotas
	clock  clockwork.Clock
	logger zerolog.Logger
}

// New creates a limiter over the given counter store.
func New(store CounterStore, quotas Quotas, clock clockwork.Clock, logger zerolog.Logger) *Limiter {
	return &Limiter{
		store:  store,
		quotas: quotas,
		clock:  clock,
		logger: logger,
	}
}

// CanUse reports whether the action is still within today's quota.
func (l *Limiter) CanUse(ctx context.Context, action Action) bool {
	return l.Remaining(ctx, action) > 0
}

// Remaining returns how many uses of the action are left today, never
// negative.
func (l *Limiter) Remaining(ctx context.Context, action Action) int {
	data := l.load(ctx)
	remaining := l.quota(action) - count(data, action)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Increment records one use of the action and returns the new count. State
// is re-read immediately before the bump so increments observed by the same
// device apply in call order rather than off a stale snapshot.
func (l *Limiter) Increment(ctx context.Context, action Action) int {
	data := l.load(ctx)

	switch action {
	case ActionUndo:
		data.UndoCount++
	case ActionCheckGrid:
		data.CheckGridCount++
	}

	l.save(ctx, data)
	return count(data, action)
}

// load reads today's counter, treating an absent, unreadable or stale-dated
// record as a fresh counter for today.
func (l *Limiter) load(ctx context.Context) models.DailyActionData {
	today := l.clock.Now().Format(models.DateFormat)
	fresh := models.DailyActionData{Date: today}

	raw, ok, err := l.store.Get(ctx, localstore.DailyActionCounterKey)
	if err != nil {
		l.logger.Warn().Err(err).Msg("daily counter read failed; treating as empty")
		return fresh
	}
	if !ok {
		return fresh
	}

	var data models.DailyActionData
	if err := json.Unmarshal(raw, &data); err != nil {
		l.logger.Warn().Err(err).Msg("daily counter malformed; treating as empty")
		return fresh
	}

	if data.Date != today {
		// First read of a new calendar day resets both counters.
		return fresh
	}
	return data
}

func (l *Limiter) save(ctx context.Context, data models.DailyActionData) {
	raw, err := json.Marshal(data)
	if err != nil {
		l.logger.Error().Err(err).Msg("daily counter marshal failed")
		return
	}
	if err := l.store.Put(ctx, localstore.DailyActionCounterKey, raw); err != nil {
		l.logger.Warn().Err(err).Msg("daily counter write failed; dropping")
	}
}

func (l *Limiter) quota(action Action) int {
	switch action {
	case ActionUndo:
		return l.quotas.Undo
	case ActionCheckGrid:
		return l.quotas.CheckGrid
	default:
		return 0
	}
}

func count(data models.DailyActionData, action Action) int {
	switch action {
	case ActionUndo:
		return data.UndoCount
	case ActionCheckGrid:
		return data.CheckGridCount
	default:
		return 0
	}
}
