package reconcile

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/gridrace/gridrace/internal/localstore"
	"github.com/gridrace/gridrace/internal/models"
)

// BookFetcher defines what the cache needs from the server storage
// collaborator.
type BookFetcher interface {
	GetSudokuBookOfTheMonth(ctx context.Context) (*models.Book, error)
}

// CacheStore defines what the cache needs from device-local storage.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// BookCache serves the book of the month, a low-churn server resource cached
// device-locally per calendar month. A hit short-circuits the network, and a
// fetch issued while the book is already loaded or already loading is a
// no-op, which is what prevents duplicate concurrent requests.
//
// Only this cache writes the stored snapshot; readers go through Current.
type BookCache struct {
	fetcher BookFetcher
	online  OnlineStatus
	store   CacheStore
	clock   clockwork.Clock
	logger  zerolog.Logger

	mu      sync.Mutex
	book    *models.Book
	loading bool
}

// NewBookCache creates a cache over the given collaborators.
func NewBookCache(fetcher BookFetcher, online OnlineStatus, store CacheStore, clock clockwork.Clock, logger zerolog.Logger) *BookCache {
	return &BookCache{
		fetcher: fetcher,
		online:  online,
		store:   store,
		clock:   clock,
		logger:  logger,
	}
}

// Current returns the loaded book, or nil when none has been fetched yet.
func (c *BookCache) Current() *models.Book {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.book
}

// Fetch loads this month's book: from memory if already loaded, otherwise
// from the local cache, otherwise from the network. A call that arrives
// while data is already loaded or a load is already running returns
// immediately without triggering another request.
func (c *BookCache) Fetch(ctx context.Context) (*models.Book, error) {
	c.mu.Lock()
	if c.book != nil {
		book := c.book
		c.mu.Unlock()
		return book, nil
	}
	if c.loading {
		c.mu.Unlock()
		return nil, nil
	}
	c.loading = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	key := localstore.BookCacheKey(c.clock.Now())

	if raw, ok, err := c.store.Get(ctx, key); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("book cache read failed; treating as miss")
	} else if ok {
		var book models.Book
		if err := json.Unmarshal(raw, &book); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("book cache malformed; treating as miss")
		} else {
			c.setBook(&book)
			return &book, nil
		}
	}

	if !c.online.IsOnline() {
		return nil, ErrOffline
	}

	book, err := c.fetcher.GetSudokuBookOfTheMonth(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("book of the month fetch failed")
		return nil, ErrLoadFailed
	}

	if raw, err := json.Marshal(book); err != nil {
		c.logger.Error().Err(err).Msg("book snapshot marshal failed")
	} else if err := c.store.Put(ctx, key, raw); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("book cache write failed; dropping")
	}

	c.setBook(book)
	return book, nil
}

func (c *BookCache) setBook(book *models.Book) {
	c.mu.Lock()
	c.book = book
	c.mu.Unlock()
}
