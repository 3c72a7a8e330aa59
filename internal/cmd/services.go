package main

import (
	"sync/atomic"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/gridrace/gridrace/clients/race_api_client"
	"github.com/gridrace/gridrace/internal/dailylimit"
	"github.com/gridrace/gridrace/internal/leaderboard"
	"github.com/gridrace/gridrace/internal/localstore"
	"github.com/gridrace/gridrace/internal/models"
	"github.com/gridrace/gridrace/internal/party"
	"github.com/gridrace/gridrace/internal/reconcile"
	"github.com/gridrace/gridrace/internal/session"
)

type Services struct {
	Online      *connectivity
	API         *race_api_client.RaceApiClient
	Limiter     *dailylimit.Limiter
	Sessions    *session.Store[models.ServerState]
	Engine      *reconcile.Engine
	Books       *reconcile.BookCache
	Party       *party.App
	Leaderboard *leaderboard.Aggregator
}

// connectivity is the online-status collaborator for the binary. The
// platform shim flips it when the network comes and goes; everything below
// only ever reads it.
type connectivity struct {
	online atomic.Bool
}

func newConnectivity() *connectivity {
	c := &connectivity{}
	c.online.Store(true)
	return c
}

func (c *connectivity) IsOnline() bool   { return c.online.Load() }
func (c *connectivity) SetOnline(v bool) { c.online.Store(v) }

func setupServices(cfg *Config, store *localstore.Store, clock clockwork.Clock, logger zerolog.Logger) *Services {
	// Wire up dependency injection chain:
	// storage collaborators → stores → engine → scoring surfaces

	online := newConnectivity()
	api := race_api_client.NewRaceApiClient(cfg.API.BaseURL, cfg.API.APIKey)

	limiter := dailylimit.New(store, cfg.Quotas, clock, logger)
	sessions := session.NewStore[models.ServerState](clock)
	engine := reconcile.NewEngine(api, online, logger)
	books := reconcile.NewBookCache(api, online, store, clock, logger)
	partyApp := party.NewApp(api, logger)
	board := leaderboard.NewAggregator(cfg.Scoring, logger)

	return &Services{
		Online:      online,
		API:         api,
		Limiter:     limiter,
		Sessions:    sessions,
		Engine:      engine,
		Books:       books,
		Party:       partyApp,
		Leaderboard: board,
	}
}
