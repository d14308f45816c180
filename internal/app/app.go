// Package app wires repositories and domain services into one graph shared by the
// HTTP server, the MCP server and the CLI.
package app

import (
	"log/slog"

	"github.com/rpggio/spacedesk/internal/domain/activity"
	"github.com/rpggio/spacedesk/internal/domain/building"
	"github.com/rpggio/spacedesk/internal/domain/city"
	"github.com/rpggio/spacedesk/internal/domain/offering"
	"github.com/rpggio/spacedesk/internal/domain/order"
	"github.com/rpggio/spacedesk/internal/domain/sequence"
	"github.com/rpggio/spacedesk/internal/domain/space"
	"github.com/rpggio/spacedesk/internal/domain/stats"
	"github.com/rpggio/spacedesk/internal/domain/validation"
	"github.com/rpggio/spacedesk/internal/mcp"
	"github.com/rpggio/spacedesk/internal/sqlite"
	"github.com/rpggio/spacedesk/internal/transport"
)

// Options tunes the wiring.
type Options struct {
	// SequenceRepo replaces the SQLite counter table, e.g. with the Redis store.
	SequenceRepo sequence.Repository
	Sequence     sequence.Config
	Statistics   stats.Config
	Logger       *slog.Logger
}

// App holds every service of one process.
type App struct {
	DB         *sqlite.DB
	Logger     *slog.Logger
	Validator  *validation.Gate
	Sequences  *sequence.Service
	Statistics *stats.Aggregator
	StatsRepo  *sqlite.StatisticsRepository
	Activity   *activity.Service
	Cities     *city.Service
	Buildings  *building.Service
	Spaces     *space.Service
	Offerings  *offering.Service
	Orders     *order.Service
	APIKeys    *sqlite.APIKeyRepository
}

// New builds the service graph on db.
func New(db *sqlite.DB, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	seqRepo := opts.SequenceRepo
	if seqRepo == nil {
		seqRepo = sqlite.NewSequenceRepository(db)
	}

	a := &App{
		DB:        db,
		Logger:    logger,
		Validator: validation.NewGate(),
		StatsRepo: sqlite.NewStatisticsRepository(db),
		APIKeys:   sqlite.NewAPIKeyRepository(db),
	}
	a.Activity = activity.NewService(sqlite.NewActivityRepository(db), logger.With("component", "activity"))
	a.Sequences = sequence.NewService(seqRepo, opts.Sequence, logger.With("component", "sequence"))
	a.Statistics = stats.NewAggregator(a.StatsRepo, a.Activity, opts.Statistics, logger.With("component", "statistics"))

	a.Cities = city.NewService(sqlite.NewCityRepository(db), a.Sequences, a.Validator, a.Activity, logger.With("component", "city"))
	a.Buildings = building.NewService(sqlite.NewBuildingRepository(db), a.Cities, a.Statistics, a.Sequences, a.Validator, a.Activity, logger.With("component", "building"))
	a.Spaces = space.NewService(sqlite.NewSpaceRepository(db), a.Buildings, a.Statistics, a.Sequences, a.Validator, a.Activity, logger.With("component", "space"))
	a.Offerings = offering.NewService(sqlite.NewOfferingRepository(db), a.Sequences, a.Validator, a.Activity, logger.With("component", "offering"))
	a.Orders = order.NewService(sqlite.NewOrderRepository(db), a.Spaces, a.Offerings, a.Sequences, a.Validator, a.Activity, logger.With("component", "order"))
	return a
}

// TransportServices exposes the services to the REST handlers.
func (a *App) TransportServices() transport.Services {
	return transport.Services{
		Cities:     a.Cities,
		Buildings:  a.Buildings,
		Spaces:     a.Spaces,
		Offerings:  a.Offerings,
		Orders:     a.Orders,
		Statistics: a.Statistics,
		Sequences:  a.Sequences,
		Activity:   a.Activity,
		Validator:  a.Validator,
	}
}

// MCPServices exposes the services to the MCP tools.
func (a *App) MCPServices() mcp.Services {
	return mcp.Services{
		Cities:    a.Cities,
		Buildings: a.Buildings,
		Spaces:    a.Spaces,
		Validator: a.Validator,
		Sequences: a.Sequences,
		Activity:  a.Activity,
	}
}
