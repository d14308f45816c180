package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/spacedesk/internal/domain/activity"
	"github.com/rpggio/spacedesk/internal/domain/building"
	"github.com/rpggio/spacedesk/internal/domain/city"
	"github.com/rpggio/spacedesk/internal/domain/entity"
	"github.com/rpggio/spacedesk/internal/domain/offering"
	"github.com/rpggio/spacedesk/internal/domain/order"
	"github.com/rpggio/spacedesk/internal/domain/sequence"
	"github.com/rpggio/spacedesk/internal/domain/space"
	"github.com/rpggio/spacedesk/internal/domain/stats"
	"github.com/rpggio/spacedesk/internal/domain/validation"
	"github.com/rpggio/spacedesk/internal/metrics"
)

// Store is the CRUD surface shared by the collection services.
type Store[T, In, P any] interface {
	Create(ctx context.Context, in In) (*T, error)
	Get(ctx context.Context, id string) (*T, error)
	Update(ctx context.Context, id string, in In) (*T, error)
	Patch(ctx context.Context, id string, p P) (*T, error)
	Delete(ctx context.Context, id string) error
}

type CityService interface {
	Store[city.City, city.Input, city.Patch]
	List(ctx context.Context, opts city.ListOptions) ([]city.City, int, error)
}

type BuildingService interface {
	Store[building.Building, building.Input, building.Patch]
	List(ctx context.Context, opts building.ListOptions) ([]building.Building, int, error)
}

type SpaceService interface {
	Store[space.Space, space.Input, space.Patch]
	List(ctx context.Context, opts space.ListOptions) ([]space.Space, int, error)
}

type OfferingService interface {
	Store[offering.Offering, offering.Input, offering.Patch]
	List(ctx context.Context, opts offering.ListOptions) ([]offering.Offering, int, error)
}

type OrderService interface {
	Create(ctx context.Context, in order.Input) (*order.Order, error)
	Get(ctx context.Context, id string) (*order.Order, error)
	List(ctx context.Context, opts order.ListOptions) ([]order.Order, int, error)
	Transition(ctx context.Context, id string, to order.Status) (*order.Order, error)
	Delete(ctx context.Context, id string) error
}

type StatisticsReader interface {
	Get(ctx context.Context, cityID string) (stats.Statistics, error)
	Events(ctx context.Context, cityID string, limit int) ([]stats.EventRecord, error)
}

type SequenceReader interface {
	List(ctx context.Context) ([]sequence.Counter, error)
}

type ActivityReader interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

type Validator interface {
	Validate(kind entity.Kind, payload any) []validation.FieldError
}

// Services are the handlers' dependencies.
type Services struct {
	Cities     CityService
	Buildings  BuildingService
	Spaces     SpaceService
	Offerings  OfferingService
	Orders     OrderService
	Statistics StatisticsReader
	Sequences  SequenceReader
	Activity   ActivityReader
	Validator  Validator
}

// Options configures the router.
type Options struct {
	Logger *slog.Logger
	// Auth, when set, guards every route except /health and /metrics.
	Auth func(http.Handler) http.Handler
	// MCP, when set, is mounted at /mcp.
	MCP http.Handler
}

// Server wires HTTP handlers.
type Server struct {
	svc    Services
	logger *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(svc Services, opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &Server{svc: svc, logger: logger}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(AccessLog(logger))
	r.Use(middleware.Recoverer)
	if opts.Auth != nil {
		r.Use(opts.Auth)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeFailure(w, http.StatusNotFound, "ROUTE_NOT_FOUND", "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeFailure(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})

	r.Get("/health", srv.handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/cities", func(r chi.Router) {
		r.Get("/", srv.listCities)
		mountCRUD[city.City, city.Input, city.Patch](r, srv, svc.Cities)
		r.Get("/{id}/statistics", srv.cityStatistics)
		r.Get("/{id}/statistics/events", srv.cityStatisticsEvents)
	})
	r.Route("/buildings", func(r chi.Router) {
		r.Get("/", srv.listBuildings)
		mountCRUD[building.Building, building.Input, building.Patch](r, srv, svc.Buildings)
	})
	r.Route("/spaces", func(r chi.Router) {
		r.Get("/", srv.listSpaces)
		mountCRUD[space.Space, space.Input, space.Patch](r, srv, svc.Spaces)
	})
	r.Route("/services", func(r chi.Router) {
		r.Get("/", srv.listOfferings)
		mountCRUD[offering.Offering, offering.Input, offering.Patch](r, srv, svc.Offerings)
	})
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", srv.listOrders)
		r.Post("/", srv.createOrder)
		r.Get("/{id}", srv.getOrder)
		r.Patch("/{id}", srv.transitionOrder)
		r.Delete("/{id}", srv.deleteOrder)
	})
	r.Post("/validate/{entityType}", srv.validate)
	r.Get("/sequences", srv.listSequences)
	r.Get("/activity", srv.listActivity)

	if opts.MCP != nil {
		r.Handle("/mcp", opts.MCP)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}

// fail renders err through MapError. data is still sent for STATISTICS_OUT_OF_SYNC.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, data any) {
	f := MapError(err)
	if f.Status >= http.StatusInternalServerError {
		requestID, _ := RequestIDFromContext(r.Context())
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "code", f.Code, "request_id", requestID, "error", err)
	}
	env := Envelope{Error: &ErrorBody{Code: f.Code, Message: f.Message, Details: f.Details}}
	if f.Code == "STATISTICS_OUT_OF_SYNC" {
		env.Data = data
	}
	writeJSON(w, f.Status, env)
}
