package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/spacedesk/internal/domain/activity"
	"github.com/rpggio/spacedesk/internal/domain/building"
	"github.com/rpggio/spacedesk/internal/domain/city"
	"github.com/rpggio/spacedesk/internal/domain/entity"
	"github.com/rpggio/spacedesk/internal/domain/offering"
	"github.com/rpggio/spacedesk/internal/domain/order"
	"github.com/rpggio/spacedesk/internal/domain/space"
	"github.com/rpggio/spacedesk/internal/domain/stats"
)

func mountCRUD[T, In, P any](r chi.Router, s *Server, store Store[T, In, P]) {
	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		var in In
		if err := decodeJSON(r, &in); err != nil {
			s.fail(w, r, err, nil)
			return
		}
		out, err := store.Create(r.Context(), in)
		if err != nil {
			s.fail(w, r, err, out)
			return
		}
		writeData(w, http.StatusCreated, out)
	})
	r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
		out, err := store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			s.fail(w, r, err, nil)
			return
		}
		writeData(w, http.StatusOK, out)
	})
	r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
		var in In
		if err := decodeJSON(r, &in); err != nil {
			s.fail(w, r, err, nil)
			return
		}
		out, err := store.Update(r.Context(), chi.URLParam(r, "id"), in)
		if err != nil {
			s.fail(w, r, err, out)
			return
		}
		writeData(w, http.StatusOK, out)
	})
	r.Patch("/{id}", func(w http.ResponseWriter, r *http.Request) {
		var p P
		if err := decodeJSON(r, &p); err != nil {
			s.fail(w, r, err, nil)
			return
		}
		out, err := store.Patch(r.Context(), chi.URLParam(r, "id"), p)
		if err != nil {
			s.fail(w, r, err, out)
			return
		}
		writeData(w, http.StatusOK, out)
	})
	r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := store.Delete(r.Context(), id); err != nil {
			s.fail(w, r, err, map[string]string{"id": id})
			return
		}
		writeData(w, http.StatusOK, map[string]string{"id": id})
	})
}

func writePage[T any](w http.ResponseWriter, items []T, total int, p entity.Page) {
	writeData(w, http.StatusOK, Page[T]{Items: items, Total: total, Limit: p.Limit, Offset: p.Offset})
}

func (s *Server) listCities(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	opts := city.ListOptions{
		Province: q.str("province"),
		Query:    q.str("q"),
		IsActive: q.boolPtr("isActive"),
		Page:     q.page(),
	}
	if q.err != nil {
		s.fail(w, r, q.err, nil)
		return
	}
	items, total, err := s.svc.Cities.List(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	writePage(w, items, total, opts.Page)
}

func (s *Server) cityStatistics(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Statistics.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	writeData(w, http.StatusOK, st)
}

func (s *Server) cityStatisticsEvents(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	limit := q.int("limit", 50)
	if q.err != nil {
		s.fail(w, r, q.err, nil)
		return
	}
	cityID := chi.URLParam(r, "id")
	if _, err := s.svc.Statistics.Get(r.Context(), cityID); err != nil {
		s.fail(w, r, err, nil)
		return
	}
	events, err := s.svc.Statistics.Events(r.Context(), cityID, min(limit, entity.MaxLimit))
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	if events == nil {
		events = []stats.EventRecord{}
	}
	writeData(w, http.StatusOK, events)
}

func (s *Server) listBuildings(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	opts := building.ListOptions{
		CityID:   q.str("cityId"),
		Brand:    q.str("brand"),
		Query:    q.str("q"),
		IsActive: q.boolPtr("isActive"),
		Page:     q.page(),
	}
	if q.err != nil {
		s.fail(w, r, q.err, nil)
		return
	}
	items, total, err := s.svc.Buildings.List(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	writePage(w, items, total, opts.Page)
}

func (s *Server) listSpaces(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	opts := space.ListOptions{
		BuildingID: q.str("buildingId"),
		CityID:     q.str("cityId"),
		Type:       space.Type(q.str("type")),
		Query:      q.str("q"),
		IsActive:   q.boolPtr("isActive"),
		Page:       q.page(),
	}
	if q.err != nil {
		s.fail(w, r, q.err, nil)
		return
	}
	items, total, err := s.svc.Spaces.List(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	writePage(w, items, total, opts.Page)
}

func (s *Server) listOfferings(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	opts := offering.ListOptions{
		Category: q.str("category"),
		Query:    q.str("q"),
		IsActive: q.boolPtr("isActive"),
		Page:     q.page(),
	}
	if q.err != nil {
		s.fail(w, r, q.err, nil)
		return
	}
	items, total, err := s.svc.Offerings.List(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	writePage(w, items, total, opts.Page)
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	opts := order.ListOptions{
		Status:  order.Status(q.str("status")),
		SpaceID: q.str("spaceId"),
		Page:    q.page(),
	}
	if q.err != nil {
		s.fail(w, r, q.err, nil)
		return
	}
	items, total, err := s.svc.Orders.List(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	writePage(w, items, total, opts.Page)
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var in order.Input
	if err := decodeJSON(r, &in); err != nil {
		s.fail(w, r, err, nil)
		return
	}
	o, err := s.svc.Orders.Create(r.Context(), in)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	writeData(w, http.StatusCreated, o)
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := s.svc.Orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	writeData(w, http.StatusOK, o)
}

type statusRequest struct {
	Status order.Status `json:"status"`
}

func (s *Server) transitionOrder(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err, nil)
		return
	}
	o, err := s.svc.Orders.Transition(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	writeData(w, http.StatusOK, o)
}

func (s *Server) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.svc.Orders.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err, nil)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"id": id})
}

type validateResponse struct {
	EntityType entity.Kind `json:"entityType"`
	Valid      bool        `json:"valid"`
	Errors     any         `json:"errors"`
}

// validate runs the validation gate without persisting anything. Field errors are
// data here, not a failure.
func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	kind, err := entity.ParseKind(chi.URLParam(r, "entityType"))
	if err != nil {
		writeFailure(w, http.StatusNotFound, "UNKNOWN_ENTITY_TYPE", err.Error(), nil)
		return
	}

	var payload any
	switch kind {
	case entity.KindCity:
		payload = &city.Input{}
	case entity.KindBuilding:
		payload = &building.Input{}
	case entity.KindSpace:
		payload = &space.Input{}
	case entity.KindService:
		payload = &offering.Input{}
	case entity.KindOrder:
		payload = &order.Input{}
	}
	if err := decodeJSON(r, payload); err != nil {
		s.fail(w, r, err, nil)
		return
	}

	fields := s.svc.Validator.Validate(kind, payload)
	resp := validateResponse{EntityType: kind, Valid: len(fields) == 0, Errors: fields}
	if fields == nil {
		resp.Errors = []any{}
	}
	writeData(w, http.StatusOK, resp)
}

func (s *Server) listSequences(w http.ResponseWriter, r *http.Request) {
	counters, err := s.svc.Sequences.List(r.Context())
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	writeData(w, http.StatusOK, counters)
}

func (s *Server) listActivity(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	opts := activity.ListActivityOptions{
		Limit:  min(q.int("limit", 50), entity.MaxLimit),
		Offset: q.int("offset", 0),
	}
	if v := q.str("entityType"); v != "" {
		kind, err := entity.ParseKind(v)
		if err != nil {
			s.fail(w, r, errInvalidQuery, nil)
			return
		}
		opts.EntityType = &kind
	}
	if v := q.str("entityId"); v != "" {
		opts.EntityID = &v
	}
	if v := q.str("type"); v != "" {
		t := activity.ActivityType(v)
		opts.Type = &t
	}
	if q.err != nil {
		s.fail(w, r, q.err, nil)
		return
	}

	entries, err := s.svc.Activity.GetRecentActivity(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	if entries == nil {
		entries = []activity.ActivityEntry{}
	}
	writeData(w, http.StatusOK, entries)
}
