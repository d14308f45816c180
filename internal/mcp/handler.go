package mcp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rpggio/spacedesk/internal/domain/activity"
	"github.com/rpggio/spacedesk/internal/domain/building"
	"github.com/rpggio/spacedesk/internal/domain/city"
	"github.com/rpggio/spacedesk/internal/domain/entity"
	"github.com/rpggio/spacedesk/internal/domain/offering"
	"github.com/rpggio/spacedesk/internal/domain/order"
	"github.com/rpggio/spacedesk/internal/domain/sequence"
	"github.com/rpggio/spacedesk/internal/domain/space"
	"github.com/rpggio/spacedesk/internal/domain/validation"
)

// CityService defines city operations needed by MCP.
type CityService interface {
	Create(ctx context.Context, in city.Input) (*city.City, error)
	Get(ctx context.Context, id string) (*city.City, error)
	List(ctx context.Context, opts city.ListOptions) ([]city.City, int, error)
}

// BuildingService defines building operations needed by MCP.
type BuildingService interface {
	Create(ctx context.Context, in building.Input) (*building.Building, error)
	List(ctx context.Context, opts building.ListOptions) ([]building.Building, int, error)
	SetActive(ctx context.Context, id string, active bool) (*building.Building, error)
	Delete(ctx context.Context, id string) error
}

// SpaceService defines space operations needed by MCP.
type SpaceService interface {
	Create(ctx context.Context, in space.Input) (*space.Space, error)
	List(ctx context.Context, opts space.ListOptions) ([]space.Space, int, error)
	SetActive(ctx context.Context, id string, active bool) (*space.Space, error)
	Delete(ctx context.Context, id string) error
}

// Validator runs the validation gate.
type Validator interface {
	Validate(kind entity.Kind, payload any) []validation.FieldError
}

// SequenceService lists allocation counters.
type SequenceService interface {
	List(ctx context.Context) ([]sequence.Counter, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Cities    CityService
	Buildings BuildingService
	Spaces    SpaceService
	Validator Validator
	Sequences SequenceService
	Activity  ActivityService
}

// Handler dispatches MCP tool calls.
type Handler struct {
	svc Services
}

// NewHandler creates a new MCP handler.
func NewHandler(svc Services) *Handler {
	return &Handler{svc: svc}
}

// Handle dispatches a tool call to the domain services. Errors are *APIError.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	result, err := h.dispatch(ctx, method, params)
	return result, mapError(err)
}

func (h *Handler) dispatch(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case "list_cities":
		var req ListCitiesParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		items, total, err := h.svc.Cities.List(ctx, city.ListOptions{
			Province: req.Province,
			Query:    req.Query,
			IsActive: req.IsActive,
			Page:     req.page(),
		})
		if err != nil {
			return nil, err
		}
		return ListResponse[city.City]{Items: items, Total: total}, nil
	case "get_city":
		var req IDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.ID == "" {
			return nil, invalidParams("id is required")
		}
		return h.svc.Cities.Get(ctx, req.ID)
	case "create_city":
		var req city.Input
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.Cities.Create(ctx, req)

	case "list_buildings":
		var req ListBuildingsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		items, total, err := h.svc.Buildings.List(ctx, building.ListOptions{
			CityID:   req.CityID,
			Brand:    req.Brand,
			Query:    req.Query,
			IsActive: req.IsActive,
			Page:     req.page(),
		})
		if err != nil {
			return nil, err
		}
		return ListResponse[building.Building]{Items: items, Total: total}, nil
	case "create_building":
		var req building.Input
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.Buildings.Create(ctx, req)
	case "set_building_active":
		var req SetActiveParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.Buildings.SetActive(ctx, req.ID, req.IsActive)
	case "delete_building":
		var req IDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.svc.Buildings.Delete(ctx, req.ID); err != nil {
			return nil, err
		}
		return DeleteResponse{ID: req.ID, Deleted: true}, nil

	case "list_spaces":
		var req ListSpacesParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		items, total, err := h.svc.Spaces.List(ctx, space.ListOptions{
			BuildingID: req.BuildingID,
			CityID:     req.CityID,
			Type:       space.Type(req.Type),
			IsActive:   req.IsActive,
			Page:       req.page(),
		})
		if err != nil {
			return nil, err
		}
		return ListResponse[space.Space]{Items: items, Total: total}, nil
	case "create_space":
		var req space.Input
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.Spaces.Create(ctx, req)
	case "set_space_active":
		var req SetActiveParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.Spaces.SetActive(ctx, req.ID, req.IsActive)
	case "delete_space":
		var req IDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.svc.Spaces.Delete(ctx, req.ID); err != nil {
			return nil, err
		}
		return DeleteResponse{ID: req.ID, Deleted: true}, nil

	case "validate_entity":
		var req ValidateEntityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.validate(req)
	case "list_sequences":
		return h.svc.Sequences.List(ctx)
	case "recent_activity":
		var req RecentActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		opts := activity.ListActivityOptions{Limit: req.Limit}
		if req.EntityType != "" {
			kind, err := entity.ParseKind(req.EntityType)
			if err != nil {
				return nil, invalidParams("%v", err)
			}
			opts.EntityType = &kind
		}
		if req.EntityID != "" {
			opts.EntityID = &req.EntityID
		}
		return h.svc.Activity.GetRecentActivity(ctx, opts)
	default:
		return nil, &APIError{Code: "UNKNOWN_TOOL", Message: "unknown tool " + method}
	}
}

func (h *Handler) validate(req ValidateEntityParams) (any, error) {
	kind, err := entity.ParseKind(strings.TrimSpace(req.EntityType))
	if err != nil {
		return nil, invalidParams("%v", err)
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
	if len(req.Payload) > 0 {
		if err := json.Unmarshal(req.Payload, payload); err != nil {
			return nil, invalidParams("payload: %v", err)
		}
	}
	fields := h.svc.Validator.Validate(kind, payload)
	resp := ValidateEntityResponse{EntityType: kind, Valid: len(fields) == 0, Errors: fields}
	if fields == nil {
		resp.Errors = []validation.FieldError{}
	}
	return resp, nil
}

func decodeParams(params json.RawMessage, dst any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, dst); err != nil {
		return invalidParams("invalid params: %v", err)
	}
	return nil
}
