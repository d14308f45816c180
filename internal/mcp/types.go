package mcp

import (
	"encoding/json"

	"github.com/rpggio/spacedesk/internal/domain/entity"
)

type PageParams struct {
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
	Sort   string `json:"sort,omitempty"`
}

func (p PageParams) page() entity.Page {
	return entity.Page{Limit: p.Limit, Offset: p.Offset, Sort: p.Sort}
}

type ListCitiesParams struct {
	Province string `json:"province,omitempty"`
	Query    string `json:"q,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
	PageParams
}

type IDParams struct {
	ID string `json:"id"`
}

type ListBuildingsParams struct {
	CityID   string `json:"city_id,omitempty"`
	Brand    string `json:"brand,omitempty"`
	Query    string `json:"q,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
	PageParams
}

type ListSpacesParams struct {
	BuildingID string `json:"building_id,omitempty"`
	CityID     string `json:"city_id,omitempty"`
	Type       string `json:"type,omitempty"`
	IsActive   *bool  `json:"is_active,omitempty"`
	PageParams
}

type SetActiveParams struct {
	ID       string `json:"id"`
	IsActive bool   `json:"is_active"`
}

type ValidateEntityParams struct {
	EntityType string          `json:"entity_type"`
	Payload    json.RawMessage `json:"payload"`
}

type RecentActivityParams struct {
	EntityType string `json:"entity_type,omitempty"`
	EntityID   string `json:"entity_id,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

// ListResponse is the result of every list_* tool.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

type ValidateEntityResponse struct {
	EntityType entity.Kind `json:"entity_type"`
	Valid      bool        `json:"valid"`
	Errors     any         `json:"errors"`
}

type DeleteResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}
