package mcp

import (
	"context"
	"encoding/json"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolDefinition describes one MCP tool.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]any
}

func object(props map[string]any, required ...string) map[string]any {
	schema := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func prop(typ, description string) map[string]any {
	return map[string]any{"type": typ, "description": description}
}

func enum(description string, values ...string) map[string]any {
	return map[string]any{"type": "string", "description": description, "enum": values}
}

func withPaging(props map[string]any) map[string]any {
	props["limit"] = prop("integer", "Maximum number of results (default 50, max 200)")
	props["offset"] = prop("integer", "Offset for pagination")
	props["sort"] = prop("string", "Sort field, prefix with - for descending")
	return props
}

var brands = []string{"NextSpace", "UnionSpace", "CoSpace"}

var spaceTypes = []string{"private_office", "meeting_room", "hot_desk", "dedicated_desk", "event_space"}

func locationSchema() map[string]any {
	return object(map[string]any{
		"address":    prop("string", "Street address"),
		"city":       prop("string", "City name; an unknown city is created automatically"),
		"province":   prop("string", "Province"),
		"postalCode": prop("string", "Postal code"),
		"latitude":   prop("number", "Latitude in [-90, 90]"),
		"longitude":  prop("number", "Longitude in [-180, 180]"),
	}, "address", "city", "province")
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		// Cities
		{
			Name:        "list_cities",
			Description: "List cities with their building and space statistics",
			InputSchema: object(withPaging(map[string]any{
				"province":  prop("string", "Filter by province"),
				"q":         prop("string", "Name contains"),
				"is_active": prop("boolean", "Filter by active flag"),
			})),
		},
		{
			Name:        "get_city",
			Description: "Get one city including its statistics",
			InputSchema: object(map[string]any{"id": prop("string", "City ID, e.g. CIT25001")}, "id"),
		},
		{
			Name:        "create_city",
			Description: "Create a city. Names are unique, case-insensitively",
			InputSchema: object(map[string]any{
				"name":      prop("string", "City name"),
				"province":  prop("string", "Province"),
				"country":   prop("string", "Country (default Indonesia)"),
				"latitude":  prop("number", "Latitude in [-90, 90]"),
				"longitude": prop("number", "Longitude in [-180, 180]"),
				"isActive":  prop("boolean", "Active flag (default true)"),
			}, "name", "province"),
		},

		// Buildings
		{
			Name:        "list_buildings",
			Description: "List buildings, optionally filtered by city, brand and active flag",
			InputSchema: object(withPaging(map[string]any{
				"city_id":   prop("string", "Filter by city ID"),
				"brand":     enum("Filter by brand", brands...),
				"q":         prop("string", "Name contains"),
				"is_active": prop("boolean", "Filter by active flag"),
			})),
		},
		{
			Name:        "create_building",
			Description: "Create a building. Without cityId the city is resolved from location.city and created when unknown",
			InputSchema: object(map[string]any{
				"cityId":      prop("string", "Existing city ID (optional)"),
				"name":        prop("string", "Building name, unique within its city"),
				"brand":       enum("Brand", brands...),
				"location":    locationSchema(),
				"description": prop("string", "Free text"),
				"isActive":    prop("boolean", "Active flag (default true)"),
			}, "name", "brand", "location"),
		},
		{
			Name:        "set_building_active",
			Description: "Activate or deactivate a building; city statistics follow",
			InputSchema: object(map[string]any{
				"id":        prop("string", "Building ID"),
				"is_active": prop("boolean", "New active flag"),
			}, "id", "is_active"),
		},
		{
			Name:        "delete_building",
			Description: "Delete a building without spaces. Its city is kept",
			InputSchema: object(map[string]any{"id": prop("string", "Building ID")}, "id"),
		},

		// Spaces
		{
			Name:        "list_spaces",
			Description: "List spaces, optionally filtered by building, city, type and active flag",
			InputSchema: object(withPaging(map[string]any{
				"building_id": prop("string", "Filter by building ID"),
				"city_id":     prop("string", "Filter by city ID"),
				"type":        enum("Filter by space type", spaceTypes...),
				"is_active":   prop("boolean", "Filter by active flag"),
			})),
		},
		{
			Name:        "create_space",
			Description: "Create a space inside an existing building",
			InputSchema: object(map[string]any{
				"buildingId":   prop("string", "Building ID"),
				"name":         prop("string", "Space name, unique within its building"),
				"brand":        enum("Brand (defaults to the building's)", brands...),
				"type":         enum("Space type (default private_office)", spaceTypes...),
				"capacity":     prop("integer", "Seats, 1 to 1000"),
				"pricePerHour": prop("number", "Hourly price"),
				"description":  prop("string", "Free text"),
				"isActive":     prop("boolean", "Active flag (default true)"),
			}, "buildingId", "name", "capacity"),
		},
		{
			Name:        "set_space_active",
			Description: "Activate or deactivate a space; city statistics follow",
			InputSchema: object(map[string]any{
				"id":        prop("string", "Space ID"),
				"is_active": prop("boolean", "New active flag"),
			}, "id", "is_active"),
		},
		{
			Name:        "delete_space",
			Description: "Delete a space without orders",
			InputSchema: object(map[string]any{"id": prop("string", "Space ID")}, "id"),
		},

		// Inspection
		{
			Name:        "validate_entity",
			Description: "Check a payload against the validation rules without saving it; returns every violation",
			InputSchema: object(map[string]any{
				"entity_type": enum("Entity type", "city", "building", "space", "service", "order"),
				"payload":     map[string]any{"type": "object", "description": "The create payload to check"},
			}, "entity_type", "payload"),
		},
		{
			Name:        "list_sequences",
			Description: "List ID sequence counters per entity type and year",
			InputSchema: object(map[string]any{}),
		},
		{
			Name:        "recent_activity",
			Description: "Recent admin activity, newest first, including statistics warnings",
			InputSchema: object(map[string]any{
				"entity_type": enum("Filter by entity type", "city", "building", "space", "service", "order"),
				"entity_id":   prop("string", "Filter by entity ID"),
				"limit":       prop("integer", "Maximum number of entries (default 50)"),
			}),
		},
	}
}

// registerTools adds every catalog tool to the server, dispatching through h.
func registerTools(server *sdkmcp.Server, h *Handler) {
	for _, def := range buildToolCatalog() {
		name := def.Name
		server.AddTool(&sdkmcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}, func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
			var args json.RawMessage
			if req != nil && req.Params != nil {
				args = req.Params.Arguments
			}
			result, err := h.Handle(ctx, name, args)
			if err != nil {
				return toolResult(err, true), nil
			}
			return toolResult(result, false), nil
		})
	}
}

func toolResult(payload any, isError bool) *sdkmcp.CallToolResult {
	data, err := json.Marshal(payload)
	if err != nil {
		data = []byte(`{"code":"INTERNAL","message":"unencodable result"}`)
		isError = true
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
		IsError: isError,
	}
}
