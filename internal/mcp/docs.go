package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `spacedesk administers a co-working operator's cities, buildings and spaces.

Model:
- City: holds statistics {totalBuildings, activeBuildings, totalSpaces, activeSpaces}. The counters are maintained by the server; never try to set them.
- Building: belongs to a city. Creating one with an unknown location.city creates that city.
- Space: belongs to a building and follows its city.
- IDs look like BLD25001: prefix, two-digit year, sequence. They are assigned by the server.

Workflow:
1) Orient: list_cities, then list_buildings with city_id.
2) Before a create, validate_entity returns every field problem at once.
3) create_building / create_space; set_*_active toggles; delete_* removes (buildings must be empty).
4) recent_activity shows who changed what, plus statistics warnings.

Docs:
- spacedesk://docs/index
- spacedesk://docs/ids
- spacedesk://docs/statistics
- spacedesk://docs/errors
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "spacedesk://docs/index",
		Name:        "docs_index",
		Title:       "spacedesk docs index",
		Description: "What the other docs cover.",
		Content: `# spacedesk docs

- **ids**: how entity IDs are assigned and why they never repeat.
- **statistics**: how city counters follow building and space changes.
- **errors**: error codes returned by tools and what to do about them.

Collections: cities, buildings, spaces, services (add-on offerings) and orders.
Tools cover cities, buildings and spaces; services and orders are managed over the REST API.
`,
	},
	{
		URI:         "spacedesk://docs/ids",
		Name:        "docs_ids",
		Title:       "Entity IDs",
		Description: "Format and allocation of entity IDs.",
		Content: `# Entity IDs

Format: ` + "`<PREFIX><YY><NNN>`" + `

| Prefix | Entity |
|---|---|
| CIT | city |
| BLD | building |
| SPC | space |
| SRV | service |
| ORD | order |

- YY is the year of creation modulo 100.
- NNN is at least three digits; the 1000th space of 2025 is SPC251000.
- Each (entity type, year) has its own counter. A new year starts again at 001.
- Counters only grow. A failed create can leave a gap; an ID is never handed out twice.

list_sequences shows the last issued number per counter.
`,
	},
	{
		URI:         "spacedesk://docs/statistics",
		Name:        "docs_statistics",
		Title:       "City statistics",
		Description: "How building and space events update city counters.",
		Content: `# City statistics

Every building or space change is one event applied atomically to its city:

| Event | total | active |
|---|---|---|
| created (active) | +1 | +1 |
| created (inactive) | +1 | 0 |
| activated | 0 | +1 |
| deactivated | 0 | -1 |
| deleted (was active) | -1 | -1 |
| deleted (was inactive) | -1 | 0 |

- Counters never go below zero and active never exceeds total. When an event would break
  that, the value is clamped and a statistics_clamped entry appears in recent_activity.
- An event for an unknown city creates a placeholder city with an empty name.
- Moving a building to another city is a delete on the old city and a create on the new one.
- If a save succeeds but its statistics update does not, the tool returns
  STATISTICS_OUT_OF_SYNC. The entity exists; an operator can compare counters with a
  recount using ` + "`spacedesk stats verify`" + `.
`,
	},
	{
		URI:         "spacedesk://docs/errors",
		Name:        "docs_errors",
		Title:       "Error codes",
		Description: "Tool error codes and recovery hints.",
		Content: `# Error codes

| Code | Meaning |
|---|---|
| VALIDATION_FAILED | details lists every {field, message} |
| CITY_NOT_FOUND, BUILDING_NOT_FOUND, SPACE_NOT_FOUND | unknown id |
| DUPLICATE_NAME | name already used in its scope |
| BUILDING_HAS_SPACES, CITY_HAS_BUILDINGS, SPACE_HAS_ORDERS | delete the children first |
| RETRYABLE_CONFLICT | storage was busy; repeat the call |
| STATISTICS_OUT_OF_SYNC | saved, but city counters were not updated |
| INVALID_PARAMS | arguments did not decode |
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
