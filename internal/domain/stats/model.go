package stats

import "time"

// ChildType is the kind of city child whose lifecycle drives the counters.
type ChildType string

const (
	ChildBuilding ChildType = "building"
	ChildSpace    ChildType = "space"
)

// EventKind names a child lifecycle event.
type EventKind string

const (
	EventCreated     EventKind = "created"
	EventActivated   EventKind = "activated"
	EventDeactivated EventKind = "deactivated"
	EventDeleted     EventKind = "deleted"
)

// Statistics are the denormalized counters stored on a city.
type Statistics struct {
	TotalBuildings  int64 `json:"totalBuildings"`
	ActiveBuildings int64 `json:"activeBuildings"`
	TotalSpaces     int64 `json:"totalSpaces"`
	ActiveSpaces    int64 `json:"activeSpaces"`
}

// Consistent reports whether 0 <= active <= total holds for both child types.
func (s Statistics) Consistent() bool {
	return s.ActiveBuildings >= 0 && s.ActiveBuildings <= s.TotalBuildings &&
		s.ActiveSpaces >= 0 && s.ActiveSpaces <= s.TotalSpaces
}

// Event is one child lifecycle change. Active is the child's state after creation,
// after the toggle, or before deletion.
type Event struct {
	ID     string    `json:"id"`
	CityID string    `json:"cityId"`
	Child  ChildType `json:"childType"`
	Kind   EventKind `json:"event"`
	Active bool      `json:"active"`
}

// Delta is the signed change an event makes to a city's counters.
type Delta struct {
	TotalBuildings  int64 `json:"totalBuildings"`
	ActiveBuildings int64 `json:"activeBuildings"`
	TotalSpaces     int64 `json:"totalSpaces"`
	ActiveSpaces    int64 `json:"activeSpaces"`
}

// ApplyResult reports what the store did with a delta.
type ApplyResult struct {
	Statistics Statistics
	// Clamped is set when a counter would have gone below zero or active would have exceeded total.
	Clamped bool
	// Duplicate is set when the event id had already been applied; nothing changed.
	Duplicate bool
	// CreatedCity is set when a placeholder city was created for the event.
	CreatedCity bool
}

// EventRecord is a ledger row of an applied event.
type EventRecord struct {
	Event
	Delta     Delta     `json:"delta"`
	Clamped   bool      `json:"clamped"`
	CreatedAt time.Time `json:"createdAt"`
}
