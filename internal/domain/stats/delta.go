package stats

import "fmt"

// DeltaFor maps an event to the counter change it implies.
func DeltaFor(ev Event) (Delta, error) {
	var total, active int64
	switch ev.Kind {
	case EventCreated:
		total = 1
		if ev.Active {
			active = 1
		}
	case EventDeleted:
		total = -1
		if ev.Active {
			active = -1
		}
	case EventActivated:
		active = 1
	case EventDeactivated:
		active = -1
	default:
		return Delta{}, fmt.Errorf("%w: unknown event %q", ErrInvalidInput, ev.Kind)
	}

	switch ev.Child {
	case ChildBuilding:
		return Delta{TotalBuildings: total, ActiveBuildings: active}, nil
	case ChildSpace:
		return Delta{TotalSpaces: total, ActiveSpaces: active}, nil
	default:
		return Delta{}, fmt.Errorf("%w: unknown child type %q", ErrInvalidInput, ev.Child)
	}
}

// Apply adds d to s, clamping every counter at zero and each active counter at its total.
// It reports whether any clamp was needed. Stores use the same rule in their atomic update.
func (s Statistics) Apply(d Delta) (Statistics, bool) {
	clamped := false
	clamp := func(v, max int64) int64 {
		if v < 0 {
			clamped = true
			return 0
		}
		if v > max {
			clamped = true
			return max
		}
		return v
	}
	var out Statistics
	out.TotalBuildings = clamp(s.TotalBuildings+d.TotalBuildings, 1<<62)
	out.ActiveBuildings = clamp(s.ActiveBuildings+d.ActiveBuildings, out.TotalBuildings)
	out.TotalSpaces = clamp(s.TotalSpaces+d.TotalSpaces, 1<<62)
	out.ActiveSpaces = clamp(s.ActiveSpaces+d.ActiveSpaces, out.TotalSpaces)
	return out, clamped
}
