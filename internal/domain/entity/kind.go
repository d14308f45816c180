package entity

import "fmt"

// Kind identifies a document collection.
type Kind string

const (
	KindCity     Kind = "city"
	KindBuilding Kind = "building"
	KindSpace    Kind = "space"
	KindService  Kind = "service"
	KindOrder    Kind = "order"
)

var prefixes = map[Kind]string{
	KindCity:     "CIT",
	KindBuilding: "BLD",
	KindSpace:    "SPC",
	KindService:  "SRV",
	KindOrder:    "ORD",
}

// Kinds lists every known kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindCity, KindBuilding, KindSpace, KindService, KindOrder}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := prefixes[k]
	return ok
}

// Prefix returns the three-letter ID prefix for k.
func (k Kind) Prefix() string {
	return prefixes[k]
}

// ParseKind accepts both singular kinds and collection names ("spaces", "services").
func ParseKind(s string) (Kind, error) {
	switch s {
	case "city", "cities":
		return KindCity, nil
	case "building", "buildings":
		return KindBuilding, nil
	case "space", "spaces":
		return KindSpace, nil
	case "service", "services":
		return KindService, nil
	case "order", "orders":
		return KindOrder, nil
	}
	return "", fmt.Errorf("unknown entity type %q", s)
}
