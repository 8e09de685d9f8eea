// Package environment holds the objects the cat can sense and the registry
// that owns them.
package environment

import (
	"strings"

	"github.com/talgya/catsim/internal/world"
)

// ObjectID is a stable handle into the registry. IDs are never reused.
type ObjectID uint32

// Kind enumerates environment object types.
type Kind uint8

const (
	KindFood Kind = iota
	KindWater
	KindShelter
	KindToy
	KindHuman
	KindPredator
	KindPrey
	KindObstacle
)

// NumKinds is the total number of object kinds.
const NumKinds = 8

// DefaultResource is the resource value given to every spawned object.
const DefaultResource = 10

var kindNames = [NumKinds]string{
	"food", "water", "shelter", "toy", "human", "predator", "prey", "obstacle",
}

// String returns the lowercase kind name used in config and the API.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// MarshalText encodes the kind as its name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseKind looks up a kind by name, case-insensitively.
func ParseKind(name string) (Kind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}

// KindNames returns every kind name in enum order.
func KindNames() []string {
	out := make([]string, len(kindNames))
	copy(out, kindNames[:])
	return out
}

// Consumable reports whether eating can deactivate objects of this kind.
func (k Kind) Consumable() bool {
	return k == KindFood || k == KindWater
}

// Object is a located, resource-bearing thing on the grid.
type Object struct {
	ID       ObjectID       `json:"id"`
	Position world.Position `json:"position"`
	Kind     Kind           `json:"kind"`
	Resource int            `json:"resource"`
	Active   bool           `json:"active"`
}
