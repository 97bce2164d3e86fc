// Package block defines block types, their face textures and the immutable
// Block value stored in chunks.
package block

import (
	"errors"
	"fmt"
)

// Type is a block variant. Its value is the persistent id.
type Type uint32

const (
	Grass Type = iota
	Dirt
	Water
	Wood
	Leaf
	Stone
	Sand
)

// MaxID is the largest valid block type id.
const MaxID = 6

// ErrInvalidID is wrapped by the panic raised for an unknown id.
var ErrInvalidID = errors.New("invalid block type id")

// Config is the static per-type table entry.
type Config struct {
	ID uint32
	// Textures holds atlas indices for the lateral, top and bottom faces.
	Textures    [3]uint32
	Translucent bool
}

var configs = [MaxID + 1]Config{
	Grass: {ID: 0, Textures: [3]uint32{6, 7, 8}},
	Dirt:  {ID: 1, Textures: [3]uint32{0, 0, 0}},
	Water: {ID: 2, Textures: [3]uint32{1, 1, 1}, Translucent: true},
	Wood:  {ID: 3, Textures: [3]uint32{4, 5, 5}},
	Leaf:  {ID: 4, Textures: [3]uint32{2, 2, 2}},
	Stone: {ID: 5, Textures: [3]uint32{3, 3, 3}},
	Sand:  {ID: 6, Textures: [3]uint32{9, 9, 9}},
}

var names = [MaxID + 1]string{"grass", "dirt", "water", "wood", "leaf", "stone", "sand"}

// FromID returns the type with the given id. It panics with an error wrapping
// ErrInvalidID for ids above MaxID.
func FromID(id uint32) Type {
	if id > MaxID {
		panic(fmt.Errorf("block type %d: %w", id, ErrInvalidID))
	}
	return Type(id)
}

// Config returns the table entry for t.
func (t Type) Config() Config { return configs[t] }

// ID returns the persistent id of t.
func (t Type) ID() uint32 { return configs[t].ID }

// Translucent reports whether t is drawn in the blended pass.
func (t Type) Translucent() bool { return configs[t].Translucent }

// Occludes reports whether t darkens neighbouring vertices.
func (t Type) Occludes() bool { return t != Water }

func (t Type) String() string {
	if t > MaxID {
		return fmt.Sprintf("type(%d)", uint32(t))
	}
	return names[t]
}
