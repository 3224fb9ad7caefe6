package world

import (
	"github.com/journeygo/client/internal/character"
	"github.com/journeygo/client/internal/physics"
)

// Kind is the category of a map object. Kinds tick in declaration order.
type Kind uint8

const (
	KindReactor Kind = iota
	KindNpc
	KindMob
	KindChar
	KindDrop
	KindPlayer
	numKinds
)

// Kinds lists every kind in tick order.
var Kinds = [numKinds]Kind{KindReactor, KindNpc, KindMob, KindChar, KindDrop, KindPlayer}

func (k Kind) String() string {
	switch k {
	case KindReactor:
		return "reactor"
	case KindNpc:
		return "npc"
	case KindMob:
		return "mob"
	case KindChar:
		return "char"
	case KindDrop:
		return "drop"
	case KindPlayer:
		return "player"
	}
	return "unknown"
}

type DropState uint8

const (
	DropDropped  DropState = iota // in flight
	DropFloating                  // resting on the ground
)

// MapObject is the component every stage entity carries. Fields after Phys
// only apply to some kinds.
type MapObject struct {
	Kind       Kind
	OID        int32
	TemplateID int32
	Stance     int8
	Phys       physics.Object

	// mobs and npcs
	Controlled bool
	Team       int8
	Flip       bool

	// chars and the player
	Name  string
	Level int16
	Job   int16
	Look  *character.Look

	// drops
	Meso      bool
	Owner     int32
	Dest      physics.Point
	DropState DropState

	// reactors
	ReactorState int8
}
