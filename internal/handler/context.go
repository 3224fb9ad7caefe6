package handler

import (
	"errors"

	"go.uber.org/zap"

	"github.com/journeygo/client/internal/character"
	"github.com/journeygo/client/internal/config"
	"github.com/journeygo/client/internal/core/event"
	"github.com/journeygo/client/internal/decode"
	"github.com/journeygo/client/internal/net/packet"
	"github.com/journeygo/client/internal/world"
)

// Conn is the part of a session the handlers use. *net.Session implements
// it; the replay tool uses a sink that drops outbound messages.
type Conn interface {
	Send(data []byte)
	State() packet.SessionState
	SetState(packet.SessionState)
}

// Deps holds shared dependencies injected into all message handlers.
type Deps struct {
	Config    *config.Config
	Log       *zap.Logger
	Stage     *world.Stage
	Character *character.State
	Bus       *event.Bus
	Limits    decode.Limits
}

// NewDeps wires handler dependencies from the configuration.
func NewDeps(cfg *config.Config, stage *world.Stage, bus *event.Bus, log *zap.Logger) *Deps {
	return &Deps{
		Config:    cfg,
		Log:       log,
		Stage:     stage,
		Character: character.NewState(cfg.Decoder.DefaultSlotLimit),
		Bus:       bus,
		Limits:    decode.LimitsFromConfig(cfg.Decoder),
	}
}

// RegisterAll registers all message handlers into the registry.
func RegisterAll(reg *packet.Registry, deps *Deps) {
	anyStates := []packet.SessionState{packet.StateConnected, packet.StateInWorld}
	inWorld := []packet.SessionState{packet.StateInWorld}

	reg.Register(packet.RecvPing, anyStates,
		func(sess any, r *packet.Reader) {
			HandlePing(sess.(Conn), r, deps)
		},
	)
	reg.Register(packet.RecvSetField, anyStates,
		func(sess any, r *packet.Reader) {
			HandleSetField(sess.(Conn), r, deps)
		},
	)

	reg.Register(packet.RecvInventoryOperation, inWorld,
		func(sess any, r *packet.Reader) { HandleInventoryOperation(r, deps) })

	// Map objects
	reg.Register(packet.RecvSpawnMob, inWorld,
		func(sess any, r *packet.Reader) { HandleSpawnMob(r, deps) })
	reg.Register(packet.RecvKillMob, inWorld,
		func(sess any, r *packet.Reader) { HandleKillMob(r, deps) })
	reg.Register(packet.RecvSpawnMobController, inWorld,
		func(sess any, r *packet.Reader) { HandleMobController(r, deps) })
	reg.Register(packet.RecvSpawnNpc, inWorld,
		func(sess any, r *packet.Reader) { HandleSpawnNpc(r, deps) })
	reg.Register(packet.RecvSpawnNpcController, inWorld,
		func(sess any, r *packet.Reader) { HandleNpcController(r, deps) })
	reg.Register(packet.RecvSpawnChar, inWorld,
		func(sess any, r *packet.Reader) { HandleSpawnChar(r, deps) })
	reg.Register(packet.RecvRemoveChar, inWorld,
		func(sess any, r *packet.Reader) { HandleRemoveChar(r, deps) })
	reg.Register(packet.RecvDropLoot, inWorld,
		func(sess any, r *packet.Reader) { HandleDropLoot(r, deps) })
	reg.Register(packet.RecvRemoveLoot, inWorld,
		func(sess any, r *packet.Reader) { HandleRemoveLoot(r, deps) })
	reg.Register(packet.RecvSpawnReactor, inWorld,
		func(sess any, r *packet.Reader) { HandleSpawnReactor(r, deps) })
	reg.Register(packet.RecvHitReactor, inWorld,
		func(sess any, r *packet.Reader) { HandleHitReactor(r, deps) })
	reg.Register(packet.RecvRemoveReactor, inWorld,
		func(sess any, r *packet.Reader) { HandleRemoveReactor(r, deps) })
}

// logDecodeError logs one line per failed section, falling back to a single
// line for errors that carry no section.
func logDecodeError(log *zap.Logger, msg string, err error) {
	var sections []*decode.SectionError
	collectSections(err, &sections)
	if len(sections) == 0 {
		log.Warn(msg, zap.Error(err))
		return
	}
	for _, se := range sections {
		log.Warn(msg,
			zap.String("section", se.Section),
			zap.Int("offset", se.Offset),
			zap.Int("remaining", se.Remaining),
			zap.Error(se.Err),
		)
	}
}

func collectSections(err error, out *[]*decode.SectionError) {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			collectSections(e, out)
		}
		return
	}
	var se *decode.SectionError
	if errors.As(err, &se) {
		*out = append(*out, se)
	}
}
