package handler

import (
	"go.uber.org/zap"

	"github.com/journeygo/client/internal/character"
	"github.com/journeygo/client/internal/core/event"
	"github.com/journeygo/client/internal/decode"
	"github.com/journeygo/client/internal/net/packet"
)

// HandleSetField applies a field transition. A full character entry replaces
// the character state, even when some sections failed; a map change only
// reloads the stage.
func HandleSetField(c Conn, r *packet.Reader, deps *Deps) {
	fresh := character.NewState(deps.Config.Decoder.DefaultSlotLimit)
	sf, err := decode.ParseSetField(r, fresh, deps.Limits)
	if err != nil {
		logDecodeError(deps.Log, "set field decode", err)
	}
	if sf.MapFallback {
		deps.Log.Warn("set field carried an unusable map, using the default",
			zap.Int32("map", sf.MapID))
	}

	if !sf.ChangeMap {
		if fresh.ID == 0 {
			// the entry header itself was unreadable
			return
		}
		*deps.Character = *fresh
		deps.Stage.SetPlayer(fresh.ID, fresh.Stats.Name)
		c.SetState(packet.StateInWorld)
		if deps.Bus != nil {
			event.Emit(deps.Bus, event.CharacterEntered{
				CharacterID: fresh.ID,
				MapID:       sf.MapID,
				Partial:     err != nil,
			})
		}
		deps.Log.Info("character entered",
			zap.Int32("character", fresh.ID),
			zap.String("name", fresh.Stats.Name),
			zap.Uint8("level", fresh.Stats.Level),
			zap.Int("items", fresh.Inventory.Total()),
			zap.Int("skills", fresh.Skills.Len()),
			zap.Bool("partial", err != nil),
		)
	} else if err != nil {
		return
	}

	deps.Character.Stats.MapID = sf.MapID
	deps.Character.Stats.Portal = sf.Portal
	pos := deps.Stage.Load(sf.MapID, sf.Portal)
	deps.Log.Info("map loaded",
		zap.Int32("map", sf.MapID),
		zap.Uint8("portal", sf.Portal),
		zap.Float64("x", pos.X),
		zap.Float64("y", pos.Y),
	)
}
