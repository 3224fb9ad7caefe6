package handler

import (
	"go.uber.org/zap"

	"github.com/journeygo/client/internal/decode"
	"github.com/journeygo/client/internal/net/packet"
)

// HandleInventoryOperation applies an inventory modification to the
// character. Entries decoded before a failure are still applied.
func HandleInventoryOperation(r *packet.Reader, deps *Deps) {
	ops, err := decode.ParseInventoryOps(r)
	if err != nil {
		logDecodeError(deps.Log, "inventory operation decode", err)
	}
	if len(ops) == 0 {
		return
	}
	if err := decode.ApplyInventoryOps(deps.Character.Inventory, ops); err != nil {
		deps.Log.Warn("inventory operation apply",
			zap.Int("entries", len(ops)),
			zap.Error(err),
		)
	}
}
