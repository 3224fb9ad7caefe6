package handler

import (
	"go.uber.org/zap"

	"github.com/journeygo/client/internal/decode"
	"github.com/journeygo/client/internal/net/packet"
)

func HandleSpawnMob(r *packet.Reader, deps *Deps) {
	m, err := decode.ParseSpawnMob(r)
	if err != nil {
		deps.Log.Warn("spawn mob decode", zap.Error(err))
		return
	}
	deps.Stage.SpawnMob(m)
}

func HandleKillMob(r *packet.Reader, deps *Deps) {
	k, err := decode.ParseKillMob(r)
	if err != nil {
		deps.Log.Warn("kill mob decode", zap.Error(err))
		return
	}
	if !deps.Stage.KillMob(k.OID) {
		deps.Log.Debug("kill for unknown mob", zap.Int32("oid", k.OID))
	}
}

func HandleMobController(r *packet.Reader, deps *Deps) {
	c, err := decode.ParseMobController(r)
	if err != nil {
		deps.Log.Warn("mob controller decode", zap.Error(err))
		return
	}
	deps.Stage.ControlMob(c)
}

func HandleSpawnNpc(r *packet.Reader, deps *Deps) {
	n, err := decode.ParseSpawnNpc(r)
	if err != nil {
		deps.Log.Warn("spawn npc decode", zap.Error(err))
		return
	}
	deps.Stage.SpawnNpc(n)
}

func HandleNpcController(r *packet.Reader, deps *Deps) {
	c, err := decode.ParseNpcController(r)
	if err != nil {
		deps.Log.Warn("npc controller decode", zap.Error(err))
		return
	}
	deps.Stage.ControlNpc(c)
}

func HandleSpawnChar(r *packet.Reader, deps *Deps) {
	c, err := decode.ParseSpawnChar(r)
	if err != nil {
		deps.Log.Warn("spawn char decode", zap.Int32("character", c.ID), zap.Error(err))
		return
	}
	deps.Stage.SpawnChar(c)
}

func HandleRemoveChar(r *packet.Reader, deps *Deps) {
	id, err := decode.ParseRemoveChar(r)
	if err != nil {
		deps.Log.Warn("remove char decode", zap.Error(err))
		return
	}
	deps.Stage.RemoveChar(id)
}

func HandleDropLoot(r *packet.Reader, deps *Deps) {
	d, err := decode.ParseDropLoot(r)
	if err != nil {
		deps.Log.Warn("drop loot decode", zap.Error(err))
		return
	}
	deps.Stage.SpawnDrop(d)
}

func HandleRemoveLoot(r *packet.Reader, deps *Deps) {
	l, err := decode.ParseRemoveLoot(r)
	if err != nil {
		deps.Log.Warn("remove loot decode", zap.Error(err))
		return
	}
	deps.Stage.RemoveDrop(l.OID)
}

func HandleSpawnReactor(r *packet.Reader, deps *Deps) {
	re, err := decode.ParseSpawnReactor(r)
	if err != nil {
		deps.Log.Warn("spawn reactor decode", zap.Error(err))
		return
	}
	deps.Stage.SpawnReactor(re)
}

func HandleHitReactor(r *packet.Reader, deps *Deps) {
	re, err := decode.ParseReactorState(r)
	if err != nil {
		deps.Log.Warn("hit reactor decode", zap.Error(err))
		return
	}
	deps.Stage.HitReactor(re)
}

func HandleRemoveReactor(r *packet.Reader, deps *Deps) {
	re, err := decode.ParseReactorState(r)
	if err != nil {
		deps.Log.Warn("remove reactor decode", zap.Error(err))
		return
	}
	deps.Stage.RemoveReactor(re.OID)
}
