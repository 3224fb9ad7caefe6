package packet

// Server to client opcodes (v83).
const (
	RecvPing               uint16 = 0x11
	RecvInventoryOperation uint16 = 0x1D
	RecvSetField           uint16 = 0x7D
	RecvSpawnChar          uint16 = 0xA0
	RecvRemoveChar         uint16 = 0xA1
	RecvSpawnMob           uint16 = 0xEC
	RecvKillMob            uint16 = 0xED
	RecvSpawnMobController uint16 = 0xEE
	RecvSpawnNpc           uint16 = 0x101
	RecvSpawnNpcController uint16 = 0x103
	RecvDropLoot           uint16 = 0x10C
	RecvRemoveLoot         uint16 = 0x10D
	RecvHitReactor         uint16 = 0x115
	RecvSpawnReactor       uint16 = 0x117
	RecvRemoveReactor      uint16 = 0x118
)

// Client to server opcodes.
const (
	SendPlayerLoggedIn uint16 = 0x14
	SendPong           uint16 = 0x18
)
