package handler

import (
	"github.com/journeygo/client/internal/net/packet"
)

// HandlePing answers a keep-alive.
func HandlePing(c Conn, _ *packet.Reader, _ *Deps) {
	c.Send(packet.NewWriterWithOpcode(packet.SendPong).Bytes())
}

// SendLogin announces the character to a channel server right after the
// handshake.
func SendLogin(c Conn, characterID int32) {
	w := packet.NewWriterWithOpcode(packet.SendPlayerLoggedIn)
	w.WriteInt(characterID)
	c.Send(w.Bytes())
}
