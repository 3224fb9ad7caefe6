package net

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/journeygo/client/internal/net/packet"
)

// Handshake is the plaintext hello the server sends right after accepting.
type Handshake struct {
	Version uint16
	Patch   string
	SendIV  [4]byte
	RecvIV  [4]byte
	Locale  byte
}

// ReadHandshake reads the uint16 length-prefixed hello from r.
func ReadHandshake(r io.Reader) (Handshake, error) {
	var lenBuf [2]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return Handshake{}, fmt.Errorf("read handshake length: %w", err)
	}
	n := int(binary.LittleEndian.Uint16(lenBuf[:]))
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Handshake{}, fmt.Errorf("read handshake payload (%d bytes): %w", n, err)
	}
	return ParseHandshake(payload)
}

// ParseHandshake decodes a hello payload without its length prefix.
func ParseHandshake(payload []byte) (Handshake, error) {
	r := packet.NewReader(payload)
	var hs Handshake
	hs.Version = r.ReadUShort()
	hs.Patch = r.ReadString()
	copy(hs.SendIV[:], r.ReadBytes(4))
	copy(hs.RecvIV[:], r.ReadBytes(4))
	hs.Locale = r.ReadUint8()
	if err := r.Err(); err != nil {
		return Handshake{}, fmt.Errorf("parse handshake: %w", err)
	}
	return hs, nil
}

// Bytes encodes the hello including its length prefix.
func (hs Handshake) Bytes() []byte {
	w := packet.NewWriter()
	w.WriteUShort(hs.Version)
	w.WriteString(hs.Patch)
	w.WriteBytes(hs.SendIV[:])
	w.WriteBytes(hs.RecvIV[:])
	w.WriteUint8(hs.Locale)
	body := w.Bytes()
	out := packet.NewWriter()
	out.WriteUShort(uint16(len(body)))
	out.WriteBytes(body)
	return out.Bytes()
}
