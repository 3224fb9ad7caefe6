package net

import (
	"fmt"
	"io"
)

// HeaderSize is the size of the obfuscated length header in front of every
// framed message after the handshake.
const HeaderSize = 4

// MaxMessageSize bounds a single message payload.
const MaxMessageSize = 0xFFFF

// DecodeLength extracts the payload length from a frame header.
func DecodeLength(h [HeaderSize]byte) int {
	return int(h[0]^h[2]) | int(h[1]^h[3])<<8
}

// EncodeHeader builds the header for an outgoing payload of n bytes from the
// current send IV and the client version.
func EncodeHeader(n int, iv [4]byte, version uint16) [HeaderSize]byte {
	iiv := uint16(iv[3]) | uint16(iv[2])<<8
	iiv ^= version
	mlen := uint16((n<<8)&0xFF00) | uint16(n>>8)
	x := iiv ^ mlen
	return [HeaderSize]byte{byte(iiv >> 8), byte(iiv), byte(x >> 8), byte(x)}
}

// ReadFrame reads one header plus payload from r. The payload is returned
// still encrypted.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("read frame header: %w", err)
	}
	n := DecodeLength(header)
	if n <= 0 {
		return nil, fmt.Errorf("invalid frame length: %d", n)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read frame payload (%d bytes): %w", n, err)
	}
	return payload, nil
}

// WriteFrame writes header and an already encrypted payload to w.
func WriteFrame(w io.Writer, header [HeaderSize]byte, payload []byte) error {
	if len(payload) > MaxMessageSize {
		return fmt.Errorf("frame payload too large: %d", len(payload))
	}
	buf := make([]byte, 0, HeaderSize+len(payload))
	buf = append(buf, header[:]...)
	buf = append(buf, payload...)
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}
