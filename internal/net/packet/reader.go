package packet

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
)

// ErrTruncated is recorded when a read needs more bytes than remain.
var ErrTruncated = errors.New("packet truncated")

// Point is a pair of little-endian int16 coordinates as sent on the wire.
type Point struct {
	X, Y int16
}

// Reader is a forward-only cursor over one complete inbound message.
// All multi-byte values are little-endian.
//
// The first read that runs past the end records a sticky error wrapping
// ErrTruncated and moves the cursor to the end; that read and every later one
// return zero values. Callers check Err once after a group of reads.
type Reader struct {
	data []byte
	off  int
	err  error
	enc  encoding.Encoding
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// WithCodePage sets the encoding used to turn wire strings into UTF-8.
// A nil encoding passes bytes through unchanged.
func (r *Reader) WithCodePage(enc encoding.Encoding) *Reader {
	r.enc = enc
	return r
}

// Err returns the first truncation error, if any.
func (r *Reader) Err() error { return r.err }

// Available returns the number of unread bytes.
func (r *Reader) Available() int { return len(r.data) - r.off }

// Position returns the current offset from the start of the message.
func (r *Reader) Position() int { return r.off }

// Len returns the full message length.
func (r *Reader) Len() int { return len(r.data) }

// take returns the next n bytes or nil after recording truncation.
func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.off+n > len(r.data) {
		r.err = fmt.Errorf("%w: need %d bytes at offset %d, %d available",
			ErrTruncated, n, r.off, len(r.data)-r.off)
		r.off = len(r.data)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *Reader) Skip(n int) {
	if n == 0 {
		return
	}
	r.take(n)
}

func (r *Reader) ReadUint8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *Reader) ReadInt8() int8 { return int8(r.ReadUint8()) }

func (r *Reader) ReadBool() bool { return r.ReadUint8() != 0 }

func (r *Reader) ReadUShort() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *Reader) ReadShort() int16 { return int16(r.ReadUShort()) }

func (r *Reader) ReadInt() int32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(b))
}

func (r *Reader) ReadLong() int64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(b))
}

func (r *Reader) ReadPoint() Point {
	x := r.ReadShort()
	y := r.ReadShort()
	return Point{X: x, Y: y}
}

// ReadBytes returns a copy of the next n bytes.
func (r *Reader) ReadBytes(n int) []byte {
	b := r.take(n)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// ReadString reads a uint16 length-prefixed string.
func (r *Reader) ReadString() string {
	n := int(r.ReadUShort())
	if n == 0 {
		return ""
	}
	return r.decode(r.take(n))
}

// ReadPaddedString reads a fixed-width field of n bytes. The value ends at
// the first NUL; trailing spaces are trimmed.
func (r *Reader) ReadPaddedString(n int) string {
	b := r.take(n)
	if b == nil {
		return ""
	}
	for i, c := range b {
		if c == 0 {
			b = b[:i]
			break
		}
	}
	return strings.TrimRight(r.decode(b), " ")
}

func (r *Reader) decode(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	if r.enc == nil || isASCII(raw) {
		return string(raw)
	}
	out, err := r.enc.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(out)
}

func isASCII(raw []byte) bool {
	for _, b := range raw {
		if b >= 0x80 {
			return false
		}
	}
	return true
}
