package packet

import (
	"encoding/binary"

	"golang.org/x/text/encoding"
)

// Writer builds an outbound message. It mirrors every Reader primitive so
// tests can assemble inbound messages the same way.
type Writer struct {
	buf []byte
	enc encoding.Encoding
}

func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 64)}
}

func NewWriterWithOpcode(opcode uint16) *Writer {
	w := NewWriter()
	w.WriteUShort(opcode)
	return w
}

func (w *Writer) WithCodePage(enc encoding.Encoding) *Writer {
	w.enc = enc
	return w
}

func (w *Writer) WriteUint8(v uint8) { w.buf = append(w.buf, v) }
func (w *Writer) WriteInt8(v int8)   { w.buf = append(w.buf, byte(v)) }

func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteUint8(1)
	} else {
		w.WriteUint8(0)
	}
}

func (w *Writer) WriteUShort(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *Writer) WriteShort(v int16) { w.WriteUShort(uint16(v)) }

func (w *Writer) WriteInt(v int32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(v))
}

func (w *Writer) WriteLong(v int64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, uint64(v))
}

func (w *Writer) WritePoint(p Point) {
	w.WriteShort(p.X)
	w.WriteShort(p.Y)
}

// WriteString writes a uint16 length prefix followed by the encoded bytes.
func (w *Writer) WriteString(s string) {
	b := w.encode(s)
	w.WriteUShort(uint16(len(b)))
	w.buf = append(w.buf, b...)
}

// WritePaddedString writes s into a NUL-padded field of exactly n bytes.
func (w *Writer) WritePaddedString(s string, n int) {
	b := w.encode(s)
	if len(b) > n {
		b = b[:n]
	}
	w.buf = append(w.buf, b...)
	w.WriteZero(n - len(b))
}

func (w *Writer) WriteZero(n int) {
	for i := 0; i < n; i++ {
		w.buf = append(w.buf, 0)
	}
}

func (w *Writer) WriteBytes(b []byte) { w.buf = append(w.buf, b...) }

func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) Len() int { return len(w.buf) }

func (w *Writer) encode(s string) []byte {
	if w.enc == nil {
		return []byte(s)
	}
	out, err := w.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return out
}
