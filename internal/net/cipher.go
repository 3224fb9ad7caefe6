package net

// Cipher transforms message payloads in place. Each direction owns one
// instance; the IV it exposes is the one the next header is built from.
type Cipher interface {
	Transform(data []byte)
	IV() [4]byte
}

// PlainCipher leaves payloads untouched. It is used for captures recorded
// against servers that run with encryption disabled and in tests.
type PlainCipher struct {
	iv [4]byte
}

func NewPlainCipher(iv [4]byte) *PlainCipher {
	return &PlainCipher{iv: iv}
}

func (c *PlainCipher) Transform([]byte) {}

func (c *PlainCipher) IV() [4]byte { return c.iv }
