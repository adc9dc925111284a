package core

import (
	"encoding/binary"
	"hash"

	"github.com/aviddiviner/go-murmur"
)

// murmur2 buffers its input; MurmurHash2 is seeded with the input length so it cannot
// be computed incrementally
type murmur2 struct {
	buf []byte
}

func newMurmur2() hash.Hash32 {
	return &murmur2{}
}

func (m *murmur2) Write(p []byte) (int, error) {
	m.buf = append(m.buf, p...)
	return len(p), nil
}

func (m *murmur2) Sum32() uint32 {
	return murmur.MurmurHash2(m.buf, 1)
}

func (m *murmur2) Sum(b []byte) []byte {
	return binary.BigEndian.AppendUint32(b, m.Sum32())
}

func (m *murmur2) Reset()         { m.buf = m.buf[:0] }
func (m *murmur2) Size() int      { return 4 }
func (m *murmur2) BlockSize() int { return 4 }
