package id

import (
	"encoding/binary"
	"encoding/hex"
	"sync"
	"time"
)

// ID is a 128-bit sortable identifier: [8 bytes ms timestamp][8 bytes sequence].
type ID [16]byte

// String returns the lowercase hex encoding.
func (i ID) String() string { return hex.EncodeToString(i[:]) }

// Time returns the embedded creation time, millisecond precision, UTC.
func (i ID) Time() time.Time {
	ms := int64(binary.BigEndian.Uint64(i[0:8]))
	return time.UnixMilli(ms).UTC()
}

// Compare returns -1, 0, or 1 by byte-wise comparison.
func (i ID) Compare(other ID) int {
	for n := 0; n < len(i); n++ {
		switch {
		case i[n] < other[n]:
			return -1
		case i[n] > other[n]:
			return 1
		}
	}
	return 0
}

// now is swappable for tests.
var now = func() int64 { return time.Now().UnixMilli() }

// Generator produces strictly increasing IDs within a process. Safe for
// concurrent use.
type Generator struct {
	mu     sync.Mutex
	lastMs int64
	seq    uint64
}

// NewGenerator returns an empty generator.
func NewGenerator() *Generator { return &Generator{} }

// Next returns a fresh ID. If the clock moves backwards the generator keeps
// the last observed millisecond and advances the sequence instead.
func (g *Generator) Next() ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := now()
	if ms < g.lastMs {
		ms = g.lastMs
	}
	if ms == g.lastMs {
		g.seq++
	} else {
		g.lastMs = ms
		g.seq = 0
	}

	var out ID
	binary.BigEndian.PutUint64(out[0:8], uint64(ms))
	binary.BigEndian.PutUint64(out[8:16], g.seq)
	return out
}

// NextString returns Next().String(); the common case for API-facing ids.
func (g *Generator) NextString() string { return g.Next().String() }
