// Package arena implements a fixed-capacity bump allocator used for per-frame and
// per-screen scratch data. Allocations are handed out as Block handles into the
// backing buffer; a handle taken before a Reset is rejected when resolved.
// An Arena is not safe for concurrent use.
package arena

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unsafe"
)

// HeaderSize is the number of bytes at the front of every arena buffer reserved for
// bookkeeping (cursor and reset generation). Use RequiredSize to size a buffer.
const HeaderSize = 16

const (
	cursorOff = 0
	genOff    = 8
)

var (
	// ErrStaleBlock is returned when a Block is resolved after the arena was reset.
	ErrStaleBlock = errors.New("arena: block used after reset")
	// ErrOutOfRange is returned when a Block does not lie inside the arena.
	ErrOutOfRange = errors.New("arena: block out of range")
)

// Block is a handle to an allocation. Offset is relative to the start of the usable region.
type Block struct {
	Offset int
	Len    int
	gen    uint64
}

// Stats reports allocation counters since the arena was created.
type Stats struct {
	Capacity  int
	Used      int
	HighWater int
	Allocs    uint64
	Failed    uint64
	Resets    uint64
}

// Arena is a linear allocator over a single buffer: a header followed by the usable region.
type Arena struct {
	buf   []byte // whole buffer including header
	data  []byte // usable region
	stats Stats
}

// RequiredSize returns the buffer size needed to host an arena with capacity usable bytes.
func RequiredSize(capacity int) int { return HeaderSize + capacity }

// Init takes ownership of buf and partitions it into header and usable region.
// It panics if buf is not larger than HeaderSize.
func Init(buf []byte) *Arena {
	if len(buf) <= HeaderSize {
		panic(fmt.Sprintf("arena: buffer of %d bytes must be larger than the %d byte header, use RequiredSize", len(buf), HeaderSize))
	}
	a := &Arena{buf: buf, data: buf[HeaderSize:]}
	a.setCursor(0)
	a.setGeneration(0)
	a.stats.Capacity = len(a.data)
	return a
}

// New allocates a buffer for capacity usable bytes and initializes an arena over it.
func New(capacity int) *Arena {
	return Init(make([]byte, RequiredSize(capacity)))
}

func (a *Arena) cursor() int            { return int(binary.LittleEndian.Uint64(a.buf[cursorOff:])) }
func (a *Arena) setCursor(c int)        { binary.LittleEndian.PutUint64(a.buf[cursorOff:], uint64(c)) }
func (a *Arena) generation() uint64     { return binary.LittleEndian.Uint64(a.buf[genOff:]) }
func (a *Arena) setGeneration(g uint64) { binary.LittleEndian.PutUint64(a.buf[genOff:], g) }

// Alloc reserves size bytes. It returns ok == false, leaving the cursor untouched, when the
// remaining capacity is smaller than size. It panics on a nil arena or a non-positive size.
func (a *Arena) Alloc(size int) (Block, bool) {
	if a == nil {
		panic("arena: Alloc on nil arena")
	}
	if size <= 0 {
		panic(fmt.Sprintf("arena: allocation size must be greater than 0, got %d", size))
	}
	cur := a.cursor()
	if len(a.data)-cur < size {
		a.stats.Failed++
		return Block{}, false
	}
	a.setCursor(cur + size)
	a.stats.Allocs++
	if cur+size > a.stats.HighWater {
		a.stats.HighWater = cur + size
	}
	return Block{Offset: cur, Len: size, gen: a.generation()}, true
}

// Bytes resolves b to its backing slice. The slice aliases arena memory and must not be
// retained past the next Reset.
func (a *Arena) Bytes(b Block) ([]byte, error) {
	if a == nil {
		panic("arena: Bytes on nil arena")
	}
	if b.gen != a.generation() {
		return nil, ErrStaleBlock
	}
	if b.Offset < 0 || b.Len <= 0 || b.Offset+b.Len > a.cursor() {
		return nil, ErrOutOfRange
	}
	return a.data[b.Offset : b.Offset+b.Len : b.Offset+b.Len], nil
}

// Reset returns the cursor to the start of the usable region. Memory is not cleared;
// every Block handed out before the call becomes stale.
func (a *Arena) Reset() {
	if a == nil {
		panic("arena: Reset on nil arena")
	}
	a.setCursor(0)
	a.setGeneration(a.generation() + 1)
	a.stats.Resets++
}

// Capacity returns the usable size in bytes.
func (a *Arena) Capacity() int { return len(a.data) }

// Used returns the number of bytes allocated since the last Reset.
func (a *Arena) Used() int { return a.cursor() }

// Remaining returns the number of bytes still available.
func (a *Arena) Remaining() int { return len(a.data) - a.cursor() }

// Stats returns a snapshot of the arena counters.
func (a *Arena) Stats() Stats {
	s := a.stats
	s.Used = a.cursor()
	return s
}

// Sprintf formats into a fresh block and returns a string view over it. The string
// aliases arena memory: it is valid only until the next Reset. ok is false when the
// formatted text does not fit.
func (a *Arena) Sprintf(format string, args ...any) (string, bool) {
	if a == nil {
		panic("arena: Sprintf on nil arena")
	}
	rem := a.Remaining()
	if rem == 0 {
		a.stats.Failed++
		return "", false
	}
	// Format straight into the free tail, then claim what was written.
	cur := a.cursor()
	out := fmt.Appendf(a.data[cur:cur:len(a.data)], format, args...)
	if len(out) == 0 {
		return "", true
	}
	if len(out) > rem || &out[0] != &a.data[cur] {
		a.stats.Failed++
		return "", false
	}
	b, ok := a.Alloc(len(out))
	if !ok {
		return "", false
	}
	return unsafe.String(&a.data[b.Offset], b.Len), true
}
