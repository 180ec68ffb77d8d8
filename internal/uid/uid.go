// Package uid generates 128-bit randomized identifiers in the familiar
// 8-4-4-4-12 hex form. The bits come from a xorshift32 stream, so identifiers are
// unique enough to tell screens apart but are not suitable as secrets.
package uid

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Size is the length of a UID in bytes.
const Size = 16

// TextLen is the length of the canonical text form.
const TextLen = 36

// UID is a 128-bit identifier.
type UID [Size]byte

// Nil is the zero UID.
var Nil UID

var (
	ErrFormat    = errors.New("uid: invalid format")
	ErrEmpty     = fmt.Errorf("%w: empty input", ErrFormat)
	ErrLength    = fmt.Errorf("%w: want %d characters", ErrFormat, TextLen)
	ErrSeparator = fmt.Errorf("%w: misplaced separator", ErrFormat)
	ErrHex       = fmt.Errorf("%w: invalid hex digit", ErrFormat)
)

// Generator produces UIDs from a xorshift32 stream.
type Generator struct {
	state uint32
}

// NewGenerator returns a generator with a fixed seed. A zero seed is replaced,
// since xorshift never leaves the all-zero state.
func NewGenerator(seed uint32) *Generator {
	if seed == 0 {
		seed = 0x9e3779b9
	}
	return &Generator{state: seed}
}

func (g *Generator) next() uint32 {
	x := g.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	g.state = x
	return x
}

// New draws four words and stamps the version and variant bits.
func (g *Generator) New() UID {
	var u UID
	for i := 0; i < Size; i += 4 {
		binary.LittleEndian.PutUint32(u[i:], g.next())
	}
	u[6] = u[6]&0x0f | 0x40
	u[8] = u[8]&0x3f | 0x80
	return u
}

var (
	seedCounter atomic.Uint32

	mu     sync.Mutex
	global *Generator
)

func seed() uint32 {
	n := uint64(time.Now().UnixNano())
	return uint32(n) ^ uint32(n>>32) ^ (seedCounter.Add(1) * 0x85ebca6b)
}

// New returns a UID from the process-wide generator, seeding it on first use.
func New() UID {
	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		global = NewGenerator(seed())
	}
	return global.New()
}

// String returns the lowercase 8-4-4-4-12 form.
func (u UID) String() string {
	var buf [TextLen]byte
	u.encode(buf[:])
	return string(buf[:])
}

func (u UID) encode(dst []byte) {
	hex.Encode(dst[0:8], u[0:4])
	dst[8] = '-'
	hex.Encode(dst[9:13], u[4:6])
	dst[13] = '-'
	hex.Encode(dst[14:18], u[6:8])
	dst[18] = '-'
	hex.Encode(dst[19:23], u[8:10])
	dst[23] = '-'
	hex.Encode(dst[24:36], u[10:16])
}

// groups maps each text group to its byte range.
var groups = [5]struct{ text, lo, hi int }{
	{0, 0, 4},
	{9, 4, 6},
	{14, 6, 8},
	{19, 8, 10},
	{24, 10, 16},
}

// Parse reads the 8-4-4-4-12 form. Upper and lower case hex digits are accepted.
func Parse(s string) (UID, error) {
	var u UID
	if s == "" {
		return u, ErrEmpty
	}
	if len(s) != TextLen {
		return u, ErrLength
	}
	if s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
		return u, ErrSeparator
	}
	for _, g := range groups {
		n := (g.hi - g.lo) * 2
		if _, err := hex.Decode(u[g.lo:g.hi], []byte(s[g.text:g.text+n])); err != nil {
			return Nil, ErrHex
		}
	}
	return u, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) UID {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

func (u UID) MarshalText() ([]byte, error) {
	b := make([]byte, TextLen)
	u.encode(b)
	return b, nil
}

func (u *UID) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*u = v
	return nil
}
