// Package handid generates time-ordered hand identifiers: a UUIDv7 encoded as
// 26 characters of Crockford base32.
package handid

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Crockford base32, lowercase, without i, l, o or u.
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the number of characters in an encoded identifier.
const Length = 26

// Source supplies randomness for the non-timestamp bits. *rand.Rand from
// math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

// Generator creates identifiers. A nil Source falls back to crypto/rand.
type Generator struct {
	src Source
}

// NewGenerator creates a generator drawing random bits from src.
func NewGenerator(src Source) *Generator {
	return &Generator{src: src}
}

// New returns an identifier stamped with now, using crypto/rand.
func New(now time.Time) string {
	return NewGenerator(nil).Generate(now)
}

// Generate returns an identifier stamped with now.
func (g *Generator) Generate(now time.Time) string {
	return encode(g.uuidV7(now))
}

// uuidV7 lays out 48 bits of milliseconds, the version nibble, the variant
// bits and random data.
func (g *Generator) uuidV7(now time.Time) [16]byte {
	var uuid [16]byte

	ms := now.UnixMilli()
	for i := 0; i < 6; i++ {
		uuid[i] = byte(ms >> (40 - 8*i))
	}

	if g.src != nil {
		for i := 6; i < 16; i++ {
			uuid[i] = byte(g.src.IntN(256))
		}
	} else if _, err := rand.Read(uuid[6:]); err != nil {
		panic("failed to generate random bytes: " + err.Error())
	}

	uuid[6] = (uuid[6] & 0x0f) | 0x70
	uuid[8] = (uuid[8] & 0x3f) | 0x80
	return uuid
}

// encode writes the 128-bit value as a 130-bit base32 number, so the first
// character is always 0-7.
func encode(data [16]byte) string {
	var hi, lo uint64
	for i := 0; i < 8; i++ {
		hi = hi<<8 | uint64(data[i])
		lo = lo<<8 | uint64(data[i+8])
	}

	out := make([]byte, Length)
	for i := Length - 1; i >= 0; i-- {
		out[i] = alphabet[lo&0x1f]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out)
}

func decode(id string) ([16]byte, error) {
	var data [16]byte
	if err := Validate(id); err != nil {
		return data, err
	}

	var hi, lo uint64
	for i := 0; i < Length; i++ {
		v := uint64(strings.IndexByte(alphabet, id[i]))
		hi = hi<<5 | lo>>59
		lo = lo<<5 | v
	}
	for i := 7; i >= 0; i-- {
		data[i] = byte(hi)
		data[i+8] = byte(lo)
		hi >>= 8
		lo >>= 8
	}
	return data, nil
}

// UUID returns the identifier in its standard UUID form.
func UUID(id string) (uuid.UUID, error) {
	data, err := decode(id)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.UUID(data), nil
}

// Timestamp recovers the millisecond timestamp embedded in an identifier.
func Timestamp(id string) (time.Time, error) {
	data, err := decode(id)
	if err != nil {
		return time.Time{}, err
	}
	var ms int64
	for i := 0; i < 6; i++ {
		ms = ms<<8 | int64(data[i])
	}
	return time.UnixMilli(ms), nil
}

// Validate checks that id is 26 lowercase base32 characters starting 0-7.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("hand ID must be exactly %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("hand ID first character must be 0-7, got %c", id[0])
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
	}
	return nil
}
