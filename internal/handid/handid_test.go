package handid

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lox/pokertable/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	id := New(time.Now())
	assert.Len(t, id, Length)
	assert.NoError(t, Validate(id))
	assert.LessOrEqual(t, id[0], byte('7'))
}

func TestGenerateUnique(t *testing.T) {
	t.Parallel()

	now := time.Now()
	ids := make(map[string]bool)
	for range 100 {
		id := New(now)
		assert.False(t, ids[id], "duplicate ID %s", id)
		ids[id] = true
	}
}

func TestGenerateTimeSorted(t *testing.T) {
	t.Parallel()

	gen := NewGenerator(randutil.New(1))
	start := time.UnixMilli(1_700_000_000_000)
	var ids []string
	for i := range 10 {
		ids = append(ids, gen.Generate(start.Add(time.Duration(i)*time.Millisecond)))
	}
	for i := 1; i < len(ids); i++ {
		assert.Negative(t, strings.Compare(ids[i-1], ids[i]), "%s >= %s", ids[i-1], ids[i])
	}
}

func TestGeneratorDeterministic(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1_700_000_000_123)
	a := NewGenerator(randutil.New(42)).Generate(now)
	b := NewGenerator(randutil.New(42)).Generate(now)
	c := NewGenerator(randutil.New(43)).Generate(now)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestTimestampRoundTrip(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1_712_345_678_901)
	id := NewGenerator(randutil.New(7)).Generate(now)
	got, err := Timestamp(id)
	require.NoError(t, err)
	assert.True(t, now.Equal(got), "got %v want %v", got, now)

	_, err = Timestamp("short")
	assert.Error(t, err)
}

func TestVersionBits(t *testing.T) {
	t.Parallel()

	data, err := decode(NewGenerator(randutil.New(3)).Generate(time.Now()))
	require.NoError(t, err)
	assert.Equal(t, byte(0x70), data[6]&0xf0)
	assert.Equal(t, byte(0x80), data[8]&0xc0)
}

func TestUUID(t *testing.T) {
	t.Parallel()

	id := NewGenerator(randutil.New(5)).Generate(time.Now())
	u, err := UUID(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), u.Version())
	assert.Equal(t, uuid.RFC4122, u.Variant())

	parsed, err := uuid.Parse(u.String())
	require.NoError(t, err)
	assert.Equal(t, u, parsed)

	_, err = UUID("not-an-id")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid ID", "01h5n0et5q6mt3v7ms1234abcd", false},
		{"too short", "01h5n0et5q6mt3v7ms123", true},
		{"too long", "01h5n0et5q6mt3v7ms1234abcdef", true},
		{"first char too high", "81h5n0et5q6mt3v7ms1234abcd", true},
		{"invalid character", "01h5n0et5q6mt3v7ms1234abci", true},
		{"uppercase not allowed", "01H5N0ET5Q6MT3V7MS1234ABCD", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Validate(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAlphabet(t *testing.T) {
	t.Parallel()

	assert.Len(t, alphabet, 32)
	seen := make(map[rune]bool)
	for _, char := range alphabet {
		assert.False(t, seen[char], "duplicate character %c", char)
		seen[char] = true
	}
	for _, char := range "ilou" {
		assert.NotContains(t, alphabet, string(char))
	}
}
