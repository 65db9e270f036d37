package bytesize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/uploadkit/bytesize"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{"plain bytes", "512", 512},
		{"bytes with unit", "512B", 512},
		{"kilobytes short", "4K", 4 * 1024},
		{"kilobytes long", "4KB", 4 * 1024},
		{"megabytes short", "5M", 5 * 1024 * 1024},
		{"megabytes long", "5MB", 5 * 1024 * 1024},
		{"gigabytes", "2G", 2 * 1024 * 1024 * 1024},
		{"terabytes", "1T", 1024 * 1024 * 1024 * 1024},
		{"lowercase unit", "5m", 5 * 1024 * 1024},
		{"mixed case unit", "5Mb", 5 * 1024 * 1024},
		{"decimal magnitude", "1.5K", 1536},
		{"whitespace around", " 8M ", 8 * 1024 * 1024},
		{"zero", "0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := bytesize.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	t.Run("empty string", func(t *testing.T) {
		t.Parallel()
		_, err := bytesize.Parse("")
		assert.ErrorIs(t, err, bytesize.ErrEmptySize)
	})

	t.Run("unknown unit", func(t *testing.T) {
		t.Parallel()
		_, err := bytesize.Parse("5X")
		assert.ErrorIs(t, err, bytesize.ErrUnknownUnit)
	})

	t.Run("missing magnitude", func(t *testing.T) {
		t.Parallel()
		_, err := bytesize.Parse("MB")
		assert.ErrorIs(t, err, bytesize.ErrInvalidSize)
	})

	t.Run("garbage magnitude", func(t *testing.T) {
		t.Parallel()
		_, err := bytesize.Parse("1.2.3M")
		assert.ErrorIs(t, err, bytesize.ErrInvalidSize)
	})
}

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input int64
		want  string
	}{
		{"bytes", 512, "512B"},
		{"exact kilobytes", 4 * 1024, "4K"},
		{"exact megabytes", 5 * 1024 * 1024, "5M"},
		{"exact gigabytes", 3 * 1024 * 1024 * 1024, "3G"},
		{"rounded up", 1536, "2K"},
		{"zero", 0, "0B"},
		{"negative clamps to zero", -5, "0B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, bytesize.Format(tt.input))
		})
	}
}

func TestRoundTripIsLossy(t *testing.T) {
	t.Parallel()

	// Rounding in Format means Parse(Format(n)) is only approximate.
	n := int64(5*1024*1024 + 100)
	got, err := bytesize.Parse(bytesize.Format(n))
	require.NoError(t, err)
	assert.Equal(t, int64(5*1024*1024), got)
}

func TestMustParse(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(8*1024*1024), bytesize.MustParse("8M"))
	assert.Panics(t, func() { bytesize.MustParse("nope-M") })
}
