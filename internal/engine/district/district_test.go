package district

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/fairnorm/internal/engine/tables"
)

func newExtractor(t *testing.T) *Extractor {
	t.Helper()
	tbl, err := tables.Default()
	require.NoError(t, err)
	return New(tbl.Districts())
}

func TestExtract(t *testing.T) {
	e := newExtractor(t)
	tests := []struct {
		address string
		want    string
		ok      bool
	}{
		{"香港灣仔博覽道1號", "灣仔區", true},
		{"1 Expo Drive, Wan Chai, Hong Kong", "灣仔區", true},
		{"1 expo drive, wanchai", "灣仔區", true},
		{"九龙城区联合道", "九龍城區", true},
		{"Kwun Tong Road, KOWLOON", "觀塘區", true},
		{"屯門區青山公路", "屯門區", true},
		{"Central and Western District Office", "中西區", true},
		{"10 Tsuen Wan Road, Kwai Tsing", "荃灣區", true},
		{"Unit 5, Somewhere Street", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := e.Extract(tt.address)
		assert.Equal(t, tt.ok, ok, tt.address)
		assert.Equal(t, tt.want, got, tt.address)
	}
}

func TestExtractEarliestWins(t *testing.T) {
	e := newExtractor(t)
	got, ok := e.Extract("觀塘 (near 九龍城)")
	require.True(t, ok)
	assert.Equal(t, "觀塘區", got)
}

func TestEnglishNeedsWordBoundary(t *testing.T) {
	e := newExtractor(t)
	_, ok := e.Extract("Tsuen Wanderers Club")
	assert.False(t, ok)
}

func TestCanonicalNamesExtractThemselves(t *testing.T) {
	e := newExtractor(t)
	names := e.Names()
	require.Len(t, names, 18)
	for _, n := range names {
		got, ok := e.Extract(n)
		assert.True(t, ok, n)
		assert.Equal(t, n, got)
	}
}
