package fairnorm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	eng, err := New()
	require.NoError(t, err)
	assert.Len(t, eng.Districts(), 18)
	assert.Equal(t, "中西區", eng.Districts()[0])
}

func TestNewBadTablesDir(t *testing.T) {
	_, err := New(WithTablesDir(filepath.Join(t.TempDir(), "missing")))
	assert.Error(t, err)
}

func TestNewRejectsDayGateOutOfRange(t *testing.T) {
	for _, days := range []int{-1, 367, 1 << 40} {
		_, err := New(WithMaxDayDiff(days))
		assert.Error(t, err, "max day diff %d", days)
	}
	_, err := New(WithMaxDayDiff(366))
	assert.NoError(t, err)
}

func TestNewTablesDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"venues.yaml", "districts.yaml", "s2t.yaml"} {
		data, err := os.ReadFile(filepath.Join("..", "..", "internal", "engine", "tables", "data", name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	eng, err := New(WithTablesDir(dir))
	require.NoError(t, err)
	assert.Len(t, eng.Districts(), 18)
}

func TestIdentityStable(t *testing.T) {
	eng, err := New()
	require.NoError(t, err)

	raw := RawRecord{EventName: "Career Day", StartRaw: "2024-03-15 10:00", VenueRaw: "HKCEC"}
	a := eng.Normalize(raw, HintNone)
	b := eng.Normalize(raw, HintNone)
	assert.Equal(t, a.IdentityID, b.IdentityID)
	assert.Equal(t, a.IdentityID, eng.Identity(a))
}

func TestCheckDuplicateThreshold(t *testing.T) {
	eng, err := New()
	require.NoError(t, err)

	stored := eng.Normalize(RawRecord{EventName: "Spring Career Expo", StartRaw: "2024-03-15 10:00"}, HintNone)
	incoming := eng.Normalize(RawRecord{EventName: "Spring Jobs Fair", StartRaw: "2024-03-15 14:00"}, HintNone)
	existing := []ExistingRecord{stored.View()}

	// "spring car" vs "spring job": 7 of 10 positions agree.
	dup, match := eng.CheckDuplicate(incoming, existing, 0.7)
	assert.True(t, dup)
	require.NotNil(t, match)
	assert.Equal(t, stored.IdentityID, match.IdentityID)

	dup, match = eng.CheckDuplicate(incoming, existing, 0.8)
	assert.False(t, dup)
	assert.Nil(t, match)
}

func TestDeduplicateUsesOptions(t *testing.T) {
	recs := func(eng *Engine) []Record {
		return eng.NormalizeBatch([]RawRecord{
			{EventName: "Spring Career Expo", StartRaw: "2024-03-15 10:00"},
			{EventName: "Spring Career Expo", StartRaw: "2024-03-18 10:00"},
		}, HintNone)
	}

	loose, err := New(WithMaxDayDiff(3))
	require.NoError(t, err)
	assert.Len(t, loose.Deduplicate(recs(loose), nil), 1)

	strict, err := New()
	require.NoError(t, err)
	assert.Len(t, strict.Deduplicate(recs(strict), nil), 2)
}
