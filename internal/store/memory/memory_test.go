package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/fairnorm/internal/model"
	"github.com/crimson-sun/fairnorm/internal/store"
)

var hk = time.FixedZone("HKT", 8*3600)

func at(day int) *time.Time {
	t := time.Date(2024, 3, day, 10, 0, 0, 0, hk)
	return &t
}

func TestCandidatesFiltersByWindow(t *testing.T) {
	s := New(
		model.ExistingRecordView{IdentityID: "a", EventName: "Fair A", StartDatetime: at(15)},
		model.ExistingRecordView{IdentityID: "b", EventName: "Fair B", StartDatetime: at(25)},
		model.ExistingRecordView{IdentityID: "c", EventName: "Fair C"},
	)

	got, err := s.Candidates(context.Background(), []model.NormalizedRecord{
		{IdentityID: "c", StartDatetime: at(16)},
	}, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].IdentityID)
	assert.Equal(t, "c", got[1].IdentityID)
}

func TestInsertSkipsKnownIdentity(t *testing.T) {
	s := New(model.ExistingRecordView{IdentityID: "a"})
	n, err := s.Insert(context.Background(), []model.NormalizedRecord{
		{IdentityID: "a"}, {IdentityID: "b"}, {IdentityID: "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, s.Len())
}

func TestOpenMissingFile(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "absent.ndjson"))
	require.NoError(t, err)
	assert.Zero(t, s.Len())
}

func TestPersistRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.ndjson")
	s, err := Open(path)
	require.NoError(t, err)

	n, err := s.Insert(context.Background(), []model.NormalizedRecord{
		{IdentityID: "a", EventName: "招聘博覽會", StartDatetime: at(15), Venue: "香港會議展覽中心"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	reopened, err := Open(path)
	require.NoError(t, err)
	got, err := reopened.Candidates(context.Background(), []model.NormalizedRecord{{IdentityID: "a"}}, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "招聘博覽會", got[0].EventName)
	assert.Equal(t, "香港會議展覽中心", got[0].Venue)
	assert.True(t, at(15).Equal(*got[0].StartDatetime))
}

func TestOpenSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.ndjson")
	data := "{\"identity_id\":\"a\",\"event_name\":\"A\"}\nnot json\n\n{\"identity_id\":\"b\",\"event_name\":\"B\"}\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	s, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
}

func TestRegistered(t *testing.T) {
	s, err := store.Open(context.Background(), store.Config{Provider: "memory"})
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}
