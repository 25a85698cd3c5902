package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/fairnorm/internal/model"
)

func ptr(t time.Time) *time.Time { return &t }

var start = time.Date(2024, 3, 15, 14, 30, 0, 0, model.HK)

func base() Fields {
	return Fields{
		EventName:     "IT招聘日",
		Start:         ptr(start),
		Venue:         "香港會議展覽中心",
		OrganizerName: "勞工處",
	}
}

func TestDeterministic(t *testing.T) {
	a, b := base().ID(), base().ID()
	assert.Equal(t, a, b)

	u, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(5), u.Version())
}

func TestEveryFieldMatters(t *testing.T) {
	ref := base().ID()
	mutations := map[string]func(*Fields){
		"name":      func(f *Fields) { f.EventName = "IT招聘日2" },
		"start":     func(f *Fields) { f.Start = ptr(start.Add(time.Minute)) },
		"no start":  func(f *Fields) { f.Start = nil },
		"venue":     func(f *Fields) { f.Venue = "亞洲國際博覽館" },
		"organizer": func(f *Fields) { f.OrganizerName = "" },
	}
	for name, mutate := range mutations {
		f := base()
		mutate(&f)
		assert.NotEqual(t, ref, f.ID(), name)
	}
}

func TestCaseAndSpaceInsensitive(t *testing.T) {
	f := base()
	f.EventName = "  it招聘日 "
	f.OrganizerName = "勞工處\n"
	assert.Equal(t, base().ID(), f.ID())
}

func TestStartZoneIrrelevant(t *testing.T) {
	f := base()
	f.Start = ptr(start.UTC())
	assert.Equal(t, base().ID(), f.ID())
}

func TestKey(t *testing.T) {
	assert.Equal(t, "it招聘日|2024-03-15T14:30:00+08:00|香港會議展覽中心|勞工處", base().Key())
	assert.Equal(t, "|||", Fields{}.Key())
}

func TestSeparatorBoundary(t *testing.T) {
	a := Fields{EventName: "a", Venue: "b"}
	b := Fields{EventName: "a|", Venue: "b"}
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestGenerateUsesRecordFields(t *testing.T) {
	r := model.NormalizedRecord{
		EventName:     "IT招聘日",
		StartDatetime: ptr(start),
		Venue:         "香港會議展覽中心",
		OrganizerName: "勞工處",
		Description:   "ignored",
	}
	assert.Equal(t, base().ID(), Generate(r))
}
