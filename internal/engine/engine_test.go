package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/fairnorm/internal/engine/dedup"
	"github.com/crimson-sun/fairnorm/internal/engine/tables"
	"github.com/crimson-sun/fairnorm/internal/engine/testdata"
	"github.com/crimson-sun/fairnorm/internal/model"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	tbl, err := tables.Default()
	require.NoError(t, err)
	eng, err := New(tbl, DefaultConfig())
	require.NoError(t, err)
	return eng
}

func formatted(p *time.Time) string {
	if p == nil {
		return ""
	}
	return p.Format(time.RFC3339)
}

func TestCorpus(t *testing.T) {
	eng := newTestEngine(t)
	entries, err := testdata.LoadCorpus()
	require.NoError(t, err)

	for _, e := range entries {
		t.Run(e.Description, func(t *testing.T) {
			got := eng.Normalize(e.Raw, e.Hint)
			want := e.Expected

			assert.Equal(t, want.EventName, got.EventName, "event_name")
			assert.Equal(t, want.Start, formatted(got.StartDatetime), "start")
			assert.Equal(t, want.End, formatted(got.EndDatetime), "end")
			assert.Equal(t, want.Venue, got.Venue, "venue")
			assert.Equal(t, want.District, got.District, "district")
			assert.Equal(t, model.Language(want.Language), got.Language, "language")
			assert.Equal(t, want.Email, got.Contact.Email, "email")
			assert.Equal(t, want.Phone, got.Contact.Phone, "phone")
			assert.Equal(t, want.Website, got.Links.Website, "website")
			assert.Equal(t, want.Virtual, got.Links.Virtual, "virtual")
			assert.Equal(t, e.Raw.Source, got.Source)

			assert.Equal(t, want.Start == "", !got.Has(model.FieldStart))
			assert.Equal(t, want.District == "", !got.Has(model.FieldDistrict))
			assert.Equal(t, eng.Identity(got), got.IdentityID)
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	eng := newTestEngine(t)
	entries, err := testdata.LoadCorpus()
	require.NoError(t, err)

	for _, e := range entries {
		once := eng.Normalize(e.Raw, e.Hint)
		twice := eng.Renormalize(once)
		assert.Equal(t, once, twice, e.Description)
	}
}

func TestRenormalizeHiddenMarkup(t *testing.T) {
	eng := newTestEngine(t)

	for _, name := range []string{"＜IT＞招聘日", "IT<<b>>招聘日", "&amp;lt;IT&amp;gt;招聘日"} {
		once := eng.Normalize(model.RawRecord{
			EventName: name,
			StartRaw:  "2024-03-15 10:00",
			VenueRaw:  "HKCEC",
		}, model.HintNone)
		twice := eng.Renormalize(once)
		assert.Equal(t, once.EventName, twice.EventName, name)
		assert.Equal(t, once.IdentityID, twice.IdentityID, name)
		assert.NotContains(t, twice.EventName, "<", name)
	}
}

func TestEndToEndExactDuplicate(t *testing.T) {
	eng := newTestEngine(t)

	a := eng.Normalize(model.RawRecord{
		EventName:     "IT招聘日",
		StartRaw:      "2024-03-15 10:00",
		VenueRaw:      "HKCEC",
		OrganizerName: "勞工處",
	}, model.HintNone)
	b := eng.Normalize(model.RawRecord{
		EventName:     "IT招聘日 ",
		StartRaw:      "2024-03-15 10:00",
		VenueRaw:      "香港會議展覽中心",
		OrganizerName: "勞工處",
	}, model.HintNone)

	require.Equal(t, a.IdentityID, b.IdentityID)

	res := eng.CheckDuplicate(b, []model.ExistingRecordView{a.View()}, 1.0)
	assert.True(t, res.Duplicate)
	assert.Equal(t, dedup.KindExact, res.Kind)
	assert.Equal(t, a.IdentityID, res.Match.IdentityID)
}

func TestLanguageCases(t *testing.T) {
	eng := newTestEngine(t)
	tests := []struct {
		name string
		want model.Language
	}{
		{"", model.LangUnknown},
		{"請參加", model.LangZHHK},
		{"Join Now", model.LangEN},
		{"請Join", model.LangBoth},
	}
	for _, tt := range tests {
		got := eng.Normalize(model.RawRecord{EventName: tt.name}, model.HintNone)
		assert.Equal(t, tt.want, got.Language, tt.name)
		assert.Equal(t, tt.want == model.LangUnknown, !got.Has(model.FieldLanguage), tt.name)
	}
}

func TestHintFallsBackToRecord(t *testing.T) {
	eng := newTestEngine(t)
	raw := model.RawRecord{EventName: "招聘日", StartRaw: "2024年2月30日", SourceHint: model.HintGovernment}

	got := eng.Normalize(raw, model.HintNone)
	assert.Nil(t, got.StartDatetime)
	assert.False(t, got.Has(model.FieldStart))
}

func TestEmptyRecordNeverFails(t *testing.T) {
	eng := newTestEngine(t)
	got := eng.Normalize(model.RawRecord{}, model.HintNone)

	assert.Empty(t, got.EventName)
	assert.NotEmpty(t, got.IdentityID)
	for _, f := range []model.Field{
		model.FieldStart, model.FieldEnd, model.FieldVenue, model.FieldDistrict,
		model.FieldLanguage, model.FieldEmail, model.FieldPhone, model.FieldOrganizer,
	} {
		assert.False(t, got.Has(f), f)
	}
}

func TestNormalizeBatchKeepsOrder(t *testing.T) {
	eng := newTestEngine(t)
	raws := []model.RawRecord{{EventName: "A"}, {EventName: "B"}, {EventName: "C"}}
	got := eng.NormalizeBatch(raws, model.HintNone)
	require.Len(t, got, 3)
	for i, r := range got {
		assert.Equal(t, raws[i].EventName, r.EventName)
	}
}

func TestConcurrentNormalize(t *testing.T) {
	eng := newTestEngine(t)
	raw := model.RawRecord{EventName: "IT招聘会", StartRaw: "2024-03-15 10:00", VenueRaw: "HKCEC"}
	want := eng.Normalize(raw, model.HintNone)

	done := make(chan model.NormalizedRecord)
	for i := 0; i < 8; i++ {
		go func() { done <- eng.Normalize(raw, model.HintNone) }()
	}
	for i := 0; i < 8; i++ {
		assert.Equal(t, want, <-done)
	}
}
