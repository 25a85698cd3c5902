package ndjson

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/fairnorm/internal/connector"
	"github.com/crimson-sun/fairnorm/internal/model"
)

const input = `{"event_name":"IT招聘日","start_raw":"2024-03-15 10:00","venue_raw":"HKCEC","source":{"source_id":"jobmarket"}}

not json
{"event_name":"就業博覽會","date_raw":"2024年3月15日","source":{"source_id":"labour-dept"},"source_hint":"government"}
{"event_name":"Retail Day","source":{"source_id":"jobmarket"}}
`

func cfg(r string) connector.Config {
	return connector.Config{Provider: "ndjson", Reader: strings.NewReader(r)}
}

func TestRegistered(t *testing.T) {
	ctor, err := connector.Get("ndjson")
	require.NoError(t, err)
	assert.IsType(t, &Connector{}, ctor())
}

func TestQuerySkipsBlankAndMalformed(t *testing.T) {
	recs, err := (&Connector{}).Query(context.Background(), cfg(input), connector.QueryParams{})
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "IT招聘日", recs[0].EventName)
	assert.Equal(t, model.HintGovernment, recs[1].SourceHint)
	assert.Equal(t, "Retail Day", recs[2].EventName)
}

func TestQueryFilterAndLimit(t *testing.T) {
	c := &Connector{}

	recs, err := c.Query(context.Background(), cfg(input), connector.QueryParams{SourceID: "jobmarket"})
	require.NoError(t, err)
	require.Len(t, recs, 2)

	recs, err = c.Query(context.Background(), cfg(input), connector.QueryParams{Limit: 1})
	require.NoError(t, err)
	require.Len(t, recs, 1)
}

func TestDefaultHintApplied(t *testing.T) {
	c := cfg(input)
	c.Hint = model.HintGovernment
	recs, err := (&Connector{}).Query(context.Background(), c, connector.QueryParams{})
	require.NoError(t, err)
	for _, r := range recs {
		assert.Equal(t, model.HintGovernment, r.SourceHint, r.EventName)
	}
}

func TestStreamFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.ndjson")
	require.NoError(t, os.WriteFile(path, []byte(input), 0o644))

	ch, err := (&Connector{}).Stream(context.Background(), connector.Config{Path: path})
	require.NoError(t, err)

	var names []string
	for r := range ch {
		names = append(names, r.EventName)
	}
	assert.Equal(t, []string{"IT招聘日", "就業博覽會", "Retail Day"}, names)
}

func TestStreamStopsOnCancel(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 1000; i++ {
		b.WriteString(`{"event_name":"x"}` + "\n")
	}
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := (&Connector{}).Stream(ctx, cfg(b.String()))
	require.NoError(t, err)

	<-ch
	cancel()
	n := 0
	for range ch {
		n++
	}
	assert.Less(t, n, 1000)
}

func TestOpenErrors(t *testing.T) {
	_, err := (&Connector{}).Query(context.Background(), connector.Config{}, connector.QueryParams{})
	assert.Error(t, err)

	_, err = (&Connector{}).Stream(context.Background(), connector.Config{Path: "/does/not/exist.ndjson"})
	assert.Error(t, err)
}
