package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/fairnorm/internal/engine"
	"github.com/crimson-sun/fairnorm/internal/engine/tables"
	"github.com/crimson-sun/fairnorm/internal/model"
)

const fixture = `{"event_name":"Spring Career Expo 2024","start_raw":"2024-03-15 10:00","venue_raw":"HKCEC"}
{"event_name":"Spring Career Expo 2024","start_raw":"2024-03-15 10:00","venue_raw":"HKCEC"}
not json
{"event_name":"Autumn Graduate Fair","start_raw":"2024-09-01 10:00","address_raw":"灣仔港灣道1號"}
`

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func decodeLines(t *testing.T, s string) []model.NormalizedRecord {
	t.Helper()
	var recs []model.NormalizedRecord
	sc := bufio.NewScanner(strings.NewReader(s))
	for sc.Scan() {
		var r model.NormalizedRecord
		require.NoError(t, json.Unmarshal(sc.Bytes(), &r))
		recs = append(recs, r)
	}
	return recs
}

func TestNormalizeStdin(t *testing.T) {
	out, _, err := execute(t, fixture, "normalize")
	require.NoError(t, err)

	recs := decodeLines(t, out)
	require.Len(t, recs, 3)
	assert.Equal(t, "Spring Career Expo 2024", recs[0].EventName)
	assert.Equal(t, recs[0].IdentityID, recs[1].IdentityID)
	assert.Equal(t, "灣仔區", recs[2].District)
}

func TestNormalizeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.ndjson")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))

	out, _, err := execute(t, "", "normalize", path, "--verbosity", "minimal")
	require.NoError(t, err)
	assert.Len(t, decodeLines(t, out), 3)
}

func TestNormalizeMissingFile(t *testing.T) {
	_, _, err := execute(t, "", "normalize", filepath.Join(t.TempDir(), "absent.ndjson"))
	assert.Error(t, err)
}

func TestRunDeduplicatesAndPersists(t *testing.T) {
	dir := t.TempDir()
	snapshot := filepath.Join(dir, "events.ndjson")
	metricsPath := filepath.Join(dir, "fairnorm.prom")

	out, errOut, err := execute(t, fixture, "run",
		"--store", "memory", "--store-path", snapshot, "--write", "--metrics", metricsPath)
	require.NoError(t, err)
	assert.Len(t, decodeLines(t, out), 2)
	assert.Contains(t, errOut, "duplicates=1 (exact=1 fuzzy=0) written=2 inserted=2")

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "fairnorm_records_written_total 2")

	out, errOut, err = execute(t, fixture, "run",
		"--store", "memory", "--store-path", snapshot, "--write")
	require.NoError(t, err)
	assert.Empty(t, decodeLines(t, out))
	assert.Contains(t, errOut, "written=0 inserted=0")
}

func TestRunStreamCatchesDuplicatesAcrossBatches(t *testing.T) {
	out, errOut, err := execute(t, fixture, "run", "--stream", "--batch", "1")
	require.NoError(t, err)
	assert.Len(t, decodeLines(t, out), 2)
	assert.Contains(t, errOut, "duplicates=1 (exact=1 fuzzy=0) written=2 inserted=0")
}

func TestRunToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ndjson")
	out, _, err := execute(t, fixture, "run", "--store", "none", "-o", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, decodeLines(t, string(data)), 2)
}

func TestRunRejectsBadFlags(t *testing.T) {
	_, _, err := execute(t, fixture, "run", "--threshold", "2")
	assert.Error(t, err)

	_, _, err = execute(t, fixture, "run", "--store", "redis")
	assert.Error(t, err)
}

func TestIdentityMatchesEngine(t *testing.T) {
	tbl, err := tables.Default()
	require.NoError(t, err)
	eng, err := engine.New(tbl, engine.DefaultConfig())
	require.NoError(t, err)
	want := eng.Normalize(model.RawRecord{
		EventName: "Spring Career Expo 2024",
		StartRaw:  "2024-03-15 10:00",
		VenueRaw:  "HKCEC",
	}, model.HintNone).IdentityID

	out, _, err := execute(t, "", "identity",
		"--name", "Spring Career Expo 2024", "--start", "2024-03-15 10:00", "--venue", "HKCEC")
	require.NoError(t, err)
	assert.Equal(t, want, strings.TrimSpace(out))
}

func TestIdentityKey(t *testing.T) {
	out, _, err := execute(t, "", "identity", "--name", " Career Day ", "--start", "2024-03-15T10:00:00+08:00", "--key")
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "career day|2024-03-15t10:00:00+08:00||", got["key"])
	assert.NotEmpty(t, got["identity_id"])
}

func TestIdentityErrors(t *testing.T) {
	_, _, err := execute(t, "", "identity", "--start", "2024-03-15 10:00")
	assert.Error(t, err)

	_, _, err = execute(t, "", "identity", "--name", "x", "--start", "someday soon")
	assert.Error(t, err)
}

func TestTables(t *testing.T) {
	out, _, err := execute(t, "", "tables")
	require.NoError(t, err)
	assert.Contains(t, out, "DISTRICT")
	assert.Contains(t, out, "中西區")
	assert.Contains(t, out, "VENUE")
}
