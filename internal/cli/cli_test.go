package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kintai/internal/localtime"
)

// runCLI executes the command tree with the given args and returns
// captured stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// yesterday avoids every clock-dependent rejection: it is in the back-
// dating window, and fixed business-hour times on it can never be in
// the future or in quiet hours.
func yesterday() string {
	return localtime.DayOf(time.Now(), localtime.DefaultOffset).AddDays(-1).String()
}

func testDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "kintai.db")
}

func TestRoot_InvalidFormat(t *testing.T) {
	_, err := runCLI(t, "--format", "xml", "status")
	require.ErrorContains(t, err, `invalid format "xml"`)
}

func TestDelete_ArgConflict(t *testing.T) {
	db := testDB(t)
	_, err := runCLI(t, "--db", db, "--user", "u1", "delete", "ev-1", "--all")
	require.ErrorContains(t, err, "not both")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestAddStatusFlow(t *testing.T) {
	db := testDB(t)
	day := yesterday()
	base := []string{"--db", db, "--user", "u1"}

	out, err := runCLI(t, append(base, "add", "in", day, "09:00")...)
	require.NoError(t, err)
	assert.Contains(t, out, "clocked in "+day+" 09:00")

	out, err = runCLI(t, append(base, "add", "out", day, "12:00")...)
	require.NoError(t, err)
	assert.Contains(t, out, "clocked out "+day+" 12:00")

	out, err = runCLI(t, append(base, "status", day)...)
	require.NoError(t, err)
	assert.Contains(t, out, "3h00m")

	out, err = runCLI(t, append(base, "list", day)...)
	require.NoError(t, err)
	assert.Contains(t, out, "in")
	assert.Contains(t, out, "out")
}

func TestAdd_RejectionIsQuiet(t *testing.T) {
	db := testDB(t)
	day := yesterday()

	// A day cannot start with a clock-out.
	out, err := runCLI(t, "--db", db, "--user", "u1", "add", "out", day, "09:00")
	require.Error(t, err)
	assert.Contains(t, out, "rejected:")
	assert.Equal(t, ExitRejected, GetExitCode(err))
	assert.True(t, IsQuiet(err))
}

func TestAdd_RejectionJSON(t *testing.T) {
	db := testDB(t)
	day := yesterday()

	out, err := runCLI(t, "--db", db, "--user", "u1", "--format", "json",
		"add", "out", day, "09:00")
	require.Error(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "BROKEN_ALTERNATION", resp.Error.Code)
}

func addEvent(t *testing.T, db, kind, day, clock string) string {
	t.Helper()
	out, err := runCLI(t, "--db", db, "--user", "u1", "--format", "json",
		"add", kind, day, clock)
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "ok", resp.Status)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	id, ok := data["event_id"].(string)
	require.True(t, ok)
	return id
}

func TestEditAndDelete(t *testing.T) {
	db := testDB(t)
	day := yesterday()
	base := []string{"--db", db, "--user", "u1"}

	inID := addEvent(t, db, "in", day, "09:05")
	addEvent(t, db, "out", day, "12:00")

	out, err := runCLI(t, append(base, "edit", inID, "09:00")...)
	require.NoError(t, err)
	assert.Contains(t, out, "09:00")

	// An edited event shows up marked in the list.
	out, err = runCLI(t, append(base, "list", day)...)
	require.NoError(t, err)
	assert.Contains(t, out, inID+"  in   09:00 *")

	out, err = runCLI(t, append(base, "delete", inID)...)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted "+inID)

	out, err = runCLI(t, append(base, "delete", "--all", "--date", day)...)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted 1 events on "+day)

	out, err = runCLI(t, append(base, "list", day)...)
	require.NoError(t, err)
	assert.Contains(t, out, "no events on "+day)
}

func TestReport_JSON(t *testing.T) {
	db := testDB(t)
	day := yesterday()
	addEvent(t, db, "in", day, "09:00")
	addEvent(t, db, "out", day, "17:30")

	out, err := runCLI(t, "--db", db, "--user", "u1", "--format", "json",
		"report", "monthly")
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestReport_UnknownPeriod(t *testing.T) {
	db := testDB(t)
	_, err := runCLI(t, "--db", db, "--user", "u1", "report", "hourly")
	require.ErrorContains(t, err, `unknown period "hourly"`)
}
