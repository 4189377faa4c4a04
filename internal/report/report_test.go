package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kintai/internal/localtime"
	"kintai/internal/record"
)

const testOffset = 9 * time.Hour

func jst(day localtime.Date, hour, minute int) time.Time {
	loc := time.FixedZone("JST", 9*3600)
	return time.Date(day.Year, day.Month, day.Day, hour, minute, 0, 0, loc).UTC()
}

func completed(day localtime.Date, sh, sm, eh, em int) record.Session {
	return record.CompletedSession(jst(day, sh, sm), jst(day, eh, em), day)
}

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestSummarize(t *testing.T) {
	day := localtime.Date{Year: 2024, Month: time.March, Day: 15}
	sessions := []record.Session{
		completed(day, 9, 0, 12, 0),
		completed(day, 13, 0, 17, 30),
		record.OpenSession(jst(day, 18, 0), day),
	}

	totals := Summarize(sessions)
	assert.Equal(t, 450, totals.Minutes)
	assert.Equal(t, 2, totals.Completed)
	assert.Equal(t, 1, totals.Open)

	assert.Equal(t, Totals{}, Summarize(nil))
}

func TestRanges(t *testing.T) {
	// 2024-03-15 is a Friday.
	today := localtime.Date{Year: 2024, Month: time.March, Day: 15}

	daily := DailyRange(today)
	assert.Equal(t, today, daily.From)
	assert.Equal(t, today, daily.To)
	assert.Equal(t, "2024-03-15", daily.Label())

	weekly := WeeklyRange(today)
	assert.Equal(t, localtime.Date{Year: 2024, Month: time.March, Day: 11}, weekly.From)
	assert.Equal(t, today, weekly.To)
	assert.Equal(t, "2024-03-11 / 2024-03-15", weekly.Label())

	monthly := MonthlyRange(today)
	assert.Equal(t, localtime.Date{Year: 2024, Month: time.March, Day: 1}, monthly.From)
	assert.Equal(t, today, monthly.To)
}

func TestRender_DailyCompleted(t *testing.T) {
	day := localtime.Date{Year: 2024, Month: time.March, Day: 15}
	sessions := []record.Session{
		completed(day, 9, 0, 12, 0),
		completed(day, 13, 0, 17, 30),
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, DailyRange(day), "山田", sessions, testOffset))
	newGoldie(t).Assert(t, "daily_completed", buf.Bytes())
}

func TestRender_WeeklyWithOpen(t *testing.T) {
	thu := localtime.Date{Year: 2024, Month: time.March, Day: 14}
	fri := localtime.Date{Year: 2024, Month: time.March, Day: 15}
	sessions := []record.Session{
		completed(thu, 9, 0, 17, 0),
		completed(fri, 9, 0, 12, 0),
		record.OpenSession(jst(fri, 13, 0), fri),
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, WeeklyRange(fri), "山田", sessions, testOffset))
	newGoldie(t).Assert(t, "weekly_with_open", buf.Bytes())
}

func TestRender_Empty(t *testing.T) {
	day := localtime.Date{Year: 2024, Month: time.March, Day: 15}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, DailyRange(day), "山田", nil, testOffset))
	newGoldie(t).Assert(t, "report_empty", buf.Bytes())
}

func TestRenderStatus_Day(t *testing.T) {
	day := localtime.Date{Year: 2024, Month: time.March, Day: 15}
	original := jst(day, 12, 30)
	events := []record.Event{
		{Kind: record.ClockIn, At: jst(day, 9, 0)},
		{Kind: record.ClockOut, At: jst(day, 12, 0), Modified: true, OriginalAt: &original},
		{Kind: record.ClockIn, At: jst(day, 13, 0)},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderStatus(&buf, day, "山田", events, testOffset))
	newGoldie(t).Assert(t, "status_day", buf.Bytes())
}

func TestRenderStatus_OrphanOut(t *testing.T) {
	day := localtime.Date{Year: 2024, Month: time.March, Day: 15}
	events := []record.Event{
		{Kind: record.ClockOut, At: jst(day, 6, 0)},
		{Kind: record.ClockIn, At: jst(day, 9, 0)},
		{Kind: record.ClockOut, At: jst(day, 12, 0)},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderStatus(&buf, day, "山田", events, testOffset))
	newGoldie(t).Assert(t, "status_orphan_out", buf.Bytes())
}

func TestRenderStatus_Empty(t *testing.T) {
	day := localtime.Date{Year: 2024, Month: time.March, Day: 15}

	var buf bytes.Buffer
	require.NoError(t, RenderStatus(&buf, day, "山田", nil, testOffset))
	newGoldie(t).Assert(t, "status_empty", buf.Bytes())
}

func TestPadRight_WideRunes(t *testing.T) {
	assert.Equal(t, "開始  ", padRight("開始", 6))
	assert.Equal(t, "勤務中", padRight("勤務中", 6))
	assert.Equal(t, "ab    ", padRight("ab", 6))
	assert.Equal(t, "toolong", padRight("toolong", 6))
}
