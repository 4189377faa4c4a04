package engine

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kintai/internal/record"
)

func TestReconstruct_TwoCompletedSessions(t *testing.T) {
	r := NewReconstructor(slog.Default())
	events := mkEvents("u1",
		record.ClockIn, jst(2024, time.March, 15, 9, 0),
		record.ClockOut, jst(2024, time.March, 15, 12, 0),
		record.ClockIn, jst(2024, time.March, 15, 13, 0),
		record.ClockOut, jst(2024, time.March, 15, 17, 30),
	)

	sessions := r.Reconstruct(events, today)
	require.Len(t, sessions, 2)

	require.NotNil(t, sessions[0].Minutes)
	assert.Equal(t, 180, *sessions[0].Minutes)
	require.NotNil(t, sessions[1].Minutes)
	assert.Equal(t, 270, *sessions[1].Minutes)
	assert.True(t, sessions[0].Completed)
	assert.True(t, sessions[1].Completed)
	assert.Equal(t, 450, *sessions[0].Minutes+*sessions[1].Minutes)
}

func TestReconstruct_SingleOpenSession(t *testing.T) {
	r := NewReconstructor(slog.Default())
	events := mkEvents("u1",
		record.ClockIn, jst(2024, time.March, 15, 9, 0),
	)

	sessions := r.Reconstruct(events, today)
	require.Len(t, sessions, 1)
	assert.False(t, sessions[0].Completed)
	assert.Nil(t, sessions[0].End)
	assert.Nil(t, sessions[0].Minutes)
	assert.Equal(t, jst(2024, time.March, 15, 9, 0), sessions[0].Start)
}

func TestReconstruct_Empty(t *testing.T) {
	r := NewReconstructor(slog.Default())
	assert.Empty(t, r.Reconstruct(nil, today))
}

func TestReconstruct_OrphanClockOut(t *testing.T) {
	r := NewReconstructor(slog.Default())
	events := mkEvents("u1",
		record.ClockOut, jst(2024, time.March, 15, 8, 0),
		record.ClockIn, jst(2024, time.March, 15, 9, 0),
		record.ClockOut, jst(2024, time.March, 15, 17, 0),
	)

	// The orphan out is dropped with a warning; the rest pairs normally.
	sessions := r.Reconstruct(events, today)
	require.Len(t, sessions, 1)
	assert.Equal(t, 480, *sessions[0].Minutes)
}

func TestReconstruct_DoubleClockIn_LastStartWins(t *testing.T) {
	r := NewReconstructor(slog.Default())
	events := mkEvents("u1",
		record.ClockIn, jst(2024, time.March, 15, 9, 0),
		record.ClockIn, jst(2024, time.March, 15, 10, 0),
		record.ClockOut, jst(2024, time.March, 15, 12, 0),
	)

	sessions := r.Reconstruct(events, today)
	require.Len(t, sessions, 1)
	assert.Equal(t, jst(2024, time.March, 15, 10, 0), sessions[0].Start)
	assert.Equal(t, 120, *sessions[0].Minutes)
}

// For any strictly alternating sequence starting with a clock-in,
// reconstruction yields floor(n/2) completed sessions, plus one trailing
// open session when n is odd.
func TestReconstruct_AlternatingProperty(t *testing.T) {
	r := NewReconstructor(slog.Default())

	for n := 1; n <= 10; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			var pairs []any
			for i := 0; i < n; i++ {
				kind := record.ClockIn
				if i%2 == 1 {
					kind = record.ClockOut
				}
				pairs = append(pairs, kind, jst(2024, time.March, 15, 8, 0).Add(time.Duration(i)*30*time.Minute))
			}
			sessions := r.Reconstruct(mkEvents("u1", pairs...), today)

			completed := 0
			open := 0
			for _, s := range sessions {
				if s.Completed {
					completed++
					require.NotNil(t, s.Minutes)
					assert.GreaterOrEqual(t, *s.Minutes, 0)
					assert.Equal(t, int(s.End.Sub(s.Start)/time.Minute), *s.Minutes)
				} else {
					open++
				}
			}
			assert.Equal(t, n/2, completed)
			if n%2 == 1 {
				assert.Equal(t, 1, open)
				assert.False(t, sessions[len(sessions)-1].Completed,
					"the open session must be the last one")
			} else {
				assert.Zero(t, open)
			}
		})
	}
}

func TestReconstruct_NeverPanicsOnGarbage(t *testing.T) {
	r := NewReconstructor(slog.Default())

	// Out-only days, in-only days, long runs of the same kind.
	inputs := [][]record.Event{
		mkEvents("u1", record.ClockOut, jst(2024, time.March, 15, 9, 0)),
		mkEvents("u1",
			record.ClockIn, jst(2024, time.March, 15, 9, 0),
			record.ClockIn, jst(2024, time.March, 15, 10, 0),
			record.ClockIn, jst(2024, time.March, 15, 11, 0),
		),
		mkEvents("u1",
			record.ClockOut, jst(2024, time.March, 15, 9, 0),
			record.ClockOut, jst(2024, time.March, 15, 10, 0),
		),
	}

	for i, events := range inputs {
		assert.NotPanics(t, func() { r.Reconstruct(events, today) }, "input %d", i)
	}
}
