package record

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kintai/internal/localtime"
)

func TestKind_RoundTrip(t *testing.T) {
	for _, k := range []Kind{ClockIn, ClockOut} {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	// Legacy storage tokens from the first schema revision still parse.
	got, err := ParseKind("start")
	require.NoError(t, err)
	assert.Equal(t, ClockIn, got)

	got, err = ParseKind("end")
	require.NoError(t, err)
	assert.Equal(t, ClockOut, got)

	_, err = ParseKind("pause")
	assert.Error(t, err)
}

func TestCompletedSession_Duration(t *testing.T) {
	day := localtime.Date{Year: 2024, Month: time.March, Day: 15}
	start := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	end := start.Add(7*time.Hour + 30*time.Minute)

	s := CompletedSession(start, end, day)
	require.NotNil(t, s.Minutes)
	require.NotNil(t, s.End)
	assert.Equal(t, 450, *s.Minutes)
	assert.True(t, s.Completed)
	assert.Equal(t, day, s.Day)
}

func TestOpenSession(t *testing.T) {
	day := localtime.Date{Year: 2024, Month: time.March, Day: 15}
	start := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	s := OpenSession(start, day)
	assert.Nil(t, s.End)
	assert.Nil(t, s.Minutes)
	assert.False(t, s.Completed)
}

func TestValidationError_Error(t *testing.T) {
	err := NewValidationError(ErrCodeFutureDate, "cannot record against a future date")
	assert.Equal(t, "FUTURE_DATE: cannot record against a future date", err.Error())

	err = NewAlternationError("clock-in follows clock-in", 3)
	assert.Equal(t, "BROKEN_ALTERNATION: clock-in follows clock-in (position 3)", err.Error())
}

func TestIsValidation_Wrapped(t *testing.T) {
	inner := NewValidationError(ErrCodeDuplicateInstant, "instant already recorded")
	wrapped := fmt.Errorf("add event: %w", inner)

	assert.True(t, IsValidation(wrapped))
	assert.False(t, IsValidation(errors.New("disk full")))

	var ve *ValidationError
	require.ErrorAs(t, wrapped, &ve)
	assert.Equal(t, ErrCodeDuplicateInstant, ve.Code)
}
