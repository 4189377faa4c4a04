// Package report renders attendance summaries and the day's raw event
// log as text.
//
// Output mixes Japanese labels with ASCII times, so column alignment is
// done in display cells rather than runes (East Asian wide characters
// occupy two cells).
package report

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/text/width"

	"kintai/internal/localtime"
	"kintai/internal/record"
)

// Totals aggregates a session list.
type Totals struct {
	Minutes   int // sum over completed sessions
	Completed int
	Open      int
}

// Summarize totals the completed minutes and counts session states.
func Summarize(sessions []record.Session) Totals {
	var t Totals
	for _, s := range sessions {
		if s.Completed {
			t.Completed++
			if s.Minutes != nil {
				t.Minutes += *s.Minutes
			}
		} else {
			t.Open++
		}
	}
	return t
}

// Range is an inclusive day range with a report title.
type Range struct {
	Title string
	From  localtime.Date
	To    localtime.Date
}

// DailyRange covers just today.
func DailyRange(today localtime.Date) Range {
	return Range{Title: "日次レポート", From: today, To: today}
}

// WeeklyRange covers Monday of the current week through today.
func WeeklyRange(today localtime.Date) Range {
	return Range{Title: "週次レポート", From: today.StartOfWeek(), To: today}
}

// MonthlyRange covers the 1st of the current month through today.
func MonthlyRange(today localtime.Date) Range {
	return Range{Title: "月次レポート", From: today.StartOfMonth(), To: today}
}

// Label renders the range for the report header.
func (r Range) Label() string {
	if r.From == r.To {
		return r.From.String()
	}
	return r.From.String() + " / " + r.To.String()
}

// Render writes the session table for one user and range.
func Render(w io.Writer, r Range, displayName string, sessions []record.Session, offset time.Duration) error {
	fmt.Fprintf(w, "%s %s (%s)\n\n", r.Title, r.Label(), displayName)

	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "記録はありません")
		return err
	}

	for _, s := range sessions {
		times := localtime.FormatClock(s.Start, offset) + "-"
		tail := "(勤務中)"
		if s.End != nil {
			times += localtime.FormatClock(*s.End, offset)
			tail = localtime.FormatMinutes(*s.Minutes)
		}
		fmt.Fprintf(w, "%s  %s  %s\n", s.Day, padRight(times, 11), tail)
	}

	t := Summarize(sessions)
	_, err := fmt.Fprintf(w, "\n合計 %s / 完了 %d 勤務中 %d\n",
		localtime.FormatMinutes(t.Minutes), t.Completed, t.Open)
	return err
}

// RenderStatus writes the day's raw event log: every clock action in
// order, with per-session durations, edit markers, and anomalies
// spelled out. This is the view users check before editing a record.
func RenderStatus(w io.Writer, day localtime.Date, displayName string, events []record.Event, offset time.Duration) error {
	fmt.Fprintf(w, "勤務記録 %s (%s)\n\n", day, displayName)

	if len(events) == 0 {
		_, err := fmt.Fprintln(w, "記録はありません")
		return err
	}

	var (
		openStart    *time.Time
		session      int
		totalMinutes int
	)
	for _, e := range events {
		switch e.Kind {
		case record.ClockIn:
			session++
			fmt.Fprintf(w, "#%d  %s  %s%s\n",
				session, padRight("開始", 6), localtime.FormatClock(e.At, offset), modifiedMark(e, offset))
			at := e.At
			openStart = &at
		case record.ClockOut:
			if openStart == nil {
				fmt.Fprintf(w, "#%d  %s  %s  (対応する開始なし)\n",
					session, padRight("終了", 6), localtime.FormatClock(e.At, offset))
				continue
			}
			minutes := int(e.At.Sub(*openStart) / time.Minute)
			totalMinutes += minutes
			fmt.Fprintf(w, "#%d  %s  %s  %s%s\n",
				session, padRight("終了", 6), localtime.FormatClock(e.At, offset),
				localtime.FormatMinutes(minutes), modifiedMark(e, offset))
			openStart = nil
		}
	}
	if openStart != nil {
		fmt.Fprintf(w, "#%d  勤務中\n", session)
	}

	if totalMinutes > 0 {
		fmt.Fprintf(w, "\n合計 %s\n", localtime.FormatMinutes(totalMinutes))
	}
	return nil
}

func modifiedMark(e record.Event, offset time.Duration) string {
	if !e.Modified {
		return ""
	}
	if e.OriginalAt != nil {
		return fmt.Sprintf("  (修正済み: 元 %s)", localtime.FormatClock(*e.OriginalAt, offset))
	}
	return "  (修正済み)"
}

// padRight pads s with spaces to the given display-cell width. Wide and
// fullwidth runes count as two cells.
func padRight(s string, cells int) string {
	n := displayWidth(s)
	for n < cells {
		s += " "
		n++
	}
	return s
}

func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}
