// Package localtime normalizes human time input against a fixed UTC offset.
//
// Attendance is filed by calendar day in one fixed local offset (UTC+9 in the
// default deployment), never by UTC midnight. Every "which day does this
// instant belong to" decision in the codebase must go through DayOf so that
// the answer is computed in exactly one place.
//
// The parser additionally accepts extended "night shift" hours: an input like
// "25:10" means 01:10 on the following calendar day. Parse reports this with a
// day offset of 1; Combine applies the offset before converting to UTC.
package localtime
