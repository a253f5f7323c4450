// Package hourslot is the fixed bookable-hours registry. Every
// schedule stores hour codes, never clock times; this package is the
// only place codes and wall-clock labels meet.
package hourslot

import (
	"fmt"
	"strings"

	apperrors "unispace/pkg/errors"
)

// Slot is one bookable hour of the campus day.
type Slot struct {
	Code      int    `json:"code"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// The campus day runs 07:00 to 19:00 in twelve one-hour slots. The
// table is append-only: codes are persisted in schedules, so an
// existing code must never change meaning.
var slots = []Slot{
	{Code: 1, StartTime: "07:00:00", EndTime: "08:00:00"},
	{Code: 2, StartTime: "08:00:00", EndTime: "09:00:00"},
	{Code: 3, StartTime: "09:00:00", EndTime: "10:00:00"},
	{Code: 4, StartTime: "10:00:00", EndTime: "11:00:00"},
	{Code: 5, StartTime: "11:00:00", EndTime: "12:00:00"},
	{Code: 6, StartTime: "12:00:00", EndTime: "13:00:00"},
	{Code: 7, StartTime: "13:00:00", EndTime: "14:00:00"},
	{Code: 8, StartTime: "14:00:00", EndTime: "15:00:00"},
	{Code: 9, StartTime: "15:00:00", EndTime: "16:00:00"},
	{Code: 10, StartTime: "16:00:00", EndTime: "17:00:00"},
	{Code: 11, StartTime: "17:00:00", EndTime: "18:00:00"},
	{Code: 12, StartTime: "18:00:00", EndTime: "19:00:00"},
}

var byCode = func() map[int]Slot {
	m := make(map[int]Slot, len(slots))
	for _, s := range slots {
		m[s.Code] = s
	}
	return m
}()

var byStart = func() map[string]Slot {
	m := make(map[string]Slot, len(slots))
	for _, s := range slots {
		m[s.StartTime] = s
	}
	return m
}()

// Lookup resolves a single hour code.
func Lookup(code int) (Slot, bool) {
	s, ok := byCode[code]
	return s, ok
}

// All returns the registry in code order.
func All() []Slot {
	out := make([]Slot, len(slots))
	copy(out, slots)
	return out
}

// MinCode and MaxCode bound the valid code range.
func MinCode() int { return slots[0].Code }
func MaxCode() int { return slots[len(slots)-1].Code }

// FromStartTime resolves a wall-clock start label to its slot. The
// label is normalized first, so "9:00", "09:00" and "09:00:00" all
// resolve to the same slot.
func FromStartTime(label string) (Slot, bool) {
	normalized, err := NormalizeTime(label)
	if err != nil {
		return Slot{}, false
	}
	s, ok := byStart[normalized]
	return s, ok
}

// NormalizeTime canonicalizes a time label to HH:MM:SS. Accepted
// inputs: H:MM, HH:MM, H:MM:SS, HH:MM:SS.
func NormalizeTime(label string) (string, error) {
	parts := strings.Split(strings.TrimSpace(label), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return "", fmt.Errorf("malformed time %q", label)
	}
	if len(parts) == 2 {
		parts = append(parts, "00")
	}

	for i, p := range parts {
		if len(p) == 1 {
			p = "0" + p
		}
		if len(p) != 2 || p[0] < '0' || p[0] > '9' || p[1] < '0' || p[1] > '9' {
			return "", fmt.Errorf("malformed time %q", label)
		}
		parts[i] = p
	}

	return strings.Join(parts, ":"), nil
}

// ParseRange splits a "start-end" clock label pair and normalizes both
// sides to HH:MM:SS. "9:00-11:00" yields ("09:00:00", "11:00:00").
func ParseRange(label string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(label), "-", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("malformed range %q", label)
	}

	start, err := NormalizeTime(parts[0])
	if err != nil {
		return "", "", err
	}
	end, err := NormalizeTime(parts[1])
	if err != nil {
		return "", "", err
	}

	return start, end, nil
}

// ValidateRange checks an inclusive [start, end] code pair against the
// registry and the ordering rules. Unknown codes are NotFound; equal
// or inverted bounds are Order errors.
func ValidateRange(startCode, endCode int) error {
	if _, ok := Lookup(startCode); !ok {
		return apperrors.NotFound(fmt.Sprintf("hour code %d", startCode))
	}
	if _, ok := Lookup(endCode); !ok {
		return apperrors.NotFound(fmt.Sprintf("hour code %d", endCode))
	}
	if startCode == endCode {
		return apperrors.Order(fmt.Sprintf("start code %d equals end code %d", startCode, endCode))
	}
	if startCode > endCode {
		return apperrors.Order(fmt.Sprintf("start code %d after end code %d", startCode, endCode))
	}
	return nil
}

// Expand lists every code in the inclusive range. Callers pass ranges
// already checked by ValidateRange; out-of-order input yields nil.
func Expand(startCode, endCode int) []int {
	if startCode > endCode {
		return nil
	}
	codes := make([]int, 0, endCode-startCode+1)
	for c := startCode; c <= endCode; c++ {
		codes = append(codes, c)
	}
	return codes
}
