// Package roster provides pure aggregation functions over schedule entries:
// canonical weekday ordering, week/store/employee filtering, time-slot
// grouping, and per-employee worked-hour totals. It performs no I/O and is
// safe to run against already-fetched data.
package roster

import (
	"fmt"
	"sort"
	"strings"
)

// Days lists the canonical weekday labels in display and sort order.
var Days = [7]string{
	"Segunda-feira",
	"Terça-feira",
	"Quarta-feira",
	"Quinta-feira",
	"Sexta-feira",
	"Sábado",
	"Domingo",
}

// DayIndex returns the canonical position of a weekday label, or -1 when the
// label is not one of the seven canonical values.
func DayIndex(day string) int {
	for i, d := range Days {
		if d == day {
			return i
		}
	}
	return -1
}

// IsCanonicalDay reports whether day is one of the seven canonical labels.
func IsCanonicalDay(day string) bool {
	return DayIndex(day) >= 0
}

// Entry is one shift assignment as seen by the aggregation layer. Start and
// End hold "HH:MM" clock times; an empty string means the time is not set.
type Entry struct {
	ID           string
	EmployeeName string
	Store        string
	Week         string
	Day          string
	Start        string
	End          string
}

// Filter narrows an entry set. Week is required by callers that partition by
// week; Store and Employee are optional refinements.
type Filter struct {
	Week     string
	Store    string
	Employee string
}

// Select returns the entries matching the filter, ordered canonically by day
// and then by start time. The input slice is not modified.
func Select(entries []Entry, filter Filter) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if filter.Week != "" && entry.Week != filter.Week {
			continue
		}
		if filter.Store != "" && entry.Store != filter.Store {
			continue
		}
		if filter.Employee != "" && entry.EmployeeName != filter.Employee {
			continue
		}
		out = append(out, entry)
	}

	sort.SliceStable(out, func(i, j int) bool {
		di, dj := DayIndex(out[i].Day), DayIndex(out[j].Day)
		if di != dj {
			return di < dj
		}
		return out[i].Start < out[j].Start
	})
	return out
}

// Stores returns the distinct store names present in the entry set, in first
// appearance order.
func Stores(entries []Entry) []string {
	seen := make(map[string]bool)
	var out []string
	for _, entry := range entries {
		if !seen[entry.Store] {
			seen[entry.Store] = true
			out = append(out, entry.Store)
		}
	}
	return out
}

// Slot is one grouped time slot: every employee sharing the same
// (day, start, end) combination lands in the same slot.
type Slot struct {
	Day       string
	Start     string
	End       string
	Store     string
	Employees []string
}

// Group partitions entries by (day, start, end). Every input entry appears in
// exactly one slot. Slots are ordered canonically by day and then by start
// time; employee names keep input order within a slot. The store recorded on
// a slot is the store of its first entry, matching the per-employee report
// view where slots never span stores.
func Group(entries []Entry) []Slot {
	type key struct {
		day   string
		start string
		end   string
	}

	index := make(map[key]int)
	slots := make([]Slot, 0)
	for _, entry := range entries {
		k := key{day: entry.Day, start: entry.Start, end: entry.End}
		pos, ok := index[k]
		if !ok {
			pos = len(slots)
			index[k] = pos
			slots = append(slots, Slot{
				Day:   entry.Day,
				Start: entry.Start,
				End:   entry.End,
				Store: entry.Store,
			})
		}
		slots[pos].Employees = append(slots[pos].Employees, entry.EmployeeName)
	}

	sort.SliceStable(slots, func(i, j int) bool {
		di, dj := DayIndex(slots[i].Day), DayIndex(slots[j].Day)
		if di != dj {
			return di < dj
		}
		return slots[i].Start < slots[j].Start
	})
	return slots
}

// Options adjusts how worked hours are computed.
type Options struct {
	// AllowOvernight treats end < start as a shift crossing midnight and adds
	// 24 hours instead of clamping the contribution to zero.
	AllowOvernight bool
}

// TotalHours sums (end - start) in fractional hours over entries where both
// times are present. Under the default policy a negative difference is
// clamped to zero, so the result is never negative; with AllowOvernight the
// difference wraps past midnight instead.
func TotalHours(entries []Entry, opts Options) float64 {
	var total float64
	for _, entry := range entries {
		start, okStart := parseClock(entry.Start)
		end, okEnd := parseClock(entry.End)
		if !okStart || !okEnd {
			continue
		}
		diff := end - start
		if diff < 0 {
			if opts.AllowOvernight {
				diff += 24
			} else {
				diff = 0
			}
		}
		total += diff
	}
	return total
}

// EmployeeHours pairs an employee name with a worked-hour total.
type EmployeeHours struct {
	Name  string
	Hours float64
}

// HoursByEmployee computes per-employee totals over the entry set, sorted by
// employee name so the summary table reads the same regardless of insertion
// order.
func HoursByEmployee(entries []Entry, opts Options) []EmployeeHours {
	index := make(map[string]int)
	out := make([]EmployeeHours, 0)
	for _, entry := range entries {
		pos, ok := index[entry.EmployeeName]
		if !ok {
			pos = len(out)
			index[entry.EmployeeName] = pos
			out = append(out, EmployeeHours{Name: entry.EmployeeName})
		}
		out[pos].Hours += TotalHours([]Entry{entry}, opts)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// parseClock converts an "HH:MM" clock string to fractional hours. The second
// return value reports whether the value was parseable.
func parseClock(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	var hours, minutes int
	if _, err := fmt.Sscanf(value, "%d:%d", &hours, &minutes); err != nil {
		return 0, false
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return float64(hours) + float64(minutes)/60, true
}
