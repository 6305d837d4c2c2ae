package timeslot

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrBadDate      = errors.New("timeslot: date must be YYYY-MM-DD")
	ErrBadClock     = errors.New("timeslot: clock must be HH:MM")
	ErrBadDuration  = errors.New("timeslot: duration must be a positive whole number of hours")
	ErrPastMidnight = errors.New("timeslot: slot must not cross midnight")
	ErrBadWindow    = errors.New("timeslot: operating window must be HH:MM-HH:MM")
)

const (
	dateLayout   = "2006-01-02"
	clockLayout  = "15:04"
	minutesInDay = 24 * 60
)

// ParseDate parses a calendar date, normalized to UTC midnight. All dates in
// the booking model live in a single implicit time zone.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrBadDate
	}
	return d.UTC(), nil
}

// FormatDate renders a date in the canonical YYYY-MM-DD form.
func FormatDate(d time.Time) string {
	return d.UTC().Format(dateLayout)
}

// ParseClock parses an HH:MM time of day into minutes from midnight.
func ParseClock(s string) (int, error) {
	c, err := time.Parse(clockLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, ErrBadClock
	}
	return c.Hour()*60 + c.Minute(), nil
}

// FormatClock renders minutes from midnight as HH:MM.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Slot is a half-open interval [Start, End) of minutes from midnight on a
// single calendar day for a single venue.
type Slot struct {
	Start int `json:"start" bson:"start"`
	Hours int `json:"hours" bson:"hours"`
}

// NewSlot validates the start minute and whole-hour duration, and rejects
// slots that would cross midnight.
func NewSlot(startMinute, hours int) (Slot, error) {
	if startMinute < 0 || startMinute >= minutesInDay {
		return Slot{}, ErrBadClock
	}
	if hours <= 0 {
		return Slot{}, ErrBadDuration
	}
	s := Slot{Start: startMinute, Hours: hours}
	if s.End() > minutesInDay {
		return Slot{}, ErrPastMidnight
	}
	return s, nil
}

// End returns the exclusive end minute, Start + Hours*60.
func (s Slot) End() int {
	return s.Start + s.Hours*60
}

// Overlaps reports whether two half-open intervals intersect. The test
// handles one slot fully inside, fully containing, or partially overlapping
// the other.
func (s Slot) Overlaps(other Slot) bool {
	return s.Start < other.End() && other.Start < s.End()
}

func (s Slot) String() string {
	return FormatClock(s.Start) + "-" + FormatClock(s.End())
}

// Window is the daily operating-hours interval [Open, Close) of a venue.
type Window struct {
	Open  int `json:"open" bson:"open"`
	Close int `json:"close" bson:"close"`
}

// ParseWindow parses "HH:MM-HH:MM" (spaces around the dash tolerated).
func ParseWindow(s string) (Window, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return Window{}, ErrBadWindow
	}
	open, err := ParseClock(parts[0])
	if err != nil {
		return Window{}, ErrBadWindow
	}
	clos, err := ParseClock(parts[1])
	if err != nil {
		return Window{}, ErrBadWindow
	}
	if clos <= open {
		return Window{}, ErrBadWindow
	}
	return Window{Open: open, Close: clos}, nil
}

// Contains reports whether the slot fits entirely inside the window.
func (w Window) Contains(s Slot) bool {
	return s.Start >= w.Open && s.End() <= w.Close
}

func (w Window) String() string {
	return FormatClock(w.Open) + "-" + FormatClock(w.Close)
}

// DaySet is the set of weekdays a venue operates on.
type DaySet uint8

// ParseDays parses a comma-separated list of weekday names
// ("Monday,Tuesday,..."), case-insensitive.
func ParseDays(s string) (DaySet, error) {
	var set DaySet
	for _, raw := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		found := false
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			if strings.ToLower(wd.String()) == name {
				set |= 1 << uint(wd)
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("timeslot: unknown weekday %q", raw)
		}
	}
	return set, nil
}

// EveryDay is the set containing all seven weekdays.
const EveryDay DaySet = 1<<7 - 1

func (d DaySet) Contains(wd time.Weekday) bool {
	return d&(1<<uint(wd)) != 0
}

func (d DaySet) IsEmpty() bool { return d == 0 }

func (d DaySet) String() string {
	var names []string
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if d.Contains(wd) {
			names = append(names, wd.String())
		}
	}
	return strings.Join(names, ",")
}
