package schedule

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultMatchWindow is how far past a scheduled time a tick may land
// and still count as that slot.
const DefaultMatchWindow = 5 * time.Minute

type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) minutes() int {
	return t.Hour*60 + t.Minute
}

// ParseTimes parses a comma-separated list of HH:MM times. Invalid
// entries are skipped with a warning, the rest are returned sorted.
func ParseTimes(s string) []TimeOfDay {
	var times []TimeOfDay
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		t, err := parseTime(part)
		if err != nil {
			slog.Warn("invalid schedule time, skipping", "time", part, "error", err)
			continue
		}
		times = append(times, t)
	}
	sort.Slice(times, func(i, j int) bool { return times[i].minutes() < times[j].minutes() })
	return times
}

func parseTime(s string) (TimeOfDay, error) {
	hh, mm, found := strings.Cut(s, ":")
	if !found {
		return TimeOfDay{}, fmt.Errorf("expected HH:MM, got %q", s)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("bad hour in %q", s)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("bad minute in %q", s)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// DailySchedule fires at fixed times of day, every day.
type DailySchedule struct {
	times  []TimeOfDay
	window time.Duration
}

func NewDailySchedule(times []TimeOfDay, window time.Duration) *DailySchedule {
	if window <= 0 {
		window = DefaultMatchWindow
	}
	return &DailySchedule{times: times, window: window}
}

// ShouldRun reports whether now falls within the match window of any
// scheduled time. The caller is responsible for suppressing repeat
// runs inside the same window.
func (s *DailySchedule) ShouldRun(now time.Time) bool {
	nowMinutes := now.Hour()*60 + now.Minute()
	windowMinutes := int(s.window.Minutes())
	for _, t := range s.times {
		diff := nowMinutes - t.minutes()
		if diff < 0 {
			diff = -diff
		}
		if diff <= windowMinutes {
			return true
		}
	}
	return false
}

// Next returns the next scheduled run at or after now, or ok=false
// when no times are configured.
func (s *DailySchedule) Next(now time.Time) (time.Time, bool) {
	if len(s.times) == 0 {
		return time.Time{}, false
	}
	nowMinutes := now.Hour()*60 + now.Minute()
	for _, t := range s.times {
		if nowMinutes <= t.minutes() {
			return time.Date(now.Year(), now.Month(), now.Day(), t.Hour, t.Minute, 0, 0, now.Location()), true
		}
	}
	first := s.times[0]
	tomorrow := now.AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), first.Hour, first.Minute, 0, 0, now.Location()), true
}
