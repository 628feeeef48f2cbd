package remind

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

var (
	reWeekdayList = regexp.MustCompile(`^[A-Za-z]{2,}(,[A-Za-z]{2,})*$`)
	reDay         = regexp.MustCompile(`^\d{1,2}$`)
	reMonthDay    = regexp.MustCompile(`^\d{1,2} \d{1,2}$`)
	reFullDate    = regexp.MustCompile(`^\d{4} \d{1,2} \d{1,2}$`)
)

// weekdayNames is the match order for weekday tokens: the first name that
// contains the token wins, so "day" means monday.
var weekdayNames = []struct {
	name string
	day  time.Weekday
}{
	{"monday", time.Monday},
	{"tuesday", time.Tuesday},
	{"wednesday", time.Wednesday},
	{"thursday", time.Thursday},
	{"friday", time.Friday},
	{"saturday", time.Saturday},
	{"sunday", time.Sunday},
}

// rruleWeekdays is indexed by time.Weekday.
var rruleWeekdays = [7]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// dateLayout is shared by month-day and full-date expressions; month-day
// gets the current year prepended.
const dateLayout = "2006 1 2"

// ParseDateExpression resolves a date expression relative to now. All
// returned dates are local midnight in now's location.
//
// Supported forms, checked in this order:
//
//	mon,thu      weekdays of the Sunday-starting week containing now
//	15           day 15 of the current month (29..31 may roll into the next month)
//	12 25        month and day in the current year
//	2030 1 1     year, month and day
//
// Weekdays keep "current week" semantics: asking for monday on a thursday
// yields the monday three days ago, not the next one.
func ParseDateExpression(expr string, now time.Time) ([]time.Time, error) {
	expr = strings.TrimSpace(expr)

	switch {
	case reWeekdayList.MatchString(expr):
		return weekdaysInWeek(expr, now)
	case reDay.MatchString(expr):
		d, err := dayOfMonth(expr, now)
		if err != nil {
			return nil, err
		}
		return []time.Time{d}, nil
	case reMonthDay.MatchString(expr):
		d, err := calendarDate(fmt.Sprintf("%04d %s", now.Year(), expr), expr, now.Location())
		if err != nil {
			return nil, err
		}
		return []time.Time{d}, nil
	case reFullDate.MatchString(expr):
		d, err := calendarDate(expr, expr, now.Location())
		if err != nil {
			return nil, err
		}
		return []time.Time{d}, nil
	default:
		return nil, newError(KindDateFormat, 0, expr, nil)
	}
}

// StartOfDay returns local midnight of t's day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return midnight(y, m, d, t.Location())
}

// StartOfWeek returns midnight of the Sunday that starts t's week.
func StartOfWeek(t time.Time) time.Time {
	y, m, d := t.Date()
	return midnight(y, m, d-int(t.Weekday()), t.Location())
}

// midnight returns the first instant of the given day in loc; day may be
// out of range and is normalized like time.Date does. Where a DST change
// skips midnight, the day starts when the clocks jump forward.
func midnight(year int, month time.Month, day int, loc *time.Location) time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, loc)
	want := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if y, m, d := t.Date(); y != want.Year() || m != want.Month() || d != want.Day() {
		// time.Date resolved the missing midnight to the evening before.
		_, end := t.ZoneBounds()
		t = end
	}
	return t
}

func matchWeekday(token string) (time.Weekday, bool) {
	token = strings.ToLower(token)
	for _, w := range weekdayNames {
		if strings.Contains(w.name, token) {
			return w.day, true
		}
	}
	return 0, false
}

func weekdaysInWeek(expr string, now time.Time) ([]time.Time, error) {
	var byDay []rrule.Weekday
	seen := make(map[time.Weekday]bool)
	for _, token := range strings.Split(expr, ",") {
		wd, ok := matchWeekday(token)
		if !ok {
			return nil, newError(KindDateFormat, 0, token, errors.New("no weekday matches"))
		}
		if seen[wd] {
			continue
		}
		seen[wd] = true
		byDay = append(byDay, rruleWeekdays[wd])
	}

	// Anchor the rule at noon: rrule-go copies the start's wall clock onto
	// every occurrence, and midnight does not exist on some DST days.
	y, m, d := now.Date()
	anchor := time.Date(y, m, d-int(now.Weekday()), 12, 0, 0, 0, now.Location())
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Wkst:      rrule.SU,
		Dtstart:   anchor,
		Until:     anchor.AddDate(0, 0, 6),
		Byweekday: byDay,
	})
	if err != nil {
		return nil, newError(KindDateFormat, 0, expr, err)
	}

	occurrences := rule.All()
	dates := make([]time.Time, 0, len(occurrences))
	for _, o := range occurrences {
		oy, om, od := o.Date()
		dates = append(dates, midnight(oy, om, od, now.Location()))
	}
	return dates, nil
}

func dayOfMonth(expr string, now time.Time) (time.Time, error) {
	day, err := strconv.Atoi(expr)
	if err != nil {
		return time.Time{}, newError(KindDateFormat, 0, expr, err)
	}
	if day < 1 || day > 31 {
		return time.Time{}, newError(KindInvalidCalendarDate, 0, expr, errors.New("day out of range"))
	}
	y, m, _ := now.Date()
	// February 30 normalizes into March.
	return midnight(y, m, day, now.Location()), nil
}

func calendarDate(value, input string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, newError(KindInvalidCalendarDate, 0, input, err)
	}
	y, m, d := t.Date()
	return midnight(y, m, d, loc), nil
}
