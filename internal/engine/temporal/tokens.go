package temporal

import (
	"regexp"
	"strings"
	"time"

	"github.com/crimson-sun/fairnorm/internal/model"
)

// layouts are tried with time.ParseInLocation after dateparse gives up.
// Slash dates are day-first before month-first.
var layouts = []string{
	"2006-01-02",
	"2006-01-02 15:04",
	"2006/01/02 15:04",
	"02/01/2006",
	"2/1/2006",
	"02/01/2006 15:04",
	"2/1/2006 15:04",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"2 Jan 2006 15:04",
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
}

func parseLayouts(s string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, model.HK); err == nil {
			return t.In(model.HK), true
		}
	}
	return time.Time{}, false
}

var months = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

const monthName = `(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?`

var (
	tokYMD      = regexp.MustCompile(`(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})`)
	tokDMY      = regexp.MustCompile(`(\d{1,2})[-/.](\d{1,2})[-/.](\d{4})`)
	tokDayMonth = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+` + monthName + `,?\s+(\d{4})`)
	tokMonthDay = regexp.MustCompile(`(?i)\b` + monthName + `\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})`)

	tokClock    = regexp.MustCompile(`(?i)(上午|下午|中午|晚上|早上|凌晨)?\s*(\d{1,2})\s*(?::|時|时|點|点)\s*(\d{2})?\s*(?:([ap])\.?m\b\.?)?`)
	tokClockAMP = regexp.MustCompile(`(?i)\b(\d{1,2})\s*([ap])\.?m\b\.?`)
)

type dateToken struct {
	at, end          int
	year, month, day int
}

// firstDate finds the earliest date token in s.
func firstDate(s string) (dateToken, bool) {
	var best dateToken
	found := false
	consider := func(d dateToken) {
		if !found || d.at < best.at {
			best, found = d, true
		}
	}

	if m := tokYMD.FindStringSubmatchIndex(s); m != nil {
		consider(dateToken{m[0], m[1], atoi(s[m[2]:m[3]]), atoi(s[m[4]:m[5]]), atoi(s[m[6]:m[7]])})
	}
	if m := tokDMY.FindStringSubmatchIndex(s); m != nil {
		day, month := atoi(s[m[2]:m[3]]), atoi(s[m[4]:m[5]])
		if month > 12 && day <= 12 {
			day, month = month, day
		}
		consider(dateToken{m[0], m[1], atoi(s[m[6]:m[7]]), month, day})
	}
	if m := tokDayMonth.FindStringSubmatchIndex(s); m != nil {
		consider(dateToken{m[0], m[1], atoi(s[m[6]:m[7]]), monthOf(s[m[4]:m[5]]), atoi(s[m[2]:m[3]])})
	}
	if m := tokMonthDay.FindStringSubmatchIndex(s); m != nil {
		consider(dateToken{m[0], m[1], atoi(s[m[6]:m[7]]), monthOf(s[m[2]:m[3]]), atoi(s[m[4]:m[5]])})
	}
	return best, found
}

func monthOf(name string) int {
	return months[strings.ToLower(name)[:3]]
}

// firstClock finds the first time of day in s.
func firstClock(s string) (hour, minute int, ok bool) {
	m := tokClock.FindStringSubmatchIndex(s)
	a := tokClockAMP.FindStringSubmatchIndex(s)
	if m != nil && (a == nil || m[0] <= a[0]) {
		marker := group(s, m, 1)
		if marker == "" {
			if ap := group(s, m, 4); ap != "" {
				marker = strings.ToLower(ap) + "m"
			}
		}
		return to24(marker, atoi(group(s, m, 2))), atoi(group(s, m, 3)), true
	}
	if a != nil {
		return to24(strings.ToLower(group(s, a, 2))+"m", atoi(group(s, a, 1))), 0, true
	}
	return 0, 0, false
}

// parseTokens combines the first date token with the first clock token that
// follows it. Ranges such as "10:00 - 17:00" resolve to their start.
func parseTokens(s string) (time.Time, bool) {
	d, ok := firstDate(s)
	if !ok {
		return time.Time{}, false
	}
	hour, minute := 0, 0
	if h, m, ok := firstClock(s[d.end:]); ok {
		hour, minute = h, m
	}
	return build(d.year, d.month, d.day, hour, minute)
}

func group(s string, m []int, i int) string {
	if m[2*i] < 0 {
		return ""
	}
	return s[m[2*i]:m[2*i+1]]
}
