package temporal

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	govDate = regexp.MustCompile(`(\d{4})\s*年\s*(\d{1,2})\s*月\s*(\d{1,2})\s*日`)
	govTime = regexp.MustCompile(`(上午|下午)?\s*(\d{1,2}):(\d{2})`)

	cnDate = regexp.MustCompile(`(\d{4})\s*[年/.-]\s*(\d{1,2})\s*[月/.-]\s*(\d{1,2})\s*[日號号]?`)
	cnTime = regexp.MustCompile(`(上午|下午|中午|晚上|早上|凌晨)?\s*(\d{1,2})\s*(?::|時|时|點|点)\s*(?:(\d{1,2})\s*分?)?`)
	cnMark = regexp.MustCompile(`[年月日時时點点午]`)

	clockPattern = regexp.MustCompile(`(?i)^(上午|下午|中午|晚上|早上|凌晨)?\s*(\d{1,2})\s*(?::|時|时|點|点)\s*(\d{1,2})?\s*分?\s*([ap])?\.?(?:m\.?)?$`)
)

// parseGovernment applies the strict government-calendar dialect. matched
// reports whether the date pattern was found at all; when it was, the result
// is final and ok reports whether it described a real date and time.
func parseGovernment(s string) (t time.Time, matched, ok bool) {
	m := govDate.FindStringSubmatchIndex(s)
	if m == nil {
		return time.Time{}, false, false
	}
	year, month, day := atoi(s[m[2]:m[3]]), atoi(s[m[4]:m[5]]), atoi(s[m[6]:m[7]])

	hour, minute := 0, 0
	if tm := govTime.FindStringSubmatch(s[m[1]:]); tm != nil {
		hour, minute = to24(tm[1], atoi(tm[2])), atoi(tm[3])
	}
	t, ok = build(year, month, day, hour, minute)
	return t, true, ok
}

// parseChinese is the lenient form used without a hint. It requires at least
// one Chinese date or time marker so plain ISO strings fall through to
// dateparse, which also understands offsets.
func parseChinese(s string) (time.Time, bool) {
	if !cnMark.MatchString(s) {
		return time.Time{}, false
	}
	m := cnDate.FindStringSubmatchIndex(s)
	if m == nil {
		return time.Time{}, false
	}
	year, month, day := atoi(s[m[2]:m[3]]), atoi(s[m[4]:m[5]]), atoi(s[m[6]:m[7]])

	hour, minute := 0, 0
	if tm := cnTime.FindStringSubmatch(s[m[1]:]); tm != nil {
		hour, minute = to24(tm[1], atoi(tm[2])), atoi(tm[3])
	}
	return build(year, month, day, hour, minute)
}

// clockOnly recognizes text that is only a time of day.
func clockOnly(s string) (hour, minute int, ok bool) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, false
	}
	marker := m[1]
	if marker == "" && m[4] != "" {
		marker = strings.ToLower(m[4]) + "m"
	}
	hour, minute = to24(marker, atoi(m[2])), atoi(m[3])
	if hour > 23 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

// to24 converts a 12-hour reading to 24-hour. 上午 keeps the hour as written
// (上午12:00 stays 12). 下午 and 晚上 add 12 below noon, so 下午12:30 is 12:30.
// 中午 means around noon: 1 to 5 o'clock are afternoon hours.
func to24(marker string, hour int) int {
	switch marker {
	case "下午", "晚上", "pm":
		if hour < 12 {
			return hour + 12
		}
	case "中午":
		if hour >= 1 && hour <= 5 {
			return hour + 12
		}
	case "am", "凌晨":
		if hour == 12 {
			return 0
		}
	}
	return hour
}

// atoi parses a regexp digit group; an empty group is zero.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
