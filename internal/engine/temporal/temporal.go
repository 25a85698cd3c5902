// Package temporal parses free-text event dates and times into timestamps fixed
// to Hong Kong time (UTC+8).
//
// Strategies are tried in order and the first success wins:
//
//  1. government dialect (only with model.HintGovernment): strict
//     <year>年<month>月<day>日 with an optional (上午|下午)hh:mm. A strict match
//     is authoritative even when it describes an impossible date.
//  2. lenient Chinese dates (年/月/日 with 上午/下午/中午/晚上 and 時/點).
//  3. dateparse over the whole string, day-first.
//  4. a fixed list of layouts.
//  5. token extraction: the first date and the first time found anywhere in
//     the text, so "15/03/2024 (Fri) 10:00 - 17:00" yields 10:00.
//
// Naive values are taken to already be Hong Kong local time; aware values are
// converted. Nothing here returns an error: failure is reported as ok=false.
package temporal

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/crimson-sun/fairnorm/internal/engine/sanitize"
	"github.com/crimson-sun/fairnorm/internal/model"
)

// Strategy names the step that produced a timestamp.
type Strategy string

const (
	StrategyNone       Strategy = ""
	StrategyGovernment Strategy = "government"
	StrategyChinese    Strategy = "chinese"
	StrategyDateparse  Strategy = "dateparse"
	StrategyLayout     Strategy = "layout"
	StrategyTokens     Strategy = "tokens"
)

// Result is a parsed timestamp and the strategy that produced it.
type Result struct {
	Time     time.Time
	Strategy Strategy
}

// OK reports whether a timestamp was produced.
func (r Result) OK() bool { return r.Strategy != StrategyNone }

var weekdayPattern = regexp.MustCompile(
	`[(（]\s*(?:星期|週|周|禮拜|礼拜)[一二三四五六日天]\s*[)）]` +
		`|(?:星期|週|禮拜|礼拜)[一二三四五六日天]` +
		`|(?i:[(（]\s*(?:mon|tue|wed|thu|fri|sat|sun)[a-z]*\.?\s*[)）])`)

// Parse parses a combined date/time string.
func Parse(s string, hint model.SourceHint) (time.Time, bool) {
	r := ParseDetailed(s, hint)
	return r.Time, r.OK()
}

// ParseParts parses date and time that arrived as separate fields.
func ParseParts(date, clock string, hint model.SourceHint) (time.Time, bool) {
	return Parse(Combine(date, clock), hint)
}

// Combine joins separate date and time text.
func Combine(date, clock string) string {
	return strings.TrimSpace(strings.TrimSpace(date) + " " + strings.TrimSpace(clock))
}

// ParseDetailed is Parse that also reports which strategy matched.
func ParseDetailed(s string, hint model.SourceHint) Result {
	s = sanitize.Clean(s)
	if s == "" {
		return Result{}
	}

	if hint == model.HintGovernment {
		if t, matched, ok := parseGovernment(s); matched {
			if !ok {
				return Result{}
			}
			return Result{Time: t, Strategy: StrategyGovernment}
		}
	}

	s = sanitize.Collapse(weekdayPattern.ReplaceAllString(s, " "))
	if s == "" {
		return Result{}
	}

	if t, ok := parseChinese(s); ok {
		return Result{Time: t, Strategy: StrategyChinese}
	}
	if t, err := dateparse.ParseIn(s, model.HK, dateparse.PreferMonthFirst(false)); err == nil {
		return Result{Time: t.In(model.HK), Strategy: StrategyDateparse}
	}
	if t, ok := parseLayouts(s); ok {
		return Result{Time: t, Strategy: StrategyLayout}
	}
	if t, ok := parseTokens(s); ok {
		return Result{Time: t, Strategy: StrategyTokens}
	}
	return Result{}
}

// ParseEnd parses an end value. An end that carries only a clock time
// ("17:00", "下午5:30") takes its date from start.
func ParseEnd(s string, start *time.Time, hint model.SourceHint) (time.Time, bool) {
	if start != nil {
		if h, m, ok := clockOnly(sanitize.Clean(s)); ok {
			d := start.In(model.HK)
			return build(d.Year(), int(d.Month()), d.Day(), h, m)
		}
	}
	return Parse(s, hint)
}

// build validates the components and returns the Hong Kong timestamp.
func build(year, month, day, hour, minute int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 ||
		hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, model.HK)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}
