package extractor

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/hellenic-development/design-extractor/pkg/snapshot"
)

// motionProperties pairs each duration property with its timing function.
var motionProperties = []struct {
	duration string
	timing   string
}{
	{"transition-duration", "transition-timing-function"},
	{"animation-duration", "animation-timing-function"},
}

// ExtractMotion derives duration tokens and common easing functions from the
// transition and animation styles of visible elements.
func ExtractMotion(snap snapshot.Snapshot, cfg Config) (*MotionSection, error) {
	durations := make(map[int]int)
	easings := newCounter()

	for _, el := range snap.QueryAllVisible(snapshot.Any()) {
		for _, p := range motionProperties {
			ms, ok := ParseDuration(firstListValue(snap.ComputedStyle(el, p.duration)))
			if !ok || ms <= 0 {
				continue
			}
			durations[ms]++
			if timing := firstTimingFunction(snap.ComputedStyle(el, p.timing)); timing != "" {
				easings.add(timing)
			}
		}
	}

	section := &MotionSection{}
	if len(durations) == 0 {
		return section, nil
	}

	distinct := make([]int, 0, len(durations))
	for ms := range durations {
		distinct = append(distinct, ms)
	}
	sort.Ints(distinct)

	token := func(ms int, usage string) Token {
		return Token{
			Value:      strconv.Itoa(ms) + "ms",
			Usage:      usage,
			Count:      durations[ms],
			Confidence: cfg.Confidence.CountToConfidence(durations[ms]),
		}
	}

	for _, ms := range distinct {
		section.Values = append(section.Values, token(ms, ""))
	}

	section.Durations = make(map[string]Token)
	switch n := len(distinct); n {
	case 1:
		section.Durations["normal"] = token(distinct[0], "normal")
	case 2:
		section.Durations["fast"] = token(distinct[0], "fast")
		section.Durations["slow"] = token(distinct[1], "slow")
	default:
		section.Durations["fast"] = token(distinct[0], "fast")
		section.Durations["normal"] = token(distinct[(n-1)/2], "normal")
		section.Durations["slow"] = token(distinct[n-1], "slow")
	}

	ranked := easings.ranked()
	if len(ranked) > 1 {
		// "ease" is the initial value; it only counts when nothing else is used.
		var filtered []string
		for _, e := range ranked {
			if e != "ease" {
				filtered = append(filtered, e)
			}
		}
		ranked = filtered
	}
	for i, e := range ranked {
		if i >= cfg.MaxEasings {
			break
		}
		section.Easings = append(section.Easings, Token{
			Value:      e,
			Count:      easings.count(e),
			Confidence: cfg.Confidence.CountToConfidence(easings.count(e)),
		})
	}

	return section, nil
}

// ParseDuration converts a CSS time ("150ms", "0.3s") to whole milliseconds.
func ParseDuration(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	var factor float64
	switch {
	case strings.HasSuffix(s, "ms"):
		s, factor = strings.TrimSuffix(s, "ms"), 1
	case strings.HasSuffix(s, "s"):
		s, factor = strings.TrimSuffix(s, "s"), 1000
	default:
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return int(math.Round(v * factor)), true
}

// firstTimingFunction returns the first entry of a timing function list,
// keeping commas inside cubic-bezier() and steps().
func firstTimingFunction(s string) string {
	depth := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				return strings.TrimSpace(s[:i])
			}
		}
	}
	return strings.TrimSpace(s)
}
