// Package confidence turns evidence about a design token into a coarse trust
// level. Evidence is either semantic (where on the page a value is used) or
// statistical (how often it is used).
package confidence

import (
	"strings"

	"github.com/hellenic-development/design-extractor/pkg/colorspace"
	"github.com/hellenic-development/design-extractor/pkg/snapshot"
)

// Level is a confidence label. Levels are totally ordered: High > Medium > Low.
type Level string

const (
	High   Level = "high"
	Medium Level = "medium"
	Low    Level = "low"
)

// Rank returns 3, 2 or 1 for High, Medium and Low, and 0 for anything else.
func Rank(l Level) int {
	switch l {
	case High:
		return 3
	case Medium:
		return 2
	case Low:
		return 1
	}
	return 0
}

// AtLeast reports whether l ranks at or above min.
func (l Level) AtLeast(min Level) bool {
	return Rank(l) >= Rank(min)
}

// Valid reports whether l is one of the three known levels.
func (l Level) Valid() bool {
	return Rank(l) > 0
}

// Merge returns the higher ranked of a and b.
func Merge(a, b Level) Level {
	if Rank(b) > Rank(a) {
		return b
	}
	return a
}

// Max returns the highest level in levels, or Low when levels is empty.
func Max(levels ...Level) Level {
	best := Low
	for _, l := range levels {
		best = Merge(best, l)
	}
	return best
}

// Filter keeps the items whose level is at least min, preserving order.
func Filter[T any](items []T, min Level, levelOf func(T) Level) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if levelOf(item).AtLeast(min) {
			out = append(out, item)
		}
	}
	return out
}

// Overall summarizes many token levels: more than half High gives High, more
// than 70% High or Medium gives Medium, anything else (including no tokens) Low.
func Overall(levels []Level) Level {
	if len(levels) == 0 {
		return Low
	}
	var high, medium int
	for _, l := range levels {
		switch l {
		case High:
			high++
		case Medium:
			medium++
		}
	}
	total := float64(len(levels))
	switch {
	case float64(high)/total > 0.5:
		return High
	case float64(high+medium)/total > 0.7:
		return Medium
	}
	return Low
}

// Keyword is a class or id substring and the score it adds.
type Keyword struct {
	Match  string `toml:"match"`
	Weight int    `toml:"weight"`
}

// Config holds the scoring tables and thresholds. It is a plain value: copy it,
// adjust fields and pass it on; nothing in this package mutates it.
type Config struct {
	TagWeights  map[string]int
	RoleWeights map[string]int
	// Keywords are checked in order; each keyword counts at most once per element.
	Keywords []Keyword

	ButtonBoost    int
	WhiteThreshold float64
	BlackThreshold float64

	// Scores strictly above HighScore are High, strictly above MediumScore Medium.
	HighScore   int
	MediumScore int

	// Counts at or above HighCount are High, at or above MediumCount Medium.
	HighCount   int
	MediumCount int
}

// DefaultConfig returns the built-in scoring tables.
func DefaultConfig() Config {
	return Config{
		TagWeights: map[string]int{
			"button": 3,
			"a":      2,
			"nav":    2,
			"header": 2,
			"h1":     1,
			"h2":     1,
		},
		RoleWeights: map[string]int{
			"button":     3,
			"link":       2,
			"navigation": 2,
		},
		Keywords: []Keyword{
			{"logo", 5},
			{"brand", 5},
			{"primary", 4},
			{"cta", 4},
			{"hero", 3},
			{"button", 3},
			{"link", 2},
			{"nav", 2},
			{"menu", 2},
			{"footer", 1},
			{"card", 1},
			{"container", 0},
			{"wrapper", 0},
			{"content", 0},
			{"inner", 0},
			{"section", 0},
		},
		ButtonBoost:    25,
		WhiteThreshold: colorspace.DefaultWhiteThreshold,
		BlackThreshold: colorspace.DefaultBlackThreshold,
		HighScore:      20,
		MediumScore:    5,
		HighCount:      10,
		MediumCount:    3,
	}
}

// ContextScore scores an element by how prominent its role on the page is.
// Hidden elements always score 0.
func (c Config) ContextScore(el snapshot.ElementContext) int {
	if !el.IsVisible {
		return 0
	}

	score := c.TagWeights[strings.ToLower(el.TagName)]
	score += c.RoleWeights[strings.ToLower(el.Role)]

	haystack := make([]string, 0, len(el.Classes)+1)
	for _, class := range el.Classes {
		haystack = append(haystack, strings.ToLower(class))
	}
	if el.ID != "" {
		haystack = append(haystack, strings.ToLower(el.ID))
	}

	for _, kw := range c.Keywords {
		if kw.Weight == 0 {
			continue
		}
		needle := strings.ToLower(kw.Match)
		for _, s := range haystack {
			if strings.Contains(s, needle) {
				score += kw.Weight
				break
			}
		}
	}
	return score
}

// ColoredButtonBoost returns the bonus for a button painted in a real color:
// not transparent, not (near) white and not (near) black.
func (c Config) ColoredButtonBoost(el snapshot.ElementContext, color colorspace.RGB) int {
	if !el.IsButtonLike() || color.A <= 0 {
		return 0
	}
	if colorspace.IsWhite(color, c.WhiteThreshold) || colorspace.IsBlack(color, c.BlackThreshold) {
		return 0
	}
	return c.ButtonBoost
}

// ScoreToConfidence maps a context score to a level.
func (c Config) ScoreToConfidence(score int) Level {
	switch {
	case score > c.HighScore:
		return High
	case score > c.MediumScore:
		return Medium
	}
	return Low
}

// CountToConfidence maps an occurrence count to a level using the configured thresholds.
func (c Config) CountToConfidence(count int) Level {
	return CountToConfidence(count, c.HighCount, c.MediumCount)
}

// CountToConfidence maps an occurrence count to a level.
func CountToConfidence(count, high, medium int) Level {
	switch {
	case count >= high:
		return High
	case count >= medium:
		return Medium
	}
	return Low
}
