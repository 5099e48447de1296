package extractor

import (
	"sort"
	"strings"

	"github.com/hellenic-development/design-extractor/pkg/colorspace"
	"github.com/hellenic-development/design-extractor/pkg/snapshot"
)

// fullRadius is the conventional "pill" radius; percentages are treated as full too.
const fullRadius = 9999

var radiusScale = []string{"none", "sm", "md", "lg", "xl", "full"}

// radiusBucket names the scale step of a radius in px.
func radiusBucket(px float64) string {
	switch {
	case px <= 0:
		return "none"
	case px <= 4:
		return "sm"
	case px <= 8:
		return "md"
	case px <= 16:
		return "lg"
	case px < fullRadius:
		return "xl"
	}
	return "full"
}

// parseRadius reads the top-left horizontal radius. Percentages map to fullRadius.
func parseRadius(snap snapshot.Snapshot, el snapshot.Element) (float64, bool) {
	raw := snap.ComputedStyle(el, "border-top-left-radius")
	if raw == "" {
		raw = snap.ComputedStyle(el, "border-radius")
	}
	fields := strings.Fields(strings.Split(raw, "/")[0])
	if len(fields) == 0 {
		return 0, false
	}
	first := fields[0]
	if strings.HasSuffix(first, "%") {
		return fullRadius, true
	}
	return parsePx(first)
}

// ExtractBorders buckets border radii into a scale, finds the typical radius
// per element kind and ranks border width/style/color combinations.
func ExtractBorders(snap snapshot.Snapshot, cfg Config) (*BorderResult, error) {
	bucketMin := make(map[string]float64)
	bucketCount := make(map[string]int)
	byKind := make(map[string]*counter)
	borders := newCounter()
	borderParts := make(map[string]BorderStyle)

	for _, el := range snap.QueryAllVisible(snapshot.Any()) {
		ctx := snap.ElementContext(el)

		if px, ok := parseRadius(snap, el); ok && px > 0 {
			bucket := radiusBucket(px)
			if cur, seen := bucketMin[bucket]; !seen || px < cur {
				bucketMin[bucket] = px
			}
			bucketCount[bucket]++

			kind := classifyElement(ctx)
			if byKind[kind] == nil {
				byKind[kind] = newCounter()
			}
			byKind[kind].add(radiusValue(px))
		}

		width, ok := parsePx(snap.ComputedStyle(el, "border-top-width"))
		style := strings.ToLower(snap.ComputedStyle(el, "border-top-style"))
		if !ok || width <= 0 || style == "" || style == "none" || style == "hidden" {
			continue
		}
		color := snap.ComputedStyle(el, "border-top-color")
		if hex, ok := colorspace.NormalizeToHex(color); ok {
			color = hex
		}
		b := BorderStyle{Width: formatPx(width), Style: style, Color: color}
		key := b.Width + " " + b.Style + " " + b.Color
		if _, seen := borderParts[key]; !seen {
			borderParts[key] = b
		}
		borders.add(key)
	}

	result := &BorderResult{}

	for _, name := range radiusScale {
		px, ok := bucketMin[name]
		if !ok {
			continue
		}
		if result.Radii.Scale == nil {
			result.Radii.Scale = make(map[string]Token)
		}
		count := bucketCount[name]
		result.Radii.Scale[name] = Token{
			Value:      radiusValue(px),
			Count:      count,
			Confidence: cfg.Confidence.CountToConfidence(count),
		}
	}

	kinds := make([]string, 0, len(byKind))
	for kind := range byKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		value, count := byKind[kind].mostCommon()
		if result.Radii.ByElement == nil {
			result.Radii.ByElement = make(map[string]Token)
		}
		result.Radii.ByElement[kind] = Token{
			Value:      value,
			Usage:      kind,
			Count:      count,
			Confidence: cfg.Confidence.CountToConfidence(count),
		}
	}

	for i, key := range borders.ranked() {
		if i >= cfg.MaxBorders {
			break
		}
		b := borderParts[key]
		b.Count = borders.count(key)
		b.Confidence = cfg.Confidence.CountToConfidence(b.Count)
		result.Borders.Styles = append(result.Borders.Styles, b)
	}

	return result, nil
}

func radiusValue(px float64) string {
	if px >= fullRadius {
		return "9999px"
	}
	return formatPx(px)
}
