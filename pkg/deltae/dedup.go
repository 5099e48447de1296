package deltae

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hellenic-development/design-extractor/pkg/colorspace"
	"github.com/hellenic-development/design-extractor/pkg/confidence"
)

// DefaultThreshold is the CIEDE2000 distance under which two colors are merged.
const DefaultThreshold = 15.0

const labCacheSize = 4096

// labCache memoizes color string -> LAB conversions. Pages repeat the same few
// dozen colors thousands of times, so most lookups are hits. The cache is safe
// for concurrent use.
var labCache = newLabCache(labCacheSize)

func newLabCache(size int) *lru.Cache[string, colorspace.LAB] {
	cache, err := lru.New[string, colorspace.LAB](size)
	if err != nil {
		panic(err) // only fails for a non-positive size
	}
	return cache
}

// LabOf parses a color string and returns its LAB value, using the shared memo cache.
func LabOf(color string) (colorspace.LAB, bool) {
	if lab, ok := labCache.Get(color); ok {
		return lab, true
	}
	rgb, ok := colorspace.ParseColor(color)
	if !ok {
		return colorspace.LAB{}, false
	}
	lab := colorspace.RGBToLAB(rgb)
	labCache.Add(color, lab)
	return lab, true
}

// Cluster is a group of perceptually indistinguishable colors, represented by Hex.
type Cluster struct {
	Hex        string
	Count      int
	Score      int
	Sources    []string
	Confidence confidence.Level
	// Members lists every hex folded into the cluster, the representative first.
	Members []string
}

// Deduplicate merges colors closer than threshold (CIEDE2000) in a single greedy pass.
//
// Each incoming color joins the closest already-accepted cluster under the
// threshold; among equally close clusters the earliest accepted one wins. A merge
// sums counts, unions sources in first-seen order and keeps the higher score and
// confidence. The cluster keeps the hex of the color that founded it, so callers
// that want the most used color as the representative should sort by count first.
//
// Accepted cluster centers are pairwise at least threshold apart, which makes
// the operation idempotent. Colors that cannot be parsed are kept as their own
// cluster.
func Deduplicate(colors []Cluster, threshold float64) []Cluster {
	result := make([]Cluster, 0, len(colors))
	centers := make([]colorspace.LAB, 0, len(colors))
	parsed := make([]bool, 0, len(colors))

	for _, c := range colors {
		lab, ok := LabOf(c.Hex)

		best := -1
		bestDist := threshold
		if ok {
			for i, center := range centers {
				if !parsed[i] {
					continue
				}
				if d := CIEDE2000(center, lab); d < bestDist {
					best = i
					bestDist = d
				}
			}
		}

		if best < 0 {
			cluster := c
			cluster.Hex = strings.ToUpper(c.Hex)
			cluster.Sources = appendUnique(nil, c.Sources...)
			cluster.Members = appendUnique([]string{cluster.Hex}, upper(c.Members)...)
			result = append(result, cluster)
			centers = append(centers, lab)
			parsed = append(parsed, ok)
			continue
		}

		merged := &result[best]
		merged.Count += c.Count
		merged.Sources = appendUnique(merged.Sources, c.Sources...)
		merged.Members = appendUnique(merged.Members, strings.ToUpper(c.Hex))
		merged.Members = appendUnique(merged.Members, upper(c.Members)...)
		if c.Score > merged.Score {
			merged.Score = c.Score
		}
		merged.Confidence = confidence.Merge(merged.Confidence, c.Confidence)
	}

	return result
}

func upper(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToUpper(v)
	}
	return out
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, existing := range dst {
			if existing == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}
