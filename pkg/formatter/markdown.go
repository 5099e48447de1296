package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hellenic-development/design-extractor/pkg/extractor"
)

var (
	semanticOrder   = []string{"primary", "secondary", "accent", "success", "warning", "error", "info", "background", "text", "border"}
	typographyOrder = []string{"h1", "h2", "h3", "h4", "body", "caption", "button", "label", "link", "code"}
	spacingOrder    = []string{"xs", "sm", "md", "lg", "xl", "2xl", "3xl", "4xl"}
	radiusOrder     = []string{"none", "sm", "md", "lg", "xl", "full"}
	shadowOrder     = []string{"sm", "md", "lg", "xl"}
	breakpointOrder = []string{"sm", "md", "lg", "xl", "2xl"}
	durationOrder   = []string{"fast", "normal", "slow"}
)

// ToMarkdown renders an extracted design system as a markdown document with
// CSS custom property blocks for every token category, tables for component
// variants and a list of detected frameworks, ready to be pasted into a
// style guide or a design-system repository.
func ToMarkdown(ds *extractor.DesignSystem, title string) string {
	var sb strings.Builder

	if title == "" {
		title = ds.Metadata.URL
	}
	sb.WriteString(fmt.Sprintf("# Design System - %s\n\n", title))
	sb.WriteString("This document contains the design tokens extracted from the rendered page")
	if ds.Metadata.URL != "" {
		sb.WriteString(fmt.Sprintf(" <%s>", ds.Metadata.URL))
	}
	sb.WriteString(".\n\n")
	if !ds.Metadata.ExtractedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("- **Extracted**: %s\n", ds.Metadata.ExtractedAt.Format("2006-01-02 15:04:05 MST")))
	}
	if ds.Metadata.OverallConfidence != "" {
		sb.WriteString(fmt.Sprintf("- **Overall confidence**: %s\n", ds.Metadata.OverallConfidence))
	}
	if ds.Metadata.RunID != "" {
		sb.WriteString(fmt.Sprintf("- **Run**: `%s`\n", ds.Metadata.RunID))
	}
	sb.WriteString("\n")

	sb.WriteString("## Design System\n\n")
	writeColors(&sb, ds.Colors)
	writeTypography(&sb, ds.Typography)
	writeSpacing(&sb, ds.Spacing)
	writeRadii(&sb, ds.Radii)
	writeBorders(&sb, ds.Borders)
	writeShadows(&sb, ds.Shadows)
	writeBreakpoints(&sb, ds.Breakpoints)
	writeMotion(&sb, ds.Motion)
	writeComponents(&sb, ds.Components)
	writeFrameworks(&sb, ds.Frameworks)
	writeIssues(&sb, ds.Metadata)

	return sb.String()
}

func writeFailed(sb *strings.Builder, message string) bool {
	if message == "" {
		return false
	}
	sb.WriteString(fmt.Sprintf("> Extraction failed: %s\n\n", message))
	return true
}

func writeColors(sb *strings.Builder, colors extractor.ColorSection) {
	sb.WriteString("### Color Palette\n\n")
	if writeFailed(sb, colors.Error) {
		return
	}
	if len(colors.Semantic) == 0 && len(colors.Palette) == 0 {
		sb.WriteString("No colors found.\n\n")
		return
	}

	sb.WriteString("```css\n")
	if len(colors.Semantic) > 0 {
		sb.WriteString("/* Semantic Colors */\n")
		for _, slot := range orderedKeys(colors.Semantic, semanticOrder) {
			c := colors.Semantic[slot]
			comment := string(c.Confidence)
			if c.Variable != "" {
				comment = fmt.Sprintf("var(%s), %s", c.Variable, comment)
			}
			sb.WriteString(fmt.Sprintf("--color-%s: %s; /* %s */\n", toKebabCase(slot), c.Hex, comment))
		}
		sb.WriteString("\n")
	}

	if len(colors.Palette) > 0 {
		sb.WriteString("/* Palette */\n")
		for i, c := range colors.Palette {
			sb.WriteString(fmt.Sprintf("--color-palette-%d: %s; /* %d uses, %s */\n", i+1, c.Hex, c.Count, c.Confidence))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("```\n\n")

	if len(colors.Variables) > 0 {
		sb.WriteString("#### Color Custom Properties\n\n")
		sb.WriteString("| Property | Value |\n")
		sb.WriteString("|----------|-------|\n")
		for _, name := range sortedKeys(colors.Variables) {
			sb.WriteString(fmt.Sprintf("| `%s` | %s |\n", name, colors.Variables[name]))
		}
		sb.WriteString("\n")
	}
}

func writeTypography(sb *strings.Builder, typo extractor.TypographySection) {
	sb.WriteString("### Typography\n\n")
	if writeFailed(sb, typo.Error) {
		return
	}

	sb.WriteString("```css\n")
	if typo.Families.Heading != "" || typo.Families.Body != "" || typo.Families.Mono != "" {
		sb.WriteString("/* Font Families */\n")
		if typo.Families.Heading != "" {
			sb.WriteString(fmt.Sprintf("--font-heading: '%s', system-ui, sans-serif;\n", typo.Families.Heading))
		}
		if typo.Families.Body != "" {
			sb.WriteString(fmt.Sprintf("--font-body: '%s', system-ui, -apple-system, sans-serif;\n", typo.Families.Body))
		}
		if typo.Families.Mono != "" {
			sb.WriteString(fmt.Sprintf("--font-mono: '%s', ui-monospace, monospace;\n", typo.Families.Mono))
		}
		sb.WriteString("\n")
	}

	for _, role := range orderedKeys(typo.Styles, typographyOrder) {
		s := typo.Styles[role]
		name := toKebabCase(role)
		sb.WriteString(fmt.Sprintf("/* %s (%d samples, %s) */\n", role, s.Samples, s.Confidence))
		sb.WriteString(fmt.Sprintf("--text-%s: %s;\n", name, s.FontSize))
		if s.FontWeight != "" {
			sb.WriteString(fmt.Sprintf("--font-weight-%s: %s;\n", name, s.FontWeight))
		}
		if s.LineHeight != "" {
			sb.WriteString(fmt.Sprintf("--leading-%s: %s;\n", name, s.LineHeight))
		}
		if s.LetterSpacing != "" {
			sb.WriteString(fmt.Sprintf("--tracking-%s: %s;\n", name, s.LetterSpacing))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("```\n\n")

	if len(typo.Sources) > 0 {
		sb.WriteString("#### Font Sources\n\n")
		for _, src := range typo.Sources {
			line := fmt.Sprintf("- **%s**", src.Provider)
			if src.Family != "" {
				line += " " + src.Family
			}
			if len(src.Weights) > 0 {
				line += fmt.Sprintf(" (%s)", strings.Join(src.Weights, ", "))
			}
			if src.Variable {
				line += ", variable"
			}
			if src.URL != "" {
				line += fmt.Sprintf(": `%s`", src.URL)
			}
			sb.WriteString(line + "\n")
		}
		sb.WriteString("\n")
	}
}

func writeSpacing(sb *strings.Builder, spacing extractor.SpacingSection) {
	sb.WriteString("### Spacing\n\n")
	if writeFailed(sb, spacing.Error) {
		return
	}
	if len(spacing.Scale) == 0 {
		sb.WriteString("No spacing scale found.\n\n")
		return
	}

	sb.WriteString("```css\n")
	sb.WriteString(fmt.Sprintf("/* Spacing Scale (base unit %s) */\n", spacing.BaseUnit))
	for _, name := range orderedKeys(spacing.Scale, spacingOrder) {
		t := spacing.Scale[name]
		sb.WriteString(fmt.Sprintf("--space-%s: %s; /* %s */\n", name, t.Value, t.Usage))
	}
	sb.WriteString("```\n\n")

	if len(spacing.Components) > 0 {
		sb.WriteString("| Component | Padding | Uses |\n")
		sb.WriteString("|-----------|---------|------|\n")
		for _, kind := range sortedKeys(spacing.Components) {
			t := spacing.Components[kind]
			sb.WriteString(fmt.Sprintf("| %s | %s | %d |\n", kind, t.Value, t.Count))
		}
		sb.WriteString("\n")
	}
}

func writeRadii(sb *strings.Builder, radii extractor.RadiusSection) {
	if radii.Error == "" && len(radii.Scale) == 0 {
		return
	}
	sb.WriteString("### Border Radius\n\n")
	if writeFailed(sb, radii.Error) {
		return
	}
	sb.WriteString("```css\n")
	for _, name := range orderedKeys(radii.Scale, radiusOrder) {
		sb.WriteString(fmt.Sprintf("--radius-%s: %s;\n", name, radii.Scale[name].Value))
	}
	sb.WriteString("```\n\n")
}

func writeBorders(sb *strings.Builder, borders extractor.BorderSection) {
	if borders.Error != "" || len(borders.Styles) == 0 {
		return
	}
	sb.WriteString("### Borders\n\n")
	sb.WriteString("| Width | Style | Color | Uses |\n")
	sb.WriteString("|-------|-------|-------|------|\n")
	for _, b := range borders.Styles {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %d |\n", b.Width, b.Style, b.Color, b.Count))
	}
	sb.WriteString("\n")
}

func writeShadows(sb *strings.Builder, shadows extractor.ShadowSection) {
	if shadows.Error == "" && len(shadows.Scale) == 0 {
		return
	}
	sb.WriteString("### Shadows\n\n")
	if writeFailed(sb, shadows.Error) {
		return
	}
	sb.WriteString("```css\n")
	for _, name := range orderedKeys(shadows.Scale, shadowOrder) {
		sb.WriteString(fmt.Sprintf("--shadow-%s: %s;\n", name, shadows.Scale[name].Value))
	}
	sb.WriteString("```\n\n")
}

func writeBreakpoints(sb *strings.Builder, bps extractor.BreakpointSection) {
	sb.WriteString("### Breakpoints\n\n")
	if writeFailed(sb, bps.Error) {
		return
	}
	sb.WriteString("```css\n")
	sb.WriteString(fmt.Sprintf("/* Source: %s */\n", bps.Source))
	for _, name := range orderedKeys(bps.Breakpoints, breakpointOrder) {
		sb.WriteString(fmt.Sprintf("--breakpoint-%s: %s;\n", name, bps.Breakpoints[name].Value))
	}
	sb.WriteString("```\n\n")
}

func writeMotion(sb *strings.Builder, motion extractor.MotionSection) {
	if motion.Error == "" && len(motion.Durations) == 0 {
		return
	}
	sb.WriteString("### Motion\n\n")
	if writeFailed(sb, motion.Error) {
		return
	}
	sb.WriteString("```css\n")
	for _, name := range orderedKeys(motion.Durations, durationOrder) {
		sb.WriteString(fmt.Sprintf("--duration-%s: %s;\n", name, motion.Durations[name].Value))
	}
	for i, e := range motion.Easings {
		sb.WriteString(fmt.Sprintf("--ease-%d: %s;\n", i+1, e.Value))
	}
	sb.WriteString("```\n\n")
}

func writeComponents(sb *strings.Builder, components extractor.ComponentSection) {
	kinds := []struct {
		title    string
		variants []extractor.ComponentVariant
	}{
		{"Buttons", components.Buttons},
		{"Inputs", components.Inputs},
		{"Links", components.Links},
		{"Badges", components.Badges},
	}

	empty := true
	for _, k := range kinds {
		if len(k.variants) > 0 {
			empty = false
		}
	}
	if empty && components.Error == "" {
		return
	}

	sb.WriteString("## Components\n\n")
	if writeFailed(sb, components.Error) {
		return
	}

	for _, k := range kinds {
		if len(k.variants) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("### %s\n\n", k.title))
		sb.WriteString("| Variant | Uses | Background | Color | Padding | Radius | Confidence |\n")
		sb.WriteString("|---------|------|------------|-------|---------|--------|------------|\n")
		for _, v := range k.variants {
			sb.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s | %s | %s |\n",
				v.Key, v.Count,
				cell(v.Styles["background-color"]), cell(v.Styles["color"]),
				cell(v.Styles["padding"]), cell(v.Styles["border-radius"]),
				v.Confidence))
		}
		sb.WriteString("\n")

		for _, v := range k.variants {
			if len(v.States) == 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf("```css\n/* %s %s states */\n", strings.ToLower(k.title), v.Key))
			for _, state := range sortedKeys(v.States) {
				props := v.States[state]
				parts := make([]string, 0, len(props))
				for _, p := range sortedKeys(props) {
					parts = append(parts, fmt.Sprintf("%s: %s;", p, props[p]))
				}
				sb.WriteString(fmt.Sprintf("%s { %s }\n", state, strings.Join(parts, " ")))
			}
			sb.WriteString("```\n\n")
		}
	}
}

func writeFrameworks(sb *strings.Builder, fw extractor.FrameworkSection) {
	groups := []struct {
		title      string
		detections []extractor.Detection
	}{
		{"Frameworks", fw.Frameworks},
		{"Icon Systems", fw.Icons},
		{"Naming Conventions", fw.Methodologies},
	}

	if fw.Error == "" && len(fw.Frameworks)+len(fw.Icons)+len(fw.Methodologies) == 0 {
		return
	}

	sb.WriteString("## Detected Technologies\n\n")
	if writeFailed(sb, fw.Error) {
		return
	}
	for _, g := range groups {
		if len(g.detections) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("### %s\n\n", g.title))
		for _, d := range g.detections {
			line := fmt.Sprintf("- **%s** (%s, %d matches)", d.Name, d.Confidence, d.Evidence)
			if len(d.Examples) > 0 {
				quoted := make([]string, len(d.Examples))
				for i, e := range d.Examples {
					quoted[i] = "`" + e + "`"
				}
				line += ": " + strings.Join(quoted, ", ")
			}
			sb.WriteString(line + "\n")
		}
		sb.WriteString("\n")
	}
}

func writeIssues(sb *strings.Builder, meta extractor.Metadata) {
	if len(meta.Errors) == 0 && len(meta.Warnings) == 0 {
		return
	}
	sb.WriteString("## Extraction Notes\n\n")
	for _, name := range sortedKeys(meta.Errors) {
		sb.WriteString(fmt.Sprintf("- **%s** extractor failed: %s\n", name, meta.Errors[name]))
	}
	for _, w := range meta.Warnings {
		sb.WriteString(fmt.Sprintf("- %s\n", w))
	}
	sb.WriteString("\n")
}

func cell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}

// orderedKeys returns the keys of m that appear in order, in that order,
// followed by any other keys sorted alphabetically.
func orderedKeys[V any](m map[string]V, order []string) []string {
	keys := make([]string, 0, len(m))
	known := make(map[string]bool, len(order))
	for _, k := range order {
		known[k] = true
		if _, ok := m[k]; ok {
			keys = append(keys, k)
		}
	}
	var rest []string
	for k := range m {
		if !known[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// toKebabCase converts a string to kebab-case format (lowercase with hyphens).
// This is used for generating CSS variable names from role and slot names.
// Special characters are removed, and spaces/underscores are replaced with hyphens.
func toKebabCase(s string) string {
	// Remove special characters and replace spaces with hyphens
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")

	// Remove any non-alphanumeric characters except hyphens
	var result strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			result.WriteRune(r)
		}
	}

	return result.String()
}
