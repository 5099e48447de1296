package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hellenic-development/design-extractor/pkg/extractor"
)

var semanticSlots = []string{"primary", "secondary", "accent", "success", "warning", "error", "info", "background", "text", "border"}

var (
	swatchLabel = lipgloss.NewStyle().Width(12)
	swatchMuted = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// renderSwatches prints one colored block per semantic slot and palette entry.
func renderSwatches(ds *extractor.DesignSystem) string {
	var sb strings.Builder

	for _, slot := range semanticSlots {
		c, ok := ds.Colors.Semantic[slot]
		if !ok {
			continue
		}
		sb.WriteString(swatchLine(slot, c))
	}
	for i, c := range ds.Colors.Palette {
		sb.WriteString(swatchLine(fmt.Sprintf("palette-%d", i+1), c))
	}
	return sb.String()
}

func swatchLine(label string, c extractor.ColorToken) string {
	block := lipgloss.NewStyle().Background(lipgloss.Color(c.Hex)).Render("      ")
	detail := swatchMuted.Render(fmt.Sprintf("%d uses, %s", c.Count, c.Confidence))
	return fmt.Sprintf("  %s %s %s %s\n", block, swatchLabel.Render(label), c.Hex, detail)
}
