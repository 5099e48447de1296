package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hellenic-development/design-extractor/pkg/confidence"
	"github.com/hellenic-development/design-extractor/pkg/snapshot"
)

func findDetection(detections []Detection, name string) (Detection, bool) {
	for _, d := range detections {
		if d.Name == name {
			return d, true
		}
	}
	return Detection{}, false
}

func TestExtractFrameworksAntDesign(t *testing.T) {
	tests := []struct {
		name     string
		buttons  int
		detected bool
	}{
		{"three occurrences", 3, true},
		{"two occurrences", 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			section, err := ExtractFrameworks(page(repeat(tt.buttons, el("button.ant-btn", nil))...), DefaultConfig())
			require.NoError(t, err)

			d, ok := findDetection(section.Frameworks, "Ant Design")
			require.Equal(t, tt.detected, ok)
			if ok {
				assert.Equal(t, confidence.High, d.Confidence)
				assert.Equal(t, tt.buttons, d.Evidence)
				assert.Equal(t, []string{".ant-btn"}, d.Examples)
			}
		})
	}
}

func TestExtractFrameworksFromStylesheets(t *testing.T) {
	css := `
.ant-btn { padding: 4px 15px; }
.ant-btn-primary, .ant-input:focus { color: #1677ff; }
.hover\:bg-blue-500:hover { background: blue; }
`
	section, err := ExtractFrameworks(pageWithCSS(css), DefaultConfig())
	require.NoError(t, err)

	d, ok := findDetection(section.Frameworks, "Ant Design")
	require.True(t, ok)
	assert.Equal(t, 3, d.Evidence)
}

func TestExtractFrameworksRanking(t *testing.T) {
	tailwind := []string{"p-4", "px-2", "mt-8", "text-gray-900", "bg-blue-500", "rounded-lg", "shadow", "w-full", "hover:bg-blue-600", "gap-4", "md:px-6"}
	root := el("div#__next", nil)
	div := el("div", nil)
	div.Classes = tailwind

	section, err := ExtractFrameworks(page(root, div), DefaultConfig())
	require.NoError(t, err)

	require.Len(t, section.Frameworks, 2)
	assert.Equal(t, "Next.js", section.Frameworks[0].Name)
	assert.Equal(t, confidence.High, section.Frameworks[0].Confidence)
	assert.Equal(t, "Tailwind CSS", section.Frameworks[1].Name)
	assert.Equal(t, confidence.Medium, section.Frameworks[1].Confidence)
	assert.Equal(t, len(tailwind), section.Frameworks[1].Evidence)
	assert.Len(t, section.Frameworks[1].Examples, maxExamples)
}

func TestExtractFrameworksIconsAndBEM(t *testing.T) {
	elements := []snapshot.CapturedElement{
		el("i.fa-solid.fa-house", nil),
		el("svg.icon.icon-close", nil),
		el("div.card__title", nil),
		el("div.card__body", nil),
		el("div.card__footer", nil),
		el("button.button--primary", nil),
		el("span.nav__item--active", nil),
		el("a.nav__link", nil),
	}

	section, err := ExtractFrameworks(page(elements...), DefaultConfig())
	require.NoError(t, err)

	require.Len(t, section.Icons, 1, "generic SVG icons are reported only when no named system matched")
	assert.Equal(t, "Font Awesome", section.Icons[0].Name)
	assert.Equal(t, 2, section.Icons[0].Evidence)

	require.Len(t, section.Methodologies, 1)
	bem := section.Methodologies[0]
	assert.Equal(t, "BEM", bem.Name)
	assert.Equal(t, 5, bem.Evidence)
	assert.Equal(t, confidence.Medium, bem.Confidence)
	assert.Equal(t, []string{"card__title", "card__body", "card__footer"}, bem.Examples)
}

func TestExtractFrameworksGenericSVGIcons(t *testing.T) {
	section, err := ExtractFrameworks(page(el("svg.icon", nil), el("svg.icon-search", nil)), DefaultConfig())
	require.NoError(t, err)

	require.Len(t, section.Icons, 1)
	assert.Equal(t, "SVG icons", section.Icons[0].Name)
	assert.Equal(t, 2, section.Icons[0].Evidence)
}

func TestSelectorClasses(t *testing.T) {
	tests := []struct {
		selector string
		want     []string
	}{
		{".btn.btn-primary:hover", []string{"btn", "btn-primary"}},
		{`.hover\:bg-blue-500:hover, .md\:w-1\/2`, []string{"hover:bg-blue-500", "md:w-1/2"}},
		{"div > .card__title", []string{"card__title"}},
		{"a[href$='.pdf']", nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, selectorClasses(tt.selector), tt.selector)
	}
}
