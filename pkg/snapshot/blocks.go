package snapshot

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/aymerick/douceur/parser"
)

// block is one top-level statement of a stylesheet or rule body: either a
// statement ended by ';' or a prelude followed by a {} body.
type block struct {
	prelude string
	body    string
	hasBody bool
}

func (b block) source() string {
	if !b.hasBody {
		return b.prelude + ";"
	}
	return b.prelude + "{" + b.body + "}"
}

// splitBlocks cuts text into its top-level blocks. Comments are dropped;
// braces and semicolons inside strings or parentheses are not structural.
func splitBlocks(text string) []block {
	var (
		out     []block
		prelude strings.Builder
		body    strings.Builder
		depth   int
		parens  int
		quote   byte
	)

	cur := func() *strings.Builder {
		if depth > 0 {
			return &body
		}
		return &prelude
	}

	for i := 0; i < len(text); i++ {
		ch := text[i]

		if quote != 0 {
			cur().WriteByte(ch)
			if ch == '\\' && i+1 < len(text) {
				i++
				cur().WriteByte(text[i])
			} else if ch == quote {
				quote = 0
			}
			continue
		}

		if ch == '/' && i+1 < len(text) && text[i+1] == '*' {
			end := strings.Index(text[i+2:], "*/")
			if end < 0 {
				break
			}
			i += end + 3
			continue
		}

		switch ch {
		case '"', '\'':
			quote = ch
		case '(':
			parens++
		case ')':
			if parens > 0 {
				parens--
			}
		case '{':
			if parens > 0 {
				break
			}
			depth++
			if depth == 1 {
				continue
			}
		case '}':
			if parens > 0 || depth == 0 {
				break
			}
			depth--
			if depth == 0 {
				out = append(out, block{prelude: strings.TrimSpace(prelude.String()), body: body.String(), hasBody: true})
				prelude.Reset()
				body.Reset()
				continue
			}
		case ';':
			if depth == 0 && parens == 0 {
				if p := strings.TrimSpace(prelude.String()); p != "" {
					out = append(out, block{prelude: p})
				}
				prelude.Reset()
				continue
			}
		}
		cur().WriteByte(ch)
	}

	if depth > 0 {
		out = append(out, block{prelude: strings.TrimSpace(prelude.String()), body: body.String(), hasBody: true})
	} else if p := strings.TrimSpace(prelude.String()); p != "" {
		out = append(out, block{prelude: p})
	}
	return out
}

// appendSheet parses css and appends its flattened rules. Text the parser
// cannot read as a whole is retried block by block, unwrapping @layer,
// @container, @scope and @supports blocks and nested style rules. Blocks that
// still fail are skipped with a warning; the rest of the sheet is kept.
func (p *Page) appendSheet(out []Rule, name, text, media, scope string) []Rule {
	if sheet, err := parser.Parse(text); err == nil {
		return flattenRules(out, sheet.Rules, media, scope)
	}
	for _, b := range splitBlocks(text) {
		out = p.appendBlock(out, name, b, media, scope)
	}
	return out
}

func (p *Page) appendBlock(out []Rule, name string, b block, media, scope string) []Rule {
	sheet, err := parser.Parse(b.source())
	if err == nil {
		return flattenRules(out, sheet.Rules, media, scope)
	}

	if b.hasBody {
		atName, prelude := splitAtRule(b.prelude)
		switch atName {
		case "@layer", "@container", "@scope", "@supports":
			out = append(out, Rule{AtRule: atName, Prelude: prelude, Media: media, Scope: scope})
			return p.appendSheet(out, name, b.body, media, joinScope(scope, atName, prelude))
		case "@media":
			out = append(out, Rule{AtRule: atName, Prelude: prelude, Media: media, Scope: scope})
			return p.appendSheet(out, name, b.body, joinMedia(media, prelude), scope)
		case "":
			if selectors := SplitSelectorList(b.prelude); len(selectors) > 0 {
				return p.appendNested(out, name, selectors, b.body, media, scope)
			}
		}
	}

	p.warnings = append(p.warnings, fmt.Sprintf("stylesheet %s: skipped block %q: %v", name, b.prelude, err))
	return out
}

// appendNested flattens a style rule whose body mixes declarations with
// nested rules. Nested selectors are resolved against parents: '&' is
// replaced by the parent, otherwise the nested selector is a descendant.
func (p *Page) appendNested(out []Rule, name string, parents []string, body, media, scope string) []Rule {
	var (
		decls  []string
		nested []block
	)
	for _, b := range splitBlocks(body) {
		if b.hasBody {
			nested = append(nested, b)
		} else {
			decls = append(decls, b.prelude)
		}
	}

	if len(decls) > 0 {
		parsed, err := parser.ParseDeclarations(strings.Join(decls, ";"))
		if err != nil {
			p.warnings = append(p.warnings, fmt.Sprintf("stylesheet %s: skipped declarations of %q: %v", name, strings.Join(parents, ", "), err))
		} else {
			out = append(out, Rule{
				SelectorText: strings.Join(parents, ", "),
				Declarations: declarations(parsed),
				Media:        media,
				Scope:        scope,
			})
		}
	}

	for _, b := range nested {
		atName, prelude := splitAtRule(b.prelude)
		switch atName {
		case "":
			out = p.appendNested(out, name, resolveNested(parents, SplitSelectorList(b.prelude)), b.body, media, scope)
		case "@media":
			out = append(out, Rule{AtRule: atName, Prelude: prelude, Media: media, Scope: scope})
			out = p.appendNested(out, name, parents, b.body, joinMedia(media, prelude), scope)
		case "@layer", "@container", "@scope", "@supports":
			out = append(out, Rule{AtRule: atName, Prelude: prelude, Media: media, Scope: scope})
			out = p.appendNested(out, name, parents, b.body, media, joinScope(scope, atName, prelude))
		default:
			p.warnings = append(p.warnings, fmt.Sprintf("stylesheet %s: skipped nested %s in %q", name, atName, strings.Join(parents, ", ")))
		}
	}
	return out
}

func resolveNested(parents, children []string) []string {
	var out []string
	for _, child := range children {
		for _, parent := range parents {
			if strings.Contains(child, "&") {
				out = append(out, strings.ReplaceAll(child, "&", parent))
			} else {
				out = append(out, parent+" "+child)
			}
		}
	}
	return out
}

// splitAtRule returns the lower-cased at-keyword and the prelude of an
// at-rule, or "" and the input for anything else.
func splitAtRule(prelude string) (string, string) {
	if !strings.HasPrefix(prelude, "@") {
		return "", prelude
	}
	end := strings.IndexFunc(prelude, func(r rune) bool { return unicode.IsSpace(r) || r == '(' })
	if end < 0 {
		return strings.ToLower(prelude), ""
	}
	return strings.ToLower(prelude[:end]), strings.TrimSpace(prelude[end:])
}

func joinScope(outer, name, prelude string) string {
	inner := strings.TrimSpace(name + " " + prelude)
	if outer == "" {
		return inner
	}
	return outer + " " + inner
}
