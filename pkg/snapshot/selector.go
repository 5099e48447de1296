package snapshot

import "strings"

// Select builds a Matcher from a selector list such as "button, .btn, [role=button]".
//
// Supported: type selectors, *, .class, #id and attribute selectors with the
// =, ~=, |=, ^=, $= and *= operators. The snapshot has no tree structure, so a
// complex selector ("nav a") is matched on its last compound only. Compounds
// containing pseudo-classes never match a static element.
func Select(selector string) Matcher {
	var compounds []compound
	for _, part := range splitTopLevel(selector, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if c, ok := parseCompound(LastCompound(part)); ok {
			compounds = append(compounds, c)
		}
	}

	return func(ctx ElementContext) bool {
		for _, c := range compounds {
			if c.matches(ctx) {
				return true
			}
		}
		return false
	}
}

type attrSelector struct {
	name  string
	op    string
	value string
}

type compound struct {
	tag     string
	id      string
	classes []string
	attrs   []attrSelector
}

func (c compound) matches(ctx ElementContext) bool {
	if c.tag != "" && c.tag != "*" && !strings.EqualFold(c.tag, ctx.TagName) {
		return false
	}
	if c.id != "" && c.id != ctx.ID {
		return false
	}
	for _, want := range c.classes {
		found := false
		for _, class := range ctx.Classes {
			if class == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, a := range c.attrs {
		if !a.matches(ctx) {
			return false
		}
	}
	return true
}

func (a attrSelector) matches(ctx ElementContext) bool {
	var (
		value   string
		present bool
	)
	switch a.name {
	case "class":
		value, present = ctx.ClassName(), len(ctx.Classes) > 0
	case "id":
		value, present = ctx.ID, ctx.ID != ""
	case "role":
		value, present = ctx.Role, ctx.Role != ""
		if !present {
			value, present = ctx.Attributes[a.name]
		}
	default:
		value, present = ctx.Attributes[a.name]
	}

	if !present {
		return false
	}

	switch a.op {
	case "":
		return true
	case "=":
		return value == a.value
	case "~=":
		for _, word := range strings.Fields(value) {
			if word == a.value {
				return true
			}
		}
		return false
	case "|=":
		return value == a.value || strings.HasPrefix(value, a.value+"-")
	case "^=":
		return a.value != "" && strings.HasPrefix(value, a.value)
	case "$=":
		return a.value != "" && strings.HasSuffix(value, a.value)
	case "*=":
		return a.value != "" && strings.Contains(value, a.value)
	}
	return false
}

// LastCompound returns the rightmost compound selector of a complex selector,
// e.g. "a:hover" for "nav > ul a:hover".
func LastCompound(selector string) string {
	s := strings.TrimSpace(selector)
	depth := 0
	var quote byte
	for i := len(s) - 1; i >= 0; i-- {
		ch := s[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == ']' || ch == ')':
			depth++
		case ch == '[' || ch == '(':
			depth--
		case depth == 0 && (ch == ' ' || ch == '>' || ch == '+' || ch == '~' || ch == '\t' || ch == '\n'):
			return s[i+1:]
		}
	}
	return s
}

func parseCompound(s string) (compound, bool) {
	var c compound
	i := 0

	if i < len(s) && (s[i] == '*' || isIdentStart(s[i])) {
		if s[i] == '*' {
			c.tag = "*"
			i++
		} else {
			j := scanIdent(s, i)
			c.tag = strings.ToLower(s[i:j])
			i = j
		}
	}

	for i < len(s) {
		switch s[i] {
		case '.':
			j := scanIdent(s, i+1)
			if j == i+1 {
				return compound{}, false
			}
			c.classes = append(c.classes, s[i+1:j])
			i = j
		case '#':
			j := scanIdent(s, i+1)
			if j == i+1 {
				return compound{}, false
			}
			c.id = s[i+1 : j]
			i = j
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return compound{}, false
			}
			c.attrs = append(c.attrs, parseAttr(s[i+1:i+end]))
			i += end + 1
		default:
			// Pseudo-classes, pseudo-elements and anything unknown.
			return compound{}, false
		}
	}

	if c.tag == "" && c.id == "" && len(c.classes) == 0 && len(c.attrs) == 0 {
		return compound{}, false
	}
	return c, true
}

func parseAttr(body string) attrSelector {
	body = strings.TrimSpace(body)
	for _, op := range []string{"~=", "|=", "^=", "$=", "*=", "="} {
		if idx := strings.Index(body, op); idx > 0 {
			value := strings.TrimSpace(body[idx+len(op):])
			value = strings.TrimSuffix(strings.TrimSuffix(value, " i"), " s")
			value = strings.Trim(value, `"'`)
			return attrSelector{
				name:  strings.ToLower(strings.TrimSpace(body[:idx])),
				op:    op,
				value: value,
			}
		}
	}
	return attrSelector{name: strings.ToLower(body)}
}

func scanIdent(s string, i int) int {
	for i < len(s) && isIdentChar(s[i]) {
		i++
	}
	return i
}

func isIdentStart(ch byte) bool {
	return ch == '-' || ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch >= 0x80
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}

// splitTopLevel splits s on sep, ignoring separators inside brackets, parentheses or quotes.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '(' || ch == '[':
			depth++
		case ch == ')' || ch == ']':
			depth--
		case ch == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// SplitSelectorList splits a selector list on top-level commas and trims each part.
func SplitSelectorList(selectorText string) []string {
	var out []string
	for _, part := range splitTopLevel(selectorText, ',') {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
