// Package selector translates locators into the CSS or XPath expressions the
// session backends evaluate.
package selector

import (
	"fmt"
	"strings"

	"wisepage/domain/entities"
)

// Kind is the query language of a translated locator
type Kind int

const (
	CSS Kind = iota
	XPath
)

// Selector is a locator expressed in one query language
type Selector struct {
	Kind Kind
	Expr string
}

// Expand splits an id-or-name locator into its id lookup and a name lookup that
// skips elements already matched by id. Other locators are returned as is.
func Expand(by entities.Locator) []entities.Locator {
	if by.How == entities.IDOrName {
		lit := Literal(by.Using)
		return []entities.Locator{
			entities.ByID(by.Using),
			entities.ByXPath(".//*[@name=" + lit + " and not(@id=" + lit + ")]"),
		}
	}
	return []entities.Locator{by}
}

// Compile - expands and translates by. A backend runs every selector in order and
// concatenates the matches, so id matches come before name matches.
func Compile(by entities.Locator) ([]Selector, error) {
	expanded := Expand(by)
	out := make([]Selector, 0, len(expanded))
	for _, single := range expanded {
		sel, err := Translate(single)
		if err != nil {
			return nil, err
		}
		out = append(out, sel)
	}
	return out, nil
}

// Translate - converts a single-strategy locator. XPath results are relative to the
// context node, so they stay within the scope they are evaluated from.
func Translate(by entities.Locator) (Selector, error) {
	switch by.How {
	case entities.CSS:
		return Selector{Kind: CSS, Expr: by.Using}, nil
	case entities.XPath:
		return Selector{Kind: XPath, Expr: by.Using}, nil
	case entities.ID:
		return xpath(".//*[@id=" + Literal(by.Using) + "]"), nil
	case entities.Name:
		return xpath(".//*[@name=" + Literal(by.Using) + "]"), nil
	case entities.TagName:
		return xpath(".//*[local-name()=" + Literal(strings.ToLower(by.Using)) + "]"), nil
	case entities.ClassName:
		return xpath(".//*[contains(concat(' ', normalize-space(@class), ' '), " + Literal(" "+by.Using+" ") + ")]"), nil
	case entities.LinkText:
		return xpath(".//a[normalize-space(.)=" + Literal(strings.TrimSpace(by.Using)) + "]"), nil
	case entities.PartialLinkText:
		return xpath(".//a[contains(normalize-space(.), " + Literal(by.Using) + ")]"), nil
	case entities.IDOrName:
		return Selector{}, fmt.Errorf("%s must be expanded before translation", by)
	default:
		return Selector{}, fmt.Errorf("unsupported locator strategy %q", by.How)
	}
}

func xpath(expr string) Selector {
	return Selector{Kind: XPath, Expr: expr}
}

// Literal quotes s as an XPath 1.0 string literal
func Literal(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, 0, 2*len(parts))
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		quoted = append(quoted, "'"+p+"'")
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
