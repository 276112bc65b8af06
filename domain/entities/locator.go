package entities

import (
	"fmt"
	"strings"
)

// How is a locator strategy
type How string

const (
	IDOrName        How = "id-or-name"
	ID              How = "id"
	Name            How = "name"
	CSS             How = "css"
	XPath           How = "xpath"
	TagName         How = "tag"
	ClassName       How = "class"
	LinkText        How = "link"
	PartialLinkText How = "partial-link"
)

var strategies = map[How]bool{
	IDOrName:        true,
	ID:              true,
	Name:            true,
	CSS:             true,
	XPath:           true,
	TagName:         true,
	ClassName:       true,
	LinkText:        true,
	PartialLinkText: true,
}

// Locator describes how to find an element from a scope.
// It is a value type; copies never share state.
type Locator struct {
	How   How    `json:"how"`
	Using string `json:"using"`
}

func ByIDOrName(key string) Locator         { return Locator{How: IDOrName, Using: key} }
func ByID(id string) Locator                { return Locator{How: ID, Using: id} }
func ByName(name string) Locator            { return Locator{How: Name, Using: name} }
func ByCSS(selector string) Locator         { return Locator{How: CSS, Using: selector} }
func ByXPath(expr string) Locator           { return Locator{How: XPath, Using: expr} }
func ByTagName(tag string) Locator          { return Locator{How: TagName, Using: tag} }
func ByClassName(class string) Locator      { return Locator{How: ClassName, Using: class} }
func ByLinkText(text string) Locator        { return Locator{How: LinkText, Using: text} }
func ByPartialLinkText(text string) Locator { return Locator{How: PartialLinkText, Using: text} }

// IsZero reports whether no strategy was configured
func (l Locator) IsZero() bool {
	return l.How == "" && l.Using == ""
}

func (l Locator) String() string {
	return fmt.Sprintf("By.%s: %s", l.How, l.Using)
}

// ParseLocator - parses "strategy=value" strings such as "css=table.grid".
// A value without a known strategy prefix is an id-or-name lookup.
func ParseLocator(s string) (Locator, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Locator{}, fmt.Errorf("empty locator")
	}

	if how, using, ok := strings.Cut(s, "="); ok {
		h := How(strings.ToLower(strings.TrimSpace(how)))
		if strategies[h] {
			if using == "" {
				return Locator{}, fmt.Errorf("locator %q has no value", s)
			}
			return Locator{How: h, Using: using}, nil
		}
	}

	return ByIDOrName(s), nil
}
