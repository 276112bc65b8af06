package container

import (
	"context"
	"strconv"
	"strings"

	"wisepage/application/proxy"
	"wisepage/domain/entities"
	"wisepage/domain/interfaces"
)

// Direct-child axes. A descendant search would also pick up rows and cells of
// tables nested inside a cell.
var (
	captionChild = entities.ByXPath("./caption")
	headChild    = entities.ByXPath("./thead")
	bodyChild    = entities.ByXPath("./tbody")
	footChild    = entities.ByXPath("./tfoot")
	rowChild     = entities.ByXPath("./tr")
	cellChild    = entities.ByXPath("./*[self::td or self::th]")
)

// SectionKind identifies the role of a table section
type SectionKind string

const (
	Head SectionKind = "thead"
	Body SectionKind = "tbody"
	Foot SectionKind = "tfoot"
)

// Table wraps a <table> element
type Table struct {
	Base
}

func NewTable(root interfaces.WebElement) *Table {
	return &Table{Base: Base{root: root}}
}

// Caption returns the text of the table's own <caption>; ok is false when it has none
func (t *Table) Caption(ctx context.Context) (string, bool, error) {
	found, err := t.FindElements(ctx, captionChild)
	if err != nil {
		return "", false, err
	}
	if len(found) == 0 {
		return "", false, nil
	}
	text, err := found[0].Text(ctx)
	if err != nil {
		return "", false, err
	}
	return strings.TrimSpace(text), true, nil
}

// Head returns the <thead> section, or nil when the table has none
func (t *Table) Head(ctx context.Context) (*Section, error) {
	return t.optional(ctx, headChild, Head)
}

// Foot returns the <tfoot> section, or nil when the table has none
func (t *Table) Foot(ctx context.Context) (*Section, error) {
	return t.optional(ctx, footChild, Foot)
}

// Body returns the first <tbody> section. A missing body is ElementNotFound.
func (t *Table) Body(ctx context.Context) (*Section, error) {
	if err := mustFind(ctx, t, bodyChild); err != nil {
		return nil, err
	}
	return newSection(proxy.NewElement(t, bodyChild), Body), nil
}

// Bodies returns every <tbody> section of the table in document order
func (t *Table) Bodies(ctx context.Context) ([]*Section, error) {
	found, err := t.FindElements(ctx, bodyChild)
	if err != nil {
		return nil, err
	}
	bodies := make([]*Section, len(found))
	for i := range found {
		bodies[i] = newSection(proxy.NewIndexed(t, bodyChild, i), Body)
	}
	return bodies, nil
}

func (t *Table) optional(ctx context.Context, by entities.Locator, kind SectionKind) (*Section, error) {
	found, err := t.FindElements(ctx, by)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return newSection(proxy.NewElement(t, by), kind), nil
}

// Section is a <thead>, <tbody> or <tfoot>
type Section struct {
	Base
	kind SectionKind
}

func newSection(root interfaces.WebElement, kind SectionKind) *Section {
	return &Section{Base: Base{root: root}, kind: kind}
}

func (s *Section) Kind() SectionKind {
	return s.kind
}

// Rows returns the rows that are direct children of this section
func (s *Section) Rows(ctx context.Context) ([]*Row, error) {
	found, err := s.FindElements(ctx, rowChild)
	if err != nil {
		return nil, err
	}
	rows := make([]*Row, len(found))
	for i := range found {
		rows[i] = newRow(proxy.NewIndexed(s, rowChild, i))
	}
	return rows, nil
}

// Row returns the i-th direct row, 0-indexed
func (s *Section) Row(ctx context.Context, i int) (*Row, error) {
	found, err := s.FindElements(ctx, rowChild)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(found) {
		return nil, &entities.IndexOutOfRangeError{Kind: "row", Index: i, Len: len(found)}
	}
	return newRow(proxy.NewIndexed(s, rowChild, i)), nil
}

// Row is a <tr>
type Row struct {
	Base
}

func newRow(root interfaces.WebElement) *Row {
	return &Row{Base: Base{root: root}}
}

// Cells returns the <td> and <th> elements that are direct children of this row
func (r *Row) Cells(ctx context.Context) ([]*Cell, error) {
	found, err := r.FindElements(ctx, cellChild)
	if err != nil {
		return nil, err
	}
	cells := make([]*Cell, len(found))
	for i := range found {
		cells[i] = newCell(proxy.NewIndexed(r, cellChild, i))
	}
	return cells, nil
}

func (r *Row) Cell(ctx context.Context, i int) (*Cell, error) {
	found, err := r.FindElements(ctx, cellChild)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(found) {
		return nil, &entities.IndexOutOfRangeError{Kind: "cell", Index: i, Len: len(found)}
	}
	return newCell(proxy.NewIndexed(r, cellChild, i)), nil
}

// Cell is a <td> or <th>
type Cell struct {
	Base
}

func newCell(root interfaces.WebElement) *Cell {
	return &Cell{Base: Base{root: root}}
}

// ColSpan - parsed colspan attribute, 1 when absent or not a positive integer
func (c *Cell) ColSpan(ctx context.Context) (int, error) {
	return c.span(ctx, "colspan")
}

// RowSpan - parsed rowspan attribute, 1 when absent or not a positive integer
func (c *Cell) RowSpan(ctx context.Context) (int, error) {
	return c.span(ctx, "rowspan")
}

func (c *Cell) Text(ctx context.Context) (string, error) {
	text, err := c.root.Text(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (c *Cell) span(ctx context.Context, attr string) (int, error) {
	v, ok, err := c.Attribute(ctx, attr)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 1, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return 1, nil
	}
	return n, nil
}
