package pagefactory

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wisepage/application/container"
	"wisepage/application/proxy"
	"wisepage/application/resolver"
	"wisepage/domain/entities"
	"wisepage/domain/interfaces"
	"wisepage/infrastructure/snapshot"
)

const reportHTML = `<html><body>
<h1 id="Title">Report</h1>
<input name="Search" value="q">
<table id="grid">
  <tr><td>1</td><td><table id="inner"><tr><td>x</td></tr></table></td></tr>
</table>
<footer>base footer</footer>
<div id="alt-footer">alt footer</div>
</body></html>`

type basePage struct {
	Title  interfaces.WebElement
	Footer interfaces.WebElement
}

var baseSchema = NewSchema[basePage]("base",
	Zero[basePage](),
	One("Title", func(p *basePage, el interfaces.WebElement) { p.Title = el }),
	One("Footer", func(p *basePage, el interfaces.WebElement) { p.Footer = el }, FindBy(entities.ByCSS("footer"))),
)

type reportPage struct {
	basePage
	session interfaces.Session

	Search  interfaces.WebElement
	Grid    *container.Table
	Cells   proxy.List[*container.Base]
	Missing interfaces.WebElement
	Label   string
}

var reportSchema = NewSchema[reportPage]("report",
	WithSessionConstructor(func(s interfaces.Session) *reportPage { return &reportPage{session: s} }),
	Embeds(baseSchema, func(p *reportPage) *basePage { return &p.basePage }),
	One("Search", func(p *reportPage, el interfaces.WebElement) { p.Search = el }),
	One("Grid", func(p *reportPage, t *container.Table) { p.Grid = t }, FindBy(entities.ByID("grid"))),
	Many("Cells", func(p *reportPage, l proxy.List[*container.Base]) { p.Cells = l }, FindBy(entities.ByCSS("#grid > tbody > tr > td"))),
	One("Missing", func(p *reportPage, el interfaces.WebElement) { p.Missing = el }, FindBy(entities.ByID("nope"))),
	One("Label", func(p *reportPage, s string) { p.Label = s }),
	One("Footer", func(p *reportPage, el interfaces.WebElement) { p.Footer = el }, FindBy(entities.ByID("alt-footer"))),
)

func parse(t *testing.T) *snapshot.Document {
	t.Helper()
	doc, err := snapshot.ParseString(reportHTML, snapshot.WithName("report"))
	require.NoError(t, err)
	return doc
}

func TestSchema_Fields(t *testing.T) {
	var names []string
	for _, f := range reportSchema.Fields() {
		names = append(names, f.Name())
	}
	assert.Equal(t, []string{"Search", "Grid", "Cells", "Missing", "Label", "Footer", "Title"}, names)

	fields := reportSchema.Fields()
	assert.Equal(t, entities.ByIDOrName("Search"), fields[0].Locator())
	assert.Equal(t, reflect.TypeFor[*container.Table](), fields[1].Type())
	assert.True(t, fields[2].Many())
	assert.Equal(t, "report", reportSchema.Name())
	assert.Equal(t, "pagefactory.basePage", NewSchema[basePage]("").Name())
}

func TestBind_IsLazy(t *testing.T) {
	doc := parse(t)

	bound, err := Bind(reportSchema, doc)
	require.NoError(t, err)
	assert.Zero(t, doc.Queries())

	page := bound.Get()
	assert.Same(t, doc, page.session)
	assert.NotNil(t, page.Missing)
	assert.Zero(t, doc.Queries())
}

func TestBind_FieldsResolveOnUse(t *testing.T) {
	ctx := context.Background()
	doc := parse(t)

	bound, err := Bind(reportSchema, doc)
	require.NoError(t, err)
	page := bound.Get()

	title, err := page.Title.Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Report", title)

	value, ok, err := page.Search.Attribute(ctx, "value")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "q", value)

	footer, err := page.Footer.Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alt footer", footer)

	body, err := page.Grid.Body(ctx)
	require.NoError(t, err)
	rows, err := body.Rows(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	cells, err := page.Cells.All(ctx)
	require.NoError(t, err)
	assert.Len(t, cells, 2)

	_, err = page.Missing.Text(ctx)
	assert.ErrorIs(t, err, entities.ErrElementNotFound)

	assert.Empty(t, page.Label)
}

func TestBind_LogsUnresolvedFields(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	_, err := Bind(reportSchema, parse(t), WithLogger(logger))
	require.NoError(t, err)

	var skipped bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.DebugLevel && e.Message == "No resolver for report.Label (string), leaving it unbound" {
			skipped = true
		}
	}
	assert.True(t, skipped)
	assert.Equal(t, "Bound page report to snapshot(report) (self-contained: false)", hook.LastEntry().Message)
}

func TestBind_ClassInstantiationFailed(t *testing.T) {
	type bare struct{ X int }

	_, err := Bind(NewSchema[bare]("bare"), parse(t))
	assert.ErrorIs(t, err, entities.ErrClassInstantiationFailed)

	panicky := NewSchema[bare]("panicky",
		WithSessionConstructor(func(interfaces.Session) *bare { panic("no session support") }),
	)
	_, err = Bind(panicky, parse(t))
	assert.ErrorIs(t, err, entities.ErrClassInstantiationFailed)

	var inst *entities.ClassInstantiationError
	require.ErrorAs(t, err, &inst)
	assert.Equal(t, "panicky", inst.Schema)
}

func TestBind_FallsBackToNoArgConstructor(t *testing.T) {
	type widget struct {
		Title interfaces.WebElement
	}
	doc := parse(t)
	schema := NewSchema[widget]("widget",
		WithSessionConstructor(func(interfaces.Session) *widget { return nil }),
		Zero[widget](),
		One("Title", func(p *widget, el interfaces.WebElement) { p.Title = el }),
	)

	bound, err := Bind(schema, doc)
	require.NoError(t, err)
	assert.True(t, bound.SelfContained())

	session, err := Unwrap(bound)
	require.NoError(t, err)
	assert.Same(t, doc, session)

	_, err = Unwrap(bound.Get())
	assert.ErrorIs(t, err, entities.ErrUnsupportedUnwrap)

	text, err := bound.And().Get().Title.Text(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Report", text)
}

func TestUnwrap_Unsupported(t *testing.T) {
	bound, err := Bind(reportSchema, parse(t))
	require.NoError(t, err)

	_, err = bound.UnwrapSession()
	assert.ErrorIs(t, err, entities.ErrUnsupportedUnwrap)

	_, err = Unwrap(bound.Get())
	assert.ErrorIs(t, err, entities.ErrUnsupportedUnwrap)
}

func TestBind_NilSession(t *testing.T) {
	_, err := Bind(reportSchema, nil)
	assert.Error(t, err)
}

func TestBind_FieldBindingFailed(t *testing.T) {
	type page struct{ Title interfaces.WebElement }

	schema := NewSchema[page]("broken",
		Zero[page](),
		One("Title", func(*page, interfaces.WebElement) { panic("read-only") }),
	)
	_, err := Bind(schema, parse(t))
	require.ErrorIs(t, err, entities.ErrFieldBindingFailed)

	var binding *entities.FieldBindingError
	require.ErrorAs(t, err, &binding)
	assert.Equal(t, "Title", binding.Field)
}

// mismatched claims tables but hands back plain elements
type mismatched struct{}

func (mismatched) CanHandle(t reflect.Type) bool     { return t == reflect.TypeFor[*container.Table]() }
func (mismatched) Wrap(el interfaces.WebElement) any { return el }

func TestBind_ResolverTypeMismatch(t *testing.T) {
	type one struct{ Grid *container.Table }
	type many struct{ Grids proxy.List[*container.Table] }
	chain := WithChain(resolver.Chain{mismatched{}})

	_, err := Bind(NewSchema[one]("one",
		Zero[one](),
		One("Grid", func(p *one, t *container.Table) { p.Grid = t }),
	), parse(t), chain)
	assert.ErrorIs(t, err, entities.ErrFieldBindingFailed)

	_, err = Bind(NewSchema[many]("many",
		Zero[many](),
		Many("Grids", func(p *many, l proxy.List[*container.Table]) { p.Grids = l }),
	), parse(t), chain)
	assert.ErrorIs(t, err, entities.ErrFieldBindingFailed)
}

func TestBind_EmptyChain(t *testing.T) {
	type page struct {
		Grid  *container.Table
		Grids proxy.List[*container.Table]
	}
	schema := NewSchema[page]("page",
		Zero[page](),
		One("Grid", func(p *page, t *container.Table) { p.Grid = t }, FindBy(entities.ByID("grid"))),
		Many("Grids", func(p *page, l proxy.List[*container.Table]) { p.Grids = l }, FindBy(entities.ByTagName("table"))),
	)

	bound, err := Bind(schema, parse(t), WithChain(resolver.Chain{}))
	require.NoError(t, err)

	assert.Nil(t, bound.Get().Grid)
	grids, err := bound.Get().Grids.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, grids)
}

func TestInitElements_ComponentScope(t *testing.T) {
	ctx := context.Background()
	doc := parse(t)

	type rowComponent struct {
		Cells proxy.List[interfaces.WebElement]
	}
	schema := NewSchema[rowComponent]("row",
		Many("Cells", func(p *rowComponent, l proxy.List[interfaces.WebElement]) { p.Cells = l }, FindBy(entities.ByXPath("./td"))),
	)

	body, err := container.NewTable(proxy.NewElement(doc, entities.ByID("grid"))).Body(ctx)
	require.NoError(t, err)
	row, err := body.Row(ctx, 0)
	require.NoError(t, err)

	var comp rowComponent
	require.NoError(t, InitElements(schema, row, &comp))

	n, err := comp.Cells.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	err = InitElements[rowComponent](schema, row, nil)
	assert.ErrorIs(t, err, entities.ErrClassInstantiationFailed)
}

func TestFind_NestedTable(t *testing.T) {
	ctx := context.Background()
	doc := parse(t)
	grid := container.NewTable(proxy.NewElement(doc, entities.ByID("grid")))

	body, err := grid.Body(ctx)
	require.NoError(t, err)
	row, err := body.Row(ctx, 0)
	require.NoError(t, err)
	cell, err := row.Cell(ctx, 1)
	require.NoError(t, err)

	inner, err := Find[*container.Table](ctx, cell, entities.ByTagName("table"))
	require.NoError(t, err)
	innerBody, err := inner.Body(ctx)
	require.NoError(t, err)
	innerRows, err := innerBody.Rows(ctx)
	require.NoError(t, err)
	assert.Len(t, innerRows, 1)

	_, err = Find[*container.Table](ctx, cell, entities.ByID("grid"))
	assert.ErrorIs(t, err, entities.ErrElementNotFound)

	_, err = Find[string](ctx, cell, entities.ByTagName("td"))
	assert.ErrorIs(t, err, entities.ErrNoResolver)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Save(ctx context.Context, session interfaces.Session, fileName string) (string, error) {
	args := m.Called(ctx, session, fileName)
	return args.String(0), args.Error(1)
}

func TestBound_TakeScreenShot(t *testing.T) {
	ctx := context.Background()
	doc := parse(t)
	store := new(mockStore)
	store.On("Save", mock.Anything, doc, "before").Return("shots/before.png", nil).Once()
	store.On("Save", mock.Anything, doc, "after").Return("", errors.New("disk full")).Once()

	bound, err := Bind(reportSchema, doc, WithScreenshots(store))
	require.NoError(t, err)

	same, err := bound.TakeScreenShot(ctx, "before")
	require.NoError(t, err)
	assert.Same(t, bound, same)

	_, err = same.And().TakeScreenShot(ctx, "after")
	assert.ErrorContains(t, err, "disk full")
	store.AssertExpectations(t)

	plain, err := Bind(reportSchema, doc)
	require.NoError(t, err)
	_, err = plain.TakeScreenShot(ctx, "x")
	assert.Error(t, err)
}
