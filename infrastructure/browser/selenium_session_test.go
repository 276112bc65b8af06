package browser

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tebeka/selenium"

	"wisepage/domain/entities"
	"wisepage/domain/interfaces"
	"wisepage/infrastructure/config"
	"wisepage/internal/selector"
)

type findRequest struct {
	Path  string
	Using string
	Value string
}

// fakeDriver answers the W3C WebDriver commands a SeleniumSession issues.
// Element lookups are resolved from results, keyed by "using value".
type fakeDriver struct {
	mu       sync.Mutex
	finds    []findRequest
	results  map[string][]string
	tagNames map[string]string
}

func (f *fakeDriver) requests() []findRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]findRequest(nil), f.finds...)
}

func (f *fakeDriver) reply(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{"value": value})
}

func (f *fakeDriver) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case r.Method == http.MethodPost && path == "/session":
		f.reply(w, http.StatusOK, map[string]interface{}{
			"sessionId":    "s1",
			"capabilities": map[string]string{"browserName": "chrome"},
		})
	case r.Method == http.MethodDelete && path == "/session/s1":
		f.reply(w, http.StatusOK, nil)
	case r.Method == http.MethodPost && strings.HasSuffix(path, "/elements"):
		var body struct{ Using, Value string }
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			f.reply(w, http.StatusBadRequest, map[string]string{"error": "invalid argument", "message": err.Error()})
			return
		}
		f.mu.Lock()
		f.finds = append(f.finds, findRequest{Path: path, Using: body.Using, Value: body.Value})
		ids, ok := f.results[body.Using+" "+body.Value]
		f.mu.Unlock()
		if !ok {
			f.reply(w, http.StatusBadRequest, map[string]string{"error": "invalid selector", "message": body.Value})
			return
		}
		refs := make([]map[string]string, 0, len(ids))
		for _, id := range ids {
			refs = append(refs, map[string]string{"element-6066-11e4-a52e-4f735466cecf": id})
		}
		f.reply(w, http.StatusOK, refs)
	case r.Method == http.MethodGet && strings.HasSuffix(path, "/name"):
		id := strings.TrimSuffix(strings.TrimPrefix(path, "/session/s1/element/"), "/name")
		f.reply(w, http.StatusOK, f.tagNames[id])
	default:
		f.reply(w, http.StatusNotFound, map[string]string{"error": "unknown command", "message": r.Method + " " + path})
	}
}

func newFakeSelenium(t *testing.T, driver *fakeDriver) *SeleniumSession {
	t.Helper()
	srv := httptest.NewServer(driver)
	t.Cleanup(srv.Close)

	s, err := NewSeleniumSession(&config.Config{Backend: config.BackendSelenium, RemoteURL: srv.URL}, nullLogger())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func tagsOf(t *testing.T, found []interfaces.WebElement) []string {
	t.Helper()
	tags := make([]string, 0, len(found))
	for _, el := range found {
		tag, err := el.TagName(context.Background())
		require.NoError(t, err)
		tags = append(tags, tag)
	}
	return tags
}

func TestSeleniumSession_IDOrNameSendsXPath(t *testing.T) {
	ctx := context.Background()
	driver := &fakeDriver{
		results: map[string][]string{
			"xpath .//*[@id='country']":                          {},
			"xpath .//*[@name='country' and not(@id='country')]": {"e2"},
		},
		tagNames: map[string]string{"e2": "SELECT"},
	}
	s := newFakeSelenium(t, driver)

	found, err := s.FindElements(ctx, entities.ByIDOrName("country"))
	require.NoError(t, err)
	assert.Equal(t, []string{"select"}, tagsOf(t, found))

	assert.Equal(t, []findRequest{
		{Path: "/session/s1/elements", Using: selenium.ByXPATH, Value: ".//*[@id='country']"},
		{Path: "/session/s1/elements", Using: selenium.ByXPATH, Value: ".//*[@name='country' and not(@id='country')]"},
	}, driver.requests())
}

func TestSeleniumSession_IDOrNameMergesIDsThenNames(t *testing.T) {
	driver := &fakeDriver{
		results: map[string][]string{
			"xpath .//*[@id='dup']":                      {"e1"},
			"xpath .//*[@name='dup' and not(@id='dup')]": {"e2", "e3"},
		},
		tagNames: map[string]string{"e1": "input", "e2": "textarea", "e3": "button"},
	}
	s := newFakeSelenium(t, driver)

	found, err := s.FindElements(context.Background(), entities.ByIDOrName("dup"))
	require.NoError(t, err)
	assert.Equal(t, []string{"input", "textarea", "button"}, tagsOf(t, found))
}

func TestSeleniumSession_Strategies(t *testing.T) {
	ctx := context.Background()
	driver := &fakeDriver{
		results: map[string][]string{
			"xpath .//*[@id='user.email']":          {"e1"},
			"css selector table > tbody":            {"e2"},
			"xpath .//*[local-name()='tr']":         {"e3", "e4"},
			"xpath .//a[normalize-space(.)='Next']": {},
		},
	}
	s := newFakeSelenium(t, driver)

	found, err := s.FindElements(ctx, entities.ByID("user.email"))
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = s.FindElements(ctx, entities.ByCSS("table > tbody"))
	require.NoError(t, err)
	require.Len(t, found, 1)

	rows, err := found[0].FindElements(ctx, entities.ByTagName("TR"))
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	none, err := s.FindElements(ctx, entities.ByLinkText(" Next "))
	require.NoError(t, err)
	assert.Empty(t, none)

	assert.Equal(t, []findRequest{
		{Path: "/session/s1/elements", Using: selenium.ByXPATH, Value: ".//*[@id='user.email']"},
		{Path: "/session/s1/elements", Using: selenium.ByCSSSelector, Value: "table > tbody"},
		{Path: "/session/s1/element/e2/elements", Using: selenium.ByXPATH, Value: ".//*[local-name()='tr']"},
		{Path: "/session/s1/elements", Using: selenium.ByXPATH, Value: ".//a[normalize-space(.)='Next']"},
	}, driver.requests())
}

func TestSeleniumSession_FindErrors(t *testing.T) {
	driver := &fakeDriver{results: map[string][]string{}}
	s := newFakeSelenium(t, driver)

	_, err := s.FindElements(context.Background(), entities.ByXPath("//["))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "selenium find")
	var wdErr *selenium.Error
	assert.ErrorAs(t, err, &wdErr)

	_, err = s.FindElements(context.Background(), entities.Locator{How: "shadow", Using: "x"})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.FindElements(ctx, entities.ByCSS("td"))
	assert.ErrorIs(t, err, context.Canceled)

	assert.Len(t, driver.requests(), 1)
}

func TestSeleniumUsing(t *testing.T) {
	tests := map[entities.How]string{
		entities.ID:              selenium.ByXPATH,
		entities.Name:            selenium.ByXPATH,
		entities.CSS:             selenium.ByCSSSelector,
		entities.XPath:           selenium.ByXPATH,
		entities.PartialLinkText: selenium.ByXPATH,
	}
	for how, want := range tests {
		sels, err := selector.Compile(entities.Locator{How: how, Using: "x"})
		require.NoError(t, err)
		require.Len(t, sels, 1)
		assert.Equal(t, want, seleniumUsing(sels[0]), how)
	}
}
