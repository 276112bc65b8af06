package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"

	"wisepage/domain/entities"
	"wisepage/domain/interfaces"
	"wisepage/infrastructure/config"
	"wisepage/internal/selector"
)

// PlaywrightSession is a Session over one Playwright page
type PlaywrightSession struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	logger  *logrus.Logger
}

var _ interfaces.Session = (*PlaywrightSession)(nil)

// NewPlaywrightSession - starts playwright, launches Chromium and opens a page
func NewPlaywrightSession(cfg *config.Config, logger *logrus.Logger) (*PlaywrightSession, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	}
	if cfg.ChromeBinary != "" {
		launch.ExecutablePath = playwright.String(cfg.ChromeBinary)
	}

	browser, err := pw.Chromium.Launch(launch)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  1280,
			Height: 720,
		},
		IgnoreHttpsErrors: playwright.Bool(true),
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	logger.Infof("Playwright Chromium launched (headless: %t)", cfg.Headless)
	return &PlaywrightSession{
		pw:      pw,
		browser: browser,
		context: bctx,
		page:    page,
		logger:  logger,
	}, nil
}

// Navigate - navigates to the specified URL
func (p *PlaywrightSession) Navigate(ctx context.Context, url string) error {
	p.logger.Infof("Navigating to: %s", url)
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(30000),
	})
	return err
}

func (p *PlaywrightSession) FindElements(ctx context.Context, by entities.Locator) ([]interfaces.WebElement, error) {
	return playwrightFind(ctx, p.logger, by, p.page.QuerySelectorAll)
}

// Screenshot - takes a screenshot of the current page
func (p *PlaywrightSession) Screenshot(ctx context.Context) ([]byte, error) {
	return p.page.Screenshot()
}

// Close - closes the context, the browser and the driver
func (p *PlaywrightSession) Close() error {
	var closeErr error
	record := func(what string, err error) {
		if err == nil || strings.Contains(err.Error(), "closed") {
			return
		}
		if closeErr != nil {
			closeErr = fmt.Errorf("%v; failed to close %s: %w", closeErr, what, err)
		} else {
			closeErr = fmt.Errorf("failed to close %s: %w", what, err)
		}
	}

	if p.context != nil {
		record("context", p.context.Close())
		p.context = nil
	}
	if p.browser != nil {
		record("browser", p.browser.Close())
		p.browser = nil
	}
	if p.pw != nil {
		record("playwright", p.pw.Stop())
		p.pw = nil
	}
	return closeErr
}

func (p *PlaywrightSession) String() string {
	return "playwright(" + p.page.URL() + ")"
}

type querySelectorAll func(selector string) ([]playwright.ElementHandle, error)

func playwrightFind(ctx context.Context, logger *logrus.Logger, by entities.Locator, query querySelectorAll) ([]interfaces.WebElement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sels, err := selector.Compile(by)
	if err != nil {
		return nil, err
	}

	var elements []interfaces.WebElement
	for _, sel := range sels {
		found, err := query(playwrightSelector(sel))
		if err != nil {
			return nil, fmt.Errorf("playwright find %s: %w", by, err)
		}
		logger.Debugf("Playwright query %s matched %d", sel.Expr, len(found))
		for _, h := range found {
			elements = append(elements, &playwrightElement{handle: h, logger: logger})
		}
	}
	return elements, nil
}

// playwrightSelector prefixes the engine name. XPath from an element handle is
// evaluated relative to it.
func playwrightSelector(sel selector.Selector) string {
	if sel.Kind == selector.XPath {
		return "xpath=" + sel.Expr
	}
	return "css=" + sel.Expr
}

type playwrightElement struct {
	handle playwright.ElementHandle
	logger *logrus.Logger
}

func (e *playwrightElement) FindElements(ctx context.Context, by entities.Locator) ([]interfaces.WebElement, error) {
	return playwrightFind(ctx, e.logger, by, e.handle.QuerySelectorAll)
}

func (e *playwrightElement) TagName(ctx context.Context) (string, error) {
	v, err := e.handle.Evaluate("el => el.tagName.toLowerCase()")
	if err != nil {
		return "", err
	}
	return fmt.Sprint(v), nil
}

func (e *playwrightElement) Text(ctx context.Context) (string, error) {
	text, err := e.handle.InnerText()
	return strings.TrimSpace(text), err
}

func (e *playwrightElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	v, err := e.handle.Evaluate("(el, name) => el.getAttribute(name)", name)
	if err != nil {
		return "", false, fmt.Errorf("failed to read attribute %s: %w", name, err)
	}
	if v == nil {
		return "", false, nil
	}
	return fmt.Sprint(v), true, nil
}

func (e *playwrightElement) ContentScope(ctx context.Context) (interfaces.SearchContext, error) {
	frame, err := e.handle.ContentFrame()
	if err != nil {
		return nil, fmt.Errorf("failed to open frame: %w", err)
	}
	if frame == nil {
		return nil, fmt.Errorf("element is not a frame")
	}
	return &playwrightFrame{frame: frame, logger: e.logger}, nil
}

type playwrightFrame struct {
	frame  playwright.Frame
	logger *logrus.Logger
}

func (f *playwrightFrame) FindElements(ctx context.Context, by entities.Locator) ([]interfaces.WebElement, error) {
	return playwrightFind(ctx, f.logger, by, f.frame.QuerySelectorAll)
}

func (f *playwrightFrame) String() string {
	return "playwright frame(" + f.frame.URL() + ")"
}
