package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/sirupsen/logrus"

	"wisepage/domain/entities"
	"wisepage/domain/interfaces"
	"wisepage/infrastructure/config"
	"wisepage/internal/selector"
)

// RodSession is a Session over a Chrome DevTools page driven by rod
type RodSession struct {
	browser *rod.Browser
	page    *rod.Page
	lnch    *launcher.Launcher
	logger  *logrus.Logger
}

var _ interfaces.Session = (*RodSession)(nil)

// NewRodSession - connects to cfg.RemoteURL, or launches a local Chrome
func NewRodSession(cfg *config.Config, logger *logrus.Logger) (*RodSession, error) {
	wsURL := cfg.RemoteURL
	var l *launcher.Launcher

	if wsURL == "" {
		l = launcher.New().Headless(cfg.Headless)
		if cfg.ChromeBinary != "" {
			l = l.Bin(cfg.ChromeBinary)
		}
		l = l.Set("disable-blink-features", "AutomationControlled")

		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		logger.Infof("Launched local chrome at %s", wsURL)
	} else {
		logger.Infof("Connecting to remote chrome at %s", wsURL)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		if l != nil {
			l.Kill()
		}
		return nil, fmt.Errorf("browser: connect: %w", err)
	}

	var page *rod.Page
	var err error
	if cfg.Stealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		b.Close()
		if l != nil {
			l.Kill()
		}
		return nil, fmt.Errorf("browser: new page: %w", err)
	}

	return &RodSession{browser: b, page: page, lnch: l, logger: logger}, nil
}

// Navigate - navigates to url and waits for the load event
func (r *RodSession) Navigate(ctx context.Context, url string) error {
	r.logger.Infof("Navigating to: %s", url)
	page := r.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return err
	}
	return page.WaitLoad()
}

func (r *RodSession) FindElements(ctx context.Context, by entities.Locator) ([]interfaces.WebElement, error) {
	page := r.page.Context(ctx)
	return rodFind(ctx, r.logger, by, page.Elements, page.ElementsX)
}

func (r *RodSession) Screenshot(ctx context.Context) ([]byte, error) {
	return r.page.Context(ctx).Screenshot(false, nil)
}

func (r *RodSession) Close() error {
	var errs []string
	if err := r.browser.Close(); err != nil {
		errs = append(errs, err.Error())
	}
	if r.lnch != nil {
		r.lnch.Kill()
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to close rod session: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (r *RodSession) String() string {
	return "rod(" + string(r.page.TargetID) + ")"
}

type rodQuery func(selector string) (rod.Elements, error)

func rodFind(ctx context.Context, logger *logrus.Logger, by entities.Locator, css, xpath rodQuery) ([]interfaces.WebElement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sels, err := selector.Compile(by)
	if err != nil {
		return nil, err
	}

	var elements []interfaces.WebElement
	for _, sel := range sels {
		query := css
		if sel.Kind == selector.XPath {
			query = xpath
		}
		found, err := query(sel.Expr)
		if err != nil {
			return nil, fmt.Errorf("rod find %s: %w", by, err)
		}
		logger.Debugf("Rod query %s matched %d", sel.Expr, len(found))
		for _, el := range found {
			elements = append(elements, &rodElement{el: el, logger: logger})
		}
	}
	return elements, nil
}

type rodElement struct {
	el     *rod.Element
	logger *logrus.Logger
}

func (e *rodElement) FindElements(ctx context.Context, by entities.Locator) ([]interfaces.WebElement, error) {
	el := e.el.Context(ctx)
	return rodFind(ctx, e.logger, by, el.Elements, el.ElementsX)
}

func (e *rodElement) TagName(ctx context.Context) (string, error) {
	node, err := e.el.Context(ctx).Describe(0, false)
	if err != nil {
		return "", err
	}
	return strings.ToLower(node.LocalName), nil
}

func (e *rodElement) Text(ctx context.Context) (string, error) {
	text, err := e.el.Context(ctx).Text()
	return strings.TrimSpace(text), err
}

func (e *rodElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	v, err := e.el.Context(ctx).Attribute(name)
	if err != nil {
		return "", false, fmt.Errorf("failed to read attribute %s: %w", name, err)
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

func (e *rodElement) ContentScope(ctx context.Context) (interfaces.SearchContext, error) {
	frame, err := e.el.Context(ctx).Frame()
	if err != nil {
		return nil, fmt.Errorf("failed to open frame: %w", err)
	}
	return &rodFrame{page: frame, logger: e.logger}, nil
}

type rodFrame struct {
	page   *rod.Page
	logger *logrus.Logger
}

func (f *rodFrame) FindElements(ctx context.Context, by entities.Locator) ([]interfaces.WebElement, error) {
	page := f.page.Context(ctx)
	return rodFind(ctx, f.logger, by, page.Elements, page.ElementsX)
}

func (f *rodFrame) String() string {
	return "rod frame(" + string(f.page.FrameID) + ")"
}
