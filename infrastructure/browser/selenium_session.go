package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"

	"wisepage/domain/entities"
	"wisepage/domain/interfaces"
	"wisepage/infrastructure/config"
	"wisepage/internal/selector"
)

// SeleniumSession is a Session driven through a WebDriver server
type SeleniumSession struct {
	wd      selenium.WebDriver
	service *selenium.Service
	logger  *logrus.Logger
	url     string

	// frames is the frame path the driver is currently switched into
	frames []selenium.WebElement
}

var _ interfaces.Session = (*SeleniumSession)(nil)

// findChromeDriver - finds ChromeDriver executable path
func findChromeDriver(configured string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured, nil
		}
	}

	commonPaths := []string{
		"/usr/local/bin/chromedriver",
		"/usr/bin/chromedriver",
		"/opt/homebrew/bin/chromedriver",
		filepath.Join(os.Getenv("HOME"), "bin", "chromedriver"),
	}

	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath("chromedriver"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("chromedriver not found. Please install it or set BROWSER_DRIVER_PATH environment variable")
}

// findChromeBinary - finds Chrome/Chromium browser executable path
func findChromeBinary(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	chromePaths := []string{
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		`C:\Program Files\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
	}

	for _, path := range chromePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	return ""
}

// NewSeleniumSession - starts chromedriver (or connects to cfg.RemoteURL) and opens a session
func NewSeleniumSession(cfg *config.Config, logger *logrus.Logger) (*SeleniumSession, error) {
	var service *selenium.Service
	url := cfg.RemoteURL

	if url == "" {
		driverPath, err := findChromeDriver(cfg.DriverPath)
		if err != nil {
			return nil, fmt.Errorf("failed to find chromedriver: %w", err)
		}
		logger.Infof("Using ChromeDriver at: %s", driverPath)

		service, err = selenium.NewChromeDriverService(driverPath, cfg.DriverPort)
		if err != nil {
			return nil, fmt.Errorf("failed to start chromedriver: %w", err)
		}
		url = fmt.Sprintf("http://localhost:%d/wd/hub", cfg.DriverPort)
	}

	caps := selenium.Capabilities{
		"browserName": "chrome",
	}

	chromeCaps := chrome.Capabilities{
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	}
	if cfg.Headless {
		chromeCaps.Args = append(chromeCaps.Args, "--headless=new")
	}
	if chromeBinary := findChromeBinary(cfg.ChromeBinary); chromeBinary != "" {
		logger.Infof("Using Chrome binary at: %s", chromeBinary)
		chromeCaps.Path = chromeBinary
	}
	caps.AddChrome(chromeCaps)

	wd, err := selenium.NewRemote(caps, url)
	if err != nil {
		if service != nil {
			service.Stop()
		}
		if strings.Contains(err.Error(), "cannot find Chrome binary") {
			return nil, fmt.Errorf("failed to create webdriver: Chrome browser not found. Please install Google Chrome or set CHROME_BINARY_PATH environment variable. Error: %w", err)
		}
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}

	return &SeleniumSession{
		wd:      wd,
		service: service,
		logger:  logger,
		url:     url,
	}, nil
}

// Navigate - navigates browser to specified URL
func (s *SeleniumSession) Navigate(ctx context.Context, url string) error {
	s.logger.Infof("Navigating to: %s", url)
	if err := s.enter(nil); err != nil {
		return err
	}
	return s.wd.Get(url)
}

func (s *SeleniumSession) FindElements(ctx context.Context, by entities.Locator) ([]interfaces.WebElement, error) {
	return s.findAll(ctx, nil, by, s.wd.FindElements)
}

// Screenshot - takes screenshot of current page
func (s *SeleniumSession) Screenshot(ctx context.Context) ([]byte, error) {
	return s.wd.Screenshot()
}

// Close - closes browser and stops ChromeDriver service
func (s *SeleniumSession) Close() error {
	var errs []string
	if s.wd != nil {
		if err := s.wd.Quit(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if s.service != nil {
		if err := s.service.Stop(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to close selenium session: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (s *SeleniumSession) String() string {
	return "selenium(" + s.url + ")"
}

// enter switches the driver into the frame path, starting from the top document
func (s *SeleniumSession) enter(path []selenium.WebElement) error {
	if samePath(s.frames, path) {
		return nil
	}
	if err := s.wd.SwitchFrame(nil); err != nil {
		return fmt.Errorf("failed to switch to top document: %w", err)
	}
	s.frames = nil
	for i, frame := range path {
		if err := s.wd.SwitchFrame(frame); err != nil {
			return fmt.Errorf("failed to switch into frame %d: %w", i, err)
		}
	}
	s.frames = path
	return nil
}

func samePath(a, b []selenium.WebElement) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type findFunc func(by, value string) ([]selenium.WebElement, error)

func (s *SeleniumSession) findAll(ctx context.Context, frames []selenium.WebElement, by entities.Locator, find findFunc) ([]interfaces.WebElement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.enter(frames); err != nil {
		return nil, err
	}

	sels, err := selector.Compile(by)
	if err != nil {
		return nil, err
	}

	var elements []interfaces.WebElement
	for _, sel := range sels {
		found, err := find(seleniumUsing(sel), sel.Expr)
		if err != nil {
			return nil, fmt.Errorf("selenium find %s: %w", by, err)
		}
		s.logger.Debugf("Selenium query %s matched %d", sel.Expr, len(found))
		for _, el := range found {
			elements = append(elements, &seleniumElement{s: s, el: el, frames: frames})
		}
	}
	return elements, nil
}

// seleniumUsing picks the W3C strategy for a translated selector. The driver's
// own id and name strategies are rewritten to CSS in W3C mode, so they are
// never sent.
func seleniumUsing(sel selector.Selector) string {
	if sel.Kind == selector.XPath {
		return selenium.ByXPATH
	}
	return selenium.ByCSSSelector
}

type seleniumElement struct {
	s      *SeleniumSession
	el     selenium.WebElement
	frames []selenium.WebElement
}

func (e *seleniumElement) FindElements(ctx context.Context, by entities.Locator) ([]interfaces.WebElement, error) {
	return e.s.findAll(ctx, e.frames, by, e.el.FindElements)
}

func (e *seleniumElement) TagName(ctx context.Context) (string, error) {
	if err := e.s.enter(e.frames); err != nil {
		return "", err
	}
	tag, err := e.el.TagName()
	return strings.ToLower(tag), err
}

func (e *seleniumElement) Text(ctx context.Context) (string, error) {
	if err := e.s.enter(e.frames); err != nil {
		return "", err
	}
	text, err := e.el.Text()
	return strings.TrimSpace(text), err
}

// Attribute goes through getAttribute in the page so an absent attribute can be
// told apart from an empty one
func (e *seleniumElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	if err := e.s.enter(e.frames); err != nil {
		return "", false, err
	}
	v, err := e.s.wd.ExecuteScript("return arguments[0].getAttribute(arguments[1]);", []interface{}{e.el, name})
	if err != nil {
		return "", false, fmt.Errorf("failed to read attribute %s: %w", name, err)
	}
	if v == nil {
		return "", false, nil
	}
	return fmt.Sprint(v), true, nil
}

func (e *seleniumElement) ContentScope(ctx context.Context) (interfaces.SearchContext, error) {
	path := make([]selenium.WebElement, 0, len(e.frames)+1)
	path = append(path, e.frames...)
	path = append(path, e.el)
	return &seleniumFrame{s: e.s, path: path}, nil
}

// seleniumFrame is the document of a frame; queries switch the driver into it
type seleniumFrame struct {
	s    *SeleniumSession
	path []selenium.WebElement
}

func (f *seleniumFrame) FindElements(ctx context.Context, by entities.Locator) ([]interfaces.WebElement, error) {
	return f.s.findAll(ctx, f.path, by, f.s.wd.FindElements)
}

func (f *seleniumFrame) String() string {
	return fmt.Sprintf("%s frame depth %d", f.s, len(f.path))
}
