package terminal

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"wisepage/application/container"
	"wisepage/application/pagefactory"
	"wisepage/domain/entities"
	"wisepage/domain/interfaces"
	"wisepage/infrastructure/browser"
	"wisepage/infrastructure/config"
	"wisepage/infrastructure/storage"
)

type TerminalInterface struct {
	cfg     *config.Config
	session interfaces.Session
	logger  *logrus.Logger
	out     io.Writer
}

// NewTerminalInterface - loads the configuration and opens the configured session
func NewTerminalInterface(ctx context.Context, v *viper.Viper, out, errOut io.Writer) (*TerminalInterface, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := config.NewLogger(cfg)
	logger.SetOutput(errOut)

	session, err := browser.Open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize browser: %w", err)
	}
	logger.Infof("Session ready: %s", session)

	return &TerminalInterface{
		cfg:     cfg,
		session: session,
		logger:  logger,
		out:     out,
	}, nil
}

type tablePage struct {
	Grid *container.Table
}

func tableSchema(by entities.Locator) *pagefactory.Schema[tablePage] {
	return pagefactory.NewSchema[tablePage]("table",
		pagefactory.Zero[tablePage](),
		pagefactory.One("Grid", func(p *tablePage, t *container.Table) { p.Grid = t }, pagefactory.FindBy(by)),
	)
}

// PrintTable - binds the table found by by and prints its caption and sections.
// With dryRun only the binding happens.
func (t *TerminalInterface) PrintTable(ctx context.Context, url string, by entities.Locator, dryRun bool) error {
	if err := browser.Navigate(ctx, t.session, url); err != nil {
		return fmt.Errorf("failed to navigate: %w", err)
	}

	bound, err := pagefactory.Bind(tableSchema(by), t.session, pagefactory.WithLogger(t.logger))
	if err != nil {
		return err
	}

	if dryRun {
		fmt.Fprintf(t.out, "Bound %s to %s\n", by, t.session)
		if counter, ok := t.session.(interface{ Queries() int64 }); ok {
			fmt.Fprintf(t.out, "Queries: %d\n", counter.Queries())
		}
		return nil
	}

	table := bound.Get().Grid
	caption, ok, err := table.Caption(ctx)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(t.out, "Caption: %s\n", caption)
	}

	head, err := table.Head(ctx)
	if err != nil {
		return err
	}
	bodies, err := table.Bodies(ctx)
	if err != nil {
		return err
	}
	foot, err := table.Foot(ctx)
	if err != nil {
		return err
	}

	sections := append([]*container.Section{head}, bodies...)
	sections = append(sections, foot)
	for _, s := range sections {
		if s == nil {
			continue
		}
		if err := t.printSection(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (t *TerminalInterface) printSection(ctx context.Context, s *container.Section) error {
	rows, err := s.Rows(ctx)
	if err != nil {
		return err
	}
	for i, row := range rows {
		cells, err := row.Cells(ctx)
		if err != nil {
			return err
		}
		parts := make([]string, len(cells))
		for j, cell := range cells {
			parts[j], err = describeCell(ctx, cell)
			if err != nil {
				return err
			}
		}
		fmt.Fprintf(t.out, "%s[%d]: %s\n", s.Kind(), i, strings.Join(parts, " | "))
	}
	return nil
}

func describeCell(ctx context.Context, cell *container.Cell) (string, error) {
	text, err := cell.Text(ctx)
	if err != nil {
		return "", err
	}
	colSpan, err := cell.ColSpan(ctx)
	if err != nil {
		return "", err
	}
	rowSpan, err := cell.RowSpan(ctx)
	if err != nil {
		return "", err
	}
	if colSpan > 1 || rowSpan > 1 {
		text += fmt.Sprintf(" (%dx%d)", colSpan, rowSpan)
	}
	return text, nil
}

// Screenshot - navigates to url and saves one screenshot per name
func (t *TerminalInterface) Screenshot(ctx context.Context, url string, names []string) error {
	if err := browser.Navigate(ctx, t.session, url); err != nil {
		return fmt.Errorf("failed to navigate: %w", err)
	}

	shooter := storage.NewShooter(storage.NewScreenshots(t.cfg.ScreenshotDir, t.logger), t.session)
	for _, name := range names {
		if _, err := shooter.TakeScreenShot(ctx, name); err != nil {
			return err
		}
	}
	for _, path := range shooter.Saved() {
		fmt.Fprintln(t.out, path)
	}
	return nil
}

func (t *TerminalInterface) Close() error {
	t.logger.Infof("Closing session %s", t.session)
	if err := t.session.Close(); err != nil {
		t.logger.Warnf("Failed to close session cleanly: %v", err)
		return err
	}
	return nil
}
