package terminal

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"wisepage/domain/entities"
	"wisepage/infrastructure/config"
)

// Version is set at build time with -ldflags "-X wisepage/presentation/terminal.Version=..."
var Version = "dev"

// NewRootCommand builds the wisepage command tree. Each call returns a fresh tree
// with its own viper instance.
func NewRootCommand() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "wisepage",
		Short:         "Bind page objects to a browser session and inspect tables.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("snapshot") && !flags.Changed("backend") {
				v.Set("backend", config.BackendSnapshot)
			}
			return nil
		},
	}
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	flags := root.PersistentFlags()
	flags.String("backend", config.BackendSelenium, "session backend: selenium, playwright, rod or snapshot")
	flags.String("snapshot", "", "HTML file to query offline instead of a browser")
	flags.String("remote-url", "", "remote WebDriver or DevTools endpoint")
	flags.Bool("headless", true, "run the browser headless")
	flags.Bool("stealth", false, "use stealth pages (rod backend)")
	flags.String("screenshot-dir", "screenshots", "directory for screenshots")
	flags.String("log-level", "info", "log level")

	for key, flag := range map[string]string{
		"backend":        "backend",
		"snapshot_file":  "snapshot",
		"remote_url":     "remote-url",
		"headless":       "headless",
		"stealth":        "stealth",
		"screenshot_dir": "screenshot-dir",
		"log_level":      "log-level",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(newTableCommand(v), newScreenshotCommand(v))
	return root
}

func newTableCommand(v *viper.Viper) *cobra.Command {
	var (
		url     string
		locator string
		dryRun  bool
	)
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the caption, rows and cells of a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			by, err := entities.ParseLocator(locator)
			if err != nil {
				return err
			}
			term, err := NewTerminalInterface(cmd.Context(), v, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer term.Close()
			return term.PrintTable(cmd.Context(), url, by, dryRun)
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "page to open before binding")
	cmd.Flags().StringVar(&locator, "locator", "tag=table", "table locator, e.g. css=table.grid or xpath=//table[2]")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "bind only and report the queries made")
	return cmd
}

func newScreenshotCommand(v *viper.Viper) *cobra.Command {
	var (
		url   string
		names []string
	)
	cmd := &cobra.Command{
		Use:   "screenshot",
		Short: "Save screenshots of a page",
		RunE: func(cmd *cobra.Command, args []string) error {
			term, err := NewTerminalInterface(cmd.Context(), v, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer term.Close()
			return term.Screenshot(cmd.Context(), url, names)
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "page to open")
	cmd.Flags().StringSliceVar(&names, "name", []string{"page"}, "file name, repeatable")
	return cmd
}
