package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"heelos/internal/board"
	"heelos/internal/config"
	"heelos/internal/layout"
	"heelos/internal/logging"
	"heelos/internal/schedule"
	"heelos/internal/tui"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

type flags struct {
	configPath string
	dark       bool
	grid       float64
	schedules  string
	logFile    string
	logLevel   string
}

func main() {
	var f flags

	rootCmd := &cobra.Command{
		Use:   "heelos [layout.yaml]",
		Short: "Heelos - a free-form task board for the terminal",
		Long: `Heelos places tasks from your schedules and free notes anywhere on a board,
links tasks with arrows, and saves the arrangement as a layout file.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return runBoard(cfg, path)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "config file (default ~/"+config.FileName+")")
	pf.BoolVar(&f.dark, "dark", false, "use the dark theme")
	pf.Float64Var(&f.grid, "grid", 0, "snap grid size in cells")
	pf.StringVar(&f.schedules, "schedules", "", "schedule file offered by the task picker")
	pf.StringVar(&f.logFile, "log-file", "", "write logs to this file")
	pf.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(newExportCommand(&f))
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), rootCmd.Version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig layers the command-line flags over the config file and
// environment.
func loadConfig(cmd *cobra.Command, f flags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	fs := cmd.Flags()
	if fs.Changed("dark") {
		cfg.DarkMode = f.dark
	}
	if fs.Changed("grid") {
		cfg.Board.GridSize = f.grid
	}
	if fs.Changed("schedules") {
		cfg.Schedules = f.schedules
	}
	if fs.Changed("log-file") {
		cfg.LogFile = f.logFile
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openLayout(path string) ([]board.Item, board.Connectors, error) {
	doc, err := layout.Load(path)
	if err != nil {
		return nil, nil, err
	}
	return doc.Board()
}

func runBoard(cfg *config.Config, path string) error {
	log, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	opts := tui.Options{Config: cfg, Logger: log, Filename: path}
	if cfg.Schedules != "" {
		schedules, err := schedule.Load(cfg.Schedules)
		if err != nil {
			return err
		}
		opts.Entries = schedule.Catalog(schedules)
		log.Info("schedules loaded", zap.String("path", cfg.Schedules), zap.Int("tasks", len(opts.Entries)))
	}
	if path != "" {
		opts.Items, opts.Connectors, err = openLayout(path)
		if err != nil {
			return err
		}
	}

	m, err := tui.New(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running board: %w", err)
	}
	return nil
}
