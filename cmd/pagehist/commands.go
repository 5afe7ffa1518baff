package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/izzyreal/pagehist/internal/config"
	"github.com/izzyreal/pagehist/internal/history"
	"github.com/izzyreal/pagehist/internal/protocol"
	"github.com/izzyreal/pagehist/internal/render"
	"github.com/izzyreal/pagehist/internal/report"
	"github.com/izzyreal/pagehist/internal/server"
	"github.com/izzyreal/pagehist/internal/store"
	"github.com/izzyreal/pagehist/internal/version"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pagehist",
		Short:         "Track how erratic test pages are across builds",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newServerCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newRankCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newServerCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the HTTP/gRPC history server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return server.Run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to pagehist YAML config")
	return cmd
}

// loadConfig reads the config file and lets an explicit --db win over it.
func loadConfig(configPath, dbPath string) (config.File, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if dbPath = strings.TrimSpace(dbPath); dbPath != "" {
		cfg.Server.DBPath = dbPath
	}
	return cfg, nil
}

func newImportCmd() *cobra.Command {
	var (
		project    string
		configPath string
		dbPath     string
		format     string
		root       string
	)
	cmd := &cobra.Command{
		Use:   "import [glob...]",
		Short: "Record report files as the next build of a project",
		Long: "Parse FitNesse or JUnit XML report files and store them as one build. " +
			"Without arguments the report globs configured for the project are used.",
		RunE: func(cmd *cobra.Command, args []string) error {
			project = strings.TrimSpace(project)
			if project == "" {
				return errors.New("--project is required")
			}
			cfg, err := loadConfig(configPath, dbPath)
			if err != nil {
				return err
			}

			sources := []config.ReportSource{}
			for _, a := range args {
				sources = append(sources, config.ReportSource{Root: root, Glob: a, Format: format})
			}
			if len(sources) == 0 {
				if p, ok := cfg.Project(project); ok {
					sources = p.Reports
				}
			}
			if len(sources) == 0 {
				return fmt.Errorf("no report globs given and none configured for project %q", project)
			}

			outcomes, files, err := loadReports(sources)
			if err != nil {
				return err
			}
			if files == 0 {
				return errors.New("no report files matched")
			}

			db, err := store.Open(cfg.Server.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			build, err := db.RecordBuild(project, time.Now(), outcomes)
			if err != nil {
				return fmt.Errorf("record build: %w", err)
			}
			if keep := cfg.History.RetainBuilds; keep > 0 {
				if _, err := db.PruneBuilds(project, keep); err != nil {
					return fmt.Errorf("prune builds: %w", err)
				}
			}
			slog.Info("build imported", "project", project, "number", build.Number, "files", files, "outcomes", len(outcomes))
			fmt.Fprintf(cmd.OutOrStdout(), "recorded %s build #%d with %d page results from %d files\n",
				project, build.Number, len(outcomes), files)
			return nil
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "project name")
	cmd.Flags().StringVar(&configPath, "config", "", "path to pagehist YAML config")
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database path (overrides config)")
	cmd.Flags().StringVar(&format, "format", report.FormatAuto, "report format: auto, fitnesse-xml or junit-xml")
	cmd.Flags().StringVar(&root, "root", ".", "directory globs are resolved against")
	return cmd
}

func loadReports(sources []config.ReportSource) ([]protocol.ChildOutcome, int, error) {
	var outcomes []protocol.ChildOutcome
	files := 0
	for _, src := range sources {
		root := src.Root
		if strings.TrimSpace(root) == "" {
			root = "."
		}
		if !report.IsValidFormat(src.Format) {
			return nil, 0, fmt.Errorf("%w: %q", report.ErrUnknownFormat, src.Format)
		}
		matched, err := report.Discover(root, []string{src.Glob})
		if err != nil {
			return nil, 0, err
		}
		parsed, err := report.LoadFiles(root, matched, src.Format)
		if err != nil {
			return nil, 0, err
		}
		outcomes = append(outcomes, parsed...)
		files += len(matched)
	}
	return outcomes, files, nil
}

func newRankCmd() *cobra.Command {
	var (
		project    string
		configPath string
		dbPath     string
		maxBuilds  int
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Print a project's pages ordered by erraticness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			project = strings.TrimSpace(project)
			if project == "" {
				return errors.New("--project is required")
			}
			cfg, err := loadConfig(configPath, dbPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("max") {
				maxBuilds = cfg.History.MaxBuilds
			}
			if maxBuilds < 0 {
				return errors.New("--max must be >= 0")
			}

			db, err := store.Open(cfg.Server.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			summary, err := db.GetProject(project)
			if err != nil {
				return err
			}
			builds, err := db.ListBuilds(project, maxBuilds)
			if err != nil {
				return err
			}
			h, err := history.Build(summary, builds)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(h.Response())
			}
			fmt.Fprint(out, render.Ranking(project, len(h.Builds), h.Ranking))
			return nil
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "project name")
	cmd.Flags().StringVar(&configPath, "config", "", "path to pagehist YAML config")
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database path (overrides config)")
	cmd.Flags().IntVar(&maxBuilds, "max", config.DefaultMaxBuilds, "rank only the newest N builds (0 = all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the history as JSON")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the pagehist version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pagehist %s\n", version.Current())
		},
	}
}
