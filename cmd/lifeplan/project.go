package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/lifeplan/household-calculator/internal/calculation"
	"github.com/lifeplan/household-calculator/internal/config"
	"github.com/lifeplan/household-calculator/internal/output"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project a household configuration into its lifetime ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		format, _ := cmd.Flags().GetString("format")
		outFile, _ := cmd.Flags().GetString("output")
		watch, _ := cmd.Flags().GetBool("watch")
		verbose, _ := cmd.Flags().GetBool("verbose")

		formatter := output.GetFormatterByName(format)
		if formatter == nil {
			return fmt.Errorf("unknown format %q (available: %v)", format, output.FormatterNames())
		}

		engine := calculation.NewEngine()
		engine.SetLogger(stderrLogger{verbose: verbose})

		run := func() error {
			return runProjection(cmd.Context(), engine, input, formatter, outFile)
		}
		if err := run(); err != nil {
			if !watch {
				return err
			}
			engine.Logger.Errorf("projection failed: %v", err)
		}
		if !watch {
			return nil
		}
		return watchAndRerun(engine, input, run)
	},
}

func runProjection(ctx context.Context, engine *calculation.Engine, input string, formatter output.Formatter, outFile string) error {
	cfg, err := config.NewInputParser().LoadFromFile(input)
	if err != nil {
		return err
	}
	result, err := engine.Project(ctx, cfg)
	if err != nil {
		return err
	}
	data, err := formatter.Format(result)
	if err != nil {
		return err
	}
	if outFile == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(outFile, data, 0644)
}

// watchAndRerun re-projects whenever the configuration file changes. The
// engine is cheap enough to run on every save; events are debounced only to
// coalesce editor write bursts.
func watchAndRerun(engine *calculation.Engine, input string, run func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors replace files on save, which drops the
	// watch on the file itself.
	if err := watcher.Add(filepath.Dir(input)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", input, err)
	}
	engine.Logger.Infof("watching %s for changes", input)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var pending <-chan time.Time
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(input) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(200 * time.Millisecond)
		case <-pending:
			pending = nil
			if err := run(); err != nil {
				engine.Logger.Errorf("projection failed: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			engine.Logger.Warnf("watch error: %v", err)
		case <-sigCh:
			return nil
		}
	}
}

func init() {
	projectCmd.Flags().StringP("input", "i", "lifeplan.yaml", "configuration file (YAML or JSON)")
	projectCmd.Flags().StringP("format", "f", "console", "output format: console, csv, json")
	projectCmd.Flags().StringP("output", "o", "", "write output to file instead of stdout")
	projectCmd.Flags().BoolP("watch", "w", false, "re-project on configuration changes")
	projectCmd.Flags().BoolP("verbose", "v", false, "enable debug logging")
}
