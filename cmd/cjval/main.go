// Package main provides the cjval CLI: validates a CityJSON document or a
// CityJSONSeq stream against its version schema, its Extensions, and the
// structural invariants JSON Schema cannot express.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cityjson/cjval/cityjson"
	"github.com/cityjson/cjval/cjseq"
	"github.com/cityjson/cjval/internal/cliconfig"
	"github.com/cityjson/cjval/log"
	"github.com/cityjson/cjval/profile"
	"github.com/cityjson/cjval/report"
	"github.com/cityjson/cjval/version"
)

func main() {
	cfg := cliconfig.NewConfig()
	logCfg := log.NewConfig()
	profileCfg := profile.NewConfig()

	var exitCode int

	rootCmd := &cobra.Command{
		Use:           "cjval [flags] [file]",
		Short:         "Validate a CityJSON document or CityJSONSeq stream",
		Version:       version.Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cliconfig.Load(cfg, cmd.Flags()); err != nil {
				return err
			}

			code, err := run(cfg, logCfg, profileCfg, args)
			exitCode = code

			return err
		},
	}

	cfg.RegisterFlags(rootCmd.Flags())
	logCfg.RegisterFlags(rootCmd.Flags())
	profileCfg.RegisterFlags(rootCmd.Flags())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	os.Exit(exitCode)
}

// run wires the logger and profiler for one invocation and reports its
// outcome as an exit code rather than calling os.Exit directly, so the
// profiler's deferred Stop always fires before the process ends.
func run(cfg *cliconfig.Config, logCfg *log.Config, profileCfg *profile.Config, args []string) (exitCode int, err error) {
	handler, err := logCfg.NewHandler(os.Stderr)
	if err != nil {
		return 1, fmt.Errorf("configuring logger: %w", err)
	}

	logger := slog.New(handler)

	profiler := profileCfg.NewProfiler()
	if err := profiler.Start(); err != nil {
		return 1, fmt.Errorf("starting profiler: %w", err)
	}

	defer func() {
		if stopErr := profiler.Stop(); stopErr != nil {
			fmt.Fprintf(os.Stderr, "stopping profiler: %v\n", stopErr)
		}
	}()

	if len(args) == 1 {
		return runSingleDocument(cfg, args[0])
	}

	return runSequence(cfg, logger)
}

func runSingleDocument(cfg *cliconfig.Config, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 1, fmt.Errorf("reading %s: %w", path, err)
	}

	v, err := cityjson.FromBytes(data)
	if err != nil {
		return 1, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := loadExtensions(v, cfg.Extensions); err != nil {
		return 1, err
	}

	rpt := v.Validate()

	fmt.Fprint(os.Stdout, renderColored(rpt, cfg.Verbose, cfg.NoColor))

	if !rpt.Valid() {
		return 1, nil
	}

	return 0, nil
}

func runSequence(cfg *cliconfig.Config, logger *slog.Logger) (int, error) {
	extensions, err := readFiles(cfg.Extensions)
	if err != nil {
		return 1, err
	}

	sv := cjseq.New(logger, extensions...)

	summary, err := sv.RunStream(os.Stdin)
	if err != nil {
		return 1, fmt.Errorf("validating CityJSONSeq stream: %w", err)
	}

	for _, lr := range sv.LineReports() {
		fmt.Fprintf(os.Stdout, "--- line %d ---\n", lr.Line)
		fmt.Fprint(os.Stdout, renderColored(lr.Report, cfg.Verbose, cfg.NoColor))
	}

	fmt.Fprintf(os.Stdout, "\n%d lines: %d with errors, %d with warnings\n",
		summary.TotalLines, len(summary.ErrorLines), len(summary.WarningLines))

	if len(summary.ErrorLines) > 0 {
		return 1, nil
	}

	return 0, nil
}

func loadExtensions(v *cityjson.Validator, paths []string) error {
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("reading extension %s: %w", p, err)
		}

		if err := v.AddExtensionFromBytes(data); err != nil {
			return fmt.Errorf("loading extension %s: %w", p, err)
		}
	}

	return nil
}

// readFiles reads every path's contents, in order, for the "-e" flag's
// CityJSONSeq path: each file's bytes are registered on the stream's
// header Validator once it is parsed (see [cjseq.New]).
func readFiles(paths []string) ([][]byte, error) {
	out := make([][]byte, 0, len(paths))

	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading extension %s: %w", p, err)
		}

		out = append(out, data)
	}

	return out, nil
}

// renderColored colors a Report's "ok"/"ERROR" lines when color is
// requested and stdout is a terminal; fatih/color already no-ops when
// output isn't a TTY or NO_COLOR is set, so --no-color only needs to
// force that behavior explicitly.
func renderColored(rpt *report.Report, verbose, noColor bool) string {
	text := rpt.Render(verbose)
	if noColor {
		color.NoColor = true
	}

	lines := strings.Split(text, "\n")
	for i, l := range lines {
		switch {
		case strings.Contains(l, "ERROR"):
			lines[i] = color.RedString(l)
		case strings.HasSuffix(strings.TrimRight(l, " "), "ok"):
			lines[i] = color.GreenString(l)
		}
	}

	return strings.Join(lines, "\n")
}
