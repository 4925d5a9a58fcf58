package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/fsnotify.v1"

	"github.com/AreebJan/CoDeclare/pkg/codeclare"
	"github.com/AreebJan/CoDeclare/pkg/config"
	"github.com/AreebJan/CoDeclare/pkg/declare"
	"github.com/AreebJan/CoDeclare/pkg/generator"
	"github.com/AreebJan/CoDeclare/pkg/ltlf"
	"github.com/AreebJan/CoDeclare/pkg/synth"
	"github.com/AreebJan/CoDeclare/pkg/template"
)

var version = "0.1.0"

// app carries state shared by subcommands once the root command has loaded
// the configuration.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	parser *ltlf.Adapter
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "codeclare",
		Short: "Translate coDECLARE constraint models into LTLf",
		Long: `codeclare turns coDECLARE models (environment and system activities with
assumption and guarantee constraints) into LTLf formulas for a downstream
synthesis tool.

Each constraint names a template and its activities. Templates are either
defined by codeclare itself or filled from the template catalog.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Config file (default: codeclare.yaml in the current or a parent directory)")
	rootCmd.PersistentFlags().String("log-level", "", "Override log.level (debug, info, warn, error)")

	rootCmd.AddCommand(generateCmd(a))
	rootCmd.AddCommand(templatesCmd(a))
	rootCmd.AddCommand(renderCmd(a))
	rootCmd.AddCommand(parseCmd(a))
	rootCmd.AddCommand(validateCmd(a))
	rootCmd.AddCommand(demoCmd(a))
	rootCmd.AddCommand(synthCmd(a))
	rootCmd.AddCommand(configCmd(a))

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	logLevel, _ := cmd.Flags().GetString("log-level")

	bootstrap := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
	cfg, err := config.NewLoader(bootstrap).Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logger, err := cfg.Log.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.parser = ltlf.NewAdapter(logger, ltlf.ProvidersByName(cfg.Parser.Providers)...)
	ltlf.SetDefault(a.parser)
	return nil
}

func (a *app) loadLibrary() (*declare.Library, error) {
	var (
		library *declare.Library
		err     error
	)
	if a.cfg.Catalog.Dir != "" {
		library, err = declare.NewWithDirectory(a.logger, a.cfg.Catalog.Dir)
	} else {
		library, err = declare.NewDefault(a.logger)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load template catalog: %w", err)
	}
	return library, nil
}

// newTranslator snapshots the library's current template names.
func newTranslator(library *declare.Library) *template.Translator {
	return template.NewTranslator(template.NewRegistry(library), library)
}

func generateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate LTLf formulas for a model",
		Long: `Generate LTLf formulas for every assumption and guarantee of a model.

Constraints with unknown templates or bad arguments are reported and left out;
the rest are translated in order.

Example:
  codeclare generate --in input/order_demo.json
  codeclare generate --in model.yaml --format json --output report.json
  codeclare generate --in model.json --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inPath, _ := cmd.Flags().GetString("in")
			format, _ := cmd.Flags().GetString("format")
			outputPath, _ := cmd.Flags().GetString("output")
			watch, _ := cmd.Flags().GetBool("watch")
			metricsFile, _ := cmd.Flags().GetString("metrics-file")

			if inPath == "" {
				return fmt.Errorf("--in flag is required")
			}
			if format == "" {
				format = a.cfg.Output.Format
			}
			if metricsFile == "" {
				metricsFile = a.cfg.Metrics.Textfile
			}

			library, err := a.loadLibrary()
			if err != nil {
				return err
			}
			run := func() error {
				return a.generateOnce(cmd.OutOrStdout(), library, inPath, format, outputPath, metricsFile)
			}
			if !watch && !a.cfg.Catalog.Watch {
				return run()
			}
			return a.watchAndGenerate(cmd.Context(), library, inPath, run)
		},
	}

	cmd.Flags().String("in", "", "Model file (.json, .yaml, or .yml)")
	cmd.Flags().String("format", "", "Output format: text, json, or yaml (default from config)")
	cmd.Flags().String("output", "", "Write the report to a file instead of stdout")
	cmd.Flags().Bool("watch", false, "Regenerate when the model or the catalog directory changes")
	cmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this textfile after each run")

	return cmd
}

func (a *app) generateOnce(out io.Writer, library *declare.Library, inPath, format, outputPath, metricsFile string) error {
	model, err := codeclare.LoadFile(inPath)
	if err != nil {
		return err
	}

	var metrics *generator.Metrics
	if metricsFile != "" {
		metrics = generator.NewMetrics()
	}
	gen := generator.New(newTranslator(library), a.parser,
		generator.WithLogger(a.logger),
		generator.WithMetrics(metrics))

	report, err := gen.GenerateModel(model)
	if err != nil {
		return err
	}
	data, err := report.Format(format)
	if err != nil {
		return err
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		a.logger.Info("Report written", slog.String("path", outputPath), slog.String("run_id", report.RunID))
	} else if _, err := out.Write(data); err != nil {
		return err
	}

	if metrics != nil {
		if err := metrics.WriteTextfile(metricsFile); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}

// watchAndGenerate runs once, then again whenever the model file or a catalog
// file changes, until ctx is done. Catalog changes are applied by the
// library's own watcher before the rerun.
func (a *app) watchAndGenerate(ctx context.Context, library *declare.Library, inPath string, run func() error) error {
	if err := run(); err != nil {
		a.logger.Error("Generation failed", slog.String("error", err.Error()))
	}

	changes := make(chan string, 1)
	notify := func(path string) {
		select {
		case changes <- path:
		default:
		}
	}

	if a.cfg.Catalog.Dir != "" {
		library.SetOnChange(func(event, path string) { notify(path) })
		if err := library.Watch(); err != nil {
			return err
		}
		defer library.StopWatch()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	modelPath, err := filepath.Abs(inPath)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(modelPath)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(modelPath), err)
	}

	a.logger.Info("Watching for changes",
		slog.String("model", modelPath),
		slog.String("catalog", a.cfg.Catalog.Dir))
	for {
		select {
		case <-ctx.Done():
			return nil

		case path := <-changes:
			a.logger.Info("Change detected", slog.String("path", path))
			if err := run(); err != nil {
				a.logger.Error("Generation failed", slog.String("error", err.Error()))
			}

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if name, _ := filepath.Abs(event.Name); name == modelPath {
				notify(name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("Watcher error", slog.String("error", err.Error()))
		}
	}
}

func templatesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List supported templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, _ := cmd.Flags().GetString("kind")

			library, err := a.loadLibrary()
			if err != nil {
				return err
			}
			registry := newTranslator(library).Registry()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tKIND\tARITY\tDESCRIPTION")
			if kind == "" || kind == "manual" {
				for _, name := range registry.ManualNames() {
					m, _ := template.ParseManual(name)
					fmt.Fprintf(w, "%s\tmanual\t%d\t%s\n", name, m.Arity(), manualDescriptions[m])
				}
			}
			if kind == "" || kind == "delegated" {
				for _, name := range registry.DelegatedNames() {
					t, _ := library.Get(name)
					fmt.Fprintf(w, "%s\tdelegated\t%d\t%s\n", name, t.Arity, t.Description)
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().String("kind", "", "Only list manual or delegated templates")
	return cmd
}

var manualDescriptions = map[template.ManualTemplate]string{
	template.Absence2:       "A occurs at most once.",
	template.NegSuccession:  "After A, B never occurs.",
	template.NotCoexistence: "A and B do not both occur.",
	template.Succession:     "A is eventually followed by B, and B does not occur before A.",
	template.Existence:      "A occurs at least once.",
}

func renderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "render <template> [activity...]",
		Short: "Render one constraint as an LTLf formula",
		Long: `Render one constraint as an LTLf formula.

Example:
  codeclare render precedence regaddr ship
  codeclare render response reqc "[cancel, refund]"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			library, err := a.loadLibrary()
			if err != nil {
				return err
			}
			_, formula, err := newTranslator(library).Translate(template.Definition{Template: args[0], Activities: args[1:]})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formula)
			return nil
		},
	}
}

func parseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <formula>",
		Short: "Parse an LTLf formula and print its canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dialect, _ := cmd.Flags().GetString("dialect")

			var (
				formula ltlf.Formula
				err     error
			)
			switch dialect {
			case "":
				formula, err = a.parser.Parse(args[0])
			case "ltlf":
				formula, err = ltlf.ParseDialect(args[0], ltlf.DialectLTLf)
			case "ltl":
				formula, err = ltlf.ParseDialect(args[0], ltlf.DialectLTL)
			default:
				return fmt.Errorf("unknown dialect %q (want ltlf or ltl)", dialect)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formula.String())
			if ltlf.IsOpaque(formula) {
				fmt.Fprintln(out, "(no parser available; formula passed through unparsed)")
				return nil
			}
			fmt.Fprintf(out, "atoms: %s\n", strings.Join(ltlf.Atoms(formula), ", "))
			return nil
		},
	}

	cmd.Flags().String("dialect", "", "Parse with a specific grammar (ltlf or ltl) instead of the configured providers")
	return cmd
}

func validateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a model file",
		Long: `Check a model file against the model schema, the known constraint names,
and the templates the engine can translate.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inPath, _ := cmd.Flags().GetString("in")
			if inPath == "" {
				return fmt.Errorf("--in flag is required")
			}

			model, err := codeclare.LoadFile(inPath)
			if err != nil {
				return err
			}
			var problems []error
			if err := model.Validate(); err != nil {
				problems = append(problems, err)
			}

			library, err := a.loadLibrary()
			if err != nil {
				return err
			}
			registry := newTranslator(library).Registry()
			for _, def := range append(append([]template.Definition{}, model.Assumptions...), model.Guarantees...) {
				if registry.Classify(def.Template) == template.KindUnsupported {
					problems = append(problems, fmt.Errorf("template %q cannot be translated", def.Template))
				}
			}

			if len(problems) > 0 {
				return fmt.Errorf("%s is invalid:\n%w", inPath, errors.Join(problems...))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid: %d environment, %d system activities, %d assumptions, %d guarantees\n",
				inPath, len(model.Environment), len(model.System), len(model.Assumptions), len(model.Guarantees))
			return nil
		},
	}

	cmd.Flags().String("in", "", "Model file (.json, .yaml, or .yml)")
	return cmd
}

func demoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Write the order-handling example model",
		Long: `Write the order-handling example model and optionally hand it to the
synthesis tool.

Example:
  codeclare demo
  codeclare demo --out input/order_demo.yaml --synth`,
		RunE: func(cmd *cobra.Command, args []string) error {
			outPath, _ := cmd.Flags().GetString("out")
			runSynth, _ := cmd.Flags().GetBool("synth")

			model := codeclare.OrderDemo()
			if err := model.SaveFile(outPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Model saved to %s\n", outPath)

			if !runSynth {
				return nil
			}
			return a.runSynthesis(cmd, outPath)
		},
	}

	cmd.Flags().String("out", filepath.Join("input", "order_demo.json"), "Where to save the model")
	cmd.Flags().Bool("synth", false, "Run the synthesis command on the saved model")
	return cmd
}

func synthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Run the synthesis command on a model",
		Long: `Run the configured synthesis command (synthesis.command) on a model file.
The argument "{model}" in the command is replaced by the model path.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inPath, _ := cmd.Flags().GetString("in")
			if inPath == "" {
				return fmt.Errorf("--in flag is required")
			}
			if _, err := codeclare.LoadFile(inPath); err != nil {
				return err
			}
			return a.runSynthesis(cmd, inPath)
		},
	}

	cmd.Flags().String("in", "", "Model file (.json, .yaml, or .yml)")
	return cmd
}

func (a *app) runSynthesis(cmd *cobra.Command, modelPath string) error {
	runner := synth.NewRunner(a.cfg.Synthesis.Command, a.cfg.Synthesis.Timeout, a.logger)
	runner.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	_, err := runner.Run(cmd.Context(), modelPath)
	return err
}

func configCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}
	cmd.AddCommand(configInitCmd(a))
	return cmd
}

func configInitCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default codeclare.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("path")
			force, _ := cmd.Flags().GetBool("force")

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.DefaultConfig().SaveToFile(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().String("path", config.ProjectConfigFile, "Where to write the config file")
	cmd.Flags().Bool("force", false, "Overwrite an existing file")
	return cmd
}
