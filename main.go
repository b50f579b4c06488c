// mtcollect collects machine translation outputs for the WMT general MT
// task from LLM translation systems, with a persistent request cache.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/minios-linux/mtcollect/cache"
	"github.com/minios-linux/mtcollect/collect"
	"github.com/minios-linux/mtcollect/config"
	"github.com/minios-linux/mtcollect/dataset"
	"github.com/minios-linux/mtcollect/i18n"
	"github.com/minios-linux/mtcollect/langmeta"
	"github.com/minios-linux/mtcollect/logging"
	"github.com/minios-linux/mtcollect/provider"
	"github.com/minios-linux/mtcollect/report"
	"github.com/minios-linux/mtcollect/settings"
	"github.com/minios-linux/mtcollect/translate"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	rootDir    string
	configPath string
)

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mtcollect",
		Short: "Collect WMT machine translation outputs from LLM systems",
		Long: `mtcollect collects machine translation outputs for the WMT general MT
task by calling a translation system for every document of the blindset.

Each document is tried document-level first, then wrapped in a code fence,
then with HTML line breaks, then paragraph by paragraph and finally line by
line. Every answer must keep the paragraph count of its source. Results are
cached per system, so an interrupted run resumes where it stopped.

Commands:
  collect     Translate the blindset and write <system>.jsonl
  split       Split the blindset into one file per language pair
  report      Show per-language failure rates of an answer file
  cache       Inspect the request cache of a system
  systems     List the configured translation systems
  auth        Manage stored API keys`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory (.mtcollect.yaml, .env)")
	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <root>/.mtcollect.yaml)")

	root.AddCommand(
		newCollectCmd(),
		newSplitCmd(),
		newReportCmd(),
		newCacheCmd(),
		newSystemsCmd(),
		newAuthCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")

	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// loadProject loads the config file named by --config, or the one in --root.
func loadProject() (*config.File, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load(rootDir)
}

// projectPath resolves p against --root unless it is absolute.
func projectPath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(rootDir, p)
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("mtcollect version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// collect
// ---------------------------------------------------------------------------

type collectArgs struct {
	system, input, outputDir string
	cacheDir, cacheBackend   string
	datasetID                string
	threshold                float64
	apiKey, baseURL, model   string
	proxy                    string
	maxTokens, maxRetries    int
	timeout                  time.Duration
	verbose                  bool

	// set when the flag was given explicitly
	thresholdSet, maxTokensSet, maxRetriesSet, timeoutSet bool
}

func newCollectCmd() *cobra.Command {
	var a collectArgs

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Translate the blindset with one system",
		Long: `Translate every document of the blindset with one system and write
<output-dir>/<system>.jsonl.

Target languages with more than --threshold failed documents are dropped
from the output. Ctrl-C stops after the current document; everything
finished so far is cached and reused by the next run.

Examples:
  mtcollect collect
  mtcollect collect --system GPT-OSS-20B --base-url http://gpu:8000/v1
  mtcollect collect --system Gemini-2.5-Flash --cache-backend dir`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			a.thresholdSet = flags.Changed("threshold")
			a.maxTokensSet = flags.Changed("max-tokens")
			a.maxRetriesSet = flags.Changed("max-retries")
			a.timeoutSet = flags.Changed("timeout")
			return runCollect(a)
		},
	}

	cmd.Flags().StringVar(&a.system, "system", "", "Translation system (default: default_system of the config)")
	cmd.Flags().StringVar(&a.input, "input", "", "Blindset JSONL file (default: dataset of the config)")
	cmd.Flags().StringVar(&a.outputDir, "output-dir", "", "Output directory (default: wmt_translations)")
	cmd.Flags().StringVar(&a.cacheDir, "cache-dir", "", "Cache root directory (default: cache)")
	cmd.Flags().StringVar(&a.cacheBackend, "cache-backend", "", "Cache backend: "+strings.Join(cache.Backends(), ", "))
	cmd.Flags().StringVar(&a.datasetID, "dataset-id", "", "dataset_id written into every answer")
	cmd.Flags().Float64Var(&a.threshold, "threshold", report.DefaultThreshold, "Drop target languages with a larger failed share")

	cmd.Flags().StringVar(&a.apiKey, "api-key", "", "API key (or MTCOLLECT_API_KEY env var)")
	cmd.Flags().StringVar(&a.baseURL, "base-url", "", "Override the API endpoint of the system")
	cmd.Flags().StringVar(&a.model, "model", "", "Override the model of the system")
	cmd.Flags().IntVar(&a.maxTokens, "max-tokens", 0, "Override the answer token limit")
	cmd.Flags().IntVar(&a.maxRetries, "max-retries", 0, "Override retries on rate limit (429) and server errors")
	cmd.Flags().DurationVar(&a.timeout, "timeout", 0, "Override the request timeout")
	cmd.Flags().StringVar(&a.proxy, "proxy", "", "HTTP/HTTPS proxy URL")
	cmd.Flags().BoolVar(&a.verbose, "verbose", false, "Log every fallback step")

	_ = cmd.RegisterFlagCompletionFunc("system", completeSystems)
	_ = cmd.RegisterFlagCompletionFunc("cache-backend", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return cache.Backends(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runCollect(a collectArgs) error {
	proj, err := loadProject()
	if err != nil {
		return err
	}
	env, err := config.LoadEnv(filepath.Join(rootDir, ".env"))
	if err != nil {
		return err
	}

	level := env.LogLevel
	if a.verbose {
		level = "debug"
	}
	logger, err := logging.New(os.Stderr, env.Environment, level)
	if err != nil {
		return err
	}

	system, err := proj.System(a.system)
	if err != nil {
		return err
	}
	applySystemOverrides(&system, a)

	apiKey := firstNonEmpty(a.apiKey, env.APIKey, settings.GetAPIKey(system.Name))
	registry, err := provider.NewRegistryFromConfigs(proj.DefaultSystem, []provider.Config{system.ProviderConfig(apiKey)})
	if err != nil {
		return err
	}
	prov, err := registry.Provider(system.Name)
	if err != nil {
		return err
	}

	input := projectPath(firstNonEmpty(a.input, proj.Dataset))
	if !fileExists(input) {
		return fmt.Errorf("dataset %s not found (download the blindset first)", input)
	}
	rows, err := dataset.ReadRows(input)
	if err != nil {
		return err
	}

	backend := firstNonEmpty(a.cacheBackend, proj.CacheBackend)
	cacheRoot := projectPath(firstNonEmpty(a.cacheDir, proj.CacheDir))
	store, err := cache.Open(backend, cacheRoot, system.Name)
	if err != nil {
		return err
	}
	defer store.Close()

	threshold := proj.Threshold()
	if a.thresholdSet {
		threshold = a.threshold
	}
	if threshold < 0 || threshold > 1 {
		return fmt.Errorf("--threshold must be between 0 and 1, got %g", threshold)
	}

	logInfo(i18n.T("System: %s (%s)"), system.Name, system.Model)
	logInfo(i18n.T("Dataset: %s (%d documents)"), input, len(rows))
	if stats, err := cache.Collect(store); err == nil {
		logInfo(i18n.T("Cache (%s): %s"), backend, stats.Summary())
	}

	// Setup signal handling for graceful cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logWarning("%s", i18n.T("Interrupted, finishing current document..."))
			cancel()
		case <-ctx.Done():
		}
	}()

	translator := translate.New(prov, translate.Options{Logger: &logger})
	collector := &collect.Collector{
		Translator: translator,
		Store:      store,
		Logger:     &logger,
		DatasetID:  firstNonEmpty(a.datasetID, proj.DatasetID),
		OnProgress: func(done, total int) {
			percent := 0
			if total > 0 {
				percent = done * 100 / total
			}
			fmt.Fprintf(os.Stderr, "\r  %s %d/%d", progressBar(percent, 30), done, total)
			if done == total {
				fmt.Fprintln(os.Stderr)
			}
		},
	}

	started := time.Now()
	answers, stats, err := collector.Collect(ctx, rows)
	if err != nil {
		fmt.Fprintln(os.Stderr)
		if errors.Is(err, context.Canceled) {
			logWarning(i18n.T("Collection interrupted after %d/%d documents, finished documents are cached"), len(answers)+stats.Skipped, stats.Total)
			return nil
		}
		return fmt.Errorf("collecting translations: %w", err)
	}

	logInfo(i18n.T("%d cached, %d translated, %d failed, %d skipped in %s"),
		stats.Cached, stats.Translated, stats.Failed, stats.Skipped, time.Since(started).Round(time.Second))

	rates := report.FailureRates(answers)
	kept, dropped := report.DropUnreliable(answers, threshold)
	for _, lang := range dropped {
		logWarning(i18n.T("Dropping %s: more than %.0f%% of its documents failed"), langCell(lang, 0), threshold*100)
	}

	output := filepath.Join(projectPath(firstNonEmpty(a.outputDir, proj.OutputDir)), system.Name+".jsonl")
	if err := dataset.WriteJSONL(output, kept); err != nil {
		return err
	}
	logSuccess(i18n.N("Wrote %d answer to %s", "Wrote %d answers to %s", len(kept)), len(kept), output)

	fmt.Printf("Number of untranslated answers in MT: %d\n", report.CountFailed(kept))

	fmt.Fprintln(os.Stderr)
	return report.WriteTable(os.Stderr, rates, threshold)
}

// applySystemOverrides applies command-line and stored endpoint overrides.
func applySystemOverrides(s *config.System, a collectArgs) {
	s.BaseURL = firstNonEmpty(a.baseURL, settings.GetBaseURL(s.Name), s.BaseURL)
	s.Model = firstNonEmpty(a.model, s.Model)
	s.Proxy = firstNonEmpty(a.proxy, s.Proxy)
	if a.maxTokensSet {
		s.MaxTokens = a.maxTokens
	}
	if a.maxRetriesSet {
		s.MaxRetries = a.maxRetries
	}
	if a.timeoutSet {
		s.Timeout = a.timeout
	}
}

func completeSystems(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	proj, err := loadProject()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names := make([]string, 0, len(proj.Systems))
	for _, s := range proj.Systems {
		names = append(names, fmt.Sprintf("%s\t%s %s", s.Name, s.Provider, s.Model))
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// ---------------------------------------------------------------------------
// split
// ---------------------------------------------------------------------------

func newSplitCmd() *cobra.Command {
	var input, outDir string

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split the blindset into one file per language pair",
		Long: `Write every record of the blindset to <out-dir>/<src>--<tgt>.jsonl,
keeping all fields of the original record.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := loadProject()
			if err != nil {
				return err
			}
			in := projectPath(firstNonEmpty(input, proj.Dataset))
			rows, err := dataset.ReadRows(in)
			if err != nil {
				return err
			}

			dir := projectPath(firstNonEmpty(outDir, proj.SplitDir))
			splits, err := dataset.WriteSplits(dir, rows)
			if err != nil {
				return err
			}
			for _, s := range splits {
				fmt.Printf("%s will contain %d examples.\n", s.File, len(s.Rows))
			}
			logSuccess(i18n.N("Wrote %d file to %s", "Wrote %d files to %s", len(splits)), len(splits), dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "Blindset JSONL file (default: dataset of the config)")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Output directory (default: pair_splits)")

	return cmd
}

// ---------------------------------------------------------------------------
// report
// ---------------------------------------------------------------------------

func newReportCmd() *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "report FILE",
		Short: "Show per-language failure rates of an answer file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			answers, err := dataset.ReadJSONL[collect.Answer](args[0])
			if err != nil {
				return err
			}
			if len(answers) == 0 {
				logInfo(i18n.T("No answers in %s"), args[0])
				return nil
			}

			fmt.Fprintf(os.Stderr, "%sFailure Report%s  %s\n", colorBlue, colorReset, args[0])
			fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
			if err := report.WriteTable(os.Stdout, report.FailureRates(answers), threshold); err != nil {
				return err
			}
			fmt.Printf("\nNumber of untranslated answers in MT: %d\n", report.CountFailed(answers))
			return nil
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", report.DefaultThreshold, "Mark languages with a larger failed share as dropped")

	return cmd
}

// ---------------------------------------------------------------------------
// cache
// ---------------------------------------------------------------------------

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the request cache",
		Long: `Inspect the request cache. Entries are never evicted: a cached
translation is reused forever, a cached failure is retried by the next run.`,
	}
	cmd.AddCommand(newCacheStatsCmd())
	return cmd
}

func newCacheStatsCmd() *cobra.Command {
	var system, cacheDir, backend string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the number of cached and failed entries of a system",
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := loadProject()
			if err != nil {
				return err
			}
			s, err := proj.System(system)
			if err != nil {
				return err
			}

			b := firstNonEmpty(backend, proj.CacheBackend)
			root := projectPath(firstNonEmpty(cacheDir, proj.CacheDir))
			store, err := cache.Open(b, root, s.Name)
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := cache.Collect(store)
			if err != nil {
				return err
			}
			fmt.Printf("%s (%s, %s): %s\n", s.Name, b, cache.Namespace(root, s.Name), stats.Summary())
			return nil
		},
	}

	cmd.Flags().StringVar(&system, "system", "", "Translation system (default: default_system of the config)")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Cache root directory (default: cache)")
	cmd.Flags().StringVar(&backend, "cache-backend", "", "Cache backend: "+strings.Join(cache.Backends(), ", "))
	_ = cmd.RegisterFlagCompletionFunc("system", completeSystems)

	return cmd
}

// ---------------------------------------------------------------------------
// systems
// ---------------------------------------------------------------------------

func newSystemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "systems",
		Short: "List the configured translation systems",
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := loadProject()
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "\n%sTranslation Systems%s\n", colorBlue, colorReset)
			fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
			for _, s := range proj.Systems {
				marker := " "
				if strings.EqualFold(s.Name, proj.DefaultSystem) {
					marker = "*"
				}
				fmt.Fprintf(os.Stderr, "%s %-20s %-7s %s\n", marker, s.Name, s.Provider, s.Model)
				if s.BaseURL != "" {
					fmt.Fprintf(os.Stderr, "  %20s endpoint: %s\n", "", s.BaseURL)
				}
				if len(s.Languages) > 0 {
					cells := make([]string, len(s.Languages))
					for i, lang := range s.Languages {
						cells[i] = langCell(lang, 0)
					}
					fmt.Fprintf(os.Stderr, "  %20s languages: %s\n", "", strings.Join(cells, ", "))
				}
			}
			fmt.Fprintln(os.Stderr)
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// auth
// ---------------------------------------------------------------------------

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage stored API keys",
		Long: `Manage the API keys of translation systems, stored in
$XDG_DATA_HOME/mtcollect/auth.json with 0600 permissions.

Lookup order for API keys:
  1. --api-key flag
  2. MTCOLLECT_API_KEY environment variable (also read from .env)
  3. Stored key of the system
  4. api_key_env / api_key of the system in .mtcollect.yaml

Examples:
  mtcollect auth set --system Gemini-2.5-Flash     Prompt for a key
  mtcollect auth set --system GPT-OSS-20B --base-url http://gpu:8000/v1
  mtcollect auth remove --system Gemini-2.5-Flash  Remove one key
  mtcollect auth remove                            Remove all keys
  mtcollect auth list                              Show stored keys`,
	}

	cmd.AddCommand(
		newAuthSetCmd(),
		newAuthRemoveCmd(),
		newAuthListCmd(),
	)

	return cmd
}

func newAuthSetCmd() *cobra.Command {
	var system, key, baseURL string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store an API key for a system",
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := loadProject()
			if err != nil {
				return err
			}
			s, err := proj.System(system)
			if err != nil {
				return err
			}

			if key == "" {
				existing := settings.GetAPIKey(s.Name)
				if existing != "" {
					fmt.Fprintf(os.Stderr, "  Current key: %s%s%s\n", colorYellow, settings.MaskKey(existing), colorReset)
					fmt.Fprintf(os.Stderr, "  Enter new key to replace, or press Enter to keep: ")
				} else {
					fmt.Fprintf(os.Stderr, "  Enter API key for %s: ", s.Name)
				}

				scanner := bufio.NewScanner(os.Stdin)
				if !scanner.Scan() {
					return errors.New("no input received")
				}
				key = strings.TrimSpace(scanner.Text())
				if key == "" {
					if existing == "" {
						return errors.New("no API key provided")
					}
					key = existing
				}
			}

			if err := settings.SetAPIKey(s.Name, key, baseURL); err != nil {
				return fmt.Errorf("saving API key: %w", err)
			}
			logSuccess(i18n.T("%s API key saved"), s.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&system, "system", "", "Translation system (default: default_system of the config)")
	cmd.Flags().StringVar(&key, "key", "", "API key (prompted when omitted)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Endpoint override stored with the key")
	_ = cmd.RegisterFlagCompletionFunc("system", completeSystems)

	return cmd
}

func newAuthRemoveCmd() *cobra.Command {
	var system string

	cmd := &cobra.Command{
		Use:     "remove",
		Aliases: []string{"rm", "logout"},
		Short:   "Remove stored API keys",
		Long:    `Remove the key of one system, or of all systems when --system is not given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if system == "" {
				if err := settings.RemoveAll(); err != nil {
					return err
				}
				logSuccess("%s", i18n.T("All stored API keys removed"))
				return nil
			}
			if err := settings.Remove(system); err != nil {
				return fmt.Errorf("removing %s key: %w", system, err)
			}
			logSuccess(i18n.T("%s API key removed"), system)
			return nil
		},
	}

	cmd.Flags().StringVar(&system, "system", "", "System to remove (default: all)")
	_ = cmd.RegisterFlagCompletionFunc("system", completeSystems)

	return cmd
}

func newAuthListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show stored API keys",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stderr, "\n%sStored API Keys%s  %s\n", colorBlue, colorReset, settings.FilePath())
			fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

			store := settings.Load()
			if len(store) == 0 {
				fmt.Fprintf(os.Stderr, "  %snone%s\n", colorRed, colorReset)
			}
			for _, id := range store.IDs() {
				entry := store[id]
				status := fmt.Sprintf("%sconfigured%s (key: %s)", colorGreen, colorReset, settings.MaskKey(entry.Key))
				if entry.BaseURL != "" {
					status += fmt.Sprintf("\n  %20s endpoint: %s", "", entry.BaseURL)
				}
				fmt.Fprintf(os.Stderr, "  %-20s %s\n", id, status)
			}

			fmt.Fprintf(os.Stderr, "\n  %sEnvironment Variables%s\n", colorYellow, colorReset)
			if envKey := os.Getenv(config.EnvPrefix + "_API_KEY"); envKey != "" {
				fmt.Fprintf(os.Stderr, "  MTCOLLECT_API_KEY: %s%s%s (overrides stored keys)\n", colorGreen, settings.MaskKey(envKey), colorReset)
			} else {
				fmt.Fprintf(os.Stderr, "  MTCOLLECT_API_KEY: %snot set%s\n", colorRed, colorReset)
			}
			fmt.Fprintln(os.Stderr)
		},
	}
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

// progressBar renders a colored bar followed by the percentage.
func progressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100

	color := colorGreen
	if percent < 50 {
		color = colorRed
	} else if percent < 100 {
		color = colorYellow
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return color + bar + colorReset + fmt.Sprintf(" %3d%%", percent)
}

// langFlag returns the emoji flag of a language code, or "".
func langFlag(lang string) string {
	return langmeta.Resolve(lang).Flag
}

// langColumnWidth returns the width of the widest language code.
func langColumnWidth(langs []string) int {
	width := 0
	for _, lang := range langs {
		if len(lang) > width {
			width = len(lang)
		}
	}
	return width
}

// langCell renders "<flag> <code>" padded to width.
func langCell(lang string, width int) string {
	cell := fmt.Sprintf("%-*s", width, lang)
	if flag := langFlag(lang); flag != "" {
		return flag + " " + cell
	}
	return cell
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
