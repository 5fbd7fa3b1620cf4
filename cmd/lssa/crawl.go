package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nao1215/lssa/internal/config"
	"github.com/nao1215/lssa/internal/crawler"
	seclog "github.com/nao1215/lssa/internal/log"
	"github.com/nao1215/lssa/internal/model"
	"github.com/nao1215/lssa/internal/progress"
	"github.com/nao1215/lssa/internal/report"
	"github.com/nao1215/lssa/internal/session"
	"github.com/nao1215/lssa/internal/transport"
)

// errReceivedInterrupt is the cancellation cause set by the signal handler.
var errReceivedInterrupt = errors.New("received interrupt")

// addCrawlFlags registers the crawl flags on cmd.
func addCrawlFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("colour", config.ColourAuto, "Colour output: auto, on or off")
	f.IntP("count", "c", config.DefaultCount,
		fmt.Sprintf("Number of similar artists per artist (1-%d)", config.MaxCount))
	f.StringArrayP("header", "H", nil, "Extra request header as key:value (repeatable)")
	f.BoolP("ignore-case", "i", false, "Title-case artist names before searching")
	f.IntP("pages", "p", config.DefaultPageTotal, "Maximum number of result pages per artist")
	f.DurationP("timeout", "t", config.DefaultTimeout, "Timeout for each network step")
	f.String("proxy", "", "SOCKS5 proxy address (e.g., 127.0.0.1:9050)")
	f.BoolP("json", "j", false, "Output JSON report (mutually exclusive with --markdown)")
	f.BoolP("markdown", "m", false, "Output Markdown report (mutually exclusive with --json)")
	f.String("config", "", "Configuration file path (default: .lssa in current or home directory)")
}

// runRootCmd executes a crawl for the artists in args.
func runRootCmd(cmd *cobra.Command, args []string) error {
	cfg, ignored, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	logger := seclog.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
	for _, h := range ignored {
		logger.Warn("ignoring header without a colon", "header", h)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancelCause(cmd.Context())
	defer cancel(nil)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Debug("received signal", "signal", sig.String())
			cancel(errReceivedInterrupt)
		case <-ctx.Done():
		}
	}()

	return runCrawl(ctx, cfg, logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// buildConfig merges defaults, the configuration file and the flags that
// were set explicitly, in that order. It also returns the -H entries that
// could not be parsed.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, []string, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, nil, err
	}
	if path := config.FindConfigFile(cfg.ConfigFilePath); path != "" {
		file, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		file.Apply(cfg)
	} else if cfg.ConfigFilePath != "" {
		return nil, nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if flags.Changed("colour") {
		if cfg.Colour, err = flags.GetString("colour"); err != nil {
			return nil, nil, err
		}
	}
	if flags.Changed("count") {
		if cfg.Count, err = flags.GetInt("count"); err != nil {
			return nil, nil, err
		}
	}
	if flags.Changed("ignore-case") {
		if cfg.IgnoreCase, err = flags.GetBool("ignore-case"); err != nil {
			return nil, nil, err
		}
	}
	if flags.Changed("pages") {
		if cfg.PageTotal, err = flags.GetInt("pages"); err != nil {
			return nil, nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, nil, err
		}
	}
	if flags.Changed("proxy") {
		if cfg.Proxy, err = flags.GetString("proxy"); err != nil {
			return nil, nil, err
		}
	}

	headers, err := flags.GetStringArray("header")
	if err != nil {
		return nil, nil, err
	}
	ignored := cfg.SetHeaders(headers)

	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, nil, err
	}
	cfg.Verbose = verboseFlag(cmd)
	cfg.Queries = args

	return cfg, ignored, nil
}

// verboseFlag reads --verbose from the command or its root.
func verboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// runCrawl wires the session, reporter and writer for cfg and runs the
// crawl. Results of finished queries are flushed even when a later query
// fails, but not after an interrupt.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout, stderr io.Writer) error {
	logger = logger.With("run", uuid.NewString())

	queries := make([]model.Query, 0, len(cfg.Queries))
	for _, q := range cfg.Queries {
		queries = append(queries, model.NewQuery(q, cfg.IgnoreCase))
	}

	tOpts, err := proxyOptions(ctx, cfg, logger)
	if err != nil {
		return err
	}

	loop := session.NewLoop()
	client := session.NewClient(loop, cfg.Address, cfg.Port, cfg.Secure,
		session.WithLogger(logger),
		session.WithTimeout(cfg.Timeout),
		session.WithMaxBodySize(cfg.MaxBodySize),
		session.WithTransportOptions(tOpts...),
	)

	var cr *crawler.Crawler
	stderrTTY := isTerminal(stderr)
	reporter := progress.New(loop, stderr,
		progress.WithEnabled(stderrTTY),
		progress.WithColour(cfg.UseColour(stderrTTY)),
		progress.WithStatus(client.StatusString),
		progress.WithCounter(func() (int, int) { return cr.Progress() }),
	)
	w := newWriter(cfg, stdout, reporter)

	cr = crawler.New(client, loop, queries,
		crawler.WithLogger(logger),
		crawler.WithOutput(w),
		crawler.WithProgress(reporter),
		crawler.WithTarget(cfg.Count),
		crawler.WithPageTotal(cfg.PageTotal),
		crawler.WithRedirectTotal(cfg.RedirectTotal),
		crawler.WithInterval(cfg.Interval),
		crawler.WithWaitTotal(cfg.WaitTotal),
		crawler.WithHeaders(cfg.Headers),
	)

	logger.Info("starting crawl",
		"queries", len(queries),
		"address", cfg.Address,
		"count", cfg.Count,
		"pages", cfg.PageTotal,
	)

	err = cr.Run(ctx)
	reporter.Clear()
	if errors.Is(err, crawler.ErrInterrupted) {
		return err
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

// proxyOptions checks the configured proxy and returns the transport
// options that route connections through it.
func proxyOptions(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]transport.Option, error) {
	if cfg.Proxy == "" {
		return nil, nil
	}
	p, err := transport.NewProxy(cfg.Proxy)
	if err != nil {
		return nil, fmt.Errorf("failed to create proxy dialer: %w", err)
	}
	if status := p.Check(ctx); status != transport.ProxyStatusOK {
		return nil, fmt.Errorf("proxy check failed: %w (make sure a SOCKS5 proxy is running at %s)",
			status.Error(), cfg.Proxy)
	}
	logger.Info("proxy connection verified", "address", p.Address())
	return []transport.Option{transport.WithProxy(p)}, nil
}

// newWriter returns the report writer selected by cfg.
func newWriter(cfg *config.Config, stdout io.Writer, clr report.Clearer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(stdout, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(stdout)
	default:
		return report.NewSimpleWriter(stdout,
			report.WithColour(cfg.UseColour(isTerminal(stdout))),
			report.WithClearer(clr),
		)
	}
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}
