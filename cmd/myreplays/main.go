// Command myreplays logs into the replay portal, downloads the replays found
// on a listing page, and can serve the download history locally.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"myreplays/internal/adapters/browser"
	"myreplays/internal/adapters/httpapi"
	"myreplays/internal/adapters/sqlite"
	"myreplays/internal/adapters/statefile"
	"myreplays/internal/adapters/staticfetch"
	"myreplays/internal/app"
	"myreplays/internal/buildinfo"
	"myreplays/internal/config"
	"myreplays/internal/domain"
	"myreplays/internal/ports"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("app", "myreplays").Logger()
	log.Logger = logger

	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: myreplays [login|download|serve|version]")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	def := config.Default()
	var err error
	switch args[0] {
	case "login":
		err = runLogin(ctx, logger, def, args[1:])
	case "download":
		err = runDownload(ctx, logger, def, args[1:])
	case "serve":
		err = runServe(ctx, logger, def, args[1:])
	case "version":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(buildinfo.Current())
	default:
		fmt.Fprintln(os.Stderr, "Unknown command:", args[0])
		os.Exit(2)
	}
	if err != nil {
		logger.Error().Err(err).Str("code", app.ErrorCode(err)).Msg("command failed")
		os.Exit(1)
	}
}

func runLogin(ctx context.Context, logger zerolog.Logger, def config.Config, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	baseURL := fs.String("base-url", def.BaseURL, "Base URL of the replay portal")
	statePath := fs.String("state", def.StatePath, "Path of the saved session file")
	headless := fs.Bool("headless", false, "Run the browser without a window (not recommended for a first login)")
	_ = fs.Parse(args)

	b, err := browser.New(ctx, browser.Options{Headless: *headless, SettleWait: def.SettleWait})
	if err != nil {
		return err
	}
	defer b.Close()

	sessions := app.NewSessionService(logger, statefile.New(*statePath))
	_, err = sessions.Login(ctx, b, *baseURL, func() error {
		fmt.Printf("Opened %s, log in manually, then press Enter here to save the session...\n", *baseURL)
		_, err := bufio.NewReader(os.Stdin).ReadString('\n')
		return err
	})
	if err != nil {
		return err
	}
	fmt.Println("Session saved to:", *statePath)
	return nil
}

func runDownload(ctx context.Context, logger zerolog.Logger, def config.Config, args []string) error {
	fs := flag.NewFlagSet("download", flag.ExitOnError)
	baseURL := fs.String("base-url", def.BaseURL, "Base URL of the replay portal")
	listURL := fs.String("list-url", "", "Listing page holding the replay links (default: -base-url)")
	selector := fs.String("link-selector", domain.DefaultLinkSelector, "CSS selector used to collect links")
	filter := fs.String("filter-regex", domain.DefaultLinkFilter, "Regex keeping only replay links")
	outputDir := fs.String("output-dir", def.OutputDir, "Directory to save files into")
	statePath := fs.String("state", def.StatePath, "Path of the saved session file")
	dbPath := fs.String("db", def.DBPath, "SQLite path for the download history ('' disables it)")
	navTimeout := fs.Duration("timeout", def.NavTimeout, "Navigation timeout")
	settle := fs.Duration("settle", def.SettleWait, "Extra wait after page load so SPA listings render")
	debugLinks := fs.Bool("debug-links", false, "List all candidate links and exit without downloading")
	static := fs.Bool("static", false, "Fetch the listing with plain HTTP instead of a browser")
	mediaOnly := fs.Bool("media-only", false, "Skip links that do not look like media/download URLs")
	_ = fs.Parse(args)

	if *listURL == "" {
		*listURL = *baseURL
	}

	sessions := app.NewSessionService(logger, statefile.New(*statePath))
	session, err := sessions.Load(ctx)
	if err != nil {
		return err
	}

	client, err := app.NewHTTPClient(session, *navTimeout)
	if err != nil {
		return err
	}

	var source ports.LinkSource
	if *static {
		source = staticfetch.New(client)
	} else {
		b, err := browser.New(ctx, browser.Options{Headless: true, SettleWait: *settle})
		if err != nil {
			return err
		}
		defer b.Close()
		if err := sessions.Restore(ctx, b, session); err != nil {
			return err
		}
		source = b
	}

	extractor := app.NewLinkExtractor(logger, source)
	listing := domain.Listing{URL: *listURL, Selector: *selector, Filter: *filter}

	navCtx, cancel := context.WithTimeout(ctx, *navTimeout)
	defer cancel()

	if *debugLinks {
		all, matched, err := extractor.Candidates(navCtx, listing)
		if err != nil {
			return err
		}
		fmt.Printf("Candidate URLs: %d\n", len(all))
		for i, u := range all {
			fmt.Printf("  %d. %s\n", i+1, u)
		}
		fmt.Printf("After filter %q: %d link(s)\n", *filter, len(matched))
		for i, u := range matched {
			fmt.Printf("  %d. %s\n", i+1, u)
		}
		return nil
	}

	links, err := extractor.Extract(navCtx, listing)
	if err != nil {
		return err
	}
	if len(links) == 0 {
		fmt.Println("No replay links found. Try -debug-links to tune -link-selector and -filter-regex.")
		return nil
	}

	var history ports.DownloadHistory
	if *dbPath != "" {
		db, err := sqlite.Open(ctx, *dbPath)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		history = sqlite.NewHistoryRepository(db.SQL)
	}

	dl := app.NewDownloader(logger, client, history, app.DownloaderOptions{MediaOnly: *mediaOnly})
	summary := dl.DownloadAll(ctx, links, *outputDir, *listURL)

	fmt.Printf("Done: %d ok, %d skipped, %d failed\n", summary.Succeeded, summary.Skipped, len(summary.Failures))
	for _, f := range summary.Failures {
		fmt.Printf("  FAILED %s -> %s\n", f.Item, f.Reason)
	}
	// Per-item failures do not fail the invocation: the batch completed.
	return nil
}

func runServe(ctx context.Context, logger zerolog.Logger, def config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", def.Addr, "Listen address")
	dbPath := fs.String("db", def.DBPath, "SQLite path of the download history")
	filesDir := fs.String("output-dir", def.OutputDir, "Directory of downloaded files to serve under /files/")
	_ = fs.Parse(args)

	db, err := sqlite.Open(ctx, *dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	srv := httpapi.NewServer(logger, sqlite.NewHistoryRepository(db.SQL), *filesDir)
	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", *addr).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
