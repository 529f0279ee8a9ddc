package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/fintrack/internal/config"
	"github.com/naveenspark/fintrack/internal/keystore"
	"github.com/naveenspark/fintrack/internal/log"
	"github.com/naveenspark/fintrack/internal/session"
	"github.com/naveenspark/fintrack/internal/tui"
	"github.com/naveenspark/fintrack/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

// runTUI runs the interactive program. Tests replace it.
var runTUI = func(app tui.App) error {
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// env is everything a command needs, wired from the configuration.
type env struct {
	cfg     *config.Config
	logger  *log.Logger
	store   keystore.Store
	session *session.Store
	client  *client.Client
	closers []io.Closer
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i].Close() //nolint:errcheck
	}
}

// splitFlags separates the global flags from the command words.
func splitFlags(args []string) (ephemeral bool, rest []string) {
	for _, a := range args {
		switch a {
		case "--ephemeral", "-ephemeral":
			ephemeral = true
		default:
			rest = append(rest, a)
		}
	}
	return ephemeral, rest
}

func run(args []string, out io.Writer) error {
	ephemeral, args := splitFlags(args)

	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}
	switch cmd {
	case "--version", "version", "-v":
		fmt.Fprintln(out, "fintrack "+version)
		return nil
	case "help", "--help", "-h":
		printHelp(out)
		return nil
	case "", "login", "logout", "whoami":
	default:
		return fmt.Errorf("unknown command %q (see fintrack help)", cmd)
	}

	ctx := context.Background()
	e, err := setup(ctx, ephemeral)
	if err != nil {
		return err
	}
	defer e.Close()

	switch cmd {
	case "logout":
		return runLogout(ctx, e, out)
	case "whoami":
		return runWhoami(ctx, e, out)
	case "login":
		return runLogin(ctx, e, out)
	}
	return runApp(ctx, e)
}

// setup loads the configuration and wires logging, the session store and
// the API client.
func setup(ctx context.Context, ephemeral bool) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if ephemeral {
		cfg.StoreBackend = config.BackendMemory
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &env{cfg: cfg}
	level, _ := log.ParseLevel(cfg.LogLevel) //nolint:errcheck // checked by Validate
	logger, closer, err := log.NewFile(cfg.LogFile, level)
	if err != nil {
		// The TUI owns the terminal, so logging is dropped rather than sent to stderr.
		logger = log.Discard()
	} else {
		e.closers = append(e.closers, closer)
	}
	log.SetDefault(logger)
	e.logger = logger

	store, err := keystore.Open(ctx, keystore.Options{
		Backend:       cfg.StoreBackend,
		SessionFile:   cfg.SessionFile(),
		SQLitePath:    cfg.SQLitePath,
		Scope:         cfg.Scope,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		RedisPrefix:   cfg.RedisPrefix,
		Logger:        logger,
	})
	if err != nil {
		e.Close()
		return nil, err
	}
	e.store = keystore.WithEnvOverride(store)
	e.closers = append(e.closers, e.store)

	e.session = session.New(e.store, session.WithLogger(logger))

	invOpts := []client.InvokerOption{
		client.WithInvokerHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		client.WithInvokerLogger(logger.WithComponent(log.ComponentClient).Logger),
	}
	if cfg.Dedup {
		invOpts = append(invOpts, client.WithDedup())
	}
	sess := e.session
	e.client = client.New(cfg.APIURL, sess,
		client.WithInvoker(client.NewInvoker(invOpts...)),
		client.WithAuthRejectedHandler(func(err error) { sess.HandleAuthRejection(err) }),
	)
	sess.SetProfileFetcher(e.client)

	logger.Debug("fintrack starting",
		log.FieldBackend, e.store.Backend(),
		log.FieldScope, cfg.Scope,
		"api_url", cfg.APIURL,
		"config_file", cfg.File)
	return e, nil
}

// runApp restores the session and starts the TUI. The App refreshes the
// profile itself once it is running.
func runApp(ctx context.Context, e *env) error {
	if err := e.session.Load(ctx); err != nil {
		e.logger.Warn("session load failed", log.FieldError, err)
	}
	return runTUI(tui.NewApp(e.session, e.client))
}

func runLogin(ctx context.Context, e *env, out io.Writer) error {
	if err := e.session.Load(ctx); err != nil {
		e.logger.Warn("session load failed", log.FieldError, err)
	}
	if u, ok := e.session.User(); ok {
		fmt.Fprintf(out, "Logged in as @%s. Run fintrack logout to switch accounts.\n", u.Username)
		return nil
	}
	return runTUI(tui.NewApp(e.session, e.client))
}

func runLogout(ctx context.Context, e *env, out io.Writer) error {
	if err := e.session.Load(ctx); err != nil {
		e.logger.Warn("session load failed", log.FieldError, err)
	}
	if !e.session.Logout(ctx) {
		fmt.Fprintln(out, "Already logged out.")
		return nil
	}
	fmt.Fprintln(out, "Logged out.")
	return nil
}

func runWhoami(ctx context.Context, e *env, out io.Writer) error {
	err := e.session.Restore(ctx)
	if !e.session.IsAuthenticated() {
		printGreeting(out)
		return nil
	}
	if err != nil {
		// Still logged in: the refresh failed without rejecting the token.
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(out, "(offline: %s)\n", client.Message(err))
		}
	}
	u, ok := e.session.User()
	if !ok {
		fmt.Fprintln(out, "Logged in (profile unavailable).")
		return nil
	}
	printUser(out, u)
	return nil
}
