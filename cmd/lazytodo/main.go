package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Joseda-hg/lazytodo/internal/config"
	"github.com/Joseda-hg/lazytodo/internal/db"
	"github.com/Joseda-hg/lazytodo/internal/todos"
	"github.com/Joseda-hg/lazytodo/internal/tui"
	"github.com/Joseda-hg/lazytodo/internal/web"
)

func main() {
	os.Exit(run())
}

func run() int {
	app := &app{stdout: os.Stdout, stderr: os.Stderr}
	defer app.close()

	if err := newRootCmd(app).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(app.stderr, "Error:", err)
		return 1
	}
	return 0
}

// app carries the state shared by every command: the resolved config and
// the todo service opened over it.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	dbPath     string
	debug      bool
	web        bool
	port       int

	cfg     config.Config
	logger  *log.Logger
	service *todos.Service
	closers []func()
}

func newRootCmd(app *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "lazytodo",
		Short:         "A local-first todo list for the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.open(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return cmd.Help()
			}
			return app.runInteractive()
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(app.stdout)
	root.SetErr(app.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&app.configPath, "config", "", "config file path")
	flags.StringVar(&app.dbPath, "db", "", "sqlite db path")
	flags.BoolVar(&app.debug, "debug", false, "write debug logs to "+config.DefaultDebugLogPath())
	root.Flags().BoolVar(&app.web, "web", false, "also run the web server")
	root.Flags().IntVar(&app.port, "port", 0, "web server port")

	root.AddCommand(
		newAddCmd(app),
		newListCmd(app),
		newShowCmd(app),
		newEditCmd(app),
		newDoneCmd(app, true),
		newDoneCmd(app, false),
		newRemoveCmd(app),
		newClearCmd(app),
		newServeCmd(app),
	)
	return root
}

// open loads the config, applies flag overrides and initializes the todo
// service.
func (a *app) open(ctx context.Context) error {
	cfgPath := a.configPath
	if cfgPath == "" {
		path, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		cfgPath = path
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(cfgPath); errors.Is(statErr, os.ErrNotExist) {
		if err := config.Save(cfgPath, cfg); err != nil {
			return err
		}
	}

	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	if cfg.DBPath == "" {
		cfg.DBPath = config.DefaultDBPath()
	}
	if a.web {
		cfg.WebEnabled = true
	}
	if a.port != 0 {
		cfg.WebPort = a.port
	}
	if cfg.WebPort == 0 {
		cfg.WebPort = config.Default().WebPort
	}
	a.cfg = cfg

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	logger, err := a.openLogger()
	if err != nil {
		return err
	}
	a.logger = logger

	store, err := openStore(cfg.DBPath)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, func() { _ = store.DB.Close() })

	a.service = todos.NewService(store, todos.Options{
		Logger:   logger,
		Location: loc,
	})
	a.closers = append(a.closers, a.service.Close)

	return a.service.Init(ctx)
}

func (a *app) openLogger() (*log.Logger, error) {
	path := a.cfg.LogPath
	if a.debug && path == "" {
		path = config.DefaultDebugLogPath()
	}
	if path == "" {
		return log.New(io.Discard, "", 0), nil
	}

	if err := config.EnsureDir(path); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	a.closers = append(a.closers, func() { _ = file.Close() })
	return log.New(file, "lazytodo ", log.LstdFlags|log.Lmicroseconds), nil
}

// close releases everything open acquired, newest first.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *app) runInteractive() error {
	if a.cfg.WebEnabled {
		server, done := a.startWebServer(a.cfg.WebPort)
		defer func() {
			_ = server.Close()
			<-done
		}()
	}
	return tui.Run(a.service)
}

// startWebServer serves the web UI in the background. Failures go to the
// app logger since the terminal belongs to the TUI. done closes once the
// server has stopped.
func (a *app) startWebServer(port int) (*http.Server, <-chan struct{}) {
	server := a.newHTTPServer(port)
	done := make(chan struct{})
	go func() {
		defer close(done)
		a.logger.Printf("web server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Printf("web server error: %v", err)
		}
	}()
	return server, done
}

func (a *app) newHTTPServer(port int) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           web.NewServer(a.service).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func openStore(dbPath string) (*db.Store, error) {
	if err := config.EnsureDir(dbPath); err != nil {
		return nil, err
	}

	sqlDB, err := db.Open(dbPath)
	if err != nil {
		return nil, err
	}

	return db.NewStore(sqlDB), nil
}
