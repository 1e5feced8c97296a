package cli

import (
	"context"
	stderrors "errors"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/waypoints/internal/config"
	"github.com/matzehuels/waypoints/pkg/buildinfo"
	"github.com/matzehuels/waypoints/pkg/errors"
	"github.com/matzehuels/waypoints/pkg/events"
	"github.com/matzehuels/waypoints/pkg/library"
	"github.com/matzehuels/waypoints/pkg/observability"
	"github.com/matzehuels/waypoints/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "waypoints"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// persistent flags
	verbose    bool
	configPath string
	file       string
	backend    string

	cfg       config.Config
	loaded    bool
	publisher *events.KafkaPublisher
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Waypoints manages a library of named geographic waypoints",
		Long: `Waypoints keeps an ordered library of named geographic points (latitude,
longitude, elevation and an address) in a single JSON document.

The document lives in a local file by default. Redis, S3, PostgreSQL and
MongoDB backends are selected with --backend or a config file.`,
		Version:            buildinfo.Version,
		SilenceUsage:       true,
		PersistentPreRunE:  c.setup,
		PersistentPostRunE: c.teardown,
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVar(&c.configPath, "config", "", "config file (.toml, .yaml or .yml)")
	pf.StringVarP(&c.file, "file", "f", "", "waypoint document for the file backend (default "+store.DefaultPath+")")
	pf.StringVar(&c.backend, "backend", "", "document store: file, memory, redis, s3, postgres or mongo")

	root.AddCommand(c.demoCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.addCommand())
	root.AddCommand(c.updateCommand())
	root.AddCommand(c.removeCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.saveCommand())
	root.AddCommand(c.restoreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Setup
// =============================================================================

// setup loads the configuration, applies the log level and registers the
// observability hooks.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if err := c.loadConfig(); err != nil {
		return err
	}

	switch {
	case c.verbose:
		c.SetLogLevel(LogDebug)
	case c.cfg.Log.Level != "":
		level, err := log.ParseLevel(c.cfg.Log.Level)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "log level")
		}
		c.SetLogLevel(level)
	}
	if c.cfg.File != "" {
		c.Logger.Debug("config loaded", "file", c.cfg.File)
	}

	hooks := logHooks{logger: c.Logger}
	observability.SetStoreHooks(hooks)
	changes := changeFanout{hooks}
	if c.cfg.Kafka.Enabled() {
		c.publisher = events.NewKafkaPublisher(c.cfg.Kafka, c.Logger)
		changes = append(changes, c.publisher)
		c.Logger.Debug("publishing changes", "brokers", c.cfg.Kafka.Brokers, "topic", c.cfg.Kafka.Topic)
	}
	observability.SetLibraryHooks(changes)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// teardown flushes the event publisher and unregisters the hooks.
func (c *CLI) teardown(_ *cobra.Command, _ []string) error {
	defer observability.Reset()
	if c.publisher == nil {
		return nil
	}
	err := c.publisher.Close()
	c.publisher = nil
	if err != nil {
		c.Logger.Warn("flush change events", "error", err)
	}
	return nil
}

// loadConfig reads the configuration once and applies the --file and
// --backend flags on top of it.
func (c *CLI) loadConfig() error {
	if c.loaded {
		return nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.backend != "" {
		cfg.Store.Backend = c.backend
	}
	if c.file != "" {
		cfg.Store.Path = c.file
	}
	if err := cfg.Store.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	c.loaded = true
	return nil
}

// =============================================================================
// Store & Library
// =============================================================================

// openStore opens the configured document store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, c.cfg.Store)
}

// loadLibrary reads the library from s. A store without a document yields
// an empty library.
func loadLibrary(ctx context.Context, s store.Store) (*library.Library, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	lib, err := library.LoadFrom(ctx, s)
	if stderrors.Is(err, store.ErrNotFound) {
		logger.Debug("no document yet, starting empty", "store", s)
		return lib, nil
	}
	if err != nil {
		return nil, err
	}
	prog.done("Loaded " + pluralize(lib.Len(), "waypoint") + " from " + s.String())
	return lib, nil
}

// withLibrary opens the store, loads the library and runs fn. When fn
// reports a change, the library is written back.
func (c *CLI) withLibrary(ctx context.Context, fn func(*library.Library) (changed bool, err error)) error {
	s, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	lib, err := loadLibrary(ctx, s)
	if err != nil {
		return err
	}

	changed, err := fn(lib)
	if err != nil || !changed {
		return err
	}
	return withSpinner(ctx, "Saving to "+s.String()+"...", func() error {
		return lib.SaveTo(ctx, s)
	})
}
