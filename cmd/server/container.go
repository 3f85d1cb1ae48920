package main

import (
	"os"

	"github.com/go-faster/errors"
	logger "github.com/sirupsen/logrus"
	"go.uber.org/dig"

	"bitbucket-mcp/server/internal/config"
	"bitbucket-mcp/server/internal/db"
	"bitbucket-mcp/server/internal/mcpserver"
	"bitbucket-mcp/server/internal/middleware"
	"bitbucket-mcp/server/internal/modules"
	"bitbucket-mcp/server/internal/modules/bitbucket"
	"bitbucket-mcp/server/internal/observability"
	"bitbucket-mcp/server/pkg/bitbucketapi"
)

// RegisterProviders registers every server component with the DIG container.
// Construction is lazy: nothing connects anywhere until Invoke.
func RegisterProviders(container *dig.Container, envFile string) error {
	providers := []any{
		func() (*config.Config, error) { return config.Load(envFile) },
		newLokiHook,
		newLogger,
		newBitbucketClient,
		newBitbucketEnv,
		newRegistry,
		observability.NewToolMetrics,
		newUsage,
		newInvoker,
		mcpserver.New,
	}
	for _, p := range providers {
		if err := container.Provide(p); err != nil {
			return err
		}
	}
	return nil
}

func newLokiHook(cfg *config.Config) *observability.LokiHook {
	return observability.NewLokiHook(cfg.Loki)
}

func newLogger(cfg *config.Config, hook *observability.LokiHook) *logger.Logger {
	log := logger.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logger.TextFormatter{FullTimestamp: true})

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("Unknown LOG_LEVEL, using info")
		level = logger.InfoLevel
	}
	log.SetLevel(level)

	if hook != nil {
		log.AddHook(hook)
		log.Debug("Loki hook installed")
	}
	return log
}

func newBitbucketClient(cfg *config.Config, log *logger.Logger) (*bitbucketapi.Client, error) {
	return bitbucketapi.NewClient(bitbucketapi.Options{
		ServerURL:  cfg.APIURL,
		Username:   cfg.Username,
		Password:   cfg.AppPassword,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		Logger:     log.WithField("component", "bitbucketapi"),
	})
}

func newBitbucketEnv(cfg *config.Config, client *bitbucketapi.Client, log *logger.Logger) *bitbucket.Env {
	return &bitbucket.Env{
		Client:    client,
		Workspace: cfg.Workspace,
		Log:       log.WithField("workspace", cfg.Workspace),
	}
}

func newRegistry(env *bitbucket.Env, log *logger.Logger) (*modules.Registry, error) {
	registry, err := modules.NewRegistry(bitbucket.New(env))
	if err != nil {
		return nil, err
	}
	for _, m := range registry.Modules() {
		log.WithFields(logger.Fields{
			"module": m.Name(),
			"tools":  len(m.Tools()),
		}).Debug("Registered module")
	}
	return registry, nil
}

// newUsage connects the ledger when DATABASE_URL is set; otherwise usage recording is off.
func newUsage(cfg *config.Config, log *logger.Logger) (*middleware.Usage, error) {
	if cfg.DatabaseURL == "" {
		return middleware.NewUsage(nil, cfg.Workspace, log), nil
	}
	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "usage ledger")
	}
	log.Info("Usage ledger enabled")
	return middleware.NewUsage(db.NewUsageStore(database), cfg.Workspace, log), nil
}

// newInvoker builds the tool-call chain. Recovery sits innermost so a panic is
// still timed, logged and recorded as an error result.
func newInvoker(
	registry *modules.Registry,
	metrics *observability.ToolMetrics,
	usage *middleware.Usage,
	log *logger.Logger,
) middleware.ToolFunc {
	return middleware.Chain(registry.Invoke,
		middleware.RequestID,
		middleware.Telemetry(log, metrics),
		usage.Middleware(),
		middleware.Recovery(log),
	)
}
