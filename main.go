package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/example/task-manager/cache"
	"github.com/example/task-manager/config"
	"github.com/example/task-manager/logging"
	apimod "github.com/example/task-manager/modules/api"
	activitymod "github.com/example/task-manager/modules/activity"
	taskmod "github.com/example/task-manager/modules/task"
	usermod "github.com/example/task-manager/modules/user"
	"github.com/example/task-manager/storage"
)

const userCachePrefix = "user:"

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to a YAML config file")
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "Usage of %s:\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintln(out)
		fmt.Fprintln(out, config.Usage())
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	store, err := storage.Open(ctx, cfg.Store, logging.Module(log, "storage"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}

	checks := map[string]apimod.HealthCheck{"store": store.Ping}

	var (
		redisClient *redis.Client
		userCache   *cache.Cache
	)
	if cfg.Cache.Enabled() {
		redisClient, err = cache.NewClient(ctx, cfg.Cache)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Cache.RedisAddr).Msg("failed to connect to redis")
		}
		userCache = cache.New(redisClient, userCachePrefix, cfg.Cache.TTL)
		checks["cache"] = userCache.Ping
	}

	userModule := usermod.NewModule(store, userCache, logging.Module(log, "user"))
	taskModule := taskmod.NewModule(store, logging.Module(log, "task"))
	activityModule := activitymod.NewModule(logging.Module(log, "activity"))
	apiModule := apimod.NewModule(cfg.HTTP, cfg.ServiceTimeout, checks, logging.Module(log, "api"))

	monoLogLevel := mono.WithLogLevel(mono.LogLevelInfo)
	if log.GetLevel() >= zerolog.ErrorLevel {
		monoLogLevel = mono.WithLogLevel(mono.LogLevelError)
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		monoLogLevel,
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create mono application")
	}

	for _, m := range []mono.Module{userModule, taskModule, activityModule, apiModule} {
		if err := app.Register(m); err != nil {
			log.Fatal().Err(err).Str("module", m.Name()).Msg("failed to register module")
		}
	}

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start application")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("address", cfg.HTTP.Address).
		Str("prefix", cfg.HTTP.Prefix).
		Str("store", store.Driver).
		Bool("cache", userCache != nil).
		Msg("task manager started")

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Info().Msg("graceful shutdown initiated")
				stopErr := app.Stop(ctx)
				if redisClient != nil {
					if err := redisClient.Close(); err != nil {
						log.Error().Err(err).Msg("failed to close redis client")
					}
				}
				// The store closes last so in-flight requests can finish.
				return errors.Join(stopErr, store.Close())
			},
		},
	)

	exitCode := <-wait
	log.Info().Int("exit_code", exitCode).Msg("application exited")
	os.Exit(exitCode)
}
