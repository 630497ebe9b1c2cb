package main

import (
	"context"
	"fmt"
	"gibber/dal"
	"gibber/logic"
	"gibber/server"
	"gibber/shared"
	"gibber/texts"
	"github.com/charmbracelet/log"
	"go.uber.org/fx"
	"io"
	"net/http"
	"os"
)

type initErrorHandler struct {
}

func (*initErrorHandler) HandleError(err error) {
	fmt.Fprintf(os.Stderr, "Failed to initialize dependency injection\n%v", err)
}

var logger *log.Logger

func main() {

	cfg := shared.LoadConfig()

	if len(os.Args) > 1 && os.Args[1] == "genkey" {
		genKey(cfg)
		return
	}

	provideConfig := func() *shared.Config {
		return cfg
	}

	logger = initLogger(cfg)
	provideLogger := func() shared.ILogger {
		return logger
	}

	// Timeouts are applied per request through the context
	provideHttpClient := func() *http.Client {
		return &http.Client{}
	}

	app := fx.New(
		fx.NopLogger,
		fx.Provide(
			provideConfig,
			provideLogger,
			provideHttpClient,
			server.NewHTTPServer,
			fx.Annotate(server.NewMux, fx.ParamTags(`group:"handler_group"`)),
			shared.NewUserAgent,
			logic.NewKeyStore,
			logic.NewMetrics,
			logic.NewApubClient,
			logic.NewBlobStore,
			logic.NewMediaFetcher,
			logic.NewActorResolver,
			logic.NewProfileNormalizer,
			logic.NewOutboxFetcher,
			logic.NewPostNormalizer,
			logic.NewFederation,
			logic.NewUserDirectory,
			logic.NewProfiler,
			texts.NewTexts,
			dal.NewRepo,
			asHandlerGroupDef(server.NewApubHandlerGroup),
			asHandlerGroupDef(server.NewApiHandlerGroup),
			asHandlerGroupDef(server.NewAdminHandlerGroup),
			asHandlerGroupDef(server.NewMetricsHandlerGroup),
		),
		fx.Invoke(
			registerHooks,
			func(repo dal.IRepo) { repo.InitUpdateDb() },
			func(*http.Server) {},
		),
		fx.ErrorHook(&initErrorHandler{}),
	)
	app.Run()
}

func asHandlerGroupDef(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(server.IHandlerGroup)),
		fx.ResultTags(`group:"handler_group"`),
	)
}

func initLogger(cfg *shared.Config) *log.Logger {

	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0666)
	if err != nil {
		msg := fmt.Sprintf("Failed to open log file '%v': %v", cfg.LogFile, err)
		log.Fatal(msg)
	}

	logger := log.New(io.MultiWriter(os.Stdout, logFile))
	logger.SetReportTimestamp(true)
	logger.SetTimeFormat("2006-01-02 15:04:05.000")
	switch cfg.LogLevel {
	case "Debug":
		logger.SetLevel(log.DebugLevel)
	case "Info":
		logger.SetLevel(log.InfoLevel)
	case "Warn":
		logger.SetLevel(log.WarnLevel)
	case "Error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.ErrorLevel)
	}
	logger.SetReportCaller(true)

	return logger
}

// Prints a fresh key pair for the instance actor, encrypted with the configured passphrase.
func genKey(cfg *shared.Config) {
	pubKey, privKey, err := logic.NewKeyStore(cfg).MakeKeyPair()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate key pair: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(pubKey)
	fmt.Println(privKey)
}

func registerHooks(lc fx.Lifecycle, metrics logic.IMetrics, keyStore logic.IKeyStore, prof logic.IProfiler) {
	lc.Append(
		fx.Hook{
			OnStart: func(context.Context) error {
				logger.Printf("Application starting up")
				if _, keyId, err := keyStore.GetInstanceKey(); err != nil {
					return fmt.Errorf("failed to load instance key: %w", err)
				} else if keyId == "" {
					logger.Warnf("No instance key configured; outbound requests will not be signed")
				}
				metrics.ServiceStarted()
				prof.Start()
				return nil
			},
			OnStop: func(context.Context) error {
				logger.Printf("Application shutting down")
				prof.Stop()
				return nil
			},
		},
	)
}
