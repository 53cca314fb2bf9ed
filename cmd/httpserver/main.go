package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/hackfolio/catalog-backend/cache"
	"github.com/hackfolio/catalog-backend/catalog"
	"github.com/hackfolio/catalog-backend/cmd/flags"
	"github.com/hackfolio/catalog-backend/httpserver"
	"github.com/hackfolio/catalog-backend/metrics"
	"github.com/hackfolio/catalog-backend/repository"
)

var serverFlags = append([]cli.Flag{
	&cli.StringFlag{
		Name:  "listen-addr",
		Value: "127.0.0.1:8080",
		Usage: "address to listen on for API",
	},
	flags.StoreURIFlag,
	flags.ResolveEndpointsFlag,
	flags.DNSLinkServerFlag,
	flags.PointerDirFlag,
	flags.ResolveTimeoutFlag,
	flags.SessionSecretFlag,
	flags.RedisAddrFlag,
	flags.LogServiceFlagFn("catalog-backend"),
}, flags.CommonFlags...)

func main() {
	app := &cli.App{
		Name:  "catalog-server",
		Usage: "Serve the hackathon catalog API over content-addressed storage",
		Flags: serverFlags,
		Action: func(cCtx *cli.Context) error {
			listenAddr := cCtx.String("listen-addr")
			sessionSecret := cCtx.String(flags.SessionSecretFlag.Name)
			redisAddr := cCtx.String(flags.RedisAddrFlag.Name)

			logger := flags.SetupLogger(cCtx)

			if sessionSecret == "" {
				logger.Error("session-secret is required")
				return cli.Exit("session-secret is required", 1)
			}

			// Bound after server construction; the observer fires only on
			// resolutions triggered by requests, which start later.
			var metricsSrv *metrics.MetricsServer

			chain := catalog.NewChain(catalog.ChainConfig{
				StoreURI:         cCtx.String(flags.StoreURIFlag.Name),
				ResolveEndpoints: cCtx.StringSlice(flags.ResolveEndpointsFlag.Name),
				DNSLinkServer:    cCtx.String(flags.DNSLinkServerFlag.Name),
				PointerDir:       cCtx.String(flags.PointerDirFlag.Name),
				ResolveTimeout:   cCtx.Duration(flags.ResolveTimeoutFlag.Name),
				Seed:             repository.Seed,
				Static:           repository.StaticRecords(),
				ResolveObserver: func(endpoint, outcome string) {
					if metricsSrv != nil {
						metricsSrv.ResolveAttempts.WithLabelValues(endpoint, outcome).Inc()
					}
				},
				Log: logger,
			})

			var mirror *cache.Mirror
			if redisAddr != "" {
				mirror = cache.NewMirror(redisAddr, "", 0, logger)
				defer mirror.Close()
			}

			cfg := flags.ConfigureServer(cCtx, logger, listenAddr)
			handler := httpserver.NewHandler(chain, []byte(sessionSecret), mirror, logger)

			server, err := httpserver.New(cfg, handler)
			if err != nil {
				logger.Error("Failed to create server", "err", err)
				return err
			}
			metricsSrv = server.Metrics()

			server.RunInBackground()
			logger.Info("Server is running, press Ctrl+C to stop")

			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)
			<-exit

			logger.Info("Shutdown signal received")
			server.Shutdown()
			logger.Info("Server shutdown complete")
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
