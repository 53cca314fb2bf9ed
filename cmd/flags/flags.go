package flags

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/hackfolio/catalog-backend/common"
	"github.com/hackfolio/catalog-backend/httpserver"
)

func SetupLogger(cCtx *cli.Context) (log *slog.Logger) {
	logJSON := cCtx.Bool(LogJsonFlag.Name)
	logDebug := cCtx.Bool(LogDebugFlag.Name)
	logUID := cCtx.Bool(LogUidFlag.Name)
	logService := cCtx.String("log-service")

	logger := common.SetupLogger(&common.LoggingOpts{
		Debug:   logDebug,
		JSON:    logJSON,
		Service: logService,
		Version: common.Version,
	})

	if logUID {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}

func ConfigureServer(cCtx *cli.Context, logger *slog.Logger, listenAddr string) *httpserver.HTTPServerConfig {
	metricsAddr := cCtx.String("metrics-addr")
	enablePprof := cCtx.Bool("pprof")
	drainDuration := time.Duration(cCtx.Int64("drain-seconds")) * time.Second

	return &httpserver.HTTPServerConfig{
		ListenAddr:               listenAddr,
		MetricsAddr:              metricsAddr,
		Log:                      logger,
		EnablePprof:              enablePprof,
		DrainDuration:            drainDuration,
		GracefulShutdownDuration: 30 * time.Second,
		ReadTimeout:              60 * time.Second,
		WriteTimeout:             30 * time.Second,
	}
}

var StoreURIFlag = &cli.StringFlag{
	Name:  "store-uri",
	Value: "ipfs://127.0.0.1:5001",
	Usage: "content store location URI (ipfs://, file://, s3://, vault://, mem://)",
}

var ResolveEndpointsFlag = &cli.StringSliceFlag{
	Name:  "resolve-endpoint",
	Usage: "ordered IPFS HTTP API base URLs tried during pointer resolution (repeatable)",
}

var DNSLinkServerFlag = &cli.StringFlag{
	Name:  "dnslink-server",
	Usage: "DNS server (host:port) used as a DNSLink resolution endpoint",
}

var PointerDirFlag = &cli.StringFlag{
	Name:  "pointer-dir",
	Value: "./pointers",
	Usage: "pointer table directory for non-IPFS content stores",
}

var ResolveTimeoutFlag = &cli.DurationFlag{
	Name:  "resolve-timeout",
	Value: 10 * time.Second,
	Usage: "timeout for every single pointer resolution attempt",
}

var SessionSecretFlag = &cli.StringFlag{
	Name:    "session-secret",
	EnvVars: []string{"SESSION_SECRET"},
	Usage:   "HS256 secret for session tokens",
}

var RedisAddrFlag = &cli.StringFlag{
	Name:  "redis-addr",
	Usage: "Redis address for the catalog metadata mirror (empty disables the mirror)",
}

var LogJsonFlag = &cli.BoolFlag{
	Name:  "log-json",
	Value: false,
	Usage: "log in JSON format",
}
var LogDebugFlag = &cli.BoolFlag{
	Name:  "log-debug",
	Value: false,
	Usage: "log debug messages",
}
var LogUidFlag = &cli.BoolFlag{
	Name:  "log-uid",
	Value: false,
	Usage: "generate a uuid and add to all log messages",
}

var LogServiceFlagFn = func(service string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "log-service",
		Value: service,
		Usage: "add 'service' tag to logs",
	}
}

var PprofFlag = &cli.BoolFlag{
	Name:  "pprof",
	Value: false,
	Usage: "enable pprof debug endpoint",
}
var DrainSecondsFlag = &cli.Int64Flag{
	Name:  "drain-seconds",
	Value: 45,
	Usage: "seconds to wait in drain HTTP request",
}
var MetricsAddrFlag = &cli.StringFlag{
	Name:  "metrics-addr",
	Value: "127.0.0.1:8090",
	Usage: "address to listen on for Prometheus metrics",
}

var CommonFlags = []cli.Flag{
	LogJsonFlag,
	LogDebugFlag,
	LogUidFlag,
	PprofFlag,
	DrainSecondsFlag,
	MetricsAddrFlag,
}
