package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/isdmx/tutorbox/config"
	"github.com/isdmx/tutorbox/controlplane"
	"github.com/isdmx/tutorbox/knowledge"
	"github.com/isdmx/tutorbox/logger"
	"github.com/isdmx/tutorbox/mcpserver"
	"github.com/isdmx/tutorbox/metrics"
	"github.com/isdmx/tutorbox/policy"
	"github.com/isdmx/tutorbox/sandbox"
	"github.com/isdmx/tutorbox/store"
	"github.com/isdmx/tutorbox/tools"
)

func main() {
	app := fx.New(
		// Provide dependencies
		fx.Provide(
			// Config
			config.New,

			// Logger with configuration
			logger.NewFromConfig,

			// Safety policy, loaded once and read-only afterwards
			policy.FromConfig,

			// Metrics
			prometheus.NewRegistry,
			metrics.New,

			// Sandbox executor
			sandbox.NewFromConfig,

			// Knowledge index and learner store
			knowledge.NewFromConfig,
			store.OpenFromConfig,

			// Tool registry, router, control plane
			tools.New,
			controlplane.NewRouter,
			controlplane.New,

			// MCP Server
			mcpserver.New,
		),

		// Release storage resources on shutdown
		fx.Invoke(
			func(lc fx.Lifecycle, st *store.Store, kb *knowledge.Index) {
				lc.Append(fx.Hook{
					OnStop: func(context.Context) error {
						if err := kb.Close(); err != nil {
							return err
						}
						return st.Close()
					},
				})
			},
		),

		// Start the appropriate transport based on config
		fx.Invoke(
			func(cfg *config.Config, server *mcpserver.MCPServer) {
				switch cfg.Server.Transport {
				case "stdio":
					go func() {
						if err := server.ServeStdio(); err != nil {
							panic(err)
						}
					}()
				case "http":
					go func() {
						if err := server.ServeHTTP(); err != nil {
							panic(err)
						}
					}()
				default:
					panic("unsupported transport: " + cfg.Server.Transport)
				}
			},
		),

		// Use the application logger for fx logs
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
	)

	// Start the application
	app.Run()
}
