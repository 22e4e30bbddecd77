package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/ygao-gw/cloudlab-openwhisk/internal/config"
	"github.com/ygao-gw/cloudlab-openwhisk/internal/localvirt"
	"github.com/ygao-gw/cloudlab-openwhisk/internal/params"
	"github.com/ygao-gw/cloudlab-openwhisk/internal/rspec"
	"github.com/ygao-gw/cloudlab-openwhisk/internal/topology"
	"github.com/ygao-gw/cloudlab-openwhisk/pkg/logger"
	"github.com/ygao-gw/cloudlab-openwhisk/pkg/telemetry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	runID := uuid.New()
	log := logger.New(cfg.LogLevel, cfg.LogFormat).With(slog.String("run_id", runID.String()))
	log.Debug("cloudlab-openwhisk starting",
		slog.String("log_level", cfg.LogLevel),
		slog.String("log_format", cfg.LogFormat),
		slog.Bool("telemetry_enabled", cfg.TelemetryEnabled),
	)

	if cfg.TelemetryEnabled {
		tel, err := telemetry.Initialize("cloudlab-openwhisk")
		if err != nil {
			log.Error("failed to initialize telemetry", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := tel.Shutdown(shutdownCtx); err != nil {
				log.Error("failed to shutdown telemetry", slog.String("error", err.Error()))
			}
		}()
	}

	go func() {
		sig := <-sigChan
		log.Info("received shutdown signal", slog.String("signal", sig.String()))
		cancel()
	}()

	app := &cli.App{
		Name:                 "cloudlab-openwhisk",
		Usage:                "Generate CloudLab RSpec profiles for Kubernetes + OpenWhisk experiments",
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Resolve parameters, build the topology and print the descriptor to stdout",
				Flags: append(paramFlags(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: rspec or libvirt",
						Value:   "rspec",
					},
				),
				Action: func(cliCtx *cli.Context) error {
					return runGenerate(ctx, cliCtx, cfg, log)
				},
			},
			{
				Name:  "validate",
				Usage: "Resolve parameters and report validation warnings without generating",
				Flags: paramFlags(),
				Action: func(cliCtx *cli.Context) error {
					return runValidate(cliCtx, log)
				},
			},
			{
				Name:  "params",
				Usage: "Inspect the experiment parameter registry",
				Subcommands: []*cli.Command{
					{
						Name:  "list",
						Usage: "List recognized parameters with kinds, defaults and legal values",
						Action: func(cliCtx *cli.Context) error {
							return runParamsList(log)
						},
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func runGenerate(ctx context.Context, cliCtx *cli.Context, cfg *config.Config, log *slog.Logger) error {
	resolved, err := resolveParams(cliCtx, log)
	if err != nil {
		return err
	}

	builder := topology.NewBuilder(cfg.Generation, log)
	topo, err := builder.Build(ctx, resolved)
	if err != nil {
		return fmt.Errorf("topology build failed: %w", err)
	}

	var doc string
	switch format := cliCtx.String("format"); format {
	case "rspec":
		doc, err = rspec.FromTopology(topo).Marshal()
	case "libvirt":
		doc, err = localvirt.NewEmitter(log).Marshal(topo)
	default:
		return fmt.Errorf("unknown output format %q (valid: rspec, libvirt)", format)
	}
	if err != nil {
		return fmt.Errorf("could not render descriptor: %w", err)
	}

	fmt.Print(doc)
	return nil
}

func runValidate(cliCtx *cli.Context, log *slog.Logger) error {
	if _, err := resolveParams(cliCtx, log); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "parameters OK")
	return nil
}

func resolveParams(cliCtx *cli.Context, log *slog.Logger) (params.Params, error) {
	overrides, err := adaptOverrides(cliCtx)
	if err != nil {
		return params.Params{}, err
	}

	pctx := params.NewContext(log)
	resolved, err := pctx.Resolve(overrides)
	if err != nil {
		for _, w := range pctx.Warnings() {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		return params.Params{}, err
	}

	return resolved, nil
}

func runParamsList(log *slog.Logger) error {
	pctx := params.NewContext(log)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tDEFAULT\tADVANCED\tLEGAL VALUES\tDESCRIPTION")
	for _, def := range pctx.Definitions() {
		values := make([]string, len(def.LegalValues))
		for i, lv := range def.LegalValues {
			values[i] = lv.Value
		}
		fmt.Fprintf(w, "%s\t%s\t%v\t%t\t%s\t%s\n",
			def.Name, def.Kind, def.Default, def.Advanced,
			strings.Join(values, ","), def.Description)
	}
	return w.Flush()
}
