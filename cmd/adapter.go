package main

import (
	"fmt"

	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"

	"github.com/ygao-gw/cloudlab-openwhisk/internal/params"
)

// flagToParam maps CLI flag names onto the portal parameter names the
// resolver recognizes.
var flagToParam = map[string]string{
	"node-count":           params.NodeCount,
	"node-type":            params.NodeType,
	"start-kubernetes":     params.StartKubernetes,
	"deploy-openwhisk":     params.DeployOpenWhisk,
	"num-invokers":         params.NumInvokers,
	"invoker-engine":       params.InvokerEngine,
	"scheduler-enabled":    params.SchedulerEnabled,
	"temp-filesystem-size": params.TempFileSystemSize,
}

func paramFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "params",
			Aliases: []string{"p"},
			Usage:   "Parameter file (yaml or json) with portal-style keys",
		},
		&cli.IntFlag{
			Name:  "node-count",
			Usage: "Number of nodes in the experiment",
		},
		&cli.StringFlag{
			Name:  "node-type",
			Usage: "Node hardware type",
		},
		&cli.BoolFlag{
			Name:  "start-kubernetes",
			Usage: "Create a Kubernetes cluster",
		},
		&cli.BoolFlag{
			Name:  "deploy-openwhisk",
			Usage: "Deploy OpenWhisk using Helm",
		},
		&cli.IntFlag{
			Name:  "num-invokers",
			Usage: "Number of OpenWhisk invokers",
		},
		&cli.StringFlag{
			Name:  "invoker-engine",
			Usage: "Invoker container engine (kubernetes or docker)",
		},
		&cli.BoolFlag{
			Name:  "scheduler-enabled",
			Usage: "Enable the OpenWhisk scheduler component",
		},
		&cli.IntFlag{
			Name:  "temp-filesystem-size",
			Usage: "Per-node scratch filesystem size in GB (0 means all available)",
		},
	}
}

// adaptOverrides merges the parameter file (lowest precedence) and the
// explicitly set CLI flags (highest) into the override set handed to the
// resolver. Unset flags contribute nothing, so registry defaults apply.
func adaptOverrides(cliCtx *cli.Context) (map[string]any, error) {
	overrides := make(map[string]any)

	if path := cliCtx.String("params"); path != "" {
		v := viper.New()
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read parameter file %s: %w", path, err)
		}
		for key, value := range v.AllSettings() {
			canonical, _ := params.CanonicalName(key)
			overrides[canonical] = value
		}
	}

	for flag, param := range flagToParam {
		if !cliCtx.IsSet(flag) {
			continue
		}
		overrides[param] = cliCtx.Value(flag)
	}

	return overrides, nil
}
