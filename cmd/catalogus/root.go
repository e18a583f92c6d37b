package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/catalogus/catalogus-backend/internal/app"
	"github.com/catalogus/catalogus-backend/internal/config"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "catalogus",
		Short:         "Personal watchlist API backed by TMDB metadata",
		Version:       app.BuildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to config YAML (default $CONFIG_PATH or ./config.yaml)")

	load := func() (*config.Config, error) {
		if configPath == "" {
			configPath = os.Getenv("CONFIG_PATH")
		}
		return config.LoadFrom(configPath)
	}

	root.AddCommand(
		newServeCmd(load),
		newMigrateCmd(load),
		newTokenCmd(load),
	)
	return root
}

type configLoader func() (*config.Config, error)
