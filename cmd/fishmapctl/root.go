package main

import (
	"context"
	"errors"
	"os"

	"github.com/fishmap/fishmap/pkg/configs/server"
	fdb "github.com/fishmap/fishmap/pkg/domain/fishmap/db"
	"github.com/fishmap/fishmap/pkg/domain/fishmap/db/postgres"
	"github.com/spf13/cobra"
)

// opener connects the database described by the config file.
type opener func(ctx context.Context, configPath string) (fdb.Database, error)

func openDatabase(ctx context.Context, configPath string) (fdb.Database, error) {
	if configPath == "" {
		return nil, errors.New("config path is not given. use --config or $FISHMAP_CONFIG")
	}
	conf, err := server.Load(configPath)
	if err != nil {
		return nil, err
	}
	options := []postgres.Option{}
	if repo := conf.SchemaRepository(); repo != "" {
		options = append(options, postgres.WithSchemaRepository(repo))
	}
	return postgres.New(ctx, conf.Database(), options...)
}

func newRootCommand(open opener) *cobra.Command {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "fishmapctl",
		Short:         "fishmap operator tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVarP(
		&configFlag, "config", "c", os.Getenv("FISHMAP_CONFIG"),
		"server config file path. default: $FISHMAP_CONFIG",
	)

	connect := func(cmd *cobra.Command) (fdb.Database, error) {
		return open(cmd.Context(), configFlag)
	}
	rootCmd.AddCommand(newMigrateCommand(connect))
	rootCmd.AddCommand(newAdminCommand(connect))

	return rootCmd
}
