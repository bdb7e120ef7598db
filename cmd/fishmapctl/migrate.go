package main

import (
	fdb "github.com/fishmap/fishmap/pkg/domain/fishmap/db"
	"github.com/spf13/cobra"
)

func newMigrateCommand(connect func(*cobra.Command) (fdb.Database, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Upgrade the database schema to the newest in the schema repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			schema := db.Schema()
			ctx := cmd.Context()
			before, err := schema.Version(ctx)
			if err != nil {
				return err
			}
			if err := schema.Upgrade(ctx); err != nil {
				return err
			}
			after, err := schema.Version(ctx)
			if err != nil {
				return err
			}

			if before == after {
				cmd.Printf("schema is up to date (version %d)\n", after)
			} else {
				cmd.Printf("schema is upgraded: version %d -> %d\n", before, after)
			}
			return nil
		},
	}
}
