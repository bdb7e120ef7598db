package db

import "context"

// SchemaInterface manages versions of the database schema.
//
// A schema repository is a directory holding one subdirectory per version ("1", "2", ...),
// each with SQL files applied in name order.
type SchemaInterface interface {
	// Upgrade applies all versions newer than the database has, in one transaction.
	Upgrade(ctx context.Context) error

	// Version is the schema version recorded in the database. 0 for an empty database.
	Version(ctx context.Context) (int, error)

	// Latest is the newest version in the schema repository.
	Latest() (int, error)

	// Context returns a context cancelled once the database falls behind the schema repository,
	// for example when a new version directory is added while the server is running.
	//
	// The cause of the cancellation tells the versions.
	Context(ctx context.Context) (context.Context, context.CancelFunc)
}
