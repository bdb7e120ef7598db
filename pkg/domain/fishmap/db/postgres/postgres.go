package postgres

import (
	"context"

	kpool "github.com/fishmap/fishmap/pkg/conn/db/postgres/pool"
	adb "github.com/fishmap/fishmap/pkg/domain/admin/db"
	pgadmin "github.com/fishmap/fishmap/pkg/domain/admin/db/postgres"
	cdb "github.com/fishmap/fishmap/pkg/domain/catalog/db"
	pgcatalog "github.com/fishmap/fishmap/pkg/domain/catalog/db/postgres"
	dbInterface "github.com/fishmap/fishmap/pkg/domain/fishmap/db"
	gdb "github.com/fishmap/fishmap/pkg/domain/gallery/db"
	pggallery "github.com/fishmap/fishmap/pkg/domain/gallery/db/postgres"
	pdb "github.com/fishmap/fishmap/pkg/domain/prediction/db"
	pgprediction "github.com/fishmap/fishmap/pkg/domain/prediction/db/postgres"
	sdb "github.com/fishmap/fishmap/pkg/domain/schema/db"
	pgschema "github.com/fishmap/fishmap/pkg/domain/schema/db/postgres"
	udb "github.com/fishmap/fishmap/pkg/domain/user/db"
	pguser "github.com/fishmap/fishmap/pkg/domain/user/db/postgres"
	xe "github.com/fishmap/fishmap/pkg/errors"
)

type fishmapDBPostgres struct {
	pool        kpool.Pool
	users       udb.UserInterface
	admins      adb.AdminInterface
	predictions pdb.PredictionInterface
	catalog     cdb.CatalogInterface
	gallery     gdb.GalleryInterface
	schema      sdb.SchemaInterface
}

type Config struct {
	SchemaRepository string
}

type Option func(*Config) *Config

func WithSchemaRepository(repository string) Option {
	return func(c *Config) *Config {
		c.SchemaRepository = repository
		return c
	}
}

// New connects to the database at url.
func New(ctx context.Context, url string, options ...Option) (dbInterface.Database, error) {
	pool, err := kpool.Connect(ctx, url)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return FromPool(pool, options...), nil
}

// FromPool builds Database over an existing pool.
func FromPool(pool kpool.Pool, options ...Option) dbInterface.Database {
	c := Config{}
	for _, option := range options {
		c = *option(&c)
	}

	schema := pgschema.Null()
	if c.SchemaRepository != "" {
		schema = pgschema.New(pool, c.SchemaRepository)
	}

	return &fishmapDBPostgres{
		pool:        pool,
		users:       pguser.New(pool),
		admins:      pgadmin.New(pool),
		predictions: pgprediction.New(pool),
		catalog:     pgcatalog.New(pool),
		gallery:     pggallery.New(pool),
		schema:      schema,
	}
}

func (f *fishmapDBPostgres) Users() udb.UserInterface {
	return f.users
}

func (f *fishmapDBPostgres) Admins() adb.AdminInterface {
	return f.admins
}

func (f *fishmapDBPostgres) Predictions() pdb.PredictionInterface {
	return f.predictions
}

func (f *fishmapDBPostgres) Catalog() cdb.CatalogInterface {
	return f.catalog
}

func (f *fishmapDBPostgres) Gallery() gdb.GalleryInterface {
	return f.gallery
}

func (f *fishmapDBPostgres) Schema() sdb.SchemaInterface {
	return f.schema
}

func (f *fishmapDBPostgres) Close() error {
	f.pool.Close()
	return nil
}
