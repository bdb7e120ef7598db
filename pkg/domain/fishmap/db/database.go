package db

import (
	adb "github.com/fishmap/fishmap/pkg/domain/admin/db"
	cdb "github.com/fishmap/fishmap/pkg/domain/catalog/db"
	gdb "github.com/fishmap/fishmap/pkg/domain/gallery/db"
	pdb "github.com/fishmap/fishmap/pkg/domain/prediction/db"
	sdb "github.com/fishmap/fishmap/pkg/domain/schema/db"
	udb "github.com/fishmap/fishmap/pkg/domain/user/db"
)

// Database bundles repositories of all entities.
type Database interface {
	Users() udb.UserInterface
	Admins() adb.AdminInterface
	Predictions() pdb.PredictionInterface
	Catalog() cdb.CatalogInterface
	Gallery() gdb.GalleryInterface
	Schema() sdb.SchemaInterface

	Close() error
}
