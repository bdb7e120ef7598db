package domain

// domain package contains the Domain Models of the Fishmap application.
//
// `domain/ENTITY.go` has entities and the rules on them.
// For example, `domain/user.go` contains the `User` entity and its catalog request state machine.
//
// `domain/ENTITY/db` directory exposes the client interface to handle the entity in RDB,
// and `domain/ENTITY/db/postgres` implements it. `domain/ENTITY/db/mock` has mocks for tests.
//
// `domain/fishmap/db/postgres` bundles all of them over one connection pool.
//
// # Entities
//
// - `user`: people using the application. A user registers, verifies the email with an OTP code
// and may request catalog access. Once an admin approves the request, the user becomes a contributor.
//
// - `admin`: staff, authenticated separately from users. Admins have a role and permissions,
// and moderate catalog requests and the gallery.
//
// - `prediction`: one result of fish classification by the external model, tied to a user.
//
// - `catalog`: predictions promoted into the public catalog by contributors, with extra metadata.
//
// - `gallery`: curated pictures shown on the public gallery page.
//
// - `schema`: version of the database schema.
