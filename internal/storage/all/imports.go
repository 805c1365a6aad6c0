// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) runs the init functions of each backend, which register their
// factories and DDL dialects with the storage package. Importing it makes the
// following storage kinds available:
//
//   - "sqlite"   (statsetl/internal/storage/sqlite)
//   - "postgres" (statsetl/internal/storage/postgres)
//   - "mssql"    (statsetl/internal/storage/mssql)
//   - "mysql"    (statsetl/internal/storage/mysql)
//
// Typical usage, in cmd/etl or cmd/query:
//
//	import _ "statsetl/internal/storage/all"
//
//	repo, err := storage.New(ctx, storage.Config{Kind: spec.Storage.Kind, DSN: spec.Storage.DB.DSN})
//	if err != nil {
//	    // handle error
//	}
//	defer repo.Close()
package all

import (
	_ "statsetl/internal/storage/mssql"
	_ "statsetl/internal/storage/mysql"
	_ "statsetl/internal/storage/postgres"
	_ "statsetl/internal/storage/sqlite"
)
