package database

import (
	"log"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	// Registers the cgo-free "sqlite" driver used below.
	_ "modernc.org/sqlite"
)

// Connect opens the ledger database. Postgres DSNs get the postgres driver;
// anything else (a file path or ":memory:") is treated as sqlite, which runs
// local development, the seed binary and the test suites without cgo.
func Connect(dsn string) (*gorm.DB, error) {
	if isPostgresDSN(dsn) {
		log.Printf("database driver=postgres")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Printf("database driver=sqlite dsn=%s", dsn)
	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}
