// Command migrate applies the engine's SQL migrations to DB_PRIMARY_DSN,
// mirroring the teacher's practice of running golang-migrate as a separate
// step from service startup rather than inside Connect.
package main

import (
	"errors"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/LerianStudio/ledger-engine/internal/bootstrap"
)

func main() {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	m, err := migrate.New("file://"+cfg.MigrationsPath, cfg.PostgresPrimaryDSN)
	if err != nil {
		log.Fatalf("init migrator: %v", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("apply migrations: %v", err)
	}

	log.Println("migrations applied")
}
