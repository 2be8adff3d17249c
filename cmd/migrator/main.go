package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"golocal-spaces/pkg/database"
	"golocal-spaces/pkg/utils"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const (
	migrationUp   = "up"
	migrationDown = "down"
)

func main() {
	var migrationsPath, migrationType string
	var steps int
	flag.StringVar(&migrationsPath, "migrations-path", "migrations", "path to migrations")
	flag.StringVar(&migrationType, "migration-type", migrationUp, "up or down")
	flag.IntVar(&steps, "steps", 0, "number of steps, 0 applies all")
	flag.Parse()

	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	m, err := migrate.New(fmt.Sprintf("file://%s", migrationsPath), database.DSN(config.Database))
	if err != nil {
		log.Fatalf("Failed to init migrator: %v", err)
	}
	defer m.Close()

	if err := run(m, migrationType, steps); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("no migrations to apply")
			return
		}
		log.Fatalf("Migration %s failed: %v", migrationType, err)
	}

	fmt.Printf("migrations %s applied successfully\n", migrationType)
}

func run(m *migrate.Migrate, migrationType string, steps int) error {
	switch migrationType {
	case migrationUp:
		if steps > 0 {
			return m.Steps(steps)
		}
		return m.Up()
	case migrationDown:
		if steps > 0 {
			return m.Steps(-steps)
		}
		return m.Down()
	default:
		return fmt.Errorf("unknown migration type %q", migrationType)
	}
}
