// Command migrate applies the schema migrations in db/migrations against
// the configured database.
//
//	migrate up        apply all pending migrations
//	migrate down      roll everything back
//	migrate steps N   move N steps (negative rolls back)
//	migrate version   print the current schema version
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"fieldatlas/internal/config"
)

const migrationsSource = "file://db/migrations"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("migrate: loading config: %v", err)
	}

	m, err := migrate.New(migrationsSource, cfg.DB.DSN())
	if err != nil {
		log.Fatalf("migrate: opening %s: %v", migrationsSource, err)
	}
	defer m.Close()

	switch cmd := os.Args[1]; cmd {
	case "up":
		run(m.Up(), "all pending migrations applied")

	case "down":
		run(m.Down(), "all migrations rolled back")

	case "steps":
		if len(os.Args) < 3 {
			log.Fatal("migrate: steps requires a number argument")
		}
		n, err := strconv.Atoi(os.Args[2])
		if err != nil {
			log.Fatalf("migrate: steps argument %q is not a number", os.Args[2])
		}
		run(m.Steps(n), fmt.Sprintf("moved %d migration steps", n))

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("migrate: reading schema version: %v", err)
		}
		fmt.Printf("schema version %d (dirty=%v)\n", version, dirty)

	default:
		fmt.Printf("migrate: unknown command %q\n", cmd)
		usage()
		os.Exit(1)
	}
}

// run reports the outcome of one migration operation. ErrNoChange means the
// schema was already where it was asked to go, which is not a failure.
func run(err error, done string) {
	switch {
	case err == nil:
		log.Printf("migrate: %s", done)
	case err == migrate.ErrNoChange:
		log.Print("migrate: schema already up to date")
	default:
		log.Fatalf("migrate: %v", err)
	}
}

func usage() {
	fmt.Println("usage: migrate up|down|steps N|version")
}
