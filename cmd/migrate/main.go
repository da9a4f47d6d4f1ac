// Command migrate manages the database schema.
//
//	go run ./cmd/migrate up|down|status|version
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/noah-isme/student-records-api/pkg/config"
	"github.com/noah-isme/student-records-api/pkg/database"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: migrate up|down|status|version")
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	switch flag.Arg(0) {
	case "up":
		err = database.Migrate(ctx, db.DB)
	case "down":
		err = database.Rollback(ctx, db.DB)
	case "status":
		err = database.Status(ctx, db.DB)
	case "version":
		var version int64
		if version, err = database.Version(ctx, db.DB); err == nil {
			log.Printf("schema version %d", version)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("migrate %s: %v", flag.Arg(0), err)
	}
}
