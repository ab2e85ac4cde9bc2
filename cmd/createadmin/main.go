// Command createadmin bootstraps a teacher or admin account with a hashed
// password, using the same database settings as the API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"hostelreport/internal/config"
	"hostelreport/internal/hostel"
	"hostelreport/internal/store"
)

func main() {
	kind := flag.String("kind", "admins", "account table: admins or teachers")
	name := flag.String("name", "", "account name")
	password := flag.String("password", "", "account password")
	flag.Parse()

	k := hostel.Kind(*kind)
	if k != hostel.Admins && k != hostel.Teachers {
		log.Fatalf("unknown kind %q", *kind)
	}
	if *name == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_PASSWORD is required")
	}
	db, err := store.NewDB(cfg.DatabaseURL, store.PoolConfig{MaxOpen: 1, MaxIdle: 1})
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := hostel.NewRepository(db)
	existing, err := repo.Passwords(ctx, k, *name)
	if err != nil {
		log.Fatalf("failed to query %s: %v", k, err)
	}
	if len(existing) > 0 {
		fmt.Printf("%s %q already exists\n", k, *name)
		return
	}

	svc := hostel.NewService(repo, nil, nil, hostel.Options{})
	if err := svc.AddAccount(ctx, k, *name, *password); err != nil {
		log.Fatalf("failed to insert account: %v", err)
	}
	fmt.Printf("created %s %q\n", k, *name)
}
