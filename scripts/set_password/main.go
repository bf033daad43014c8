package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/garnizeh/workshop/internal/auth"
	"github.com/garnizeh/workshop/internal/config"
	"github.com/garnizeh/workshop/internal/db"
	"github.com/garnizeh/workshop/internal/repository/sqlite"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file")
	username := flag.String("username", "admin", "User whose password is changed")
	password := flag.String("password", "", "New password")
	flag.Parse()

	if *password == "" {
		fmt.Fprintln(os.Stderr, "usage: set_password -username <name> -password <new password>")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	logger := cfg.NewLogger(os.Stderr)
	database, err := db.New(ctx, cfg.DatabasePath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DB error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	hash, err := auth.HashPassword(*password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Hash error: %v\n", err)
		os.Exit(1)
	}

	if err := sqlite.New(database, logger).SetPassword(ctx, *username, hash); err != nil {
		fmt.Fprintf(os.Stderr, "Update error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Password updated for %q.\n", *username)
}
