// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/poiesic/neuroq"
	"github.com/poiesic/neuroq/core"
	"github.com/poiesic/neuroq/dissoc"
	"github.com/poiesic/neuroq/server"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "neuroq",
		Usage: "Dissociation query engine for neuroimaging study corpora",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve dissociation queries over HTTP",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB corpus directory",
					},
					&cli.StringFlag{
						Name:    "db-url",
						Usage:   "PostgreSQL corpus URL",
						EnvVars: []string{"DB_URL", "DATABASE_URL"},
					},
					&cli.StringFlag{
						Name:    "addr",
						Aliases: []string{"a"},
						Usage:   "Listen address (host:port); the PORT environment variable sets the port when unset",
					},
					&cli.StringFlag{
						Name:  "img",
						Usage: "Image file served at /img",
					},
					&cli.Float64Flag{
						Name:  "radius",
						Usage: "Spatial match radius in millimeters",
						Value: core.DefaultRadiusMM,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum studies returned per query",
						Value: dissoc.DefaultMatchLimit,
					},
				},
			},
			{
				Name:      "dissociate",
				Usage:     "Evaluate one dissociation query and print the result as JSON",
				ArgsUsage: "PREDICATE_A PREDICATE_B",
				Action:    dissociateCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB corpus directory",
					},
					&cli.StringFlag{
						Name:    "db-url",
						Usage:   "PostgreSQL corpus URL",
						EnvVars: []string{"DB_URL", "DATABASE_URL"},
					},
					&cli.BoolFlag{
						Name:  "locations",
						Usage: "Treat the predicates as X_Y_Z coordinates instead of terms",
					},
					&cli.Float64Flag{
						Name:  "radius",
						Usage: "Spatial match radius in millimeters",
						Value: core.DefaultRadiusMM,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum studies returned per query",
						Value: dissoc.DefaultMatchLimit,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, c)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := []server.ConfigOption{
		server.WithRadiusMM(c.Float64("radius")),
		server.WithMatchLimit(c.Int("limit")),
	}
	if addr := listenAddr(c); addr != "" {
		opts = append(opts, server.WithAddr(addr))
	}
	if img := c.String("img"); img != "" {
		opts = append(opts, server.WithImagePath(img))
	}

	srv, err := db.NewServer(server.NewConfig(opts...))
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Run(ctx)
}

func dissociateCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.NArg() != 2 {
		return fmt.Errorf("expected exactly two predicates, got %d", c.NArg())
	}

	db, err := openDatabase(ctx, c)
	if err != nil {
		return err
	}
	defer db.Close()

	engine, err := db.NewDissociator(
		dissoc.WithRadiusMM(c.Float64("radius")),
		dissoc.WithMatchLimit(c.Int("limit")),
	)
	if err != nil {
		return fmt.Errorf("failed to create dissociator: %w", err)
	}

	a, b := c.Args().Get(0), c.Args().Get(1)

	var payload any
	if c.Bool("locations") {
		result, err := engine.DissociateLocations(ctx, a, b)
		if err != nil {
			return fmt.Errorf("dissociation failed: %w", err)
		}
		payload = dissoc.FormatLocationDissociation(result)
	} else {
		result, err := engine.DissociateTerms(ctx, a, b)
		if err != nil {
			return fmt.Errorf("dissociation failed: %w", err)
		}
		payload = dissoc.FormatTermDissociation(result)
	}

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	return nil
}

// openDatabase opens the corpus named by --db or --db-url. Exactly one of
// the two must be set.
func openDatabase(ctx context.Context, c *cli.Context) (*neuroq.Database, error) {
	dbPath := c.String("db")
	dbURL := c.String("db-url")

	switch {
	case dbPath == "" && dbURL == "":
		return nil, fmt.Errorf("either --db or --db-url is required")
	case dbPath != "" && dbURL != "":
		return nil, fmt.Errorf("--db and --db-url are mutually exclusive")
	case dbURL != "":
		db, err := neuroq.OpenPostgres(ctx, dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return db, nil
	default:
		db, err := neuroq.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return db, nil
	}
}

// listenAddr resolves the listen address from the --addr flag or the PORT
// environment variable. An empty result leaves the server default in place.
func listenAddr(c *cli.Context) string {
	if addr := c.String("addr"); addr != "" {
		return addr
	}
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return ""
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
