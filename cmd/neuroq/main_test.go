package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/neuroq/core"
	"github.com/poiesic/neuroq/dissoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// testApp mirrors the command wiring in main so the actions can run under
// test without parsing real process arguments.
func testApp() *cli.App {
	return &cli.App{
		Name: "neuroq",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
					},
					&cli.StringFlag{
						Name:    "db-url",
						EnvVars: []string{"DB_URL", "DATABASE_URL"},
					},
					&cli.StringFlag{
						Name:    "addr",
						Aliases: []string{"a"},
					},
					&cli.StringFlag{
						Name: "img",
					},
					&cli.Float64Flag{
						Name:  "radius",
						Value: core.DefaultRadiusMM,
					},
					&cli.IntFlag{
						Name:  "limit",
						Value: dissoc.DefaultMatchLimit,
					},
				},
			},
			{
				Name:   "dissociate",
				Action: dissociateCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
					},
					&cli.StringFlag{
						Name:    "db-url",
						EnvVars: []string{"DB_URL", "DATABASE_URL"},
					},
					&cli.BoolFlag{
						Name: "locations",
					},
					&cli.Float64Flag{
						Name:  "radius",
						Value: core.DefaultRadiusMM,
					},
					&cli.IntFlag{
						Name:  "limit",
						Value: dissoc.DefaultMatchLimit,
					},
				},
			},
		},
	}
}

func TestServeCommandFlags(t *testing.T) {
	app := testApp()
	cmd := app.Commands[0]

	t.Run("db-url reads DB_URL and DATABASE_URL", func(t *testing.T) {
		var urlFlag *cli.StringFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "db-url" {
				urlFlag = f
				break
			}
		}
		require.NotNil(t, urlFlag)
		assert.Equal(t, []string{"DB_URL", "DATABASE_URL"}, urlFlag.EnvVars)
	})

	t.Run("db has alias d", func(t *testing.T) {
		var dbFlag *cli.StringFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "db" {
				dbFlag = f
				break
			}
		}
		require.NotNil(t, dbFlag)
		assert.Equal(t, []string{"d"}, dbFlag.Aliases)
	})

	t.Run("radius defaults to the standard match radius", func(t *testing.T) {
		var radiusFlag *cli.Float64Flag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.Float64Flag); ok && f.Name == "radius" {
				radiusFlag = f
				break
			}
		}
		require.NotNil(t, radiusFlag)
		assert.Equal(t, core.DefaultRadiusMM, radiusFlag.Value)
	})

	t.Run("limit defaults to the standard match limit", func(t *testing.T) {
		var limitFlag *cli.IntFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.IntFlag); ok && f.Name == "limit" {
				limitFlag = f
				break
			}
		}
		require.NotNil(t, limitFlag)
		assert.Equal(t, dissoc.DefaultMatchLimit, limitFlag.Value)
	})

	t.Run("addr has no default value", func(t *testing.T) {
		var addrFlag *cli.StringFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "addr" {
				addrFlag = f
				break
			}
		}
		require.NotNil(t, addrFlag)
		assert.Empty(t, addrFlag.Value)
	})
}

func TestServeCommandValidation(t *testing.T) {
	t.Setenv("DB_URL", "")
	t.Setenv("DATABASE_URL", "")

	t.Run("missing backend flags fail", func(t *testing.T) {
		err := testApp().Run([]string{"neuroq", "serve"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--db or --db-url")
	})

	t.Run("both backend flags fail", func(t *testing.T) {
		args := []string{"neuroq", "serve", "--db", "/tmp/corpus", "--db-url", "postgres://localhost/neuroq"}
		err := testApp().Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mutually exclusive")
	})
}

func TestDissociateCommand(t *testing.T) {
	t.Setenv("DB_URL", "")
	t.Setenv("DATABASE_URL", "")

	t.Run("missing predicates fail", func(t *testing.T) {
		args := []string{"neuroq", "dissociate", "--db", t.TempDir(), "emotion"}
		err := testApp().Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly two predicates")
	})

	t.Run("missing backend flags fail", func(t *testing.T) {
		err := testApp().Run([]string{"neuroq", "dissociate", "emotion", "pain"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--db or --db-url")
	})

	t.Run("terms run against an empty corpus", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "corpus")
		args := []string{"neuroq", "dissociate", "--db", dbPath, "emotion", "pain"}
		require.NoError(t, testApp().Run(args))
	})

	t.Run("locations run against an empty corpus", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "corpus")
		args := []string{"neuroq", "dissociate", "--db", dbPath, "--locations", "0_0_0", "10_10_10"}
		require.NoError(t, testApp().Run(args))
	})

	t.Run("malformed coordinate fails", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "corpus")
		args := []string{"neuroq", "dissociate", "--db", dbPath, "--locations", "0_0", "10_10_10"}
		err := testApp().Run(args)
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrInvalidPredicate)
	})
}

func TestListenAddr(t *testing.T) {
	newApp := func(fn func(c *cli.Context)) *cli.App {
		return &cli.App{
			Name: "neuroq",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "addr"},
			},
			Action: func(c *cli.Context) error {
				fn(c)
				return nil
			},
		}
	}

	t.Run("flag wins over PORT", func(t *testing.T) {
		t.Setenv("PORT", "9999")
		app := newApp(func(c *cli.Context) {
			assert.Equal(t, ":7000", listenAddr(c))
		})
		require.NoError(t, app.Run([]string{"neuroq", "--addr", ":7000"}))
	})

	t.Run("PORT fills in when the flag is unset", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		app := newApp(func(c *cli.Context) {
			assert.Equal(t, ":9090", listenAddr(c))
		})
		require.NoError(t, app.Run([]string{"neuroq"}))
	})

	t.Run("empty without either", func(t *testing.T) {
		t.Setenv("PORT", "")
		app := newApp(func(c *cli.Context) {
			assert.Empty(t, listenAddr(c))
		})
		require.NoError(t, app.Run([]string{"neuroq"}))
	})
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected slog.Level
		}{
			{"debug", slog.LevelDebug},
			{"info", slog.LevelInfo},
			{"warn", slog.LevelWarn},
			{"error", slog.LevelError},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: tc.input,
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", tc.input})
				require.NoError(t, err)
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		testCases := []string{
			"DEBUG",
			"Info",
			"WaRn",
			"ERROR",
		}

		for _, tc := range testCases {
			t.Run(tc, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: "info",
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", tc})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				return nil
			},
		}

		err := app.Run([]string{"test", "--log-level", "invalid"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
		assert.Contains(t, err.Error(), "invalid")
	})

	t.Run("log-level flag has alias -l", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "log-level",
					Aliases: []string{"l"},
					Value:   "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				level := c.String("log-level")
				assert.Equal(t, "debug", level)
				return nil
			},
		}

		err := app.Run([]string{"test", "-l", "debug"})
		require.NoError(t, err)
	})
}

func TestMain(m *testing.M) {
	// Run tests
	code := m.Run()
	os.Exit(code)
}
