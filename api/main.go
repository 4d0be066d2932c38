package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rogerio-castellano/kasir/internal/app"
	"github.com/rogerio-castellano/kasir/internal/config"
	"github.com/rogerio-castellano/kasir/internal/db"
	"github.com/rogerio-castellano/kasir/internal/logger"
	"github.com/rogerio-castellano/kasir/internal/qrcode"
	"github.com/urfave/cli/v2"
)

// @title Kasir API
// @version 1.0
// @description Point-of-sale backend: products, sales and purchases, dashboard and QR menus.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cliApp := &cli.App{
		Name:   "kasir",
		Usage:  "point-of-sale backend",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API (default)",
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "apply database migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "down", Usage: "roll every migration back"},
				},
				Action: migrateDB,
			},
			{
				Name:  "qr",
				Usage: "render QR codes to PNG files",
				Subcommands: []*cli.Command{
					{
						Name:      "url",
						Usage:     "encode a URL (defaults to the public menu URL)",
						ArgsUsage: "[url]",
						Flags:     qrFlags(),
						Action:    qrURL,
					},
					{
						Name:   "menu",
						Usage:  "encode the current menu snapshot",
						Flags:  qrFlags(),
						Action: qrMenu,
					},
				},
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func qrFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "qr-code-menu.png", Usage: "output PNG file"},
		&cli.IntFlag{Name: "size", Usage: "image size in pixels (default from QR_SIZE)"},
		&cli.StringFlag{Name: "dark", Usage: "module colour, #RRGGBB"},
		&cli.StringFlag{Name: "light", Usage: "background colour, #RRGGBB"},
	}
}

func qrOptions(c *cli.Context) qrcode.Options {
	return qrcode.Options{Size: c.Int("size"), Dark: c.String("dark"), Light: c.String("light")}
}

// setup loads config and the logger shared by every command.
func setup() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	return cfg, log, nil
}

func serve(c *cli.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize app")
		return err
	}
	return application.Run(ctx)
}

func migrateDB(c *cli.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	database, err := app.OpenDatabase(c.Context, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	if c.Bool("down") {
		if err := db.MigrateDown(database); err != nil {
			return err
		}
		log.Info().Msg("migrations rolled back")
		return nil
	}
	if err := db.Migrate(database); err != nil {
		return err
	}
	log.Info().Msg("migrations applied")
	return nil
}

func withApp(c *cli.Context, fn func(ctx context.Context, a *app.App) error) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	a, err := app.New(c.Context, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(c.Context, a)
}

func qrURL(c *cli.Context) error {
	return withApp(c, func(ctx context.Context, a *app.App) error {
		target := c.Args().First()
		if target == "" {
			target = a.QR.Defaults().URL
		}
		res, err := a.QR.URL(ctx, target, qrOptions(c), false)
		if err != nil {
			return err
		}
		return writePNG(c.String("out"), res.PNG)
	})
}

func qrMenu(c *cli.Context) error {
	return withApp(c, func(ctx context.Context, a *app.App) error {
		res, err := a.QR.Menu(ctx, qrOptions(c), false)
		if err != nil {
			return err
		}
		return writePNG(c.String("out"), res.PNG)
	})
}

func writePNG(path string, png []byte) error {
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Println(path)
	return nil
}
