package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"medmatch/internal/infra"
	"medmatch/internal/modules/matching"
	"medmatch/internal/modules/supplier"
	"medmatch/internal/types"
)

func main() {
	app := &cli.App{
		Name:  "medmatch-cli",
		Usage: "Operational tooling for the supplier matching service",
		Commands: []*cli.Command{
			migrateCmd,
			rankCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Println("Error: ", err)
		os.Exit(1)
	}
}

var migrateCmd = &cli.Command{
	Name:    "migrate",
	Usage:   "Apply migrations/*.sql to the database",
	Aliases: []string{"m"},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "dsn",
			Required: true,
			EnvVars:  []string{"MEDMATCH_DB_DSN"},
			Usage:    "specify the postgres DSN",
		},
		&cli.StringFlag{
			Name:  "dir",
			Value: "migrations",
			Usage: "specify the migrations directory",
		},
	},
	Action: func(ctx *cli.Context) error {
		db, err := infra.NewDB(ctx.Context, ctx.String("dsn"))
		if err != nil {
			return err
		}
		defer db.Close()

		applied, err := infra.ApplyMigrations(ctx.Context, db, ctx.String("dir"))
		if err != nil {
			return err
		}
		for _, f := range applied {
			fmt.Fprintln(ctx.App.Writer, "applied", f)
		}
		return nil
	},
}

var rankCmd = &cli.Command{
	Name:    "rank",
	Usage:   "Rank a supplier fixture for one request without touching any store",
	Aliases: []string{"r"},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "suppliers",
			Required: true,
			Usage:    "specify the input suppliers.json (array of suppliers with items)",
		},
		&cli.Float64Flag{
			Name:     "lat",
			Required: true,
			Usage:    "specify the hospital latitude",
		},
		&cli.Float64Flag{
			Name:     "lng",
			Required: true,
			Usage:    "specify the hospital longitude",
		},
		&cli.StringFlag{
			Name:     "item",
			Required: true,
			Usage:    "specify the equipment name",
		},
		&cli.IntFlag{
			Name:  "qty",
			Value: 1,
			Usage: "specify the requested quantity",
		},
	},
	Action: func(ctx *cli.Context) error {
		if ctx.Int("qty") <= 0 {
			return errors.New("invalid qty")
		}
		pool, err := loadSuppliers(ctx.String("suppliers"))
		if err != nil {
			return err
		}
		origin := types.Point{Lat: ctx.Float64("lat"), Lng: ctx.Float64("lng")}
		return doRank(ctx.App.Writer, origin, ctx.String("item"), ctx.Int("qty"), pool)
	},
}

func loadSuppliers(path string) ([]supplier.Supplier, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pool []supplier.Supplier
	if err := json.Unmarshal(b, &pool); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return pool, nil
}

func doRank(w io.Writer, origin types.Point, item string, qty int, pool []supplier.Supplier) error {
	sel, err := matching.Select(origin, item, qty, pool)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"supplier":             sel.Winner,
		"reasons":              sel.Reasons,
		"alternativeSuppliers": sel.Alternatives,
	})
}
