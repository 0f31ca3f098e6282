// 批量导入工具：把 lotes.json 或 GeoJSON 写入存储，或经 HTTP 提交到运行中的后端
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/docopt/docopt-go"

	"lotes-map/internal/backend"
	"lotes-map/internal/config"
	"lotes-map/internal/importer"
	"lotes-map/internal/logger"
	"lotes-map/internal/parcel"
	"lotes-map/internal/store"
)

const usage = `Importación de lotes.

Usage:
    lotes-import [--store=<kind>] [--reset] <file>
    lotes-import --api=<url> [--reset] <file>
    lotes-import -h | --help

Options:
    -h --help        Show this screen.
    --store=<kind>   postgres or memory (default: STORE_BACKEND).
    --api=<url>      Submit through a running backend instead of the store.
    --reset          Delete every parcel before importing.`

func main() {
	config.Load()
	l := logger.Setup()
	defer logger.Close()
	opts, err := docopt.ParseArgs(usage, os.Args[1:], "")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	path, _ := opts.String("<file>")
	reset, _ := opts.Bool("--reset")
	f, err := os.Open(path)
	if err != nil {
		l.Error("import_open_error", "path", path, "err", err)
		os.Exit(1)
	}
	recs, err := importer.Parse(f)
	f.Close()
	if err != nil {
		l.Error("import_parse_error", "path", path, "err", err)
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var n, failed int
	if apiURL, _ := opts.String("--api"); apiURL != "" {
		n, failed = viaAPI(ctx, apiURL, reset, recs)
	} else {
		kind, _ := opts.String("--store")
		if kind == "" {
			kind = config.ServerFromEnv().StoreBackend
		}
		n, failed = viaStore(ctx, kind, reset, recs)
	}
	l.Info("import_done", "path", path, "imported", n, "failed", failed)
	fmt.Printf("%d importados, %d con error\n", n, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func viaStore(ctx context.Context, kind string, reset bool, recs []importer.Record) (int, int) {
	l := logger.L()
	be, err := store.Open(kind)
	if err != nil {
		l.Error("store_open_error", "err", err)
		os.Exit(1)
	}
	defer be.Close()
	if reset {
		if _, err := be.Parcels.Reset(ctx); err != nil {
			l.Error("import_reset_error", "err", err)
			os.Exit(1)
		}
	}
	n, failed := 0, 0
	for i, r := range recs {
		id := strings.TrimSpace(r.ID)
		if id == "" {
			id = store.NewID()
		}
		p, err := store.NewParcel(id, r.Name, r.Estado, r.Coords, r.Height)
		if err == nil {
			if p.Status == parcel.Reserved {
				p.ReservedBy, p.ReservedAt = r.ReservedBy, r.ReservedAt
			}
			err = be.Parcels.Insert(ctx, p)
		}
		if err != nil {
			failed++
			l.Warn("import_record_error", "idx", i, "id", id, "err", err)
			continue
		}
		n++
	}
	return n, failed
}

// viaAPI：后端分配新 id；预约信息不经创建接口传递
func viaAPI(ctx context.Context, apiURL string, reset bool, recs []importer.Record) (int, int) {
	l := logger.L()
	c := backend.New(apiURL, backend.DefaultHTTPClient(config.ClientFromEnv().Timeout))
	if reset {
		if err := c.Reset(ctx); err != nil {
			l.Error("import_reset_error", "err", err)
			os.Exit(1)
		}
	}
	n, failed := 0, 0
	for i, r := range recs {
		st, ok := parcel.ParseStatus(r.Estado)
		if !ok {
			st = parcel.Available
		}
		in := parcel.CreateInput{Name: r.Name, Status: st, Coords: r.Coords, Height: r.Height}
		if _, err := c.CreateParcel(ctx, in); err != nil {
			failed++
			l.Warn("import_record_error", "idx", i, "err", err)
			continue
		}
		n++
	}
	return n, failed
}
