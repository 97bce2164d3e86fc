package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	getter "github.com/hashicorp/go-getter"
)

func main() {
	var (
		src = flag.String("src", "", "go-getter source of the texture atlas (URL, git::, s3::, gcs::)")
		out = flag.String("o", "./assets/atlas.png", "output file path")
		dir = flag.Bool("dir", false, "treat src as a directory (asset pack) instead of a single file")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *src == "" {
		log.Error("source required")
		os.Exit(2)
	}
	if *out == "" {
		log.Error("output path required")
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := fetch(ctx, *src, *out, *dir); err != nil {
		log.Error("fetch atlas", "src", *src, "error", err)
		os.Exit(1)
	}
	log.Info("fetched atlas", "src", *src, "dst", *out)
}

func fetch(ctx context.Context, src, dst string, dir bool) error {
	mode := getter.ClientModeFile
	if dir {
		mode = getter.ClientModeDir
		if err := os.RemoveAll(dst); err != nil {
			return err
		}
	} else if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	pwd, err := os.Getwd()
	if err != nil {
		return err
	}
	client := &getter.Client{
		Ctx:  ctx,
		Src:  src,
		Dst:  dst,
		Pwd:  pwd,
		Mode: mode,
	}
	return client.Get()
}
