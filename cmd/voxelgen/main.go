package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxel-world/internal/config"
	"github.com/OCharnyshevich/voxel-world/internal/storage"
	"github.com/OCharnyshevich/voxel-world/internal/world"
	"github.com/OCharnyshevich/voxel-world/pkg/world/collision"
	"github.com/OCharnyshevich/voxel-world/pkg/world/coord"
	"github.com/OCharnyshevich/voxel-world/pkg/world/gen"
	"github.com/OCharnyshevich/voxel-world/pkg/world/mesh"
	"github.com/OCharnyshevich/voxel-world/pkg/world/visibility"
)

func main() {
	cfg := config.Default()

	configPath := flag.String("config", "", "JSON or YAML config file")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "world seed")
	flag.IntVar(&cfg.World.Radius, "radius", cfg.World.Radius, "chunks to generate around the camera")
	flag.IntVar(&cfg.World.Workers, "workers", cfg.World.Workers, "generation and meshing workers")
	flag.IntVar(&cfg.Terrain.WaterLevel, "water-level", cfg.Terrain.WaterLevel, "height filled with water")
	flag.StringVar(&cfg.Storage.Dir, "storage-dir", cfg.Storage.Dir, "world directory, empty disables saving")
	flag.StringVar(&cfg.Storage.Backend, "backend", cfg.Storage.Backend, "chunk storage backend: region or leveldb")
	flag.BoolVar(&cfg.Storage.SaveAll, "save-all", cfg.Storage.SaveAll, "save every loaded chunk, not only modified ones")
	flag.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "debug, info, warn or error")
	flag.Parse()

	if *configPath != "" {
		fromFile, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		explicit := make(map[string]bool)
		flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		config.Merge(cfg, fromFile, explicit)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	level, _ := cfg.SlogLevel()
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("voxelgen failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	start := time.Now()

	generator := gen.New(cfg.GenConfig(), cfg.NoiseField())
	log.Info("noise field ready", "algorithm", cfg.Noise.Algorithm, "size", cfg.Noise.Size, "octaves", cfg.Noise.Octaves, "elapsed", time.Since(start))

	opts := []world.Option{world.WithWorkers(cfg.World.Workers)}
	if cfg.Storage.Dir != "" {
		st, err := storage.Open(cfg.Storage.Dir, cfg.Storage.Backend, cfg.Seed, log)
		if err != nil {
			return err
		}
		defer st.Close()
		opts = append(opts, world.WithStore(st))
	}

	w := world.New(generator, log, opts...)
	defer w.Close()

	cam := cfg.ViewCamera()
	center := coord.ChunkFromAbsolute(cam.Eye)
	if err := w.GenerateRadius(ctx, center, cfg.World.Radius); err != nil {
		return err
	}

	visible := w.UpdateVisibility(visibility.NewFrustum(cam))
	built, err := w.BuildMeshes(ctx, true)
	if err != nil {
		return err
	}

	device := &mesh.MemoryDevice{}
	var opaque, translucent uint32
	for _, m := range w.VisibleMeshes() {
		gm, err := mesh.Upload(device, m)
		if err != nil {
			return err
		}
		opaque += gm.OpaqueIndexCount / 3
		translucent += gm.TranslucentIndexCount / 3
	}
	alloc := device.Allocated()

	log.Info("world ready",
		"chunks", w.Len(),
		"visible", visible,
		"meshes", built,
		"opaque_triangles", opaque,
		"translucent_triangles", translucent,
		"vertex_bytes", alloc[mesh.VertexBuffer],
		"index_bytes", alloc[mesh.IndexBuffer],
		"pending_blocks", w.PendingLen(),
		"spawn_height", w.SpawnHeight(),
		"elapsed", time.Since(start),
	)

	down := collision.Ray{Origin: cam.Eye, Direction: mgl32.Vec3{0, -1, 0}}
	if b, hit, ok := w.Pick(down, cam.Eye.Y()+1); ok {
		log.Info("block below camera", "type", b.Type(), "position", b.AbsolutePosition(), "entry", hit.Entry)
	}

	if _, err := w.Save(cfg.Storage.SaveAll); err != nil {
		return err
	}
	return nil
}
