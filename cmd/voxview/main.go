// Command voxview opens a voxel model (.vox or .glb) in an interactive fly-through viewer.
//
// Controls: WASD or the arrow keys move, LeftShift and LeftControl rise and sink, dragging
// with the left mouse button looks around, the wheel dollies,
// LeftAlt boosts speed and R reframes the model.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/Carmen-Shannon/oxy-vox/engine"
	"github.com/Carmen-Shannon/oxy-vox/engine/camera"
	"github.com/Carmen-Shannon/oxy-vox/engine/config"
	"github.com/Carmen-Shannon/oxy-vox/engine/loader"
	"github.com/Carmen-Shannon/oxy-vox/engine/renderer"
	"github.com/Carmen-Shannon/oxy-vox/engine/scene"
	"github.com/Carmen-Shannon/oxy-vox/engine/window"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML configuration file")
	modelPath := flag.String("model", "", "model to open (overrides model.path)")
	exportPath := flag.String("export", "", "write the model as a binary glTF file and exit")
	profile := flag.Bool("profile", false, "log frame statistics once per second")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("voxview: %v", err)
	}
	if *modelPath != "" {
		cfg.Model.Path = *modelPath
	}
	if cfg.Model.Path == "" && flag.NArg() > 0 {
		cfg.Model.Path = flag.Arg(0)
	}
	if cfg.Model.Path == "" {
		log.Fatal("voxview: no model given; pass -model or set model.path")
	}

	// ── Model ───────────────────────────────────────────────────────────
	ldr := loader.NewLoader()
	m, err := ldr.Load(cfg.Model.Path)
	if err != nil {
		log.Fatalf("voxview: %v", err)
	}
	log.Printf("Loaded %s: %d voxels, %v", cfg.Model.Path, m.InstanceCount(), m.Dimensions())

	if *exportPath != "" {
		if err := loader.ExportGLB(m, *exportPath); err != nil {
			log.Fatalf("voxview: %v", err)
		}
		log.Printf("Exported %s", *exportPath)
		return
	}

	// ── Window ──────────────────────────────────────────────────────────
	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
	defer win.Close()

	// ── Renderer ────────────────────────────────────────────────────────
	presentMode, err := renderer.ParsePresentMode(cfg.Renderer.PresentMode)
	if err != nil {
		log.Fatalf("voxview: %v", err)
	}
	msaa, err := renderer.ParseMSAASampleCount(cfg.Renderer.MSAA)
	if err != nil {
		log.Fatalf("voxview: %v", err)
	}
	clearColor, err := cfg.Renderer.ClearRGBA()
	if err != nil {
		log.Fatalf("voxview: %v", err)
	}

	r, err := renderer.NewRenderer(
		renderer.BackendTypeWGPU,
		win,
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(msaa),
		renderer.WithClearColor(clearColor),
	)
	if err != nil {
		log.Fatalf("voxview: %v", err)
	}
	defer r.Release()

	if err := r.InitVoxelPipeline(); err != nil {
		log.Fatalf("voxview: %v", err)
	}

	// ── Camera ──────────────────────────────────────────────────────────
	camOpts := []camera.CameraBuilderOption{
		camera.WithYaw(cfg.Camera.YawRadians()),
		camera.WithPitch(cfg.Camera.PitchRadians()),
	}
	if p := cfg.Camera.Position; p != nil {
		camOpts = append(camOpts, camera.WithPosition(p[0], p[1], p[2]))
	}
	cam := camera.NewCamera(camOpts...)
	proj := camera.NewProjection(
		uint32(win.Width()), uint32(win.Height()),
		cfg.Camera.FovYRadians(), cfg.Camera.ZNear, cfg.Camera.ZFar,
	)
	controller := camera.NewCameraController(cfg.Camera.Speed, cfg.Camera.Sensitivity)

	// ── Scene ───────────────────────────────────────────────────────────
	sc := scene.NewScene(
		scene.WithCamera(cam),
		scene.WithProjection(proj),
		scene.WithController(controller),
		scene.WithRenderer(r),
		scene.WithBoost(cfg.Camera.Boost),
		scene.WithFrameDistance(cfg.Camera.FrameDistance),
		scene.WithCursorCapture(win.SetCursorCaptured),
	)
	if err := sc.SetModel(m); err != nil {
		log.Fatalf("voxview: %v", err)
	}
	if cfg.Camera.Position == nil {
		sc.FrameModel()
	}

	// ── Engine ──────────────────────────────────────────────────────────
	engineOpts := []engine.EngineBuilderOption{
		engine.WithWindow(win),
		engine.WithScene(sc),
		engine.WithProfiling(*profile),
	}
	if cfg.Model.Watch {
		w, err := loader.NewWatcher(cfg.Model.Path)
		if err != nil {
			log.Fatalf("voxview: watch %s: %v", cfg.Model.Path, err)
		}
		defer w.Close()
		engineOpts = append(engineOpts, engine.WithModelReload(w.Events, w.Errors, ldr))
		log.Printf("Watching %s for changes", cfg.Model.Path)
	}
	eng := engine.NewEngine(engineOpts...)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		eng.Quit()
	}()

	eng.Run()
}
