package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/urfave/cli"

	"scene-renderer/internal/batch"
	"scene-renderer/internal/camera"
	"scene-renderer/internal/render"
)

// maxListedFailures caps the failed frames printed after a flythrough.
const maxListedFailures = 20

// RenderFrame renders a still frame from the scene camera.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	path, err := sceneArg(ctx)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	r := render.New(cfg)
	if err := r.Load(path); err != nil {
		return err
	}
	img, err := r.Frame(0, camera.Input{})
	if err != nil {
		return err
	}

	out := ctx.String("out")
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("WebP encode: %w", err)
	}

	displayFrameStats(r.Stats())
	logger.Noticef("wrote %s (%dx%d)", out, img.Rect.Dx(), img.Rect.Dy())
	return nil
}

// RenderFlythrough renders the scene path into numbered frames and a manifest.
func RenderFlythrough(ctx *cli.Context) error {
	setupLogging(ctx)

	path, err := sceneArg(ctx)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	r := render.New(cfg)
	if err := r.Load(path); err != nil {
		return err
	}

	logger.Noticef("rendering %d frames at %dx%d into %s", ctx.Int("frames"), cfg.Render.Width, cfg.Render.Height, cfg.Output.Dir)
	start := time.Now()
	frames, err := batch.RenderPath(r, ctx.Int("frames"))
	if err != nil {
		return err
	}
	logger.Noticef("rendered %d frames in %.1fs", len(frames), time.Since(start).Seconds())

	start = time.Now()
	results := batch.Run(batch.Config{
		OutputDir: cfg.Output.Dir,
		Workers:   cfg.Output.Workers,
	}, frames)

	var failed []batch.Result
	for _, res := range results {
		if !res.Success {
			failed = append(failed, res)
		}
	}
	logger.Noticef("encoded %d/%d frames in %.1fs", len(results)-len(failed), len(results), time.Since(start).Seconds())

	for i, res := range failed {
		if i == maxListedFailures {
			logger.Errorf("  ... and %d more", len(failed)-maxListedFailures)
			break
		}
		logger.Errorf("  %s: %s", res.File, res.Error)
	}

	manifest := filepath.Join(cfg.Output.Dir, "manifest.json")
	if err := batch.WriteManifest(manifest, frames, results); err != nil {
		logger.Warningf("manifest write failed: %v", err)
	} else {
		logger.Noticef("manifest: %s", manifest)
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d frames failed to encode", len(failed))
	}
	return nil
}

func displayFrameStats(st render.FrameStats) {
	logger.Noticef("frame statistics\n%s", st.Table())
}
