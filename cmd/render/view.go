package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/urfave/cli"

	"scene-renderer/internal/camera"
	"scene-renderer/internal/render"
	"scene-renderer/internal/watch"
)

// statsInterval is how many ticks pass between frame statistics dumps.
const statsInterval = 120

// viewer is the ebiten game driving the interactive view.
type viewer struct {
	r      *render.Renderer
	frame  *ebiten.Image
	w, h   int
	ticks  int
	cursor [2]int
	title  string
}

// RenderInteractive opens a window on the scene and reloads it on change.
func RenderInteractive(ctx *cli.Context) error {
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

	w, err := watch.New(path, watch.DefaultDebounce, r.Load)
	if err != nil {
		logger.Warningf("hot reload disabled: %v", err)
	} else {
		defer w.Close()
	}

	v := &viewer{
		r:     r,
		frame: ebiten.NewImage(cfg.Render.Width, cfg.Render.Height),
		w:     cfg.Render.Width,
		h:     cfg.Render.Height,
	}
	v.cursor[0], v.cursor[1] = ebiten.CursorPosition()

	ebiten.SetWindowSize(cfg.Render.Width, cfg.Render.Height)
	ebiten.SetWindowTitle(path)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err = ebiten.RunGame(v)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

func (v *viewer) input() camera.Input {
	mx, my := ebiten.CursorPosition()
	dx, dy := mx-v.cursor[0], my-v.cursor[1]
	v.cursor[0], v.cursor[1] = mx, my

	return camera.Input{
		Forward:  ebiten.IsKeyPressed(ebiten.KeyW),
		Backward: ebiten.IsKeyPressed(ebiten.KeyS),
		Left:     ebiten.IsKeyPressed(ebiten.KeyA),
		Right:    ebiten.IsKeyPressed(ebiten.KeyD),
		Up:       ebiten.IsKeyPressed(ebiten.KeySpace),
		Down:     ebiten.IsKeyPressed(ebiten.KeyControl),
		Dragging: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		DX:       float32(dx),
		DY:       float32(dy),
	}
}

// Update implements ebiten.Game.
func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		switch ctrl := v.r.Controller(); {
		case ctrl.Following():
			ctrl.StopPath()
		case !v.r.StartPath():
			logger.Notice("scene has no camera path")
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		logger.Noticef("trail: %t", v.r.ToggleTrail())
	}
	if d := tessellationStep(); d != 0 {
		tc := v.r.Config().Tessellation
		v.r.SetTessellation(tc.Param1+d, tc.Param2+d)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		logger.Noticef("bloom: %t", v.r.ToggleBloom())
	}

	img, err := v.r.Frame(1/float32(ebiten.TPS()), v.input())
	if err != nil {
		return err
	}
	// the tonemapped frame is opaque, so straight and premultiplied alpha agree
	v.frame.WritePixels(img.Pix)

	st := v.r.Stats()
	if title := fmt.Sprintf("%s [%s] %s", v.r.Snapshot().Scene.Source, st.Mode, st.Total().Round(100*time.Microsecond)); title != v.title {
		v.title = title
		ebiten.SetWindowTitle(title)
	}
	v.ticks++
	if v.ticks%statsInterval == 0 {
		logger.Debugf("frame statistics\n%s", st.Table())
	}
	return nil
}

func tessellationStep() int {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketRight):
		return 1
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft):
		return -1
	}
	return 0
}

// Draw implements ebiten.Game.
func (v *viewer) Draw(screen *ebiten.Image) {
	screen.DrawImage(v.frame, nil)
}

// Layout implements ebiten.Game.
func (v *viewer) Layout(_, _ int) (int, int) {
	return v.w, v.h
}
