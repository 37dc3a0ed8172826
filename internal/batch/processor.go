// Package batch encodes rendered flythrough frames to WebP files in parallel.
package batch

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/go-gl/mathgl/mgl32"

	"scene-renderer/internal/log"
)

var logger = log.New("batch")

// Config holds the shared settings of an encode run.
type Config struct {
	OutputDir string
	Workers   int
}

// Frame is one rendered frame waiting to be encoded.
type Frame struct {
	Index    int
	Time     float32 // seconds along the path
	Position mgl32.Vec3
	Image    *image.NRGBA
}

// Result holds the outcome of encoding one frame.
type Result struct {
	Index   int
	File    string // relative to the output directory
	Success bool
	Error   string
}

// FileName returns the output name of frame i.
func FileName(i int) string {
	return fmt.Sprintf("frame_%04d.webp", i)
}

// Run encodes all frames using a worker pool.
func Run(cfg Config, frames []Frame) []Result {
	total := len(frames)
	results := make([]Result, total)
	var processed atomic.Int64

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		for i, f := range frames {
			results[i] = Result{Index: f.Index, File: FileName(f.Index), Error: err.Error()}
		}
		return results
	}

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					logger.Infof("[%d/%d] %.1f frames/sec", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	frameChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range frameChan {
				results[idx] = encodeFrame(cfg, frames[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range frames {
		frameChan <- i
	}
	close(frameChan)

	wg.Wait()
	close(done)

	return results
}

func encodeFrame(cfg Config, fr Frame) Result {
	res := Result{Index: fr.Index, File: FileName(fr.Index)}
	if fr.Image == nil {
		res.Error = "no image"
		return res
	}

	f, err := os.Create(filepath.Join(cfg.OutputDir, res.File))
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer f.Close()

	if err := nativewebp.Encode(f, fr.Image, nil); err != nil {
		res.Error = fmt.Sprintf("WebP encode: %v", err)
		return res
	}

	res.Success = true
	return res
}
