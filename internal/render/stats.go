package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"

	"scene-renderer/internal/camera"
	"scene-renderer/internal/raster"
)

// FrameStats records the work of the last frame.
type FrameStats struct {
	Frame int
	Mode  camera.Mode

	Update     time.Duration // (a) controller, path and trail
	Matrices   time.Duration // (b) light matrices
	ShadowPass time.Duration // (c) depth passes
	MainPass   time.Duration // (d) shading
	Post       time.Duration // (e) trail overlay, bloom, tonemap, downsample

	Shapes     int
	Lights     int
	ShadowMaps int
	Shadow     raster.Stats
	Main       raster.Stats
}

// Total returns the summed pass time.
func (s FrameStats) Total() time.Duration {
	return s.Update + s.Matrices + s.ShadowPass + s.MainPass + s.Post
}

// Table renders the statistics as a text table.
func (s FrameStats) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Pass", "Time", "Triangles", "Culled", "Fragments"})
	table.Append([]string{"update", s.Update.String(), "", "", ""})
	table.Append([]string{"light matrices", s.Matrices.String(), "", "", ""})
	table.Append(passRow(fmt.Sprintf("shadow depth (%d maps)", s.ShadowMaps), s.ShadowPass, s.Shadow))
	table.Append(passRow(fmt.Sprintf("main (%d shapes, %d lights)", s.Shapes, s.Lights), s.MainPass, s.Main))
	table.Append([]string{"post", s.Post.String(), "", "", ""})
	table.SetFooter([]string{fmt.Sprintf("frame %d (%s)", s.Frame, s.Mode), s.Total().String(), "", "", ""})
	table.Render()
	return buf.String()
}

func passRow(name string, d time.Duration, st raster.Stats) []string {
	return []string{
		name,
		d.String(),
		fmt.Sprintf("%d", st.Triangles),
		fmt.Sprintf("%d", st.Culled),
		fmt.Sprintf("%d", st.Fragments),
	}
}
