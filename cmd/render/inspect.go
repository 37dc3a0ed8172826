package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"scene-renderer/internal/render"
	"scene-renderer/internal/scene"
	"scene-renderer/internal/scenegraph"
	"scene-renderer/internal/shadow"
	"scene-renderer/internal/shape"
)

// InspectScene prints the node tree, the flattened render list, the lights and
// the shadow matrix of every light.
func InspectScene(ctx *cli.Context) error {
	setupLogging(ctx)

	path, err := sceneArg(ctx)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	sc, err := scene.Load(path)
	if err != nil {
		return err
	}
	snap := render.BuildSnapshot(sc)
	list := snap.List

	tess := shape.NewCache()
	resolver := &scenegraph.MeshResolver{
		Cache:  tess,
		Param1: cfg.Tessellation.Param1,
		Param2: cfg.Tessellation.Param2,
	}

	fmt.Println(nodeTable(sc))
	fmt.Println(shapeTable(list, resolver))
	fmt.Printf("tessellation cache: %d meshes, %d builds (param1=%d param2=%d)\n",
		tess.Len(), tess.Builds(), cfg.Tessellation.Param1, cfg.Tessellation.Param2)
	if list.Dropped > 0 {
		fmt.Printf("dropped mesh primitives: %d\n", list.Dropped)
	}
	if list.Bounds.Valid {
		fmt.Printf("bounds: min %s max %s radius %.3f\n",
			vec(list.Bounds.Min), vec(list.Bounds.Max), list.Bounds.Radius())
	}
	fmt.Println()
	fmt.Println(lightTable(list.Lights))
	fmt.Println(shadowTable(list, shadow.Options{
		Extent: cfg.Shadows.Extent,
		Near:   cfg.Render.Near,
		Far:    cfg.Render.Far,
	}))
	return nil
}

func newTable(buf *bytes.Buffer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader(header)
	return table
}

func nodeTable(sc *scene.Scene) string {
	var buf bytes.Buffer
	table := newTable(&buf, "Node", "Transforms", "Primitives", "Lights")
	if sc.Root != nil {
		sc.Root.Walk(func(n *scene.Node, depth int) {
			ts := make([]string, len(n.Transforms))
			for i, t := range n.Transforms {
				ts[i] = fmt.Sprint(t)
			}
			name := n.Name
			if name == "" {
				name = "-"
			}
			table.Append([]string{
				strings.Repeat("  ", depth) + name,
				strings.Join(ts, " "),
				fmt.Sprintf("%d", len(n.Primitives)),
				fmt.Sprintf("%d", len(n.Lights)),
			})
		})
	}
	table.Render()
	return buf.String()
}

func shapeTable(list *scenegraph.RenderList, meshes shadow.MeshSource) string {
	var buf bytes.Buffer
	table := newTable(&buf, "#", "Node", "Primitive", "Translation", "Vertices", "Texture")
	verts := 0
	for i := range list.Shapes {
		rs := &list.Shapes[i]
		n := 0
		if msh := meshes.MeshFor(rs); msh != nil {
			n = msh.VertexCount()
		}
		verts += n
		table.Append([]string{
			fmt.Sprintf("%d", i),
			rs.Node,
			rs.Primitive.Type.String(),
			vec(rs.CTM.Col(3).Vec3()),
			fmt.Sprintf("%d", n),
			rs.Primitive.Material.Texture.File,
		})
	}
	table.SetFooter([]string{"", "", "", "TOTAL", fmt.Sprintf("%d", verts), ""})
	table.Render()
	return buf.String()
}

func lightTable(lights []scenegraph.Light) string {
	var buf bytes.Buffer
	table := newTable(&buf, "ID", "Type", "Color", "Position", "Direction", "Angle", "Penumbra")
	for _, l := range lights {
		table.Append([]string{
			fmt.Sprintf("%d", l.ID),
			l.Type.String(),
			vec(l.Color),
			vec(l.Position),
			vec(l.Direction),
			fmt.Sprintf("%.1f°", mgl32.RadToDeg(l.Angle)),
			fmt.Sprintf("%.1f°", mgl32.RadToDeg(l.Penumbra)),
		})
	}
	table.Render()
	return buf.String()
}

func shadowTable(list *scenegraph.RenderList, opts shadow.Options) string {
	var buf bytes.Buffer
	table := newTable(&buf, "Light", "Shadowed", "Matrix")
	for _, l := range list.Lights {
		m, ok := shadow.LightMatrix(l, list.Bounds, opts)
		rows := make([]string, 4)
		for r := 0; r < 4; r++ {
			row := m.Row(r)
			rows[r] = fmt.Sprintf("[% .3f % .3f % .3f % .3f]", row[0], row[1], row[2], row[3])
		}
		table.Append([]string{
			fmt.Sprintf("%d (%s)", l.ID, l.Type),
			fmt.Sprintf("%t", ok),
			strings.Join(rows, "\n"),
		})
	}
	table.SetRowLine(true)
	table.Render()
	return buf.String()
}

func vec(v mgl32.Vec3) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v[0], v[1], v[2])
}
