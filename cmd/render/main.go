package main

import (
	"os"

	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "scene-renderer"
	app.Usage = "render scene-graph files with shadow-mapped Phong lighting"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-file",
			Usage: "append log output to this file instead of stdout",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame",
			Description: `
Load a scene, render one frame from the scene camera and write it as a
lossless WebP image. Pass timings are logged after the frame.`,
			ArgsUsage: "scene.yaml",
			Flags: append(renderFlags(),
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.webp",
					Usage: "image filename for the rendered frame",
				},
			),
			Action: RenderFrame,
		},
		{
			Name:  "flythrough",
			Usage: "render the scene camera path into numbered frames",
			Description: `
Render N frames evenly spaced along the camera path of the scene, encode
them in parallel and write a manifest.json next to them.`,
			ArgsUsage: "scene.yaml",
			Flags: append(renderFlags(),
				cli.IntFlag{
					Name:  "frames, n",
					Value: 60,
					Usage: "number of frames to render",
				},
				cli.StringFlag{
					Name:  "out, o",
					Usage: "output directory (default: output.dir from the config)",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "number of encoder goroutines (default: NumCPU)",
				},
			),
			Action: RenderFlythrough,
		},
		{
			Name:      "inspect",
			Usage:     "dump the flattened render list, lights and shadow matrices",
			ArgsUsage: "scene.yaml",
			Flags:     renderFlags(),
			Action:    InspectScene,
		},
		{
			Name:  "view",
			Usage: "render an interactive view of the scene",
			Description: `
Open a window on the scene. WASD moves, Space and Ctrl move up and down,
dragging with the left button rotates. P starts or stops the camera path,
T toggles the camera trail, B toggles bloom, [ and ] change the tessellation
and Escape quits. The scene file is reloaded when it changes on disk.`,
			ArgsUsage: "scene.yaml",
			Flags:     renderFlags(),
			Action:    RenderInteractive,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
