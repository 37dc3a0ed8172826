package main

import (
	"errors"

	"github.com/urfave/cli"

	"scene-renderer/internal/config"
)

var errMissingScene = errors.New("missing scene file argument")

// renderFlags returns the flags shared by every command that renders.
func renderFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "TOML file with runtime parameters",
		},
		cli.IntFlag{
			Name:  "width",
			Usage: "frame width (default: 640)",
		},
		cli.IntFlag{
			Name:  "height",
			Usage: "frame height (default: 480)",
		},
		cli.IntFlag{
			Name:  "supersample, ss",
			Usage: "render at N times the frame size and downsample (1-4)",
		},
		cli.IntFlag{
			Name:  "param1",
			Usage: "first tessellation parameter",
		},
		cli.IntFlag{
			Name:  "param2",
			Usage: "second tessellation parameter",
		},
		cli.BoolFlag{
			Name:  "no-shadows",
			Usage: "disable shadow mapping",
		},
		cli.BoolFlag{
			Name:  "soft-shadows",
			Usage: "filter shadow lookups over 3x3 texels",
		},
		cli.BoolFlag{
			Name:  "bloom",
			Usage: "enable the bloom effect",
		},
		cli.BoolFlag{
			Name:  "trail",
			Usage: "draw the camera trail",
		},
	}
}

// loadConfig reads the optional config file and applies the command flags.
func loadConfig(ctx *cli.Context) (config.Config, error) {
	var cfg config.Config
	if path := ctx.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}

	flags := config.Flags{
		Width:       ctx.Int("width"),
		Height:      ctx.Int("height"),
		Supersample: ctx.Int("supersample"),
		Param1:      ctx.Int("param1"),
		Param2:      ctx.Int("param2"),
		NoShadows:   ctx.Bool("no-shadows"),
		SoftShadows: ctx.Bool("soft-shadows"),
		Bloom:       ctx.Bool("bloom"),
		Trail:       ctx.Bool("trail"),
		Workers:     ctx.Int("workers"),
	}
	// render uses --out for a file name, flythrough for a directory
	if ctx.Command.Name == "flythrough" {
		flags.OutputDir = ctx.String("out")
	}
	cfg.Resolve(flags)
	return cfg, nil
}

func sceneArg(ctx *cli.Context) (string, error) {
	if ctx.NArg() != 1 {
		return "", errMissingScene
	}
	return ctx.Args().First(), nil
}
