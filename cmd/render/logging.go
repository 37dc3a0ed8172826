package main

import (
	"os"

	"github.com/urfave/cli"

	"scene-renderer/internal/log"
)

var logger = log.New("scene-renderer")

// setupLogging applies the global logging flags. The sink is switched first
// because SetSink resets the level.
func setupLogging(ctx *cli.Context) {
	if path := ctx.GlobalString("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			logger.Warningf("logging to stdout: %v", err)
		} else {
			log.SetSink(f)
		}
	}
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}
	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
