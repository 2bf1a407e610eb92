package cmd

import (
	"errors"

	"github.com/YitongTseo/WaterSimulationAndRendering/asset/scene/reader"
	"github.com/YitongTseo/WaterSimulationAndRendering/scene"
	"github.com/urfave/cli"
)

// Display scene info.
func ShowSceneInfo(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	desc, err := reader.ReadScene(ctx.Args().First())
	if err != nil {
		return err
	}

	logger.Noticef("scene information:\n%s", desc.Stats())

	// Make sure the scene compiles
	sc, err := scene.Compile(desc)
	if err != nil {
		return err
	}
	logger.Noticef("compiled %d surfaces and %d lights", len(sc.Surfaces), len(sc.Lights))

	return nil
}
