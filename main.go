package main

import (
	"os"

	"github.com/YitongTseo/WaterSimulationAndRendering/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "waves"
	app.Usage = "render water scenes using path tracing"
	app.Version = "0.0.1"
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
			Name:  "log-level",
			Usage: "log level for all modules: debug, info, notice, warning or error",
		},
		cli.StringSliceFlag{
			Name:  "module-level",
			Usage: "override the log level of a single module, e.g. \"tracer pool=warning\"",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame",
			Description: `
Parse a scene definition from a wavefront obj file and render a still frame
of the water surface, the pool beneath it and any foam particles.

The frame is tone-mapped and written to NAME.png when --save is specified.`,
			ArgsUsage: "scene_file.obj",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "resolution, r",
					Value: "medium",
					Usage: "frame size: pixel, verysmall, small, medium, large or vlarge",
				},
				cli.IntFlag{
					Name:  "width",
					Usage: "override frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Usage: "override frame height",
				},
				cli.IntFlag{
					Name:  "spp",
					Value: 32,
					Usage: "rays per pixel",
				},
				cli.IntFlag{
					Name:  "depth",
					Value: 5,
					Usage: "max ray depth",
				},
				cli.StringFlag{
					Name:  "name, n",
					Value: "beautifulWaves",
					Usage: "output image name without extension",
				},
				cli.BoolFlag{
					Name:  "save, s",
					Usage: "write the rendered frame to disk",
				},
				cli.BoolFlag{
					Name:  "no-halve",
					Usage: "do not halve the brightness of the final image",
				},
				cli.Float64Flag{
					Name:  "exposure",
					Value: 1.0,
					Usage: "camera exposure for tone-mapping",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "number of render workers (0 uses all cpus)",
				},
				cli.StringFlag{
					Name:  "scheduler",
					Value: "naive",
					Usage: "block scheduler: naive or perfect",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 1,
					Usage: "random seed for the first worker",
				},
				cli.StringFlag{
					Name:  "caustics",
					Usage: "caustic texture path or url; a pattern such as waterCaustic_0%02d.jpg selects a frame",
				},
				cli.IntFlag{
					Name:  "frame",
					Usage: "caustic frame index",
				},
				cli.Float64Flag{
					Name:  "caustic-scale",
					Value: 1.0,
					Usage: "resample the caustic texture by this factor",
				},
				cli.StringFlag{
					Name:  "debug",
					Usage: "comma separated list of buffers to dump after each bounce: modulation, inmedium, depth, shadowed, accumulator",
				},
				cli.StringFlag{
					Name:  "debug-dir",
					Value: ".",
					Usage: "folder for debug buffer dumps",
				},
			},
			Action: cmd.RenderFrame,
		},
		{
			Name:      "scene-info",
			Usage:     "display scene statistics",
			ArgsUsage: "scene_file.obj",
			Action:    cmd.ShowSceneInfo,
		},
	}

	app.Run(os.Args)
}
