package cmd

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/YitongTseo/WaterSimulationAndRendering/asset"
	"github.com/YitongTseo/WaterSimulationAndRendering/asset/scene/reader"
	"github.com/YitongTseo/WaterSimulationAndRendering/asset/texture"
	"github.com/YitongTseo/WaterSimulationAndRendering/renderer"
	"github.com/YitongTseo/WaterSimulationAndRendering/scene"
	"github.com/YitongTseo/WaterSimulationAndRendering/tracer/integrator"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	opts, err := renderOptions(ctx)
	if err != nil {
		return err
	}

	// Load scene
	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	desc, err := reader.ReadScene(ctx.Args().First())
	if err != nil {
		return err
	}

	sc, err := scene.Compile(desc)
	if err != nil {
		return err
	}

	caustics, err := loadCaustics(ctx.String("caustics"), ctx.Int("frame"))
	if err != nil {
		return err
	}

	// Create renderer
	r, err := renderer.New(sc, caustics, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	_, _, err = r.Render()
	if err != nil {
		return err
	}

	// Display stats
	displayFrameStats(r.Stats())

	return nil
}

// Build render options from the command flags.
func renderOptions(ctx *cli.Context) (renderer.Options, error) {
	opts := renderer.DefaultOptions()

	res, err := renderer.ParseResolution(ctx.String("resolution"))
	if err != nil {
		return opts, err
	}
	opts.SetResolution(res)
	if w := ctx.Int("width"); w > 0 {
		opts.FrameW = w
	}
	if h := ctx.Int("height"); h > 0 {
		opts.FrameH = h
	}

	opts.RaysPerPixel = ctx.Int("spp")
	opts.MaxRayDepth = ctx.Int("depth")
	opts.Name = ctx.String("name")
	opts.Save = ctx.Bool("save")
	opts.LowerCameraSensitivity = !ctx.Bool("no-halve")
	opts.Exposure = float32(ctx.Float64("exposure"))
	opts.Workers = ctx.Int("workers")
	opts.Scheduler = ctx.String("scheduler")
	opts.Seed = ctx.Int64("seed")
	opts.CausticScale = float32(ctx.Float64("caustic-scale"))
	opts.DebugDir = ctx.String("debug-dir")

	opts.Debug, err = integrator.ParseDebugFlags(ctx.String("debug"))
	if err != nil {
		return opts, err
	}

	return opts, opts.Validate()
}

// Load the caustic texture for a frame. An empty pattern disables caustics.
func loadCaustics(pattern string, frame int) (*texture.Texture, error) {
	if pattern == "" {
		logger.Notice("no caustic texture specified; caustics disabled")
		return nil, nil
	}

	res, err := asset.NewResource(texture.FramePath(pattern, frame), nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	tex, err := texture.New(res)
	if err != nil {
		return nil, err
	}
	logger.Infof("loaded %dx%d caustic texture from %s", tex.Width, tex.Height, res.Path())
	return tex, nil
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Stage", "Invocations", "Total time", "% of frame"})
	for _, stat := range stats.Stages {
		var percent float64
		if stats.RenderTime > 0 {
			percent = 100 * float64(stat.TotalTime) / float64(stats.RenderTime)
		}
		table.Append([]string{
			stat.Name,
			fmt.Sprintf("%d", stat.Invocations),
			stat.TotalTime.String(),
			fmt.Sprintf("%02.1f %%", percent),
		})
	}
	table.SetFooter([]string{
		fmt.Sprintf("%dx%d", stats.FrameW, stats.FrameH),
		fmt.Sprintf("%d spp", stats.RaysPerPixel),
		"TOTAL",
		stats.RenderTime.String(),
	})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
