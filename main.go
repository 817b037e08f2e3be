package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/yozhijk/Banshee/cmd"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "banshee"
	app.Usage = "render scenes using CPU path tracing"
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
	}
	app.Commands = []cli.Command{
		{
			Name:  "compile",
			Usage: "compile wavefront obj scenes into a binary scene snapshot",
			Description: `
Parse a scene definition from a wavefront obj file and write its materials
and meshes to a gob/zip scene snapshot next to it.

The compiled snapshot can be supplied as an argument to the render and info
commands in place of the original obj file, skipping the text parse.`,
			ArgsUsage: "scene_file1.obj scene_file2.obj ...",
			Action:    cmd.CompileScene,
		},
		{
			Name:      "info",
			Usage:     "print material/primitive/light/BVH statistics for a scene",
			ArgsUsage: "scene_file.obj|scene_file.zip",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "preset",
					Usage: "use a built-in scene instead of a file (single-sphere-ao, quad-point-light, cornell-box)",
				},
			},
			Action: cmd.ShowSceneInfo,
		},
		{
			Name:      "render",
			Usage:     "render a single frame",
			ArgsUsage: "scene_file.obj|scene_file.zip",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "preset",
					Usage: "render a built-in scene instead of a file (single-sphere-ao, quad-point-light, cornell-box)",
				},
				cli.IntFlag{
					Name:  "width",
					Value: 1280,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 720,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "spp",
					Value: 64,
					Usage: "samples per pixel",
				},
				cli.IntFlag{
					Name:  "bounces",
					Value: 8,
					Usage: "max indirect bounces (gi integrator only)",
				},
				cli.IntFlag{
					Name:  "rr-bounces",
					Value: 3,
					Usage: "min bounces before Russian roulette kicks in",
				},
				cli.Float64Flag{
					Name:  "exposure",
					Value: 1.0,
					Usage: "camera exposure for tone-mapping",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "number of render worker goroutines (0 = GOMAXPROCS)",
				},
				cli.StringFlag{
					Name:  "integrator",
					Value: "gi",
					Usage: "direct, ao or gi",
				},
				cli.StringFlag{
					Name:  "sampler",
					Value: "cmj",
					Usage: "random, stratified, cmj or sobol",
				},
				cli.IntFlag{
					Name:  "ao-samples",
					Value: 16,
					Usage: "hemisphere sample count for the ao integrator",
				},
				cli.Float64Flag{
					Name:  "ao-radius",
					Usage: "occlusion test radius for the ao integrator (0 = unbounded)",
				},
				cli.Int64Flag{
					Name:  "seed",
					Usage: "master RNG seed",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "output image filename (.png, or .tif/.tiff for 16-bit linear)",
				},
			},
			Action: cmd.RenderFrame,
		},
	}

	app.Run(os.Args)
}
