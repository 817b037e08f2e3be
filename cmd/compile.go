package cmd

import (
	"fmt"
	"strings"

	"github.com/urfave/cli"

	"github.com/yozhijk/Banshee/loader"
	"github.com/yozhijk/Banshee/scene"
)

// CompileScene parses one or more Wavefront OBJ files and writes each to a
// compact gob/zip scene snapshot next to it, grounded on
// achilleasa-polaris/cmd/compile.go's CompileScene (same obj-in,
// compressed-scene-out shape; see scene/zip.go for the format itself).
func CompileScene(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() == 0 {
		return fmt.Errorf("missing scene file argument")
	}

	for idx := 0; idx < ctx.NArg(); idx++ {
		objFile := ctx.Args().Get(idx)
		if !strings.HasSuffix(objFile, ".obj") {
			logger.Warningf("skipping unsupported file %s", objFile)
			continue
		}

		logger.Noticef("parsing %s", objFile)
		r := loader.NewWavefrontReader()
		events, errc := r.Read(objFile)

		snap, err := scene.FromEvents(events, errc)
		if err != nil {
			return err
		}

		outFile := strings.TrimSuffix(objFile, ".obj") + ".zip"
		if err := scene.Save(snap, outFile); err != nil {
			return err
		}
		logger.Noticef("wrote %s (%d material(s), %d mesh(es))", outFile, len(snap.Materials), len(snap.Meshes))
	}

	return nil
}
