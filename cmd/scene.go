package cmd

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/urfave/cli"

	"github.com/yozhijk/Banshee/camera"
	"github.com/yozhijk/Banshee/light"
	"github.com/yozhijk/Banshee/loader"
	"github.com/yozhijk/Banshee/material"
	"github.com/yozhijk/Banshee/primitive"
	"github.com/yozhijk/Banshee/scene"
	"github.com/yozhijk/Banshee/types"
	"github.com/yozhijk/Banshee/world"
)

// degToRad converts a field-of-view given in degrees (the natural unit for
// a -fov flag or a preset literal) to the radians camera.NewPerspective
// expects.
func degToRad(deg float32) float32 {
	return deg * float32(math.Pi) / 180
}

// resolveScene loads a committed world from either -preset or the single
// scene file argument (Wavefront OBJ or a compiled .zip snapshot), shared
// by the render and info subcommands. The aspect ratio comes from the
// -width/-height flags so a preset's camera matches whatever frame it is
// about to be rendered into.
func resolveScene(ctx *cli.Context) (*world.World, error) {
	aspect := float32(16.0 / 9.0)
	if w, h := ctx.Int("width"), ctx.Int("height"); w > 0 && h > 0 {
		aspect = float32(w) / float32(h)
	}

	if preset := ctx.String("preset"); preset != "" {
		return buildPreset(preset, aspect)
	}

	if ctx.NArg() != 1 {
		return nil, errors.New("missing scene file argument (or pass -preset)")
	}

	path := ctx.Args().First()
	w := world.New()

	switch {
	case strings.HasSuffix(path, ".zip"):
		snap, err := scene.Load(path)
		if err != nil {
			return nil, err
		}
		if err := snap.ApplyTo(w); err != nil {
			return nil, err
		}
	case strings.HasSuffix(path, ".obj"):
		r := loader.NewWavefrontReader()
		events, errc := r.Read(path)
		if err := loader.Apply(w, events, errc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported scene file %q (expected .obj or .zip)", path)
	}

	if w.Camera == nil {
		return nil, errors.New("scene file does not define a camera; use -preset or extend the importer")
	}
	if err := w.Commit(); err != nil {
		return nil, err
	}
	return w, nil
}

// presetNames enumerates the -preset scenes built into the render command,
// answering spec.md's Open Question (b) ("are scene presets part of core?")
// by keeping them here as CLI configuration rather than under any core
// package (see DESIGN.md's Open Question decisions).
var presetNames = map[string]func(aspect float32) (*world.World, error){
	"single-sphere-ao": presetSingleSphereAO,
	"quad-point-light": presetQuadWithPointLight,
	"cornell-box":      presetCornellBox,
}

// buildPreset returns a committed world for the named built-in scene, or an
// error naming the available choices.
func buildPreset(name string, aspect float32) (*world.World, error) {
	build, ok := presetNames[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q (available: single-sphere-ao, quad-point-light, cornell-box)", name)
	}
	return build(aspect)
}

// addQuad triangulates a planar quad (v0,v1,v2,v3 in winding order) into
// mesh as two triangles sharing material matIdx.
func addQuad(mesh *primitive.Mesh, matIdx uint32, v0, v1, v2, v3 types.Vec3) {
	base := uint32(len(mesh.Positions))
	mesh.Positions = append(mesh.Positions, v0, v1, v2, v3)
	mesh.Indices = append(mesh.Indices,
		base+0, base+1, base+2,
		base+0, base+2, base+3,
	)
	mesh.MaterialIndices = append(mesh.MaterialIndices, matIdx, matIdx)
}

// presetSingleSphereAO is spec §8's minimal ambient-occlusion scenario: one
// sphere resting on a ground plane, no lights (the AO integrator ignores
// materials and lights entirely).
func presetSingleSphereAO(aspect float32) (*world.World, error) {
	w := world.New()

	groundMat, err := w.AddMaterial(material.Descriptor{Kind: material.KindDiffuse, Albedo: types.Vec3{0.7, 0.7, 0.7}})
	if err != nil {
		return nil, err
	}
	sphereMat, err := w.AddMaterial(material.Descriptor{Kind: material.KindDiffuse, Albedo: types.Vec3{0.8, 0.2, 0.2}})
	if err != nil {
		return nil, err
	}

	ground := primitive.NewMesh("ground")
	addQuad(ground, groundMat,
		types.Vec3{-10, 0, -10}, types.Vec3{10, 0, -10}, types.Vec3{10, 0, 10}, types.Vec3{-10, 0, 10})
	if _, err := w.AddMesh(ground); err != nil {
		return nil, err
	}

	if err := w.AddSphere(primitive.Sphere{Center: types.Vec3{0, 1, 0}, Radius: 1, MaterialIndex: sphereMat}); err != nil {
		return nil, err
	}

	w.SetCamera(camera.NewPerspective(types.Vec3{0, 2, 6}, types.Vec3{0, 1, 0}, types.Vec3{0, 1, 0}, degToRad(45), aspect))
	w.SetBackground(types.Vec3{0.5, 0.6, 0.8})

	return w, w.Commit()
}

// presetQuadWithPointLight is spec §8's direct-lighting scenario: a diffuse
// floor and sphere lit by a single point light, exercising light.Point's
// squared-falloff SampleLi and the shadow ray.
func presetQuadWithPointLight(aspect float32) (*world.World, error) {
	w := world.New()

	floorMat, err := w.AddMaterial(material.Descriptor{Kind: material.KindDiffuse, Albedo: types.Vec3{0.6, 0.6, 0.6}})
	if err != nil {
		return nil, err
	}
	sphereMat, err := w.AddMaterial(material.Descriptor{Kind: material.KindDiffuse, Albedo: types.Vec3{0.2, 0.4, 0.8}})
	if err != nil {
		return nil, err
	}

	floor := primitive.NewMesh("floor")
	addQuad(floor, floorMat,
		types.Vec3{-5, 0, -5}, types.Vec3{5, 0, -5}, types.Vec3{5, 0, 5}, types.Vec3{-5, 0, 5})
	if _, err := w.AddMesh(floor); err != nil {
		return nil, err
	}

	if err := w.AddSphere(primitive.Sphere{Center: types.Vec3{0, 1, 0}, Radius: 1, MaterialIndex: sphereMat}); err != nil {
		return nil, err
	}

	if err := w.AddLight(light.Point{Position: types.Vec3{2, 4, 2}, Intensity: types.Vec3{40, 40, 40}}); err != nil {
		return nil, err
	}

	w.SetCamera(camera.NewPerspective(types.Vec3{0, 2, 6}, types.Vec3{0, 1, 0}, types.Vec3{0, 1, 0}, degToRad(45), aspect))

	return w, w.Commit()
}

// presetCornellBox is spec §8's canonical multi-bounce scenario: the
// standard five-wall box (white ceiling/floor/back wall, red left wall,
// green right wall) with an emissive ceiling patch as the only light
// source and two spheres, one diffuse and one mirror, standing in for the
// usual boxes.
func presetCornellBox(aspect float32) (*world.World, error) {
	w := world.New()

	white, err := w.AddMaterial(material.Descriptor{Kind: material.KindDiffuse, Albedo: types.Vec3{0.73, 0.73, 0.73}})
	if err != nil {
		return nil, err
	}
	red, err := w.AddMaterial(material.Descriptor{Kind: material.KindDiffuse, Albedo: types.Vec3{0.65, 0.05, 0.05}})
	if err != nil {
		return nil, err
	}
	green, err := w.AddMaterial(material.Descriptor{Kind: material.KindDiffuse, Albedo: types.Vec3{0.12, 0.45, 0.15}})
	if err != nil {
		return nil, err
	}
	lightMat, err := w.AddMaterial(material.Descriptor{Kind: material.KindDiffuse, Albedo: types.Vec3{0.78, 0.78, 0.78}, Emissive: types.Vec3{15, 15, 15}})
	if err != nil {
		return nil, err
	}
	blueSphere, err := w.AddMaterial(material.Descriptor{Kind: material.KindDiffuse, Albedo: types.Vec3{0.3, 0.3, 0.8}})
	if err != nil {
		return nil, err
	}
	mirrorSphere, err := w.AddMaterial(material.Descriptor{Kind: material.KindSpecular, Albedo: types.Vec3{0.9, 0.9, 0.9}})
	if err != nil {
		return nil, err
	}

	const s = 5.0

	box := primitive.NewMesh("box")
	// Floor.
	addQuad(box, white, types.Vec3{-s, 0, -s}, types.Vec3{s, 0, -s}, types.Vec3{s, 0, s}, types.Vec3{-s, 0, s})
	// Ceiling.
	addQuad(box, white, types.Vec3{-s, 2 * s, s}, types.Vec3{s, 2 * s, s}, types.Vec3{s, 2 * s, -s}, types.Vec3{-s, 2 * s, -s})
	// Back wall.
	addQuad(box, white, types.Vec3{-s, 0, -s}, types.Vec3{-s, 2 * s, -s}, types.Vec3{s, 2 * s, -s}, types.Vec3{s, 0, -s})
	// Left wall (red).
	addQuad(box, red, types.Vec3{-s, 0, s}, types.Vec3{-s, 2 * s, s}, types.Vec3{-s, 2 * s, -s}, types.Vec3{-s, 0, -s})
	// Right wall (green).
	addQuad(box, green, types.Vec3{s, 0, -s}, types.Vec3{s, 2 * s, -s}, types.Vec3{s, 2 * s, s}, types.Vec3{s, 0, s})
	// Ceiling light patch.
	addQuad(box, lightMat,
		types.Vec3{-s * 0.3, 2*s - 0.01, s * 0.3}, types.Vec3{s * 0.3, 2*s - 0.01, s * 0.3},
		types.Vec3{s * 0.3, 2*s - 0.01, -s * 0.3}, types.Vec3{-s * 0.3, 2*s - 0.01, -s * 0.3})

	if _, err := w.AddMesh(box); err != nil {
		return nil, err
	}

	if err := w.AddSphere(primitive.Sphere{Center: types.Vec3{-1.8, 1.6, -1}, Radius: 1.6, MaterialIndex: blueSphere}); err != nil {
		return nil, err
	}
	if err := w.AddSphere(primitive.Sphere{Center: types.Vec3{2, 1.2, 1.5}, Radius: 1.2, MaterialIndex: mirrorSphere}); err != nil {
		return nil, err
	}

	w.SetCamera(camera.NewPerspective(types.Vec3{0, s, 4 * s}, types.Vec3{0, s, 0}, types.Vec3{0, 1, 0}, degToRad(40), aspect))

	return w, w.Commit()
}
