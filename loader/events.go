// Package loader implements the mesh-loader contract of spec §6 as a
// builder-pattern event stream rather than the callback-valued struct
// fields the original source used (spec.md Design Notes: "Replace
// function-valued fields with a builder pattern: the importer yields a
// lazy sequence of events {Material, Primitive, Light} and the caller
// folds them into the world").
//
// Grounded on achilleasa-polaris/scene/reader/wavefront.go's tokenizer and
// v/vn/vt/f/g/o/usemtl line handling, whose Read method never actually
// wired its parsed scene graph into a renderable world ("scenegraph
// conversion not yet implemented"); that conversion is completed here by
// folding events directly into a *world.World.
package loader

import (
	"github.com/yozhijk/Banshee/camera"
	"github.com/yozhijk/Banshee/light"
	"github.com/yozhijk/Banshee/material"
	"github.com/yozhijk/Banshee/primitive"
)

// EventKind tags which payload an Event carries.
type EventKind uint8

const (
	EventMaterial EventKind = iota
	EventMesh
	EventLight
	EventCamera
)

// Event is one unit of the importer's lazy output stream. Exactly one of
// the payload fields is meaningful, selected by Kind.
type Event struct {
	Kind EventKind

	Material material.Descriptor
	Mesh     *primitive.Mesh
	Light    light.Light
	Camera   camera.Camera
}

// Reader is the common interface every format-specific importer
// implements: Read parses src and sends one Event per material, mesh and
// light it discovers, closing the channel when done (or after sending a
// single error on errc).
type Reader interface {
	Read(path string) (<-chan Event, <-chan error)
}

// Apply folds every event off events into w. Material indices carried by
// the importer's events are passed through unchanged, so they match the
// indices World.AddMaterial returns only when w holds no materials before
// Apply runs. It drains events until the channel closes, then returns the
// first error seen on errc, if any.
func Apply(w Worldish, events <-chan Event, errc <-chan error) error {
	for ev := range events {
		switch ev.Kind {
		case EventMaterial:
			if _, err := w.AddMaterial(ev.Material); err != nil {
				return err
			}
		case EventMesh:
			if _, err := w.AddMesh(ev.Mesh); err != nil {
				return err
			}
		case EventLight:
			if err := w.AddLight(ev.Light); err != nil {
				return err
			}
		case EventCamera:
			w.SetCamera(ev.Camera)
		}
	}
	select {
	case err := <-errc:
		return err
	default:
		return nil
	}
}

// Worldish is the subset of *world.World the loader needs, kept as an
// interface so loader doesn't import world directly (world stays the
// top-level aggregate that depends on everything else, not the other way
// around).
type Worldish interface {
	AddMaterial(material.Descriptor) (uint32, error)
	AddMesh(*primitive.Mesh) (uint32, error)
	AddLight(light.Light) error
	SetCamera(camera.Camera)
}
