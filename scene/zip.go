package scene

import (
	"archive/zip"
	"encoding/gob"
	"fmt"
	"os"
	"time"

	"github.com/yozhijk/Banshee/camera"
	"github.com/yozhijk/Banshee/light"
	"github.com/yozhijk/Banshee/loader"
	"github.com/yozhijk/Banshee/log"
)

const dataFile = "scene.bin"

var logger = log.New("scene")

// FromEvents drains a loader's event stream into a Snapshot, resolving
// EventLight payloads down to the two gob-friendly concrete light kinds
// this format supports; any other light kind (area lights are discovered
// from materials at World.Commit time, never emitted by a loader) is an
// error.
func FromEvents(events <-chan loader.Event, errc <-chan error) (*Snapshot, error) {
	snap := NewSnapshot()
	for ev := range events {
		switch ev.Kind {
		case loader.EventMaterial:
			snap.Materials = append(snap.Materials, ev.Material)
		case loader.EventMesh:
			snap.Meshes = append(snap.Meshes, ev.Mesh)
		case loader.EventLight:
			switch l := ev.Light.(type) {
			case light.Point:
				snap.PointLights = append(snap.PointLights, PointLight{Position: l.Position, Intensity: l.Intensity})
			case light.Directional:
				snap.DirectionalLights = append(snap.DirectionalLights, DirectionalLight{Direction: l.Direction, Intensity: l.Intensity})
			default:
				return nil, fmt.Errorf("scene: unsupported light kind in compiled format: %T", l)
			}
		case loader.EventCamera:
			// Wavefront imports never emit this; a camera is set
			// explicitly by the caller instead.
		}
	}
	select {
	case err := <-errc:
		return nil, err
	default:
	}
	return snap, nil
}

// ApplyTo folds the snapshot into w: materials first (so meshes' material
// indices resolve), then meshes, lights and the camera.
func (s *Snapshot) ApplyTo(w loader.Worldish) error {
	for _, d := range s.Materials {
		if _, err := w.AddMaterial(d); err != nil {
			return err
		}
	}
	for _, m := range s.Meshes {
		if _, err := w.AddMesh(m); err != nil {
			return err
		}
	}
	for _, pl := range s.PointLights {
		if err := w.AddLight(light.Point{Position: pl.Position, Intensity: pl.Intensity}); err != nil {
			return err
		}
	}
	for _, dl := range s.DirectionalLights {
		if err := w.AddLight(light.Directional{Direction: dl.Direction, Intensity: dl.Intensity}); err != nil {
			return err
		}
	}
	w.SetCamera(camera.NewPerspective(s.Camera.Eye, s.Camera.LookAt, s.Camera.WorldUp, s.Camera.FovY, 1))
	return nil
}

// Save writes the snapshot to a zip archive containing one gob-encoded
// entry, grounded on achilleasa-polaris/scene/writer/zip.go's
// zipSceneWriter.Write.
func Save(s *Snapshot, path string) error {
	start := time.Now()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	defer zw.Close()

	w, err := zw.Create(dataFile)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(w).Encode(s); err != nil {
		return err
	}

	logger.Debugf("scene: wrote %s in %s", path, time.Since(start))
	return nil
}

// Load reads back a snapshot written by Save.
func Load(path string) (*Snapshot, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != dataFile {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()

		snap := NewSnapshot()
		if err := gob.NewDecoder(rc).Decode(snap); err != nil {
			return nil, err
		}
		return snap, nil
	}

	return nil, fmt.Errorf("scene: %s does not contain %s", path, dataFile)
}
