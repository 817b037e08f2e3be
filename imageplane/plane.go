// Package imageplane implements the pixel accumulator and tone-mapped file
// output of spec §6's image-plane contract: prepare(), add_sample(pixel,
// radiance) (thread-safe across disjoint pixels), finalize() (tone-map and
// write).
//
// Grounded on
// original_source/FireRays/Banshee/imageplane/fileimageplane.h's
// Prepare/AddSample/Finalize shape, generalized from its unfiltered
// float3-per-pixel accumulator to the (r,g,b,weight) accumulator spec §3
// calls for plus a pluggable reconstruction Filter.
package imageplane

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/tiff"

	"github.com/yozhijk/Banshee/types"
)

const invGamma = 1.0 / 2.2

// pixel holds the running (r, g, b, weight) accumulator for one output
// pixel (spec §3, §6).
type pixel struct {
	rgb    types.Vec3
	weight float32
}

// Plane is the image accumulator the renderer's tile workers write into.
// Each tile owns a disjoint set of pixels, so AddSample needs no locking
// across tiles (spec §5: "each tile writes disjoint pixels; no locking
// required during rendering").
type Plane struct {
	Width, Height int
	Filter        Filter

	pixels []pixel
}

// NewPlane allocates a plane of the given resolution. A nil filter defaults
// to Box (one sample, one pixel, weight 1).
func NewPlane(width, height int, filter Filter) *Plane {
	if filter == nil {
		filter = Box{}
	}
	return &Plane{
		Width:  width,
		Height: height,
		Filter: filter,
		pixels: make([]pixel, width*height),
	}
}

// Prepare resets every accumulator to zero, called once before rendering
// begins.
func (p *Plane) Prepare() {
	for i := range p.pixels {
		p.pixels[i] = pixel{}
	}
}

// AddSample splats radiance for a sample at continuous image-plane
// coordinate (x, y) (pixel units, not [0,1) uv) across every pixel within
// the filter's radius. Safe to call concurrently from multiple tile workers
// as long as two workers never touch the same pixel (spec §5).
func (p *Plane) AddSample(x, y float32, radiance types.Vec3) {
	if !isFiniteVec3(radiance) {
		return
	}

	r := p.Filter.Radius()
	x0 := clampInt(int(math.Floor(float64(x-r))), 0, p.Width-1)
	x1 := clampInt(int(math.Ceil(float64(x+r))), 0, p.Width-1)
	y0 := clampInt(int(math.Floor(float64(y-r))), 0, p.Height-1)
	y1 := clampInt(int(math.Ceil(float64(y+r))), 0, p.Height-1)

	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			dx := (float32(px) + 0.5) - x
			dy := (float32(py) + 0.5) - y
			w := p.Filter.Evaluate(dx, dy)
			if w <= 0 {
				continue
			}
			idx := py*p.Width + px
			p.pixels[idx].rgb = p.pixels[idx].rgb.Add(radiance.Mul(w))
			p.pixels[idx].weight += w
		}
	}
}

// At returns the normalized (pre-tone-map) linear radiance of pixel (x, y).
func (p *Plane) At(x, y int) types.Vec3 {
	px := p.pixels[y*p.Width+x]
	if px.weight <= 0 {
		return types.Vec3{}
	}
	return px.rgb.Mul(1 / px.weight)
}

// Finalize tone-maps (gamma 1/2.2, spec §6) and writes the plane to path as
// PNG.
func (p *Plane) Finalize(path string) error {
	img := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			c := tonemap(p.At(x, y))
			img.SetRGBA(x, y, c)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// FinalizeLinearTIFF writes the plane's linear (un-tone-mapped) radiance to
// path as a 16-bit TIFF, for workflows that want to apply their own tone
// mapping downstream instead of spec §6's baked-in gamma 1/2.2.
func (p *Plane) FinalizeLinearTIFF(path string) error {
	img := image.NewRGBA64(image.Rect(0, 0, p.Width, p.Height))
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			c := p.At(x, y)
			img.SetRGBA64(x, y, color.RGBA64{
				R: toUint16(c[0]),
				G: toUint16(c[1]),
				B: toUint16(c[2]),
				A: 0xffff,
			})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return tiff.Encode(f, img, nil)
}

func tonemap(c types.Vec3) color.RGBA {
	return color.RGBA{
		R: toUint8(gammaf(c[0])),
		G: toUint8(gammaf(c[1])),
		B: toUint8(gammaf(c[2])),
		A: 0xff,
	}
}

func gammaf(v float32) float32 {
	if v < 0 {
		v = 0
	}
	return float32(math.Pow(float64(v), invGamma))
}

func toUint8(v float32) uint8 {
	v = clampf(v, 0, 1)
	return uint8(v*255 + 0.5)
}

func toUint16(v float32) uint16 {
	v = clampf(v, 0, 1)
	return uint16(v*65535 + 0.5)
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func isFiniteVec3(v types.Vec3) bool {
	for i := 0; i < 3; i++ {
		if math.IsNaN(float64(v[i])) || math.IsInf(float64(v[i]), 0) {
			return false
		}
	}
	return true
}
