// Package texture implements the texture-system contract from spec §6:
// sample(name, uv, duvdx) -> rgb, info(name) -> (width, height, channels),
// tolerating a missing texture by returning the caller's fallback color.
//
// Loading is grounded on achilleasa-polaris/asset/texure/texture.go's use of
// openimageigo, adapted from that file's GPU-friendly packed-byte/float
// buffers (built for OpenCL texture addressing, which this CPU renderer has
// no use for) to a plain []types.Vec3 pixel array.
package texture

import (
	"fmt"
	"io"
	"os"

	"github.com/achilleasa/openimageigo"

	"github.com/yozhijk/Banshee/asset"
	"github.com/yozhijk/Banshee/log"
	"github.com/yozhijk/Banshee/types"
)

// Image is a decoded texture in linear-ish float RGB, row-major from the top
// left, addressed with repeat (wraparound) semantics — the natural
// addressing mode for a lat-long environment map (spec §4.6).
type Image struct {
	Width, Height int
	Data          []types.Vec3
}

// At fetches a texel, wrapping out-of-range coordinates.
func (img *Image) At(x, y int) types.Vec3 {
	x = wrap(x, img.Width)
	y = wrap(y, img.Height)
	return img.Data[y*img.Width+x]
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Sample performs bilinear filtering at uv ∈ [0,1)². Anisotropic/mip
// filtering against a ray footprint (duvdx) is out of scope (spec.md lists
// texture filtering among the core's external collaborators, not something
// the core itself implements) — the texture-system contract's duvdx
// parameter is accepted at the Library level for interface completeness but
// unused here.
func (img *Image) Sample(uv types.Vec2) types.Vec3 {
	fx := uv[0]*float32(img.Width) - 0.5
	fy := uv[1]*float32(img.Height) - 0.5
	x0 := int(floor(fx))
	y0 := int(floor(fy))
	tx := fx - floor(fx)
	ty := fy - floor(fy)

	c00 := img.At(x0, y0)
	c10 := img.At(x0+1, y0)
	c01 := img.At(x0, y0+1)
	c11 := img.At(x0+1, y0+1)

	top := c00.Mul(1 - tx).Add(c10.Mul(tx))
	bottom := c01.Mul(1 - tx).Add(c11.Mul(tx))
	return top.Mul(1 - ty).Add(bottom.Mul(ty))
}

func floor(v float32) float32 {
	i := float32(int(v))
	if v < 0 && i != v {
		return i - 1
	}
	return i
}

// Load decodes an image resource via OpenImageIO, converting whatever pixel
// format the file uses into a []types.Vec3 buffer.
func Load(res *asset.Resource) (*Image, error) {
	pathToFile := res.Path()
	if res.IsRemote() {
		tmp := os.TempDir() + "/" + res.RemotePath()
		f, err := os.Create(tmp)
		if err != nil {
			return nil, err
		}
		defer os.Remove(tmp)
		if _, err := io.Copy(f, res); err != nil {
			f.Close()
			return nil, err
		}
		f.Close()
		pathToFile = tmp
	}

	input, err := oiio.OpenImageInput(pathToFile)
	if err != nil {
		return nil, err
	}
	defer input.Close()

	spec := input.Spec()
	channels := spec.NumChannels()
	if channels != 1 && channels != 3 && channels != 4 {
		return nil, fmt.Errorf("texture: unsupported channel count %d loading %s", channels, res.Path())
	}
	if spec.Depth() != 1 {
		return nil, fmt.Errorf("texture: unsupported depth %d loading %s", spec.Depth(), res.Path())
	}

	raw, err := input.ReadImageFormat(oiio.TypeFloat, nil)
	if err != nil {
		return nil, fmt.Errorf("texture: could not read %s: %s", res.Path(), err.Error())
	}
	pixels, ok := raw.([]float32)
	if !ok {
		return nil, fmt.Errorf("texture: unexpected pixel type reading %s", res.Path())
	}

	w, h := spec.Width(), spec.Height()
	img := &Image{Width: w, Height: h, Data: make([]types.Vec3, w*h)}
	for i := 0; i < w*h; i++ {
		switch channels {
		case 1:
			v := pixels[i]
			img.Data[i] = types.Vec3{v, v, v}
		default:
			base := i * channels
			img.Data[i] = types.Vec3{pixels[base], pixels[base+1], pixels[base+2]}
		}
	}
	return img, nil
}

// Library is the runtime texture table keyed by the name assigned during
// scene import (spec §6's texture-system contract).
type Library struct {
	images   map[string]*Image
	fallback types.Vec3
	logger   log.Logger
}

// NewLibrary returns an empty library that reports fallback for any name it
// doesn't hold, per spec §7's "Texture missing -> fallback color" policy.
func NewLibrary(fallback types.Vec3) *Library {
	return &Library{images: make(map[string]*Image), fallback: fallback, logger: log.New("texture")}
}

// Load decodes res and stores it under name.
func (l *Library) Load(name string, res *asset.Resource) error {
	img, err := Load(res)
	if err != nil {
		l.logger.Warningf("texture: failed to load %q: %s", name, err)
		return err
	}
	l.images[name] = img
	return nil
}

// Sample returns the filtered color at uv, or the library's fallback if name
// isn't loaded.
func (l *Library) Sample(name string, uv types.Vec2, duvdx types.Vec2) types.Vec3 {
	img, ok := l.images[name]
	if !ok {
		return l.fallback
	}
	return img.Sample(uv)
}

// Info reports a loaded texture's dimensions and channel count.
func (l *Library) Info(name string) (width, height, channels int, ok bool) {
	img, found := l.images[name]
	if !found {
		return 0, 0, 0, false
	}
	return img.Width, img.Height, 3, true
}
