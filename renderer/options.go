package renderer

// IntegratorKind selects which estimator (spec §4.7) the renderer drives.
type IntegratorKind string

const (
	IntegratorDirect IntegratorKind = "direct"
	IntegratorAO     IntegratorKind = "ao"
	IntegratorGI     IntegratorKind = "gi"
)

// SamplerKind selects which 2D sample generator (spec §4.8) each worker's
// stream uses.
type SamplerKind string

const (
	SamplerRandom     SamplerKind = "random"
	SamplerStratified SamplerKind = "stratified"
	SamplerCMJ        SamplerKind = "cmj"
	SamplerSobol      SamplerKind = "sobol"
)

// Options is the renderer's canonical in-process configuration, adapted
// from achilleasa-polaris/renderer/options.go's Options struct: the frame/
// sampling/bounce-budget fields are kept under the same names, and its
// GPU-device-selection fields (BlackListedDevices, ForcePrimaryDevice) are
// replaced with the CPU tile-scheduler fields spec §4.9/§5 need (tile
// size, worker count, RNG seed).
type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Tile size for the scheduler (spec §4.9: "default 64x64").
	TileW uint32
	TileH uint32

	// Number of worker goroutines; 0 means runtime.GOMAXPROCS(0).
	NumWorkers int

	// Number of indirect bounces (GI integrator only).
	NumBounces uint32

	// Min bounces before applying Russian roulette for path elimination.
	MinBouncesForRR uint32

	// Number of samples per pixel.
	SamplesPerPixel uint32

	// AO integrator's hemisphere ray count and occlusion radius.
	AOSamples int
	AORadius  float32

	Integrator IntegratorKind
	Sampler    SamplerKind

	// Exposure for tonemapping, applied as a linear scale before the
	// image plane's fixed gamma-1/2.2 tone map.
	Exposure float32

	// Master seed; per-worker, per-pixel seeds are derived from this plus
	// (tile id, pixel index) via sampler.PixelSeed (spec §5(i)).
	Seed uint64

	OutputPath string
}

// DefaultOptions returns Options with the same baseline values the teacher
// shipped for frame/bounce/sample fields, plus this repo's CPU-scheduler
// defaults.
func DefaultOptions() Options {
	return Options{
		FrameW:          1280,
		FrameH:          720,
		TileW:           64,
		TileH:           64,
		NumBounces:      8,
		MinBouncesForRR: 3,
		SamplesPerPixel: 64,
		AOSamples:       16,
		AORadius:        1e30,
		Integrator:      IntegratorGI,
		Sampler:         SamplerCMJ,
		Exposure:        1,
		OutputPath:      "out.png",
	}
}
