package renderer

import "time"

// TileStat records one completed tile's timing, adapted from
// achilleasa-polaris/renderer/stats.go's TracerStat (per-device block
// stats) to a per-tile equivalent for the CPU scheduler.
type TileStat struct {
	// The tile id (row-major order across the frame).
	ID int

	// Tile bounds, in pixels.
	X, Y, W, H int

	// Render time for this tile.
	RenderTime time.Duration
}

// FrameStats aggregates every tile's stats for a completed frame.
type FrameStats struct {
	Tiles []TileStat

	// Total render time for the entire frame.
	RenderTime time.Duration
}
