package renderer

// Tile is one rectangular region of the frame, the unit of parallelism
// (spec §4.9: "Image is partitioned into Tx x Ty tiles of a fixed size").
type Tile struct {
	ID   int
	X, Y int
	W, H int
}

// tiles partitions a width x height frame into tileW x tileH tiles in
// row-major order, clipping the last tile in each row/column to the frame
// bounds.
func tiles(width, height, tileW, tileH int) []Tile {
	var out []Tile
	id := 0
	for y := 0; y < height; y += tileH {
		h := tileH
		if y+h > height {
			h = height - y
		}
		for x := 0; x < width; x += tileW {
			w := tileW
			if x+w > width {
				w = width - x
			}
			out = append(out, Tile{ID: id, X: x, Y: y, W: w, H: h})
			id++
		}
	}
	return out
}
