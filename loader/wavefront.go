package loader

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/yozhijk/Banshee/asset"
	"github.com/yozhijk/Banshee/log"
	"github.com/yozhijk/Banshee/material"
	"github.com/yozhijk/Banshee/primitive"
	"github.com/yozhijk/Banshee/types"
)

// WavefrontReader imports Wavefront OBJ (+MTL) files, emitting one
// EventMaterial per `newmtl` block, one EventMesh per `g`/`o` group (or a
// single unnamed mesh if the file never names a group), and folding
// `usemtl` into per-triangle material indices.
//
// Event emission order matches World.AddMaterial's assignment order
// one-for-one: a WavefrontReader assumes it is importing into a freshly
// created world (spec §3 Lifecycle: "World is constructed once per
// render"), so the material indices it stamps into each Mesh's
// MaterialIndices match the indices World.Commit will later see, without
// needing a round-trip through the world to ask what index a name
// resolved to.
type WavefrontReader struct {
	logger log.Logger
}

// NewWavefrontReader returns a reader ready to parse OBJ scenes.
func NewWavefrontReader() *WavefrontReader {
	return &WavefrontReader{logger: log.New("loader")}
}

// Read parses the OBJ file at path, returning a lazy event channel and an
// error channel that carries at most one value (spec.md Design Notes:
// "the importer yields a lazy sequence of events").
func (r *WavefrontReader) Read(path string) (<-chan Event, <-chan error) {
	events := make(chan Event)
	errc := make(chan error, 1)

	go func() {
		defer close(events)
		defer close(errc)
		if err := r.parse(path, events); err != nil {
			errc <- err
		}
	}()

	return events, errc
}

type wavefrontState struct {
	positions []types.Vec3
	normals   []types.Vec3
	uvs       []types.Vec2

	matNameToIndex map[string]uint32
	nextMatIndex   uint32
	curMaterial    uint32
	haveMaterial   bool

	mesh *primitive.Mesh
}

func newWavefrontState() *wavefrontState {
	return &wavefrontState{
		matNameToIndex: make(map[string]uint32),
	}
}

func (r *WavefrontReader) parse(path string, events chan<- Event) error {
	res, err := asset.NewResource(path, nil)
	if err != nil {
		return fmt.Errorf("loader: %s: %w", path, err)
	}
	defer res.Close()

	r.logger.Debugf("loader: parsing %s", path)

	st := newWavefrontState()
	scanner := bufio.NewScanner(res)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if err := r.dispatch(res, st, fields, events); err != nil {
			return fmt.Errorf("loader: %s:%d: %w", path, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("loader: %s: %w", path, err)
	}

	r.flushMesh(st, events)
	return nil
}

func (r *WavefrontReader) dispatch(res *asset.Resource, st *wavefrontState, fields []string, events chan<- Event) error {
	switch fields[0] {
	case "v":
		v, err := parseVec3(fields[1:])
		if err != nil {
			return err
		}
		st.positions = append(st.positions, v)
	case "vn":
		v, err := parseVec3(fields[1:])
		if err != nil {
			return err
		}
		st.normals = append(st.normals, v)
	case "vt":
		v, err := parseVec2(fields[1:])
		if err != nil {
			return err
		}
		st.uvs = append(st.uvs, v)
	case "g", "o":
		name := ""
		if len(fields) > 1 {
			name = fields[1]
		}
		r.flushMesh(st, events)
		st.mesh = primitive.NewMesh(name)
	case "usemtl":
		if len(fields) < 2 {
			return fmt.Errorf("usemtl: missing material name")
		}
		idx, ok := st.matNameToIndex[fields[1]]
		if !ok {
			return fmt.Errorf("usemtl: undefined material %q (missing mtllib?)", fields[1])
		}
		st.curMaterial = idx
		st.haveMaterial = true
	case "mtllib":
		if len(fields) < 2 {
			return fmt.Errorf("mtllib: missing filename")
		}
		matRes, err := asset.NewResource(fields[1], res)
		if err != nil {
			return fmt.Errorf("mtllib %s: %w", fields[1], err)
		}
		defer matRes.Close()
		return r.parseMaterials(matRes, st, events)
	case "f":
		return r.parseFace(st, fields[1:])
	default:
		// Unsupported directive (s, l, p, vp, ...): ignored.
	}
	return nil
}

func (r *WavefrontReader) flushMesh(st *wavefrontState, events chan<- Event) {
	if st.mesh == nil || len(st.mesh.Indices) == 0 {
		st.mesh = nil
		return
	}
	events <- Event{Kind: EventMesh, Mesh: st.mesh}
	st.mesh = nil
}

func (r *WavefrontReader) parseFace(st *wavefrontState, tokens []string) error {
	if len(tokens) < 3 {
		return fmt.Errorf("face: need at least 3 vertices, got %d", len(tokens))
	}
	if st.mesh == nil {
		st.mesh = primitive.NewMesh("")
	}
	if !st.haveMaterial {
		return fmt.Errorf("face: no active material (missing usemtl?)")
	}

	type faceVertex struct {
		pos, uv, n int
	}

	verts := make([]faceVertex, len(tokens))
	for i, tok := range tokens {
		fv, err := parseFaceVertex(tok, len(st.positions), len(st.uvs), len(st.normals))
		if err != nil {
			return err
		}
		verts[i] = fv
	}

	// Fan-triangulate polygons with more than 3 vertices.
	for i := 1; i+1 < len(verts); i++ {
		tri := [3]faceVertex{verts[0], verts[i], verts[i+1]}
		for _, fv := range tri {
			st.mesh.Positions = append(st.mesh.Positions, st.positions[fv.pos])
			if fv.n >= 0 {
				st.mesh.Normals = append(st.mesh.Normals, st.normals[fv.n])
			}
			if fv.uv >= 0 {
				st.mesh.UVs = append(st.mesh.UVs, st.uvs[fv.uv])
			}
			st.mesh.Indices = append(st.mesh.Indices, uint32(len(st.mesh.Positions)-1))
		}
		st.mesh.MaterialIndices = append(st.mesh.MaterialIndices, st.curMaterial)
	}

	// A face mixing vertices with and without normals/uvs would leave the
	// buffers ragged; Normals/UVs are only meaningful per-mesh as "all
	// present or all absent" (spec §3).
	if len(st.mesh.Normals) != 0 && len(st.mesh.Normals) != len(st.mesh.Positions) {
		st.mesh.Normals = nil
	}
	if len(st.mesh.UVs) != 0 && len(st.mesh.UVs) != len(st.mesh.Positions) {
		st.mesh.UVs = nil
	}

	return nil
}

func parseFaceVertex(tok string, numPos, numUV, numN int) (struct{ pos, uv, n int }, error) {
	parts := strings.Split(tok, "/")
	pos, err := parseObjIndex(parts[0], numPos)
	if err != nil {
		return struct{ pos, uv, n int }{}, err
	}

	uv := -1
	n := -1
	if len(parts) > 1 && parts[1] != "" {
		uv, err = parseObjIndex(parts[1], numUV)
		if err != nil {
			return struct{ pos, uv, n int }{}, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		n, err = parseObjIndex(parts[2], numN)
		if err != nil {
			return struct{ pos, uv, n int }{}, err
		}
	}
	return struct{ pos, uv, n int }{pos: pos, uv: uv, n: n}, nil
}

// parseObjIndex resolves a 1-based (or negative, relative-to-end) OBJ index
// into a 0-based slice index.
func parseObjIndex(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad index %q: %w", s, err)
	}
	if i < 0 {
		i = count + i
	} else {
		i--
	}
	if i < 0 || i >= count {
		return 0, fmt.Errorf("index %s out of range (have %d)", s, count)
	}
	return i, nil
}

func parseVec3(fields []string) (types.Vec3, error) {
	if len(fields) < 3 {
		return types.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	var v types.Vec3
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return types.Vec3{}, err
		}
		v[i] = float32(f)
	}
	return v, nil
}

func parseVec2(fields []string) (types.Vec2, error) {
	if len(fields) < 2 {
		return types.Vec2{}, fmt.Errorf("expected 2 components, got %d", len(fields))
	}
	var v types.Vec2
	for i := 0; i < 2; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return types.Vec2{}, err
		}
		v[i] = float32(f)
	}
	return v, nil
}

// parseMaterials reads a .mtl library, emitting one EventMaterial per
// `newmtl` block and recording the name -> index mapping usemtl resolves
// against.
func (r *WavefrontReader) parseMaterials(res *asset.Resource, st *wavefrontState, events chan<- Event) error {
	scanner := bufio.NewScanner(res)

	var cur material.Descriptor
	var curName string
	haveCur := false

	emit := func() {
		if !haveCur {
			return
		}
		idx := st.nextMatIndex
		st.nextMatIndex++
		st.matNameToIndex[curName] = idx
		events <- Event{Kind: EventMaterial, Material: cur}
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "newmtl":
			emit()
			curName = fields[1]
			cur = material.Descriptor{Kind: material.KindDiffuse, IOR: 1}
			haveCur = true
		case "Kd":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return fmt.Errorf("Kd: %w", err)
			}
			cur.Albedo = v
		case "Ks":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return fmt.Errorf("Ks: %w", err)
			}
			cur.Specular = v
			if v[0] > 0 || v[1] > 0 || v[2] > 0 {
				cur.Kind = material.KindPhong
			}
		case "Ke":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return fmt.Errorf("Ke: %w", err)
			}
			cur.Emissive = v
		case "Ni":
			f, err := strconv.ParseFloat(fields[1], 32)
			if err != nil {
				return fmt.Errorf("Ni: %w", err)
			}
			cur.IOR = float32(f)
		case "Ns":
			f, err := strconv.ParseFloat(fields[1], 32)
			if err != nil {
				return fmt.Errorf("Ns: %w", err)
			}
			cur.Roughness = float32(f)
		default:
			// map_Kd/map_Ks/map_Ke/illum/... : not modeled as separate
			// texture indices here; a textured workflow resolves names
			// through texture.Library by material name instead.
		}
	}
	emit()
	return scanner.Err()
}
