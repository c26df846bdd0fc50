package biovis

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// CommandType identifies the kind of render command.
type CommandType uint8

const (
	CommandMesh CommandType = iota // DrawTriangles
	CommandText                    // DrawImage of a cached text image
)

// RenderCommand is a single draw instruction emitted during scene traversal.
type RenderCommand struct {
	Type        CommandType
	Transform   [6]float64
	Alpha       float32
	RenderLayer uint8
	treeOrder   int // assigned during traversal for stable sort

	// Mesh-only fields (slice headers, not copies of vertex data).
	meshVerts []ebiten.Vertex
	meshInds  []uint16
	meshImage *ebiten.Image

	// Text-only.
	image *ebiten.Image
}

// render traverses, sorts and submits one frame.
func (s *Scene) render(target *ebiten.Image) {
	s.commands = s.commands[:0]

	var stats debugStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	treeOrder := 0
	s.traverse(s.root, identityTransform, 1, false, 0, &treeOrder)

	if s.debug {
		stats.traverseTime = time.Since(t0)
		t0 = time.Now()
	}

	s.mergeSort()

	if s.debug {
		stats.sortTime = time.Since(t0)
		stats.commandCount = len(s.commands)
		t0 = time.Now()
	}

	s.submit(target)

	if s.debug {
		stats.submitTime = time.Since(t0)
		stats.drawCallCount = len(s.commands)
		s.debugLog(stats)
	}
}

// traverse walks the node tree depth-first, updating transforms and emitting
// render commands for visible leaf nodes. Layer containers sit directly under
// the root; everything below a layer paints with that layer's RenderLayer.
func (s *Scene) traverse(n *Node, parentTransform [6]float64, parentAlpha float64, parentRecomputed bool, layer uint8, treeOrder *int) {
	if !n.Visible {
		return
	}
	if n.Parent == s.root {
		layer = n.RenderLayer
	}

	recompute := n.transformDirty || parentRecomputed
	if recompute {
		local := computeLocalTransform(n)
		n.worldTransform = multiplyAffine(parentTransform, local)
		n.worldAlpha = parentAlpha * n.Alpha
		n.transformDirty = false
	}

	switch n.Type {
	case NodeTypeMesh:
		if len(n.Vertices) == 0 || len(n.Indices) == 0 || n.worldAlpha <= 0 {
			break
		}
		tint := Color{n.Color.R, n.Color.G, n.Color.B, n.Color.A * n.worldAlpha}
		dst := ensureTransformedVerts(n)
		transformVertices(n.Vertices, dst, n.worldTransform, tint)
		*treeOrder++
		s.commands = append(s.commands, RenderCommand{
			Type:        CommandMesh,
			Transform:   n.worldTransform,
			RenderLayer: layer,
			treeOrder:   *treeOrder,
			meshVerts:   dst,
			meshInds:    n.Indices,
			meshImage:   n.MeshImage,
		})
	case NodeTypeText:
		if n.TextBlock == nil || n.worldAlpha <= 0 {
			break
		}
		img := textImage(n.TextBlock)
		if img == nil {
			break
		}
		*treeOrder++
		s.commands = append(s.commands, RenderCommand{
			Type:        CommandText,
			Transform:   n.worldTransform,
			Alpha:       float32(n.worldAlpha),
			RenderLayer: layer,
			treeOrder:   *treeOrder,
			image:       img,
		})
	}

	for _, child := range n.children {
		s.traverse(child, n.worldTransform, n.worldAlpha, recompute, layer, treeOrder)
	}
}

// --- Merge sort ---

// commandLessOrEqual returns true if a should sort before or at the same position as b.
// Using <= for treeOrder ensures stability.
func commandLessOrEqual(a, b *RenderCommand) bool {
	if a.RenderLayer != b.RenderLayer {
		return a.RenderLayer < b.RenderLayer
	}
	return a.treeOrder <= b.treeOrder
}

// mergeSort sorts s.commands in-place using s.sortBuf as scratch space.
// Bottom-up merge sort: zero allocations after the sort buffer reaches high-water mark.
func (s *Scene) mergeSort() {
	n := len(s.commands)
	if n <= 1 {
		return
	}
	if cap(s.sortBuf) < n {
		s.sortBuf = make([]RenderCommand, n)
	}
	s.sortBuf = s.sortBuf[:n]

	a := s.commands
	b := s.sortBuf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			mid := min(i+width, n)
			hi := min(i+2*width, n)
			mergeRun(a, b, i, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}

	if swapped {
		copy(s.commands, s.sortBuf)
	}
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []RenderCommand, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if commandLessOrEqual(&src[i], &src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	k += copy(dst[k:], src[i:mid])
	copy(dst[k:], src[j:hi])
}

// --- Submission ---

// submit issues one draw call per command in sorted order.
func (s *Scene) submit(target *ebiten.Image) {
	var op ebiten.DrawImageOptions
	var triOp ebiten.DrawTrianglesOptions
	for i := range s.commands {
		cmd := &s.commands[i]
		switch cmd.Type {
		case CommandMesh:
			if cmd.meshImage == nil {
				continue
			}
			target.DrawTriangles(cmd.meshVerts, cmd.meshInds, cmd.meshImage, &triOp)
		case CommandText:
			op.GeoM.Reset()
			op.GeoM.Concat(commandGeoM(cmd))
			op.ColorScale.Reset()
			op.ColorScale.ScaleAlpha(cmd.Alpha)
			target.DrawImage(cmd.image, &op)
		}
	}
}

// commandGeoM converts a command's transform into an ebiten.GeoM.
func commandGeoM(cmd *RenderCommand) ebiten.GeoM {
	var m ebiten.GeoM
	t := cmd.Transform
	m.SetElement(0, 0, t[0])
	m.SetElement(1, 0, t[1])
	m.SetElement(0, 1, t[2])
	m.SetElement(1, 1, t[3])
	m.SetElement(0, 2, t[4])
	m.SetElement(1, 2, t[5])
	return m
}
