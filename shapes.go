package biovis

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// defaultCurveSegments is the subdivision count used for ellipses and curves
// when the caller passes a non-positive value.
const defaultCurveSegments = 32

// --- Polygon ---

// NewPolygon creates an untextured polygon mesh from the given vertices.
// Uses fan triangulation (convex polygons). The polygon is drawn with a shared
// 1x1 white pixel image; color comes from the node's Color field.
func NewPolygon(name string, points []Vec2) *Node {
	verts, inds := buildPolygonFan(points)
	return NewMesh(name, ensureWhitePixel(), verts, inds)
}

// SetPolygonPoints updates the polygon's vertices. Maintains fan triangulation.
func SetPolygonPoints(n *Node, points []Vec2) {
	verts, inds := buildPolygonFan(points)
	setMesh(n, verts, inds)
}

// NewEllipse creates a filled ellipse centered on (cx, cy).
func NewEllipse(name string, cx, cy, rx, ry float64, segments int) *Node {
	return NewPolygon(name, EllipsePoints(cx, cy, rx, ry, segments))
}

// NewCircle creates a filled circle centered on (cx, cy).
func NewCircle(name string, cx, cy, r float64) *Node {
	return NewEllipse(name, cx, cy, r, r, 0)
}

// EllipsePoints returns segments points evenly spaced around an ellipse,
// starting at angle 0 and winding clockwise in screen space.
func EllipsePoints(cx, cy, rx, ry float64, segments int) []Vec2 {
	if segments < 3 {
		segments = defaultCurveSegments
	}
	pts := make([]Vec2, segments)
	for i := range pts {
		a := float64(i) / float64(segments) * 2 * math.Pi
		pts[i] = Vec2{X: cx + math.Cos(a)*rx, Y: cy + math.Sin(a)*ry}
	}
	return pts
}

// buildPolygonFan generates vertices and indices for a fan-triangulated polygon.
// N vertices, 3*(N-2) indices.
func buildPolygonFan(points []Vec2) ([]ebiten.Vertex, []uint16) {
	n := len(points)
	if n < 3 {
		return nil, nil
	}

	verts := make([]ebiten.Vertex, n)
	inds := make([]uint16, (n-2)*3)

	for i, p := range points {
		verts[i] = solidVertex(p.X, p.Y)
	}

	// Fan triangulation: vertex 0 is the hub.
	for i := 0; i < n-2; i++ {
		inds[i*3+0] = 0
		inds[i*3+1] = uint16(i + 1)
		inds[i*3+2] = uint16(i + 2)
	}

	return verts, inds
}

// --- Stroke ---

// NewStroke creates a ribbon mesh of the given width following points. When
// closed is true the last point joins back to the first.
func NewStroke(name string, points []Vec2, width float64, closed bool) *Node {
	verts, inds := buildStroke(points, width, closed)
	return NewMesh(name, ensureWhitePixel(), verts, inds)
}

// SetStrokePoints rebuilds a stroke mesh along new points.
func SetStrokePoints(n *Node, points []Vec2, width float64, closed bool) {
	verts, inds := buildStroke(points, width, closed)
	setMesh(n, verts, inds)
}

// buildStroke generates a miter-joined ribbon. For N points: 2N vertices,
// 6(N-1) indices (one extra segment when closed).
func buildStroke(points []Vec2, width float64, closed bool) ([]ebiten.Vertex, []uint16) {
	if closed && len(points) > 2 {
		pts := make([]Vec2, len(points)+1)
		copy(pts, points)
		pts[len(points)] = points[0]
		points = pts
	}
	n := len(points)
	if n < 2 {
		return nil, nil
	}

	verts := make([]ebiten.Vertex, n*2)
	inds := make([]uint16, (n-1)*6)
	halfW := width / 2

	for i := 0; i < n; i++ {
		var nx, ny float64
		switch {
		case i == 0:
			nx, ny = perpendicular(points[0], points[1])
		case i == n-1:
			nx, ny = perpendicular(points[n-2], points[n-1])
		default:
			// Average of adjacent segment normals (miter).
			nx0, ny0 := perpendicular(points[i-1], points[i])
			nx1, ny1 := perpendicular(points[i], points[i+1])
			nx, ny = nx0+nx1, ny0+ny1
			ln := math.Sqrt(nx*nx + ny*ny)
			if ln > 1e-10 {
				nx /= ln
				ny /= ln
			}
			// Clamp the miter extension to 2x to avoid spikes at sharp corners.
			dot := nx0*nx + ny0*ny
			if dot > 0.1 {
				scale := math.Min(1.0/dot, 2.0)
				nx *= scale
				ny *= scale
			}
		}

		verts[i*2] = solidVertex(points[i].X+nx*halfW, points[i].Y+ny*halfW)
		verts[i*2+1] = solidVertex(points[i].X-nx*halfW, points[i].Y-ny*halfW)
	}

	// Two triangles per segment.
	for i := 0; i < n-1; i++ {
		writeQuadIndices(inds[i*6:], uint16(i*2))
	}

	return verts, inds
}

// --- Dashed line ---

// NewDashedLine creates a straight dashed stroke from a to b. Each dash is a
// separate quad in one mesh, so the whole line draws in a single call.
func NewDashedLine(name string, a, b Vec2, width, dash, gap float64) *Node {
	verts, inds := buildDashedLine(a, b, width, dash, gap)
	return NewMesh(name, ensureWhitePixel(), verts, inds)
}

func buildDashedLine(a, b Vec2, width, dash, gap float64) ([]ebiten.Vertex, []uint16) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	length := math.Sqrt(dx*dx + dy*dy)
	if length < 1e-10 || dash <= 0 {
		return nil, nil
	}
	if gap < 0 {
		gap = 0
	}
	ux, uy := dx/length, dy/length
	nx, ny := perpendicular(a, b)
	halfW := width / 2

	var verts []ebiten.Vertex
	var inds []uint16
	for start := 0.0; start < length; start += dash + gap {
		end := math.Min(start+dash, length)
		sx, sy := a.X+ux*start, a.Y+uy*start
		ex, ey := a.X+ux*end, a.Y+uy*end
		base := uint16(len(verts))
		verts = append(verts,
			solidVertex(sx+nx*halfW, sy+ny*halfW),
			solidVertex(sx-nx*halfW, sy-ny*halfW),
			solidVertex(ex+nx*halfW, ey+ny*halfW),
			solidVertex(ex-nx*halfW, ey-ny*halfW),
		)
		inds = append(inds, make([]uint16, 6)...)
		writeQuadIndices(inds[len(inds)-6:], base)
	}
	return verts, inds
}

// --- Curves ---

// QuadBezierPoints samples a quadratic Bézier from a to b with control c.
func QuadBezierPoints(a, c, b Vec2, segments int) []Vec2 {
	if segments <= 0 {
		segments = defaultCurveSegments
	}
	pts := make([]Vec2, segments+1)
	for i := range pts {
		t := float64(i) / float64(segments)
		u := 1 - t
		pts[i] = Vec2{
			X: u*u*a.X + 2*u*t*c.X + t*t*b.X,
			Y: u*u*a.Y + 2*u*t*c.Y + t*t*b.Y,
		}
	}
	return pts
}

// CubicBezierPoints samples a cubic Bézier from a to b with controls c1, c2.
func CubicBezierPoints(a, c1, c2, b Vec2, segments int) []Vec2 {
	if segments <= 0 {
		segments = defaultCurveSegments
	}
	pts := make([]Vec2, segments+1)
	for i := range pts {
		t := float64(i) / float64(segments)
		u := 1 - t
		u2 := u * u
		t2 := t * t
		pts[i] = Vec2{
			X: u2*u*a.X + 3*u2*t*c1.X + 3*u*t2*c2.X + t2*t*b.X,
			Y: u2*u*a.Y + 3*u2*t*c1.Y + 3*u*t2*c2.Y + t2*t*b.Y,
		}
	}
	return pts
}

// --- helpers ---

// perpendicular returns the unit left-perpendicular of the segment from a to b.
func perpendicular(a, b Vec2) (float64, float64) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	ln := math.Sqrt(dx*dx + dy*dy)
	if ln < 1e-10 {
		return 0, -1
	}
	return -dy / ln, dx / ln
}

// solidVertex maps a point to the center of the white pixel with an opaque
// white vertex color; the node's Color tints it at render time.
func solidVertex(x, y float64) ebiten.Vertex {
	return ebiten.Vertex{
		DstX:   float32(x),
		DstY:   float32(y),
		SrcX:   0.5,
		SrcY:   0.5,
		ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
	}
}

// writeQuadIndices writes the two triangles of the quad whose first vertex
// is v into dst[0:6]. Vertex order is (top0, bottom0, top1, bottom1).
func writeQuadIndices(dst []uint16, v uint16) {
	dst[0] = v
	dst[1] = v + 1
	dst[2] = v + 2
	dst[3] = v + 1
	dst[4] = v + 3
	dst[5] = v + 2
}

// setMesh replaces a mesh node's geometry, reusing backing arrays when possible.
func setMesh(n *Node, verts []ebiten.Vertex, inds []uint16) {
	if cap(n.Vertices) >= len(verts) {
		n.Vertices = n.Vertices[:len(verts)]
		copy(n.Vertices, verts)
	} else {
		n.Vertices = verts
	}
	if cap(n.Indices) >= len(inds) {
		n.Indices = n.Indices[:len(inds)]
		copy(n.Indices, inds)
	} else {
		n.Indices = inds
	}
	n.InvalidateMeshAABB()
}
