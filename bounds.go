package biovis

import "math"

// WorldBounds returns the axis-aligned bounding box of the node and all its
// descendants in scene coordinates. Containers contribute nothing on their
// own; a subtree with no meshes or measured text yields a zero Rect.
func (n *Node) WorldBounds() Rect {
	var r Rect
	first := true
	subtreeBoundsWalk(n, composedTransform(n), &r, &first)
	return r
}

// LocalBounds returns the subtree's bounding box in the node's own
// coordinate space.
func (n *Node) LocalBounds() Rect {
	var r Rect
	first := true
	subtreeBoundsWalk(n, identityTransform, &r, &first)
	return r
}

// subtreeBoundsWalk recursively accumulates bounds.
func subtreeBoundsWalk(n *Node, transform [6]float64, bounds *Rect, first *bool) {
	var aabb Rect
	var hasAABB bool

	switch n.Type {
	case NodeTypeMesh:
		aabb = meshWorldAABB(n, transform)
		hasAABB = aabb.Width > 0 || aabb.Height > 0
	case NodeTypeText:
		w, h := textDimensions(n)
		if w > 0 && h > 0 {
			aabb = worldAABB(transform, w, h)
			hasAABB = true
		}
	}

	if hasAABB {
		if *first {
			*bounds = aabb
			*first = false
		} else {
			*bounds = rectUnion(*bounds, aabb)
		}
	}

	for _, child := range n.children {
		childTransform := multiplyAffine(transform, computeLocalTransform(child))
		subtreeBoundsWalk(child, childTransform, bounds, first)
	}
}

// worldAABB computes the axis-aligned bounding box for a rectangle of size (w, h)
// transformed by the given affine matrix. Zero allocations.
func worldAABB(transform [6]float64, w, h float64) Rect {
	a, b, cc, d, tx, ty := transform[0], transform[2], transform[1], transform[3], transform[4], transform[5]

	// Transform four corners: (0,0), (w,0), (w,h), (0,h)
	x0, y0 := tx, ty
	x1, y1 := a*w+tx, cc*w+ty
	x2, y2 := a*w+b*h+tx, cc*w+d*h+ty
	x3, y3 := b*h+tx, d*h+ty

	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// textDimensions returns the measured size of a text node.
func textDimensions(n *Node) (w, h float64) {
	if n.TextBlock == nil {
		return 0, 0
	}
	n.TextBlock.layout()
	return n.TextBlock.measuredW, n.TextBlock.measuredH
}
