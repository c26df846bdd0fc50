package biovis

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes everything that affects the rendered frame: surface
// size, layer visibility, and for every node in paint order its identity,
// transform, alpha, color, geometry size and text. Two equal fingerprints
// mean Draw would produce the same image, so hosts can skip redraws.
func (s *Scene) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte
	u64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = d.Write(buf[:])
	}
	f64 := func(v float64) { u64(math.Float64bits(v)) }

	u64(uint64(s.width))
	u64(uint64(s.height))
	for _, name := range s.layers.Names() {
		_, _ = d.WriteString(name)
		if !s.layers.Visible(name) {
			u64(0)
			continue
		}
		u64(1)
		for _, n := range s.layers.Layer(name).children {
			fingerprintNode(n, u64, f64, d)
		}
	}
	return d.Sum64()
}

func fingerprintNode(n *Node, u64 func(uint64), f64 func(float64), d *xxhash.Digest) {
	u64(uint64(n.ID))
	if !n.Visible {
		u64(0)
		return
	}
	f64(n.X)
	f64(n.Y)
	f64(n.ScaleX)
	f64(n.ScaleY)
	f64(n.Rotation)
	f64(n.Alpha)
	f64(n.Color.R)
	f64(n.Color.G)
	f64(n.Color.B)
	f64(n.Color.A)
	if n.Type == NodeTypeMesh {
		u64(uint64(len(n.Vertices)))
		n.recomputeMeshAABB()
		f64(n.meshAABB.X)
		f64(n.meshAABB.Y)
		f64(n.meshAABB.Width)
		f64(n.meshAABB.Height)
	}
	if n.TextBlock != nil {
		_, _ = d.WriteString(n.TextBlock.Content)
	}
	u64(uint64(len(n.children)))
	for _, c := range n.children {
		fingerprintNode(c, u64, f64, d)
	}
}
