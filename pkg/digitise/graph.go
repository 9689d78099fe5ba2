package digitise

import (
	"fracnet/pkg/raster"
)

// pixel is a skeleton pixel coordinate, one graph node per foreground
// pixel.
type pixel struct {
	Row, Col int
}

// orthogonalOffsets are the only edge-forming steps. Diagonal adjacency
// deliberately does not connect pixels: admitting it would change node
// degrees and therefore which pixels count as junctions.
var orthogonalOffsets = [4][2]int{
	{-1, 0},
	{0, -1}, {0, 1},
	{1, 0},
}

// pixelGraph is the undirected graph over skeleton pixels. It is built
// fresh per digitising call and discarded after tracing. Nodes are kept
// in row-major insertion order so traversal is deterministic; adjacency
// lists follow the offset-table order.
type pixelGraph struct {
	nodes []pixel
	adj   map[pixel][]pixel
}

// buildGraph converts a skeleton mask into a pixel graph. Two foreground
// pixels are connected iff one is reachable from the other via exactly
// one orthogonal unit step.
func buildGraph(mask *raster.Mask) *pixelGraph {
	g := &pixelGraph{adj: make(map[pixel][]pixel)}
	for r := 0; r < mask.Rows; r++ {
		for c := 0; c < mask.Cols; c++ {
			if mask.At(r, c) {
				node := pixel{Row: r, Col: c}
				g.nodes = append(g.nodes, node)
				g.adj[node] = nil
			}
		}
	}
	for _, node := range g.nodes {
		for _, d := range orthogonalOffsets {
			nr, nc := node.Row+d[0], node.Col+d[1]
			if mask.At(nr, nc) {
				g.adj[node] = append(g.adj[node], pixel{Row: nr, Col: nc})
			}
		}
	}
	return g
}

// degree returns the number of neighbours of a node.
func (g *pixelGraph) degree(n pixel) int {
	return len(g.adj[n])
}

// edgeCount returns the number of undirected edges.
func (g *pixelGraph) edgeCount() int {
	total := 0
	for _, nbrs := range g.adj {
		total += len(nbrs)
	}
	return total / 2
}
