package digitise

// edgeKey is a normalized (unordered) edge identifier.
type edgeKey [2]pixel

func newEdgeKey(a, b pixel) edgeKey {
	if b.Row < a.Row || (b.Row == a.Row && b.Col < a.Col) {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// traceLines walks the pixel graph and emits one pixel path per maximal
// simple branch between significant nodes (degree != 2), then one closed
// path per leftover simple cycle. The visited-edge set accumulates
// across both passes and is never reset mid-pass.
func traceLines(g *pixelGraph) [][]pixel {
	visited := make(map[edgeKey]struct{})
	var paths [][]pixel

	// Pass 1: branches. Start from every significant node and trace each
	// unvisited edge leaving it through the chain of degree-2 nodes.
	for _, node := range g.nodes {
		if g.degree(node) == 2 {
			continue
		}
		for _, nbr := range g.adj[node] {
			if _, seen := visited[newEdgeKey(node, nbr)]; seen {
				continue
			}
			paths = append(paths, walkPath(g, node, nbr, visited))
		}
	}

	// Pass 2: residual cycles. Any edge still unvisited lies on a loop
	// where every node has degree exactly 2.
	for _, node := range g.nodes {
		for _, nbr := range g.adj[node] {
			if _, seen := visited[newEdgeKey(node, nbr)]; seen {
				continue
			}
			paths = append(paths, walkCycle(g, node, nbr, visited))
		}
	}
	return paths
}

// walkPath traces forward from start through neighbour until it reaches
// a node that is not a pass-through (degree 2 with exactly one onward
// neighbour).
func walkPath(g *pixelGraph, start, neighbour pixel, visited map[edgeKey]struct{}) []pixel {
	path := []pixel{start}
	previous := start
	current := neighbour
	visited[newEdgeKey(start, neighbour)] = struct{}{}

	for {
		path = append(path, current)
		var onward []pixel
		for _, n := range g.adj[current] {
			if n != previous {
				onward = append(onward, n)
			}
		}
		if len(onward) != 1 || g.degree(current) != 2 {
			return path
		}
		next := onward[0]
		visited[newEdgeKey(current, next)] = struct{}{}
		previous, current = current, next
	}
}

// walkCycle traces forward until it is back at the start node, closing
// the ring, or until no unvisited-consistent next hop exists (guard
// against malformed input). The returned path always ends at start.
func walkCycle(g *pixelGraph, start, neighbour pixel, visited map[edgeKey]struct{}) []pixel {
	path := []pixel{start}
	previous := start
	current := neighbour
	visited[newEdgeKey(start, neighbour)] = struct{}{}

	for current != start {
		path = append(path, current)
		var onward []pixel
		for _, n := range g.adj[current] {
			if n != previous {
				onward = append(onward, n)
			}
		}
		if len(onward) == 0 {
			break
		}
		next := onward[0]
		key := newEdgeKey(current, next)
		if _, seen := visited[key]; seen {
			break
		}
		visited[key] = struct{}{}
		previous, current = current, next
	}
	if path[len(path)-1] != start {
		path = append(path, start)
	}
	return path
}
