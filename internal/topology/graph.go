// Package topology holds the fixed adjacency used for compromise spread.
package topology

import "math/rand"

// Graph is an undirected graph over node ids 0..n-1. It is generated once at
// startup and never mutated, so reads need no locking.
type Graph struct {
	n     int
	adj   [][]int
	edges [][2]int
}

// NewErdosRenyi generates a random graph: every pair of nodes is connected
// independently with probability p. The seed fixes the topology for the
// session lifetime.
func NewErdosRenyi(n int, p float64, seed int64) *Graph {
	g := &Graph{n: n, adj: make([][]int, n)}
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rng.Float64() < p {
				g.adj[i] = append(g.adj[i], j)
				g.adj[j] = append(g.adj[j], i)
				g.edges = append(g.edges, [2]int{i, j})
			}
		}
	}
	return g
}

// FromEdges builds a graph over n nodes from an explicit edge list.
// Out-of-range and self-loop edges are ignored.
func FromEdges(n int, edges [][2]int) *Graph {
	g := &Graph{n: n, adj: make([][]int, n)}
	for _, e := range edges {
		i, j := e[0], e[1]
		if i < 0 || j < 0 || i >= n || j >= n || i == j {
			continue
		}
		if j < i {
			i, j = j, i
		}
		g.adj[i] = append(g.adj[i], j)
		g.adj[j] = append(g.adj[j], i)
		g.edges = append(g.edges, [2]int{i, j})
	}
	return g
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return g.n }

// Neighbors returns the ids adjacent to id. The returned slice is owned by
// the graph and must not be modified.
func (g *Graph) Neighbors(id int) []int {
	if id < 0 || id >= g.n {
		return nil
	}
	return g.adj[id]
}

// Edges returns all undirected edges as [from, to] pairs with from < to.
func (g *Graph) Edges() [][2]int { return g.edges }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }
