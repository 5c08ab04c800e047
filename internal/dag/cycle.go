package dag

// DFS colours
const (
	unvisited uint8 = iota
	onStack
	finished
)

type frame struct {
	node     handle
	children []handle
	next     int
}

// IsCyclic reports whether the edge relation contains a cycle. It runs an
// iterative depth-first search from every unvisited task, so disjoint
// subgraphs are all covered; a back edge to a task still on the stack means
// a cycle.
func (g *Graph) IsCyclic() bool {
	color := make([]uint8, len(g.slots))

	for start := range g.slots {
		if !g.slots[start].live || color[start] != unvisited {
			continue
		}

		color[start] = onStack
		stack := []frame{{node: handle(start), children: g.children(handle(start))}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next == len(top.children) {
				color[top.node] = finished
				stack = stack[:len(stack)-1]
				continue
			}

			child := top.children[top.next]
			top.next++

			switch color[child] {
			case onStack:
				return true
			case unvisited:
				color[child] = onStack
				stack = append(stack, frame{node: child, children: g.children(child)})
			}
		}
	}

	return false
}

func (g *Graph) children(h handle) []handle {
	children := make([]handle, 0, len(g.slots[h].downstream))
	for c := range g.slots[h].downstream {
		children = append(children, c)
	}
	return children
}
