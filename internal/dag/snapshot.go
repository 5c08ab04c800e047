package dag

import "github.com/maxkimambo/taskcompose/internal/task"

// Snapshot is a point-in-time copy of a graph's tasks and edges. It is
// independent of the graph it was taken from and can be restored any number
// of times.
type Snapshot struct {
	slots []slot
	index map[task.Task]handle
}

// Snapshot copies the graph in O(V+E). Slots of removed tasks are dropped
// and the remaining handles renumbered.
func (g *Graph) Snapshot() *Snapshot {
	remap := make(map[handle]handle, len(g.index))
	tasks := g.Tasks()
	for i, t := range tasks {
		remap[g.index[t]] = handle(i)
	}

	snap := &Snapshot{
		slots: make([]slot, len(tasks)),
		index: make(map[task.Task]handle, len(tasks)),
	}
	for i, t := range tasks {
		old := g.slots[g.index[t]]
		s := slot{
			task:       t,
			live:       true,
			downstream: make(map[handle]struct{}, len(old.downstream)),
			upstream:   make(map[handle]struct{}, len(old.upstream)),
		}
		for d := range old.downstream {
			s.downstream[remap[d]] = struct{}{}
		}
		for u := range old.upstream {
			s.upstream[remap[u]] = struct{}{}
		}
		snap.slots[i] = s
		snap.index[t] = handle(i)
	}
	return snap
}

// Restore replaces the graph's contents with a copy of snap.
func (g *Graph) Restore(snap *Snapshot) {
	g.slots = make([]slot, len(snap.slots))
	for i, s := range snap.slots {
		g.slots[i] = slot{
			task:       s.task,
			live:       s.live,
			downstream: copySet(s.downstream),
			upstream:   copySet(s.upstream),
		}
	}
	g.index = make(map[task.Task]handle, len(snap.index))
	for t, h := range snap.index {
		g.index[t] = h
	}
}

// Clone returns an independent copy of the graph
func (g *Graph) Clone() *Graph {
	clone := NewGraph()
	clone.Restore(g.Snapshot())
	return clone
}

// Len returns the number of tasks captured
func (s *Snapshot) Len() int {
	return len(s.index)
}

func copySet(in map[handle]struct{}) map[handle]struct{} {
	out := make(map[handle]struct{}, len(in))
	for h := range in {
		out[h] = struct{}{}
	}
	return out
}
