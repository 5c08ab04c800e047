package dag

import (
	"strings"

	composeerrors "github.com/maxkimambo/taskcompose/internal/errors"
	"github.com/maxkimambo/taskcompose/internal/task"
)

// handle addresses a slot in the graph's task arena
type handle int

type slot struct {
	task task.Task
	live bool
	// downstream holds tasks that depend on this one (edges this -> d);
	// upstream is the reverse index kept in step with it.
	downstream map[handle]struct{}
	upstream   map[handle]struct{}
}

// Graph holds a set of tasks and the dependency edges between them. Every
// mutation keeps the edge relation acyclic; a mutation that fails leaves the
// graph exactly as it was.
//
// Graph is not safe for concurrent use. Callers that share a Graph between
// goroutines must serialise access themselves.
type Graph struct {
	slots []slot
	index map[task.Task]handle
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	return &Graph{
		index: make(map[task.Task]handle),
	}
}

// New builds a graph from pre-parsed tasks and a mapping of downstream task
// to the tasks it directly depends on.
func New(tasks []task.Task, upstream map[task.Task][]task.Task) (*Graph, error) {
	g := NewGraph()
	if err := g.AddTasks(tasks); err != nil {
		return nil, err
	}
	if err := g.AddDependencies(upstream); err != nil {
		return nil, err
	}
	return g, nil
}

// AddTask registers t. Adding a task that is already present is a no-op.
func (g *Graph) AddTask(t task.Task) error {
	if t.IsZero() {
		return composeerrors.NewZeroTaskError("Add task")
	}
	g.register(t)
	return nil
}

// AddTasks registers every task in tasks. Nothing is added if any task is invalid.
func (g *Graph) AddTasks(tasks []task.Task) error {
	for _, t := range tasks {
		if t.IsZero() {
			return composeerrors.NewZeroTaskError("Add tasks")
		}
	}
	for _, t := range tasks {
		g.register(t)
	}
	return nil
}

// register returns t's handle, allocating a slot if needed. The bool
// reports whether the task was newly added.
func (g *Graph) register(t task.Task) (handle, bool) {
	if h, ok := g.index[t]; ok {
		return h, false
	}
	h := handle(len(g.slots))
	g.slots = append(g.slots, slot{
		task:       t,
		live:       true,
		downstream: make(map[handle]struct{}),
		upstream:   make(map[handle]struct{}),
	})
	g.index[t] = h
	return h, true
}

// RemoveTask removes t and every edge touching it. Removing a task that is
// not in the graph fails with ErrNotFound.
func (g *Graph) RemoveTask(t task.Task) error {
	if t.IsZero() {
		return composeerrors.NewZeroTaskError("Remove task")
	}
	h, ok := g.index[t]
	if !ok {
		return composeerrors.NewTaskNotFoundError(t.String(), "Remove task")
	}
	g.unregister(h)
	return nil
}

// RemoveTasks removes every task in tasks. All tasks are checked first; if
// any is missing nothing is removed.
func (g *Graph) RemoveTasks(tasks []task.Task) error {
	for _, t := range tasks {
		if t.IsZero() {
			return composeerrors.NewZeroTaskError("Remove tasks")
		}
		if _, ok := g.index[t]; !ok {
			return composeerrors.NewTaskNotFoundError(t.String(), "Remove tasks")
		}
	}
	for _, t := range tasks {
		if h, ok := g.index[t]; ok {
			g.unregister(h)
		}
	}
	return nil
}

// PopSources removes every current source and returns them, sorted. Tasks
// that become sources as a result stay in the graph for the next call. An
// empty result means the graph is empty.
func (g *Graph) PopSources() []task.Task {
	sources := g.Sources()
	for _, t := range sources {
		g.unregister(g.index[t])
	}
	return sources
}

func (g *Graph) unregister(h handle) {
	s := &g.slots[h]
	for d := range s.downstream {
		delete(g.slots[d].upstream, h)
	}
	for u := range s.upstream {
		delete(g.slots[u].downstream, h)
	}
	delete(g.index, s.task)
	*s = slot{}
}

// AddDependency records that t depends on dependsOn (edge dependsOn -> t),
// registering either task if needed. If the edge would close a cycle the
// graph is rolled back and an ErrCyclicGraph error naming the edge is returned.
func (g *Graph) AddDependency(t, dependsOn task.Task) error {
	if t.IsZero() || dependsOn.IsZero() {
		return composeerrors.NewZeroTaskError("Add dependency")
	}

	down, downAdded := g.register(t)
	up, upAdded := g.register(dependsOn)

	if _, exists := g.slots[up].downstream[down]; exists {
		return nil
	}
	g.link(up, down)

	// cycles can only be introduced here
	if g.IsCyclic() {
		g.unlink(up, down)
		if downAdded {
			g.unregister(down)
		}
		if upAdded && up != down {
			g.unregister(up)
		}
		return composeerrors.NewCycleError(dependsOn.String(), t.String())
	}
	return nil
}

// AddDependencies applies AddDependency for every (downstream, upstream)
// pair in deps, in task order. It stops at the first failure; edges added
// before it stay in place.
func (g *Graph) AddDependencies(deps map[task.Task][]task.Task) error {
	downstream := make([]task.Task, 0, len(deps))
	for t := range deps {
		downstream = append(downstream, t)
	}
	task.Sort(downstream)

	for _, t := range downstream {
		upstream := append([]task.Task(nil), deps[t]...)
		task.Sort(upstream)
		for _, u := range upstream {
			if err := g.AddDependency(t, u); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Graph) link(up, down handle) {
	g.slots[up].downstream[down] = struct{}{}
	g.slots[down].upstream[up] = struct{}{}
}

func (g *Graph) unlink(up, down handle) {
	delete(g.slots[up].downstream, down)
	delete(g.slots[down].upstream, up)
}

// Contains reports whether t is registered
func (g *Graph) Contains(t task.Task) bool {
	_, ok := g.index[t]
	return ok
}

// Len returns the number of tasks in the graph
func (g *Graph) Len() int {
	return len(g.index)
}

// EdgeCount returns the number of dependency edges
func (g *Graph) EdgeCount() int {
	n := 0
	for _, h := range g.index {
		n += len(g.slots[h].downstream)
	}
	return n
}

// Tasks returns every task, sorted
func (g *Graph) Tasks() []task.Task {
	tasks := make([]task.Task, 0, len(g.index))
	for t := range g.index {
		tasks = append(tasks, t)
	}
	task.Sort(tasks)
	return tasks
}

// String lists the graph's tasks, e.g. DAG({Task(/a.sh), Task(/b.sh)})
func (g *Graph) String() string {
	tasks := g.Tasks()
	names := make([]string, len(tasks))
	for i, t := range tasks {
		names[i] = t.String()
	}
	return "DAG({" + strings.Join(names, ", ") + "})"
}

// Equal reports whether both graphs hold the same tasks and edges
func (g *Graph) Equal(other *Graph) bool {
	if other == nil || g.Len() != other.Len() || g.EdgeCount() != other.EdgeCount() {
		return false
	}
	for t, h := range g.index {
		oh, ok := other.index[t]
		if !ok {
			return false
		}
		for d := range g.slots[h].downstream {
			od, ok := other.index[g.slots[d].task]
			if !ok {
				return false
			}
			if _, ok := other.slots[oh].downstream[od]; !ok {
				return false
			}
		}
	}
	return true
}
