package dag

import (
	composeerrors "github.com/maxkimambo/taskcompose/internal/errors"
	"github.com/maxkimambo/taskcompose/internal/task"
)

// Downstream maps every task that has dependents to the tasks that directly
// depend on it. The map is built on each call; value slices are sorted.
func (g *Graph) Downstream() map[task.Task][]task.Task {
	downstream := make(map[task.Task][]task.Task)
	for t, h := range g.index {
		if len(g.slots[h].downstream) == 0 {
			continue
		}
		downstream[t] = g.tasksOf(g.slots[h].downstream)
	}
	return downstream
}

// Upstream maps every task that has dependencies to the tasks it directly
// depends on. It is the inverse of Downstream and is rebuilt on each call.
func (g *Graph) Upstream() map[task.Task][]task.Task {
	upstream := make(map[task.Task][]task.Task)
	for u, deps := range g.Downstream() {
		for _, d := range deps {
			upstream[d] = append(upstream[d], u)
		}
	}
	for _, deps := range upstream {
		task.Sort(deps)
	}
	return upstream
}

// Sources returns the tasks with no upstream dependencies, sorted
func (g *Graph) Sources() []task.Task {
	sources := []task.Task{}
	for t, h := range g.index {
		if len(g.slots[h].upstream) == 0 {
			sources = append(sources, t)
		}
	}
	task.Sort(sources)
	return sources
}

// Sinks returns the tasks with no downstream dependents, sorted
func (g *Graph) Sinks() []task.Task {
	sinks := []task.Task{}
	for t, h := range g.index {
		if len(g.slots[h].downstream) == 0 {
			sinks = append(sinks, t)
		}
	}
	task.Sort(sinks)
	return sinks
}

// IsSource reports whether t is registered and has no upstream dependencies
func (g *Graph) IsSource(t task.Task) bool {
	h, ok := g.index[t]
	return ok && len(g.slots[h].upstream) == 0
}

// DependenciesOf returns the tasks t directly depends on
func (g *Graph) DependenciesOf(t task.Task) ([]task.Task, error) {
	h, ok := g.index[t]
	if !ok {
		return nil, composeerrors.NewTaskNotFoundError(t.String(), "Get dependencies")
	}
	return g.tasksOf(g.slots[h].upstream), nil
}

// DependentsOf returns the tasks that directly depend on t
func (g *Graph) DependentsOf(t task.Task) ([]task.Task, error) {
	h, ok := g.index[t]
	if !ok {
		return nil, composeerrors.NewTaskNotFoundError(t.String(), "Get dependents")
	}
	return g.tasksOf(g.slots[h].downstream), nil
}

func (g *Graph) tasksOf(handles map[handle]struct{}) []task.Task {
	tasks := make([]task.Task, 0, len(handles))
	for h := range handles {
		tasks = append(tasks, g.slots[h].task)
	}
	task.Sort(tasks)
	return tasks
}
