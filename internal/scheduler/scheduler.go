// Package scheduler turns a dependency graph into an execution plan: an
// ordered sequence of levels in which every task's dependencies sit in a
// strictly earlier level.
package scheduler

import (
	"slices"

	"github.com/maxkimambo/taskcompose/internal/config"
	"github.com/maxkimambo/taskcompose/internal/dag"
	composeerrors "github.com/maxkimambo/taskcompose/internal/errors"
	"github.com/maxkimambo/taskcompose/internal/task"
)

// Schedule maps a level, counted from 1, to the tasks that run in it.
// Tasks within a level are independent of each other and sorted.
type Schedule map[int][]task.Task

// Levels returns the level numbers in ascending order
func (s Schedule) Levels() []int {
	levels := make([]int, 0, len(s))
	for level := range s {
		levels = append(levels, level)
	}
	slices.Sort(levels)
	return levels
}

// Len returns the number of levels
func (s Schedule) Len() int {
	return len(s)
}

// TaskCount returns the number of tasks across all levels
func (s Schedule) TaskCount() int {
	n := 0
	for _, tasks := range s {
		n += len(tasks)
	}
	return n
}

// Scheduler computes levels for a graph. It keeps the graph it was built
// from untouched and peels sources off a private working copy, which is
// reset to match the original before and after every computation.
//
// The original graph must not be mutated while a computation is running.
type Scheduler struct {
	original *dag.Graph
	working  *dag.Graph
}

// New creates a scheduler for g
func New(g *dag.Graph) (*Scheduler, error) {
	if g == nil {
		return nil, composeerrors.NewNilGraphError()
	}
	return &Scheduler{
		original: g,
		working:  g.Clone(),
	}, nil
}

// FromConfig loads a compose file and returns a scheduler for its tasks
func FromConfig(path string) (*Scheduler, error) {
	compose, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	g, err := compose.Graph()
	if err != nil {
		return nil, err
	}
	return New(g)
}

// Graph returns the graph the scheduler was built from
func (s *Scheduler) Graph() *dag.Graph {
	return s.original
}

// Reset replaces the working copy with a fresh copy of the original graph
func (s *Scheduler) Reset() {
	s.working.Restore(s.original.Snapshot())
}

// TaskLevels assigns every task its level. Sources of the graph are level 1;
// removing them exposes the sources of level 2, and so on until the working
// copy is empty.
func (s *Scheduler) TaskLevels() map[task.Task]int {
	s.Reset()
	defer s.Reset()

	levels := make(map[task.Task]int, s.working.Len())
	for level := 1; ; level++ {
		sources := s.working.PopSources()
		if len(sources) == 0 {
			return levels
		}
		for _, t := range sources {
			levels[t] = level
		}
	}
}

// Schedule groups tasks by level. Levels are contiguous from 1; an empty
// graph yields an empty schedule.
func (s *Scheduler) Schedule() Schedule {
	schedule := make(Schedule)
	for t, level := range s.TaskLevels() {
		schedule[level] = append(schedule[level], t)
	}
	for _, tasks := range schedule {
		task.Sort(tasks)
	}
	return schedule
}
