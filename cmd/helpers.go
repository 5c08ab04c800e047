package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maxkimambo/taskcompose/internal/config"
	"github.com/maxkimambo/taskcompose/internal/scheduler"
	"github.com/maxkimambo/taskcompose/internal/task"
)

const defaultComposeFile = "compose.yaml"

// project is a loaded compose file ready to be scheduled
type project struct {
	path      string
	compose   *config.Compose
	scheduler *scheduler.Scheduler
	names     map[task.Task]string
}

func addFileFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "file", "f", defaultComposeFile, "Path to the compose file")
}

// loadProject reads the compose file and builds its graph. Cycles and
// unknown task references are reported here.
func loadProject(path string) (*project, error) {
	compose, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	g, err := compose.Graph()
	if err != nil {
		return nil, err
	}

	s, err := scheduler.New(g)
	if err != nil {
		return nil, err
	}

	names, err := compose.Names()
	if err != nil {
		return nil, err
	}

	return &project{
		path:      path,
		compose:   compose,
		scheduler: s,
		names:     names,
	}, nil
}

func (p *project) name(t task.Task) string {
	if n, ok := p.names[t]; ok {
		return n
	}
	return t.Location()
}

// levelSummaries renders one line per level, e.g. "level 1: pour_water, prep_infuser"
func (p *project) levelSummaries(schedule scheduler.Schedule) []string {
	lines := make([]string, 0, schedule.Len())
	for _, level := range schedule.Levels() {
		names := make([]string, 0, len(schedule[level]))
		for _, t := range schedule[level] {
			names = append(names, p.name(t))
		}
		lines = append(lines, fmt.Sprintf("level %d: %s", level, strings.Join(names, ", ")))
	}
	return lines
}
