package scheduler

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	composeerrors "github.com/maxkimambo/taskcompose/internal/errors"
	"github.com/maxkimambo/taskcompose/internal/task"
	"github.com/maxkimambo/taskcompose/internal/utils"
)

// TaskInfo describes one task of a plan for display
type TaskInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	Environment string   `json:"environment"`
	Level       int      `json:"level"`
	DependsOn   []string `json:"dependsOn,omitempty"`
}

// EdgeInfo is a dependency edge; To depends on From
type EdgeInfo struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// LevelInfo holds the tasks of one level
type LevelInfo struct {
	Level int        `json:"level"`
	Tasks []TaskInfo `json:"tasks"`
}

// PlanStats summarises a plan
type PlanStats struct {
	TotalTasks  int `json:"totalTasks"`
	TotalEdges  int `json:"totalEdges"`
	TotalLevels int `json:"totalLevels"`
	MaxWidth    int `json:"maxWidth"`
	Sources     int `json:"sources"`
	Sinks       int `json:"sinks"`
}

// PlanInfo is the full plan structure used by the renderers
type PlanInfo struct {
	Levels []LevelInfo `json:"levels"`
	Edges  []EdgeInfo  `json:"edges"`
	Stats  PlanStats   `json:"stats"`
}

// Plan computes the schedule and builds its display form. names maps tasks
// to the names used in the compose file; tasks without a name are shown by
// location.
func (s *Scheduler) Plan(names map[task.Task]string) *PlanInfo {
	schedule := s.Schedule()
	g := s.original

	label := func(t task.Task) string {
		if name, ok := names[t]; ok && name != "" {
			return name
		}
		return t.Location()
	}

	plan := &PlanInfo{
		Levels: make([]LevelInfo, 0, schedule.Len()),
		Edges:  []EdgeInfo{},
		Stats: PlanStats{
			TotalTasks:  g.Len(),
			TotalEdges:  g.EdgeCount(),
			TotalLevels: schedule.Len(),
			Sources:     len(g.Sources()),
			Sinks:       len(g.Sinks()),
		},
	}

	upstream := g.Upstream()
	for _, level := range schedule.Levels() {
		tasks := schedule[level]
		if len(tasks) > plan.Stats.MaxWidth {
			plan.Stats.MaxWidth = len(tasks)
		}

		info := LevelInfo{Level: level, Tasks: make([]TaskInfo, 0, len(tasks))}
		for _, t := range tasks {
			ti := TaskInfo{
				ID:          t.ID(),
				Name:        label(t),
				Location:    t.Location(),
				Environment: t.Environment(),
				Level:       level,
			}
			for _, u := range upstream[t] {
				ti.DependsOn = append(ti.DependsOn, label(u))
			}
			info.Tasks = append(info.Tasks, ti)
		}
		plan.Levels = append(plan.Levels, info)
	}

	for _, from := range g.Tasks() {
		dependents, err := g.DependentsOf(from)
		if err != nil {
			continue
		}
		for _, to := range dependents {
			plan.Edges = append(plan.Edges, EdgeInfo{From: label(from), To: label(to)})
		}
	}

	return plan
}

// RenderJSON writes the plan as indented JSON
func RenderJSON(w io.Writer, plan *PlanInfo) error {
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// RenderDOT writes the plan as a Graphviz digraph with one rank per level
func RenderDOT(w io.Writer, plan *PlanInfo) error {
	var sb strings.Builder
	sb.WriteString("digraph TaskPlan {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box, style=filled, fillcolor=\"lightgrey\"];\n")
	sb.WriteString("  label=\"Task Execution Plan\";\n")
	sb.WriteString("  labelloc=\"t\";\n\n")

	for _, level := range plan.Levels {
		sb.WriteString(fmt.Sprintf("  subgraph cluster_level_%d {\n", level.Level))
		sb.WriteString(fmt.Sprintf("    label=\"Level %d\";\n", level.Level))
		sb.WriteString("    style=dashed;\n")
		for _, t := range level.Tasks {
			fill := "lightgrey"
			if len(t.DependsOn) == 0 {
				fill = "lightblue"
			}
			sb.WriteString(fmt.Sprintf("    %s [label=\"%s\\n%s\", fillcolor=\"%s\"];\n",
				dotQuote(t.Name), dotEscape(t.Name), dotEscape(t.Environment), fill))
		}
		sb.WriteString("  }\n")
	}

	if len(plan.Edges) > 0 {
		sb.WriteString("\n")
	}
	for _, edge := range plan.Edges {
		sb.WriteString(fmt.Sprintf("  %s -> %s;\n", dotQuote(edge.From), dotQuote(edge.To)))
	}

	sb.WriteString("\n  // Statistics\n")
	sb.WriteString(fmt.Sprintf("  \"stats\" [label=\"Tasks: %d\\nEdges: %d\\nLevels: %d\\nMax width: %d\", shape=note, fillcolor=\"lightyellow\"];\n",
		plan.Stats.TotalTasks, plan.Stats.TotalEdges, plan.Stats.TotalLevels, plan.Stats.MaxWidth))
	sb.WriteString("}\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// RenderTable writes the plan as a box-drawn table followed by a summary line
func RenderTable(w io.Writer, plan *PlanInfo) error {
	table := utils.NewTableFormatter([]string{"Level", "Task", "Environment", "Depends On"})
	for _, level := range plan.Levels {
		for _, t := range level.Tasks {
			deps := "-"
			if len(t.DependsOn) > 0 {
				deps = strings.Join(t.DependsOn, ", ")
			}
			table.AddRow([]string{strconv.Itoa(level.Level), t.Name, t.Environment, deps})
		}
	}

	_, err := fmt.Fprintf(w, "%s%d tasks in %d levels (max %d parallel)\n",
		table.String(), plan.Stats.TotalTasks, plan.Stats.TotalLevels, plan.Stats.MaxWidth)
	return err
}

// ExportToFile renders the plan in the given format into filename
func ExportToFile(filename, format string, plan *PlanInfo) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := Render(f, format, plan); err != nil {
		return err
	}
	return f.Close()
}

// Render dispatches on format: table, json or dot
func Render(w io.Writer, format string, plan *PlanInfo) error {
	switch strings.ToLower(format) {
	case "", "table":
		return RenderTable(w, plan)
	case "json":
		return RenderJSON(w, plan)
	case "dot":
		return RenderDOT(w, plan)
	default:
		return composeerrors.NewInvalidArgumentError(composeerrors.CodeUnknownFormat,
			fmt.Sprintf("unknown output format %q", format), "Render plan").
			WithTroubleshooting("Use one of: table, json, dot")
	}
}

// dotEscaper makes a string safe inside a double-quoted DOT string. A raw
// newline becomes the \n label escape.
var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", "")

func dotEscape(s string) string {
	return dotEscaper.Replace(s)
}

func dotQuote(s string) string {
	return `"` + dotEscape(s) + `"`
}
