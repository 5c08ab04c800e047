package scheduler

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	composeerrors "github.com/maxkimambo/taskcompose/internal/errors"
	"github.com/maxkimambo/taskcompose/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func teaPlan(t *testing.T) *PlanInfo {
	t.Helper()
	g, tea := teaGraph(t)
	s, err := New(g)
	require.NoError(t, err)

	return s.Plan(map[task.Task]string{
		tea.pourWater:   "pour_water",
		tea.boilWater:   "boil_water",
		tea.prepInfuser: "prep_infuser",
		tea.steepTea:    "steep_tea",
	})
}

func TestScheduler_Plan(t *testing.T) {
	plan := teaPlan(t)

	assert.Equal(t, PlanStats{
		TotalTasks:  4,
		TotalEdges:  3,
		TotalLevels: 3,
		MaxWidth:    2,
		Sources:     2,
		Sinks:       1,
	}, plan.Stats)

	require.Len(t, plan.Levels, 3)
	assert.Equal(t, 1, plan.Levels[0].Level)
	assert.Equal(t, "pour_water", plan.Levels[0].Tasks[0].Name)
	assert.Equal(t, "prep_infuser", plan.Levels[0].Tasks[1].Name)
	assert.Equal(t, []string{"boil_water", "prep_infuser"}, plan.Levels[2].Tasks[0].DependsOn)
	assert.Len(t, plan.Levels[2].Tasks[0].ID, 64)

	assert.Contains(t, plan.Edges, EdgeInfo{From: "pour_water", To: "boil_water"})
	assert.Len(t, plan.Edges, 3)
}

func TestScheduler_PlanFallsBackToLocation(t *testing.T) {
	g, tea := teaGraph(t)
	s, err := New(g)
	require.NoError(t, err)

	plan := s.Plan(nil)
	assert.Equal(t, tea.pourWater.Location(), plan.Levels[0].Tasks[0].Name)
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderJSON(&buf, teaPlan(t)))

	var decoded PlanInfo
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 3, decoded.Stats.TotalLevels)
	assert.Equal(t, "steep_tea", decoded.Levels[2].Tasks[0].Name)
	assert.Equal(t, "test-exe", decoded.Levels[2].Tasks[0].Environment)
}

func TestRenderDOT(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderDOT(&buf, teaPlan(t)))
	dot := buf.String()

	assert.True(t, strings.HasPrefix(dot, "digraph TaskPlan {\n"))
	assert.True(t, strings.HasSuffix(dot, "}\n"))
	assert.Contains(t, dot, "rankdir=LR;")
	assert.Contains(t, dot, "subgraph cluster_level_3 {")
	assert.Contains(t, dot, `"boil_water" -> "steep_tea";`)
	assert.Contains(t, dot, `"pour_water" [label="pour_water\ntest-exe", fillcolor="lightblue"];`)
	assert.Contains(t, dot, `Levels: 3`)
}

func TestRenderDOT_EscapesLabels(t *testing.T) {
	tests := []struct {
		name     string
		taskName string
		env      string
		wantNode string
	}{
		{"quote", `say "hi"`, "sh", `"say \"hi\"" [label="say \"hi\"\nsh"`},
		{"backslash", `C:\jobs\a.bat`, "cmd", `"C:\\jobs\\a.bat" [label="C:\\jobs\\a.bat\ncmd"`},
		{"newline", "two\nlines", "sh", `"two\nlines" [label="two\nlines\nsh"`},
		{"trailing backslash", `odd\`, `env\`, `"odd\\" [label="odd\\\nenv\\"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := &PlanInfo{
				Levels: []LevelInfo{
					{Level: 1, Tasks: []TaskInfo{{Name: tt.taskName, Environment: tt.env, Level: 1}}},
					{Level: 2, Tasks: []TaskInfo{{Name: "next", Environment: "sh", Level: 2, DependsOn: []string{tt.taskName}}}},
				},
				Edges: []EdgeInfo{{From: tt.taskName, To: "next"}},
			}

			var buf bytes.Buffer
			require.NoError(t, RenderDOT(&buf, plan))
			dot := buf.String()

			assert.Contains(t, dot, tt.wantNode)
			assert.Contains(t, dot, "  "+dotQuote(tt.taskName)+` -> "next";`)
		})
	}
}

func TestRenderTable(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	require.NoError(t, RenderTable(&buf, teaPlan(t)))
	out := buf.String()

	assert.Contains(t, out, "│ Level │ Task         │ Environment │ Depends On               │")
	assert.Contains(t, out, "│ 3     │ steep_tea    │ test-exe    │ boil_water, prep_infuser │")
	assert.Contains(t, out, "│ 1     │ pour_water   │ test-exe    │ -                        │")
	assert.True(t, strings.HasSuffix(out, "4 tasks in 3 levels (max 2 parallel)\n"))
}

func TestRender(t *testing.T) {
	plan := teaPlan(t)

	for _, format := range []string{"", "table", "JSON", "dot"} {
		t.Run("format "+format, func(t *testing.T) {
			var buf bytes.Buffer
			assert.NoError(t, Render(&buf, format, plan))
			assert.NotEmpty(t, buf.String())
		})
	}

	err := Render(&bytes.Buffer{}, "yaml", plan)
	assert.True(t, errors.Is(err, composeerrors.ErrInvalidArgument))
}

func TestExportToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.dot")
	require.NoError(t, ExportToFile(path, "dot", teaPlan(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "digraph TaskPlan")
}
