package cmd

import (
	"github.com/spf13/cobra"

	"github.com/maxkimambo/taskcompose/internal/logger"
	"github.com/maxkimambo/taskcompose/internal/scheduler"
)

var (
	planFile   string
	planFormat string
	planOutput string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the execution levels of a compose file",
	Long: `Show the execution levels of a compose file without running anything.

Tasks in the same level have no dependencies on each other and run in
parallel. Every task appears in a later level than the tasks it uses.

EXAMPLES:
# Print the plan as a table
taskcompose plan -f compose.yaml

# Export a Graphviz rendering
taskcompose plan -f compose.yaml --format dot --output plan.dot`,
	RunE: runPlan,
}

func init() {
	addFileFlag(planCmd, &planFile)
	planCmd.Flags().StringVar(&planFormat, "format", "table", "Output format: table, json or dot")
	planCmd.Flags().StringVarP(&planOutput, "output", "o", "", "Write the plan to a file instead of stdout")
}

func runPlan(cmd *cobra.Command, args []string) error {
	p, err := loadProject(planFile)
	if err != nil {
		return err
	}

	plan := p.scheduler.Plan(p.names)
	logger.Op.WithFields(map[string]interface{}{
		"file":   p.path,
		"tasks":  plan.Stats.TotalTasks,
		"levels": plan.Stats.TotalLevels,
	}).Debug("Plan computed")

	if planOutput != "" {
		if err := scheduler.ExportToFile(planOutput, planFormat, plan); err != nil {
			return err
		}
		logger.User.Successf("Plan written to %s", planOutput)
		return nil
	}

	return scheduler.Render(cmd.OutOrStdout(), planFormat, plan)
}
