package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maxkimambo/taskcompose/internal/config"
	"github.com/maxkimambo/taskcompose/internal/utils"
)

var (
	validateFile       string
	validateCheckFiles bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a compose file for errors and dependency cycles",
	RunE:  runValidate,
}

func init() {
	addFileFlag(validateCmd, &validateFile)
	validateCmd.Flags().BoolVar(&validateCheckFiles, "check-files", false, "Also check that every task file exists")
}

func runValidate(cmd *cobra.Command, args []string) error {
	p, err := loadProject(validateFile)
	if err != nil {
		return err
	}

	g := p.scheduler.Graph()
	schedule := p.scheduler.Schedule()

	report := utils.NewReportBuilder().
		Header(p.path).
		AddKeyValues(
			[2]string{"Version", p.compose.Version},
			[2]string{"Tasks", strconv.Itoa(g.Len())},
			[2]string{"Dependencies", strconv.Itoa(g.EdgeCount())},
			[2]string{"Levels", strconv.Itoa(schedule.Len())},
			[2]string{"Environments", strings.Join(p.compose.EnvironmentNames(), ", ")},
		).
		Section("Entry tasks")
	for _, t := range g.Sources() {
		report.AddBullet(p.name(t))
	}
	fmt.Fprint(cmd.OutOrStdout(), report.Build())

	var missing []string
	if validateCheckFiles {
		if missing, err = missingTaskFiles(p.compose); err != nil {
			return err
		}
	}

	if len(missing) > 0 {
		box := utils.NewBox(utils.WarningMessage, fmt.Sprintf("%d task file(s) not found", len(missing)))
		for _, m := range missing {
			box.AddBullet(m)
		}
		return box.Fprint(cmd.OutOrStdout())
	}

	return utils.NewBox(utils.SuccessMessage, fmt.Sprintf("%s is valid", p.path)).Fprint(cmd.OutOrStdout())
}

// missingTaskFiles lists the tasks whose file does not exist. Task locations
// are already anchored at the compose file's directory, so the result does
// not depend on the working directory.
func missingTaskFiles(compose *config.Compose) ([]string, error) {
	tasks, err := compose.Tasks()
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, name := range compose.TaskNames() {
		loc := tasks[name].Location()
		if _, err := os.Stat(loc); err != nil {
			missing = append(missing, fmt.Sprintf("%s (%s)", name, loc))
		}
	}
	return missing, nil
}
