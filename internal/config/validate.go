package config

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	composeerrors "github.com/maxkimambo/taskcompose/internal/errors"
)

const (
	keyVersion      = "version"
	keyTasks        = "tasks"
	keyEnvironments = "environments"
	keyCondaEnvs    = "conda-envs"
	keyTasksDir     = "tasks-dir"
	keyEntrypoint   = "entrypoint"
)

var knownKeys = map[string]bool{
	keyVersion:      true,
	keyTasks:        true,
	keyEnvironments: true,
	keyCondaEnvs:    true,
	keyTasksDir:     true,
	keyEntrypoint:   true,
}

// checkTopLevel rejects documents that are not a mapping, miss required
// keys or carry unknown ones.
func checkTopLevel(doc *yaml.Node) error {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return composeerrors.NewConfigFieldError(composeerrors.CodeConfigParse,
			"<root>", "compose file must be a YAML mapping")
	}

	root := doc.Content[0]
	observed := make(map[string]bool, len(root.Content)/2)
	var unknown []string
	for i := 0; i < len(root.Content); i += 2 {
		key := root.Content[i].Value
		observed[key] = true
		if !knownKeys[key] {
			unknown = append(unknown, key)
		}
	}

	var missing []string
	for _, key := range []string{keyVersion, keyTasks} {
		if !observed[key] {
			missing = append(missing, key)
		}
	}
	if !observed[keyEnvironments] && !observed[keyCondaEnvs] {
		missing = append(missing, keyEnvironments+" (or "+keyCondaEnvs+")")
	}

	if len(missing) > 0 {
		return missingKeysError(missing)
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return composeerrors.NewConfigFieldError(composeerrors.CodeConfigUnknownKeys,
			strings.Join(unknown, ", "),
			fmt.Sprintf("compose file contains unknown keys: %s", strings.Join(unknown, ", ")))
	}
	return nil
}

func missingKeysError(missing []string) error {
	return composeerrors.NewConfigFieldError(composeerrors.CodeConfigMissingKeys,
		strings.Join(missing, ", "),
		fmt.Sprintf("compose file is missing required keys: %s", strings.Join(missing, ", ")))
}

func unknownTaskError(name, used string) error {
	return composeerrors.NewConfigFieldError(composeerrors.CodeConfigUnknownTask,
		"tasks."+name+".uses",
		fmt.Sprintf("task %s uses %s, which is not defined", name, used))
}

// Validate checks the parsed values. Parse calls it; callers that build a
// Compose by hand should call it before use.
func (c *Compose) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Version) == "" {
		missing = append(missing, keyVersion)
	}
	if c.Environments == nil && c.CondaEnvs == nil {
		missing = append(missing, keyEnvironments+" (or "+keyCondaEnvs+")")
	}
	if len(c.TaskSpecs) == 0 {
		missing = append(missing, keyTasks)
	}
	if len(missing) > 0 {
		return missingKeysError(missing)
	}

	for _, name := range c.TaskNames() {
		spec := c.TaskSpecs[name]
		if spec.Env != nil && strings.TrimSpace(*spec.Env) == "" {
			return composeerrors.NewConfigFieldError(composeerrors.CodeConfigInvalidTask,
				"tasks."+name+".env",
				fmt.Sprintf("task %s has an empty env", name))
		}
		for _, used := range spec.Uses {
			if _, ok := c.TaskSpecs[used]; !ok {
				return unknownTaskError(name, used)
			}
		}
	}
	return nil
}
