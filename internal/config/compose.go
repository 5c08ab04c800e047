// Package config loads compose files: YAML documents that declare tasks,
// the environments that run them, and the dependencies between them.
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/maxkimambo/taskcompose/internal/dag"
	composeerrors "github.com/maxkimambo/taskcompose/internal/errors"
	"github.com/maxkimambo/taskcompose/internal/task"
)

// Compose is a parsed compose file
type Compose struct {
	Version      string              `yaml:"version"`
	Environments NameList            `yaml:"environments"`
	CondaEnvs    NameList            `yaml:"conda-envs"`
	TasksDir     string              `yaml:"tasks-dir"`
	Entrypoint   string              `yaml:"entrypoint"`
	TaskSpecs    map[string]TaskSpec `yaml:"tasks"`

	// baseDir anchors relative task paths; it is the compose file's directory
	baseDir string
}

// TaskSpec is one entry under tasks
type TaskSpec struct {
	Loc string `yaml:"loc"`
	// Env is nil when the key is absent so that an explicit blank value can be rejected
	Env  *string  `yaml:"env"`
	Uses NameList `yaml:"uses"`
}

// NameList accepts a single string, a sequence of strings or a mapping
// (whose keys are used) so that both `uses: a` and `uses: [a, b]` parse.
type NameList []string

// UnmarshalYAML implements yaml.Unmarshaler
func (l *NameList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*l = NameList{s}
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*l = items
	case yaml.MappingNode:
		names := make([]string, 0, len(value.Content)/2)
		for i := 0; i < len(value.Content); i += 2 {
			names = append(names, value.Content[i].Value)
		}
		*l = names
	default:
		return &yaml.TypeError{Errors: []string{"expected a name or a list of names"}}
	}
	return nil
}

// Load reads and validates the compose file at path. Relative task paths
// resolve against the file's directory.
func Load(path string) (*Compose, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, composeerrors.NewConfigurationError(composeerrors.CodeConfigRead,
			"failed to read compose file", "Load compose file").
			WithContext("path", path).
			WithOriginalError(err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, composeerrors.NewConfigurationError(composeerrors.CodeConfigRead,
			"failed to resolve compose file path", "Load compose file").
			WithContext("path", path).
			WithOriginalError(err)
	}

	return Parse(data, filepath.Dir(abs))
}

// Parse decodes and validates a compose document. baseDir anchors relative
// task paths; an empty baseDir uses the working directory.
func Parse(data []byte, baseDir string) (*Compose, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, parseError(err)
	}
	if err := checkTopLevel(&doc); err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	c := &Compose{}
	if err := dec.Decode(c); err != nil {
		return nil, parseError(err)
	}
	c.baseDir = baseDir

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func parseError(err error) error {
	return composeerrors.NewConfigurationError(composeerrors.CodeConfigParse,
		"compose file is not valid YAML for this format", "Parse compose file").
		WithOriginalError(err)
}

// BaseDir returns the directory relative task paths resolve against
func (c *Compose) BaseDir() string {
	return c.baseDir
}

// EnvironmentNames returns the declared environments from both the
// environments and conda-envs keys
func (c *Compose) EnvironmentNames() []string {
	names := append(append([]string{}, c.Environments...), c.CondaEnvs...)
	sort.Strings(names)
	return names
}

// TaskNames returns the task names, sorted
func (c *Compose) TaskNames() []string {
	names := make([]string, 0, len(c.TaskSpecs))
	for name := range c.TaskSpecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TaskPath joins tasks-dir, the task's loc (its name when unset) and
// entrypoint, skipping the parts that are not set.
func (c *Compose) TaskPath(name string) string {
	loc := c.TaskSpecs[name].Loc
	if loc == "" {
		loc = name
	}

	parts := make([]string, 0, 3)
	if c.TasksDir != "" {
		parts = append(parts, c.TasksDir)
	}
	parts = append(parts, loc)
	if c.Entrypoint != "" {
		parts = append(parts, c.Entrypoint)
	}
	return filepath.Join(parts...)
}

// Tasks maps every task name to its Task
func (c *Compose) Tasks() (map[string]task.Task, error) {
	tasks := make(map[string]task.Task, len(c.TaskSpecs))
	for _, name := range c.TaskNames() {
		opts := []task.Option{}
		if env := c.TaskSpecs[name].Env; env != nil {
			opts = append(opts, task.WithEnvironment(*env))
		}
		if c.baseDir != "" {
			opts = append(opts, task.WithBaseDir(c.baseDir))
		}

		t, err := task.New(c.TaskPath(name), opts...)
		if err != nil {
			return nil, composeerrors.NewConfigFieldError(composeerrors.CodeConfigInvalidTask,
				"tasks."+name, "task "+name+" is invalid").
				WithOriginalError(err)
		}
		tasks[name] = t
	}
	return tasks, nil
}

// UpstreamDependencies maps every task that uses others to the tasks it uses
func (c *Compose) UpstreamDependencies() (map[task.Task][]task.Task, error) {
	tasks, err := c.Tasks()
	if err != nil {
		return nil, err
	}

	upstream := make(map[task.Task][]task.Task)
	for _, name := range c.TaskNames() {
		for _, used := range c.TaskSpecs[name].Uses {
			u, ok := tasks[used]
			if !ok {
				return nil, unknownTaskError(name, used)
			}
			upstream[tasks[name]] = append(upstream[tasks[name]], u)
		}
	}
	return upstream, nil
}

// Names maps every Task back to the name it was declared under. When two
// names resolve to the same task the alphabetically first name wins.
func (c *Compose) Names() (map[task.Task]string, error) {
	tasks, err := c.Tasks()
	if err != nil {
		return nil, err
	}

	names := make(map[task.Task]string, len(tasks))
	for _, name := range c.TaskNames() {
		if _, ok := names[tasks[name]]; !ok {
			names[tasks[name]] = name
		}
	}
	return names, nil
}

// Graph builds the dependency graph for the compose file. A file whose
// uses relation is cyclic fails with ErrCyclicGraph.
func (c *Compose) Graph() (*dag.Graph, error) {
	tasks, err := c.Tasks()
	if err != nil {
		return nil, err
	}
	upstream, err := c.UpstreamDependencies()
	if err != nil {
		return nil, err
	}

	all := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		all = append(all, t)
	}
	task.Sort(all)

	return dag.New(all, upstream)
}
