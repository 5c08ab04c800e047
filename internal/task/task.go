// Package task defines Task, the executable unit scheduled by the dag and
// scheduler packages. A Task is identified by a canonical absolute location
// and the environment (interpreter) that runs it.
package task

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"path/filepath"
	"slices"
	"strings"

	composeerrors "github.com/maxkimambo/taskcompose/internal/errors"
)

// DefaultEnvironment is used when a task is constructed without WithEnvironment.
const DefaultEnvironment = "sh"

// Task is an immutable value. Two tasks are equal (==) iff their canonical
// location and trimmed environment are equal, so Task can be used directly as
// a map key.
type Task struct {
	location    string
	environment string
}

type options struct {
	environment    string
	hasEnvironment bool
	baseDir        string
	hasBaseDir     bool
}

// Option configures task construction
type Option func(*options)

// WithEnvironment sets the environment that runs the task. Surrounding
// whitespace is trimmed; a blank value is rejected by New.
func WithEnvironment(env string) Option {
	return func(o *options) {
		o.environment = env
		o.hasEnvironment = true
	}
}

// WithBaseDir resolves relative locations against dir instead of the
// process working directory.
func WithBaseDir(dir string) Option {
	return func(o *options) {
		o.baseDir = dir
		o.hasBaseDir = true
	}
}

// New creates a Task with a canonicalized location.
func New(location string, opts ...Option) (Task, error) {
	o := options{environment: DefaultEnvironment}
	for _, opt := range opts {
		opt(&o)
	}

	if strings.TrimSpace(location) == "" {
		return Task{}, composeerrors.NewEmptyLocationError()
	}

	env := strings.TrimSpace(o.environment)
	if env == "" {
		return Task{}, composeerrors.NewEmptyEnvironmentError(location)
	}

	if o.hasBaseDir && strings.TrimSpace(o.baseDir) == "" {
		return Task{}, composeerrors.NewInvalidArgumentError(composeerrors.CodeEmptyBaseDir,
			"base directory must not be empty", "Task construction").
			WithContext("location", location)
	}

	loc, err := canonicalize(location, o.baseDir)
	if err != nil {
		return Task{}, err
	}

	return Task{location: loc, environment: env}, nil
}

// MustNew is like New but panics on error. Intended for fixtures.
func MustNew(location string, opts ...Option) Task {
	t, err := New(location, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// canonicalize returns the cleaned absolute form of location. Symlinks are
// not followed, so the result depends only on the inputs and the working
// directory.
func canonicalize(location, baseDir string) (string, error) {
	if baseDir != "" && !filepath.IsAbs(location) {
		location = filepath.Join(baseDir, location)
	}
	abs, err := filepath.Abs(location)
	if err != nil {
		return "", composeerrors.NewInvalidArgumentError(composeerrors.CodeEmptyLocation,
			"task location cannot be made absolute", "Task construction").
			WithContext("location", location).
			WithOriginalError(err)
	}
	return abs, nil
}

// Location returns the canonical absolute location
func (t Task) Location() string {
	return t.location
}

// Environment returns the trimmed environment
func (t Task) Environment() string {
	return t.environment
}

// IsZero reports whether t was not built by New.
func (t Task) IsZero() bool {
	return t.location == ""
}

// Equal reports whether both tasks have the same location and environment.
func (t Task) Equal(other Task) bool {
	return t == other
}

// ID returns a stable hex SHA-256 identity over the length-prefixed
// (location, environment) pair.
func (t Task) ID() string {
	h := sha256.New()
	var prefix [8]byte
	for _, field := range []string{t.location, t.environment} {
		binary.BigEndian.PutUint64(prefix[:], uint64(len(field)))
		h.Write(prefix[:])
		h.Write([]byte(field))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Compare orders tasks by location, then environment.
func (t Task) Compare(other Task) int {
	if c := strings.Compare(t.location, other.location); c != 0 {
		return c
	}
	return strings.Compare(t.environment, other.environment)
}

// Less reports whether t sorts before other
func (t Task) Less(other Task) bool {
	return t.Compare(other) < 0
}

// String identifies the task by its location
func (t Task) String() string {
	return "Task(" + t.location + ")"
}

// Sort orders tasks in place for deterministic display.
func Sort(tasks []Task) {
	slices.SortFunc(tasks, Task.Compare)
}
