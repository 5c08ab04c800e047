package task

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	composeerrors "github.com/maxkimambo/taskcompose/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name        string
		location    string
		opts        []Option
		wantLoc     string
		wantEnv     string
		expectError bool
	}{
		{
			name:     "relative location resolves against working directory",
			location: "make_tea.sh",
			wantLoc:  filepath.Join(wd, "make_tea.sh"),
			wantEnv:  DefaultEnvironment,
		},
		{
			name:     "explicit environment is trimmed",
			location: "/jobs/a.py",
			opts:     []Option{WithEnvironment("  python3 \t")},
			wantLoc:  filepath.Clean("/jobs/a.py"),
			wantEnv:  "python3",
		},
		{
			name:     "base dir applies to relative locations",
			location: "db/numbers/main.py",
			opts:     []Option{WithBaseDir("/srv/compose")},
			wantLoc:  filepath.Join("/srv/compose", "db/numbers/main.py"),
			wantEnv:  DefaultEnvironment,
		},
		{
			name:     "base dir ignored for absolute locations",
			location: "/opt/job.sh",
			opts:     []Option{WithBaseDir("/srv/compose")},
			wantLoc:  filepath.Clean("/opt/job.sh"),
			wantEnv:  DefaultEnvironment,
		},
		{
			name:     "location is cleaned",
			location: "/jobs/./nested/../a.sh",
			wantLoc:  filepath.Clean("/jobs/a.sh"),
			wantEnv:  DefaultEnvironment,
		},
		{
			name:        "empty location",
			location:    "",
			expectError: true,
		},
		{
			name:        "whitespace location",
			location:    "   ",
			expectError: true,
		},
		{
			name:        "blank environment",
			location:    "a.sh",
			opts:        []Option{WithEnvironment("   ")},
			expectError: true,
		},
		{
			name:        "blank base dir",
			location:    "a.sh",
			opts:        []Option{WithBaseDir(" ")},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.location, tt.opts...)

			if tt.expectError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, composeerrors.ErrInvalidArgument))
				assert.True(t, got.IsZero())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantLoc, got.Location())
			assert.Equal(t, tt.wantEnv, got.Environment())
			assert.False(t, got.IsZero())
		})
	}
}

func TestNew_CanonicalizationIsIdempotent(t *testing.T) {
	first := MustNew("steps/../boil_water.sh")
	second := MustNew(first.Location())

	assert.Equal(t, first, second)
	assert.Equal(t, first.Location(), second.Location())
}

func TestEquality(t *testing.T) {
	a := MustNew("/jobs/a.py", WithEnvironment("python3"))
	b := MustNew("/jobs/../jobs/a.py", WithEnvironment(" python3  "))
	c := MustNew("/jobs/a.py", WithEnvironment("python2"))
	d := MustNew("/jobs/b.py", WithEnvironment("python3"))

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.ID(), b.ID())
	assert.False(t, a.Equal(c))
	assert.NotEqual(t, a.ID(), c.ID())
	assert.False(t, a.Equal(d))

	set := map[Task]struct{}{a: {}}
	_, ok := set[b]
	assert.True(t, ok, "equal tasks must be equal map keys")
}

func TestID_IsStable(t *testing.T) {
	a := MustNew("/jobs/a.sh")

	assert.Len(t, a.ID(), 64)
	assert.Equal(t, a.ID(), MustNew("/jobs/a.sh").ID())

	// pinned digests catch changes to the hash layout
	tests := []struct {
		location string
		env      string
		want     string
	}{
		{"/jobs/a.sh", DefaultEnvironment, "8204217aa4328992f20a6581ef2c0e783ab252023763a34faa918ed7d60f1e1b"},
		{"/jobs/boil_water.sh", "bash", "72797c1f4cd86de2c72e1d546e2dd21658ed9bc55c4ae327df6f782a134baefc"},
	}
	for _, tt := range tests {
		got := MustNew(tt.location, WithEnvironment(tt.env)).ID()
		assert.Equal(t, tt.want, got, "%s (%s)", tt.location, tt.env)
	}

	// length prefixes keep ("/a-b", "c") and ("/a", "b-c") style pairs apart
	x := MustNew("/ab", WithEnvironment("c"))
	y := MustNew("/a", WithEnvironment("bc"))
	assert.NotEqual(t, x.ID(), y.ID())
}

func TestCompareAndSort(t *testing.T) {
	a := MustNew("/jobs/a.sh")
	b := MustNew("/jobs/b.sh")
	b2 := MustNew("/jobs/b.sh", WithEnvironment("bash"))

	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.NotEqual(t, 0, b.Compare(b2))

	tasks := []Task{b, a, b2}
	Sort(tasks)
	assert.Equal(t, []Task{a, b2, b}, tasks)
}

func TestString(t *testing.T) {
	task := MustNew("/jobs/make_tea.sh")
	assert.Equal(t, "Task("+filepath.Clean("/jobs/make_tea.sh")+")", task.String())
}

func TestMustNewPanics(t *testing.T) {
	assert.Panics(t, func() { MustNew("") })
}
