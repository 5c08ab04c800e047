package logger

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerInitialization(t *testing.T) {
	assert.NotNil(t, User, "User logger should not be nil after init")
	assert.NotNil(t, Op, "Op logger should not be nil after init")
	assert.Same(t, GetLogger(), GetLogger())
	assert.Same(t, GetLogger().GetInternalLogger(), User.logger)
	assert.Same(t, User.logger, Op.logger)
}

func TestLoggerSetup(t *testing.T) {
	tests := []struct {
		name     string
		verbose  bool
		jsonLogs bool
		quiet    bool
		level    logrus.Level
	}{
		{"Default", false, false, false, logrus.InfoLevel},
		{"Verbose", true, false, false, logrus.DebugLevel},
		{"Quiet", false, false, true, logrus.ErrorLevel},
		{"JSON", false, true, false, logrus.InfoLevel},
		{"Verbose JSON", true, true, false, logrus.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_MODE", "")
			t.Setenv("LOG_FORMAT", "")

			var user, op bytes.Buffer
			SetupWithWriters(tt.verbose, tt.jsonLogs, tt.quiet, &user, &op)

			require.NotNil(t, User)
			require.NotNil(t, Op)
			assert.Equal(t, tt.level, GetLogger().GetInternalLogger().GetLevel())
		})
	}
}

func TestSetupHonoursEnvironment(t *testing.T) {
	t.Setenv("LOG_MODE", "quiet")
	t.Setenv("LOG_FORMAT", "json")

	var user, op bytes.Buffer
	SetupWithWriters(true, false, false, &user, &op)

	assert.Equal(t, logrus.ErrorLevel, GetLogger().GetInternalLogger().GetLevel())

	User.Error("boom")
	assert.Contains(t, user.String(), `"msg":"❌ boom"`)
}

func TestLogTypeRouting(t *testing.T) {
	t.Setenv("LOG_MODE", "")
	t.Setenv("LOG_FORMAT", "")

	var user, op bytes.Buffer
	SetupWithWriters(false, false, false, &user, &op)

	User.Successf("task %s done", "boil_water")
	Op.WithFields(map[string]interface{}{
		"task":  "boil_water",
		"level": 2,
	}).Info("task finished")

	assert.Equal(t, "✅ task boil_water done\n", user.String())
	assert.Equal(t, "INFO: task finished level=2 task=boil_water\n", op.String())
}

func TestOpFieldHelpers(t *testing.T) {
	t.Setenv("LOG_MODE", "")
	t.Setenv("LOG_FORMAT", "")

	var user, op bytes.Buffer
	SetupWithWriters(false, false, false, &user, &op)

	Op.With(WithRunID("3f0c9a7e"), WithTask("steep_tea"), WithLevel(3)).Warn("task slow")

	assert.Equal(t, "WARNING: task slow level=3 run_id=3f0c9a7e task=steep_tea\n", op.String())
	assert.Empty(t, user.String())
}

func TestUserLoggerMethods(t *testing.T) {
	t.Setenv("LOG_MODE", "")
	t.Setenv("LOG_FORMAT", "")

	tests := []struct {
		name     string
		log      func()
		expected string
	}{
		{"info", func() { User.Info("plain") }, "plain\n"},
		{"starting", func() { User.Startingf("run %d", 1) }, "🚀 run 1\n"},
		{"level", func() { User.Levelf("level %d", 2) }, "📶 level 2\n"},
		{"skipped", func() { User.Skippedf("%d tasks", 3) }, "⏭️ 3 tasks\n"},
		{"warn", func() { User.Warn("careful") }, "⚠️ careful\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var user, op bytes.Buffer
			SetupWithWriters(false, false, false, &user, &op)

			tt.log()

			assert.Equal(t, tt.expected, user.String())
			assert.Empty(t, op.String())
		})
	}
}

func TestOpDebugOnlyWhenVerbose(t *testing.T) {
	t.Setenv("LOG_MODE", "")
	t.Setenv("LOG_FORMAT", "")

	var user, op bytes.Buffer
	SetupWithWriters(false, false, false, &user, &op)
	Op.With().Debug("hidden")
	assert.Empty(t, op.String())

	SetupWithWriters(true, false, false, &user, &op)
	Op.With().Debug("shown")
	assert.Contains(t, op.String(), "shown")
}

func TestCLIFormatter(t *testing.T) {
	entry := &logrus.Entry{
		Message: "hello",
		Level:   logrus.WarnLevel,
		Time:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Data: logrus.Fields{
			"log_type": string(OpLog),
			"b":        2,
			"a":        1,
		},
	}

	tests := []struct {
		name      string
		formatter *CLIFormatter
		expected  string
	}{
		{
			name:      "message only",
			formatter: &CLIFormatter{DisableTimestamp: true, DisableLevel: true},
			expected:  "hello\n",
		},
		{
			name:      "level and sorted fields",
			formatter: &CLIFormatter{DisableTimestamp: true, DisableColors: true},
			expected:  "WARNING: hello a=1 b=2\n",
		},
		{
			name:      "timestamp",
			formatter: &CLIFormatter{DisableColors: true},
			expected:  "2024-01-02 03:04:05 WARNING: hello a=1 b=2\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.formatter.Format(entry)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(out))
		})
	}
}

func TestOutputRouterHookLeavesEntryUntouched(t *testing.T) {
	var user bytes.Buffer
	hook := NewOutputRouterHook()
	hook.UserWriter = &user

	entry := &logrus.Entry{
		Message: "done",
		Data:    logrus.Fields{"log_type": string(UserLog), "emoji": "✅"},
	}
	require.NoError(t, hook.Fire(entry))

	assert.Equal(t, "done", entry.Message)
	assert.True(t, strings.HasPrefix(user.String(), "✅ done"))
}
