package synth

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestArgs(t *testing.T) {
	tests := []struct {
		name     string
		command  []string
		expected []string
	}{
		{"placeholder", []string{"python3", "-m", "codeclare.main", "--in", "{model}"}, []string{"python3", "-m", "codeclare.main", "--in", "input/order.json"}},
		{"embedded_placeholder", []string{"synth", "--in={model}"}, []string{"synth", "--in=input/order.json"}},
		{"appended", []string{"synth"}, []string{"synth", "input/order.json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner(tt.command, 0, nil)
			assert.Equal(t, tt.expected, r.Args("input/order.json"))
		})
	}
}

func TestRunSuccess(t *testing.T) {
	requireShell(t)

	var mirror bytes.Buffer
	r := NewRunner([]string{"sh", "-c", `echo "realizable: $1"`, "sh", "{model}"}, time.Second*5, nil)
	r.SetOutput(&mirror, nil)

	result, err := r.Run(context.Background(), "order.json")
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "realizable: order.json\n", result.Stdout)
	assert.Equal(t, result.Stdout, mirror.String())
}

func TestRunFailure(t *testing.T) {
	requireShell(t)

	r := NewRunner([]string{"sh", "-c", "echo boom >&2; exit 3", "sh", "{model}"}, 0, nil)
	result, err := r.Run(context.Background(), "order.json")
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 3, result.ExitCode)
	assert.Equal(t, "boom\n", result.Stderr)

	var exitErr *exec.ExitError
	assert.True(t, errors.As(err, &exitErr))
}

func TestRunTimeout(t *testing.T) {
	requireShell(t)

	r := NewRunner([]string{"sh", "-c", "sleep 5", "sh", "{model}"}, 50*time.Millisecond, nil)
	result, err := r.Run(context.Background(), "order.json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, -1, result.ExitCode)
}

func TestRunEmptyCommand(t *testing.T) {
	_, err := NewRunner(nil, 0, nil).Run(context.Background(), "order.json")
	assert.Error(t, err)
}

func TestRunMissingBinary(t *testing.T) {
	r := NewRunner([]string{"codeclare-no-such-binary-xyz"}, 0, nil)
	result, err := r.Run(context.Background(), "order.json")
	require.Error(t, err)
	assert.Equal(t, -1, result.ExitCode)
}
