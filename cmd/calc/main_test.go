package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestPress(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "sum", args: []string{"press", "12", "+", "3", "="}, want: "15\n"},
		{name: "quoted expression", args: []string{"press", "1200 × 3 ="}, want: "3,600\n"},
		{name: "pending", args: []string{"press", "7", "÷"}, want: "7 ÷\n0\n"},
		{name: "divide by zero", args: []string{"press", "1 / 0 ="}, want: "Error\n"},
		{name: "degrees by default", args: []string{"press", "90", "sin"}, want: "1\n"},
		{name: "radians flag", args: []string{"--radians", "press", "0", "cos"}, want: "1\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, _, err := run(t, "", tc.args...)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestPressUnknownKey(t *testing.T) {
	_, _, err := run(t, "", "press", "2", "hypot", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown key")
}

func TestPressNeedsKeys(t *testing.T) {
	_, _, err := run(t, "", "press")
	assert.Error(t, err)
}

func TestConfigFileAngleMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("angle_mode: rad\n"), 0o600))

	out, _, err := run(t, "", "--config", path, "press", "0", "cos")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)

	out, _, err = run(t, "", "--config", path, "press", "DEG", "180", "cos")
	require.NoError(t, err)
	assert.Equal(t, "-1\n", out)
}

func TestConfigFileMissing(t *testing.T) {
	_, _, err := run(t, "", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "press", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestRepl(t *testing.T) {
	input := strings.Join([]string{
		"12 +",
		"",
		"3 =",
		"5 bogus",
		"DEL",
		"quit",
		"9",
	}, "\n")

	out, errOut, err := run(t, input, "repl")
	require.NoError(t, err)

	assert.Equal(t, "12 +\n0\n15\n1\n", out)
	assert.Contains(t, errOut, "unknown key")
}

func TestReplEOF(t *testing.T) {
	out, _, err := run(t, "2 x² =\n", "repl")
	require.NoError(t, err)
	assert.Equal(t, "4\n", out)
}
