package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runPredict(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run("predict", args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Table(t *testing.T) {
	code, out, _ := runPredict("-preset", "acww", "95 75/72")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "Prices: 95 75/72")
	assert.Contains(t, out, "Falling")
}

func TestRun_JSON(t *testing.T) {
	code, out, _ := runPredict("-json", "-preset", "acww", "95", "75/72")
	require.Equal(t, exitOK, code)
	var result map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Contains(t, result, "falling")
}

func TestRun_Unexplained(t *testing.T) {
	// No pattern lifts MON1 to 1999 bells.
	code, out, _ := runPredict("100 1999")
	assert.Equal(t, exitUnexplained, code)
	assert.Contains(t, out, "No pattern explains")
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no prices", nil},
		{"unknown flag", []string{"-verbose", "95"}},
		{"no digits", []string{"abc"}},
		{"unknown preset", []string{"-preset", "acgc", "95"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, errOut := runPredict(tt.args...)
			assert.Equal(t, exitUsage, code)
			assert.Empty(t, out)
			assert.Contains(t, errOut, "usage: predict")
		})
	}
}
