package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenario = `scheduler:
  discipline: fcfs
  processes:
    - name: P1
      arrivalTime: 0
      requiredRuntime: 2
    - name: P2
      arrivalTime: 1
      requiredRuntime: 1
events:
  enabled: false
  queueBuffer: 1
`

func TestRun(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(scenario), 0o644))
	reportPath := filepath.Join(dir, "report.json")

	testCases := []struct {
		description string
		args        []string
		expect      []string
		expectErr   bool
	}{
		{
			description: "scenario file",
			args:        []string{"-config", configPath, "-log-level", "error"},
			expect:      []string{"fcfs tick 1", "fcfs session drained after tick 3, finished: [P1 P2]"},
		},
		{
			description: "discipline override and saved report",
			args:        []string{"-config", configPath, "-discipline", "hpf", "-out", reportPath, "-log-level", "error"},
			expect:      []string{"hpf tick 1", "hpf session drained after tick 3"},
		},
		{
			description: "banker state from flags",
			args: []string{
				"-available", "[3,3,2]",
				"-max", "[[7,5,3],[3,2,2],[9,0,2],[2,2,2],[4,3,3]]",
				"-allocation", "[[0,1,0],[2,0,0],[3,0,2],[2,1,1],[0,0,2]]",
				"-request", "1:[1,0,2]",
				"-request", "0:[0,2,0]",
				"-log-level", "error",
			},
			expect: []string{
				"initial state is safe, sequence: [1 3 4 0 2]",
				"granted, system is in a safe state",
				"rejected, no safe sequence exists",
			},
		},
		{description: "request without state", args: []string{"-request", "1:[1]"}, expectErr: true},
		{description: "malformed request", args: []string{"-request", "1[1]"}, expectErr: true},
		{description: "partial state", args: []string{"-available", "[1]"}, expectErr: true},
		{description: "unknown discipline", args: []string{"-discipline", "sjf"}, expectErr: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			var out bytes.Buffer
			err := run(context.Background(), testCase.args, &out)
			if testCase.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, fragment := range testCase.expect {
				assert.Contains(t, out.String(), fragment)
			}
		})
	}

	saved, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(saved), `"drained"`)
}
