package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/born-ml/micrograd/internal/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mulAddGraph = `
leaf "a" { value = 2.0 }
leaf "b" { value = -3.0 }
leaf "c" { value = 10.0 }
node "d" { expr = a * b }
node "e" { expr = d + c }
`

func writeGraph(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func gradsByLabel(t *testing.T, out []byte) map[string]float64 {
	t.Helper()
	var report struct {
		Nodes []struct {
			Label string  `json:"label"`
			Grad  float64 `json:"grad"`
		} `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal(out, &report))

	grads := make(map[string]float64, len(report.Nodes))
	for _, n := range report.Nodes {
		grads[n.Label] = n.Grad
	}
	return grads
}

func TestRun_JSON(t *testing.T) {
	for _, workers := range []string{"0", "2"} {
		t.Run("workers="+workers, func(t *testing.T) {
			var out, logs bytes.Buffer
			err := run(&out, &logs, []string{"-format", "json", "-workers", workers, writeGraph(t, mulAddGraph)})
			require.NoError(t, err)

			grads := gradsByLabel(t, out.Bytes())
			assert.Equal(t, 1.0, grads["e"])
			assert.Equal(t, 1.0, grads["d"])
			assert.Equal(t, 1.0, grads["c"])
			assert.Equal(t, -3.0, grads["a"])
			assert.Equal(t, 2.0, grads["b"])
		})
	}
}

func TestRun_Text(t *testing.T) {
	var out, logs bytes.Buffer
	require.NoError(t, run(&out, &logs, []string{writeGraph(t, mulAddGraph)}))

	assert.Contains(t, out.String(), "LABEL")
	assert.Equal(t, 6, strings.Count(out.String(), "\n"))
}

func TestRun_Logging(t *testing.T) {
	var out, logs bytes.Buffer
	require.NoError(t, run(&out, &logs, []string{"-log-level", "debug", writeGraph(t, mulAddGraph)}))

	assert.Contains(t, logs.String(), "Graph loaded")
	assert.Contains(t, logs.String(), "Running backward pass")
}

func TestRun_Version(t *testing.T) {
	var out, logs bytes.Buffer
	require.NoError(t, run(&out, &logs, []string{"version"}))
	assert.Equal(t, "micrograd "+version+"\n", out.String())
}

func TestRun_Errors(t *testing.T) {
	var out, logs bytes.Buffer

	err := run(&out, &logs, []string{"-format", "dot", "g.hcl"})
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)

	err = run(&out, &logs, []string{filepath.Join(t.TempDir(), "missing.hcl")})
	assert.Error(t, err)
	assert.NotErrorAs(t, err, &exitErr)

	err = run(&out, &logs, []string{writeGraph(t, `leaf "a" { value = 1 }
node "r" { expr = pow(a, a) }`)})
	assert.Error(t, err)
}
