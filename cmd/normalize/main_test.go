package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writePayload(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "payload.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const dashboardPayload = `{
	"comparison": {"data": {
		"detailed_comparison": [
			{"aspect": "Food", "value": 3.2},
			{"aspect": "Venue", "value": 4.7, "performance": "Strength"}
		]
	}},
	"scatter": {"data": {"scatter_data": [
		{"satisfaction": 4.6, "recommendation_score": 9},
		{"satisfaction": 2.0, "recommendation_score": 4}
	]}}
}`

func TestShapeCommand(t *testing.T) {
	path := writePayload(t, dashboardPayload)

	out, err := run(t, "", "shape", path, "--section", "scatter")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "ScatterLegacy", got["shape"])
	assert.Equal(t, true, got["point_shape"])
}

func TestAspectsCommand(t *testing.T) {
	out, err := run(t, dashboardPayload, "aspects", "-", "--section", "comparison")
	require.NoError(t, err)

	var got struct {
		Shape   string `json:"shape"`
		Records []struct {
			Aspect      string `json:"aspect"`
			Performance string `json:"performance"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "DetailedComparisonList", got.Shape)
	require.Len(t, got.Records, 2)
	assert.Equal(t, "Venue", got.Records[0].Aspect)
	assert.Equal(t, "strength", got.Records[0].Performance)
	assert.Equal(t, "Food", got.Records[1].Aspect)
	assert.Equal(t, "weakness", got.Records[1].Performance)
}

func TestPointsCommandIsReproducibleWithSeed(t *testing.T) {
	path := writePayload(t, dashboardPayload)

	first, err := run(t, "", "points", path, "--section", "scatter", "--seed", "42")
	require.NoError(t, err)
	second, err := run(t, "", "points", path, "--section", "scatter", "--seed", "42")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "Response 2")
}

func TestCommandErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := run(t, "", "shape", filepath.Join(t.TempDir(), "missing.json"))
		assert.ErrorContains(t, err, "read payload")
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := run(t, "{", "aspects", "-")
		assert.ErrorContains(t, err, "decode payload")
	})

	t.Run("missing argument", func(t *testing.T) {
		_, err := run(t, "", "points")
		assert.Error(t, err)
	})
}
