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
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/dwg-dashboard/internal/adapters/driven/auth"
	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
)

const rectangleDXF = "0\nSECTION\n2\nTABLES\n0\nTABLE\n2\nLAYER\n0\nLAYER\n2\nB\n62\n3\n0\nENDTAB\n0\nENDSEC\n" +
	"0\nSECTION\n2\nENTITIES\n0\nLWPOLYLINE\n8\nB\n90\n4\n70\n1\n" +
	"10\n0\n20\n0\n10\n4\n20\n0\n10\n4\n20\n3\n10\n0\n20\n3\n" +
	"0\nENDSEC\n0\nEOF\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLayers_JSON(t *testing.T) {
	path := writeFile(t, "rect.dxf", rectangleDXF)

	out, err := run(t, "layers", path)
	require.NoError(t, err)

	var layers []domain.LayerStats
	require.NoError(t, json.Unmarshal([]byte(out), &layers))
	require.Len(t, layers, 1)
	assert.Equal(t, "B", layers[0].Name)
	assert.Equal(t, 3, layers[0].Color)
	assert.Equal(t, 1, layers[0].EntityCount)
	assert.InDelta(t, 14.0, layers[0].LineLength, 1e-9)
	assert.InDelta(t, 12.0, layers[0].ClosedArea, 1e-9)
}

func TestMeasurements_YAML(t *testing.T) {
	path := writeFile(t, "rect.dxf", rectangleDXF)

	out, err := run(t, "measurements", path, "--format", "yaml")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "total_entities: 1\n"), out)
	assert.NotContains(t, out, "{", "expected block style output")

	var m struct {
		TotalEntities   int     `yaml:"total_entities"`
		TotalClosedArea float64 `yaml:"total_closed_area"`
		BoundingBox     struct {
			Width  float64 `yaml:"width"`
			Height float64 `yaml:"height"`
		} `yaml:"bounding_box"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &m))
	assert.Equal(t, 1, m.TotalEntities)
	assert.InDelta(t, 12.0, m.TotalClosedArea, 1e-9)
	assert.InDelta(t, 4.0, m.BoundingBox.Width, 1e-9)
	assert.InDelta(t, 3.0, m.BoundingBox.Height, 1e-9)
}

func TestPreview_JSON(t *testing.T) {
	path := writeFile(t, "rect.dxf", rectangleDXF)

	out, err := run(t, "preview", path, "-f", "json")
	require.NoError(t, err)

	var preview domain.PreviewGeometry
	require.NoError(t, json.Unmarshal([]byte(out), &preview))
	require.Len(t, preview.Entities, 1)
	data, ok := preview.Entities[0].Data.(domain.PolylineData)
	require.True(t, ok, "expected polyline data, got %T", preview.Entities[0].Data)
	assert.True(t, data.Closed)
	assert.Len(t, data.Points, 4)
}

func TestAnalyse_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"unsupported extension", []string{"layers", writeFile(t, "plan.pdf", "x")}, domain.ErrUnsupportedFormat},
		{"unparseable", []string{"layers", writeFile(t, "bad.dxf", "not a drawing")}, domain.ErrUnparseable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := run(t, "layers")
	assert.Error(t, err, "file argument is required")

	_, err = run(t, "layers", writeFile(t, "rect.dxf", rectangleDXF), "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")

	out, err := run(t, "token", "--subject", "ci", "--ttl", "60")
	require.NoError(t, err)

	claims, err := auth.NewAdapter("cli-secret").ParseToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "ci", claims.Subject)
	assert.Equal(t, int64(60), claims.ExpiresAt-claims.IssuedAt)
}

func TestToken_NoSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := run(t, "token")
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "dwgctl version dev\n", out)
}
