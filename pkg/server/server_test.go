package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chazu/jaring/pkg/config"
	"github.com/chazu/jaring/pkg/presets"
	"github.com/chazu/jaring/pkg/solid"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, withStore bool) *Server {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>jaring</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.css"), []byte("body{}"), 0o644))

	cfg := config.Default()
	cfg.Server.StaticDir = dir
	cfg.Scene.Supersample = 1

	var store *presets.Store
	if withStore {
		var err error
		store, err = presets.Open(filepath.Join(t.TempDir(), "presets.db"))
		require.NoError(t, err)
		t.Cleanup(func() { store.Close() })
	}
	return New(cfg, store)
}

func do(t *testing.T, s *Server, method, target, body string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req, fiber.TestConfig{Timeout: 30 * time.Second})
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, data
}

// ============================================================
// Static assets and health
// ============================================================

func TestStaticFiles(t *testing.T) {
	s := newTestServer(t, false)

	resp, body := do(t, s, "GET", "/", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "jaring")
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	resp, _ = do(t, s, "GET", "/app.css", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/css")
}

func TestNotFoundFallback(t *testing.T) {
	s := newTestServer(t, false)
	resp, body := do(t, s, "GET", "/missing/page.js", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "404 Not Found", string(body))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, true)
	resp, body := do(t, s, "GET", "/health/live", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"alive"}`, string(body))

	resp, body = do(t, s, "GET", "/health/ready", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ready"}`, string(body))
}

// ============================================================
// Shapes and calculation
// ============================================================

func TestListShapes(t *testing.T) {
	s := newTestServer(t, false)
	resp, body := do(t, s, "GET", "/api/shapes", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []struct {
		Type   string `json:"type"`
		Name   string `json:"name"`
		Color  string `json:"color"`
		Params []struct {
			Key string `json:"key"`
		} `json:"params"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got, 6)
	assert.Equal(t, "cube", got[0].Type)
	assert.Equal(t, "Kubus", got[0].Name)
	assert.Equal(t, "#8D6E63", got[0].Color)
	assert.Equal(t, "s", got[0].Params[0].Key)
}

func TestGetShape(t *testing.T) {
	s := newTestServer(t, false)
	resp, body := do(t, s, "GET", "/api/shapes/prism", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"t_alas"`)
	assert.Contains(t, string(body), `"volume"`)

	resp, _ = do(t, s, "GET", "/api/shapes/sphere", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetRigYAML(t *testing.T) {
	s := newTestServer(t, false)
	resp, body := do(t, s, "GET", "/api/shapes/cube/rig?s=2", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "yaml")
	assert.Contains(t, string(body), "lid")
}

func TestCalculate(t *testing.T) {
	s := newTestServer(t, false)

	tests := []struct {
		name   string
		body   string
		status int
		volume float64
		area   float64
	}{
		{"cube", `{"shape":"cube","params":{"s":4}}`, 200, 64, 96},
		{"cone string input", `{"shape":"cone","params":{"r":"2","t":5}}`, 200, 20.94, 46.40},
		{"prism equilateral", `{"shape":"prism","params":{"a":4,"t_alas":3,"t_prisma":6},"prismPolicy":"equilateral"}`, 200, 36, 84},
		{"clamped", `{"shape":"cube","params":{"s":-3}}`, 200, 0, 0.06},
		{"unknown shape", `{"shape":"sphere","params":{}}`, 400, 0, 0},
		{"missing parameter", `{"shape":"box","params":{"p":1,"l":2}}`, 400, 0, 0},
		{"bad policy", `{"shape":"prism","params":{"a":4,"t_alas":3,"t_prisma":6},"prismPolicy":"x"}`, 400, 0, 0},
		{"bad json", `{"shape":`, 400, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, s, "POST", "/api/calc", tt.body)
			require.Equal(t, tt.status, resp.StatusCode, string(body))
			if tt.status != 200 {
				return
			}
			var got struct {
				Result struct {
					Volume      float64 `json:"volume"`
					SurfaceArea float64 `json:"surfaceArea"`
				} `json:"result"`
				VolumeText string `json:"volumeText"`
			}
			require.NoError(t, json.Unmarshal(body, &got))
			assert.InDelta(t, tt.volume, got.Result.Volume, 1e-9)
			assert.InDelta(t, tt.area, got.Result.SurfaceArea, 1e-9)
			assert.Contains(t, got.VolumeText, "cm³")
		})
	}
}

func TestCalculateEmptyBody(t *testing.T) {
	s := newTestServer(t, false)
	resp, _ := do(t, s, "POST", "/api/calc", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ============================================================
// Frames and images
// ============================================================

func TestFrame(t *testing.T) {
	s := newTestServer(t, false)
	resp, body := do(t, s, "GET", "/api/frame?shape=box&p=6&l=4&t=3&fold=1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var got struct {
		Shape  string       `json:"shape"`
		Params solid.Params `json:"params"`
		Fold   float64      `json:"fold"`
		Meshes []struct {
			PartName string    `json:"partName"`
			Vertices []float32 `json:"vertices"`
			Outline  []uint32  `json:"outline"`
		} `json:"meshes"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "box", got.Shape)
	assert.Equal(t, 1.0, got.Fold)
	assert.Equal(t, solid.Params{"p": 6, "l": 4, "t": 3}, got.Params)
	assert.Len(t, got.Meshes, 6)
	for _, m := range got.Meshes {
		assert.Len(t, m.Outline, 8, "%s outline", m.PartName)
		for i := 1; i < len(m.Vertices); i += 3 {
			assert.InDelta(t, 0, m.Vertices[i], 1e-3, "%s vertex %d is not flat", m.PartName, i/3)
		}
	}
}

func TestFrameErrors(t *testing.T) {
	s := newTestServer(t, false)
	resp, _ := do(t, s, "GET", "/api/frame?shape=sphere", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = do(t, s, "GET", "/api/frame?shape=cube&fold=half", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRenderPNG(t *testing.T) {
	s := newTestServer(t, false)
	resp, body := do(t, s, "GET", "/api/render.png?shape=cylinder&fold=0.5&w=64&h=48", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(string(body), "\x89PNG"))

	resp, _ = do(t, s, "GET", "/api/render.png?w=1", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProfilePNG(t *testing.T) {
	s := newTestServer(t, false)
	resp, body := do(t, s, "GET", "/api/profile.png?shape=pyramid&samples=10", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.True(t, strings.HasPrefix(string(body), "\x89PNG"))
}

// ============================================================
// Presets
// ============================================================

func TestPresetsCRUD(t *testing.T) {
	s := newTestServer(t, true)

	resp, body := do(t, s, "POST", "/api/presets", `{"name":"tall cone","shape":"cone","params":{"r":2,"t":9}}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var created presets.Preset
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, solid.Cone, created.Shape)

	resp, body = do(t, s, "GET", "/api/presets/"+created.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "tall cone")

	resp, body = do(t, s, "GET", "/api/presets?shape=cone", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []presets.Preset
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list, 1)

	resp, body = do(t, s, "GET", "/api/presets?shape=cube", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))

	resp, _ = do(t, s, "DELETE", "/api/presets/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, s, "GET", "/api/presets/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPresetValidation(t *testing.T) {
	s := newTestServer(t, true)
	resp, _ := do(t, s, "POST", "/api/presets", `{"name":"","shape":"cube","params":{"s":2}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = do(t, s, "POST", "/api/presets", `{"name":"x","shape":"cube","params":{}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPresetsDisabled(t *testing.T) {
	s := newTestServer(t, false)
	resp, _ := do(t, s, "GET", "/api/presets", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
