package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/mosaic"
	"github.com/aretw0/mosaic/pkg/dictionary"
	"github.com/aretw0/mosaic/pkg/domain"
	"github.com/aretw0/mosaic/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockService for handler tests that need failures.
type MockService struct {
	AvatarFunc      func(ctx context.Context, id string, format domain.Format) (*mosaic.AvatarResult, error)
	ETagFunc        func(id string, format domain.Format) string
	DefineFunc      func(ctx context.Context, word string) (*dictionary.Definition, error)
	DeterminantFunc func(ctx context.Context, source string) (string, error)
}

func (m *MockService) Avatar(ctx context.Context, id string, format domain.Format) (*mosaic.AvatarResult, error) {
	return m.AvatarFunc(ctx, id, format)
}

func (m *MockService) ETag(id string, format domain.Format) string {
	if m.ETagFunc == nil {
		return ""
	}
	return m.ETagFunc(id, format)
}

func (m *MockService) Define(ctx context.Context, word string) (*dictionary.Definition, error) {
	return m.DefineFunc(ctx, word)
}

func (m *MockService) Determinant(ctx context.Context, source string) (string, error) {
	return m.DeterminantFunc(ctx, source)
}

func newTestHandler(t *testing.T, svc Service, opts ...Option) http.Handler {
	t.Helper()
	h, err := NewHandler(svc, opts...)
	require.NoError(t, err)
	return h
}

func realService(t *testing.T, opts ...mosaic.Option) *mosaic.Service {
	t.Helper()
	svc, err := mosaic.New(opts...)
	require.NoError(t, err)
	return svc
}

func serve(h http.Handler, method, target string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestGetIndex(t *testing.T) {
	h := newTestHandler(t, realService(t))

	w := serve(h, "GET", "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	body := w.Body.String()
	assert.Contains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, "<h1>mosaic</h1>")
	assert.Contains(t, body, `<img src="/random-avatar/mosaic"`)
}

func TestGetRandomAvatar(t *testing.T) {
	svc := realService(t)
	h := newTestHandler(t, svc)

	w := serve(h, "GET", "/random-avatar/alice", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=86400", w.Header().Get("Cache-Control"))
	etag := w.Header().Get("ETag")
	assert.NotEmpty(t, etag)

	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())

	want, err := svc.Avatar(context.Background(), "alice", domain.FormatPNG)
	require.NoError(t, err)
	assert.Equal(t, want.Data, w.Body.Bytes())

	req := httptest.NewRequest("GET", "/random-avatar/alice", nil)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestGetRandomAvatar_NotModifiedSkipsRendering(t *testing.T) {
	svc := &MockService{
		ETagFunc: func(id string, format domain.Format) string {
			return `"fp:00000001.` + string(format) + `"`
		},
		AvatarFunc: func(ctx context.Context, id string, format domain.Format) (*mosaic.AvatarResult, error) {
			t.Errorf("avatar rendered for %q despite matching If-None-Match", id)
			return nil, errors.New("unexpected render")
		},
	}
	h := newTestHandler(t, svc)

	req := httptest.NewRequest("GET", "/random-avatar/alice?format=gif", nil)
	req.Header.Set("If-None-Match", `W/"fp:00000001.gif"`)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Equal(t, `"fp:00000001.gif"`, w.Header().Get("ETag"))
	assert.Contains(t, w.Header().Get("Cache-Control"), "max-age=")

	rendered := false
	svc.AvatarFunc = func(ctx context.Context, id string, format domain.Format) (*mosaic.AvatarResult, error) {
		rendered = true
		return &mosaic.AvatarResult{Format: domain.FormatGIF, Data: []byte("GIF89a"), ETag: `"fp:00000001.gif"`}, nil
	}
	req = httptest.NewRequest("GET", "/random-avatar/alice?format=gif", nil)
	req.Header.Set("If-None-Match", `"stale"`)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, rendered)
}

func TestGetRandomAvatar_Formats(t *testing.T) {
	h := newTestHandler(t, realService(t))

	tests := map[string]string{
		"png":  "image/png",
		"gif":  "image/gif",
		"bmp":  "image/bmp",
		"tiff": "image/tiff",
		"tif":  "image/tiff",
	}
	for format, contentType := range tests {
		w := serve(h, "GET", "/random-avatar/bob?format="+format, "")
		require.Equal(t, http.StatusOK, w.Code, format)
		assert.Equal(t, contentType, w.Header().Get("Content-Type"), format)
	}

	w := serve(h, "GET", "/random-avatar/bob?format=webp", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRandomAvatar_EscapedIdentifiers(t *testing.T) {
	svc := realService(t)
	h := newTestHandler(t, svc)

	for target, id := range map[string]string{
		"/random-avatar/a%20b":              "a b",
		"/random-avatar/100%25":             "100%",
		"/random-avatar/x%2Fy":              "x/y",
		"/random-avatar/%E6%97%A5%E6%9C%AC": "日本",
	} {
		w := serve(h, "GET", target, "")
		require.Equal(t, http.StatusOK, w.Code, target)

		want, err := svc.Avatar(context.Background(), id, "")
		require.NoError(t, err)
		assert.Equal(t, want.Data, w.Body.Bytes(), target)
	}
}

func TestGetRandomAvatar_InputLimit(t *testing.T) {
	h := newTestHandler(t, realService(t), WithMaxInputSize(4))

	assert.Equal(t, http.StatusOK, serve(h, "GET", "/random-avatar/abcd", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, "GET", "/random-avatar/abcde", "").Code)
}

func TestGetRandomAvatar_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"Configuration", &domain.ConfigError{Field: "image_size", Reason: "bad"}, http.StatusInternalServerError, "Image construction error"},
		{"Encoding", &domain.EncodingError{Format: domain.FormatPNG, Err: assert.AnError}, http.StatusInternalServerError, "Image encoding error"},
		{"Unknown format", domain.ErrUnknownFormat, http.StatusBadRequest, "Unknown image format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, &MockService{
				AvatarFunc: func(ctx context.Context, id string, format domain.Format) (*mosaic.AvatarResult, error) {
					return nil, tt.err
				},
			})
			w := serve(h, "GET", "/random-avatar/x", "")
			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestGetDefinition(t *testing.T) {
	var gotWord string
	h := newTestHandler(t, &MockService{
		DefineFunc: func(ctx context.Context, word string) (*dictionary.Definition, error) {
			gotWord = word
			return &dictionary.Definition{
				Headword:  dictionary.Headword{Word: "ser*en*dip*i*ty"},
				ShortDefs: []string{"finding good things by chance", "<b>not</b> markup"},
			}, nil
		},
	})

	w := serve(h, "GET", "/define/serendipity", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "serendipity", gotWord)
	body := w.Body.String()
	assert.Contains(t, body, "<h1>serendipity</h1>")
	assert.Contains(t, body, "<p>finding good things by chance</p>")
	assert.Contains(t, body, "&lt;b&gt;not&lt;/b&gt; markup")
}

func TestGetDefinition_Errors(t *testing.T) {
	tests := []struct {
		err  error
		code int
		body string
	}{
		{dictionary.ErrNoAPIKey, http.StatusServiceUnavailable, "NoApiKey"},
		{dictionary.ErrResponse, http.StatusInternalServerError, "ResponseError"},
		{dictionary.ErrNoResults, http.StatusInternalServerError, "NoResults"},
	}
	for _, tt := range tests {
		h := newTestHandler(t, &MockService{
			DefineFunc: func(ctx context.Context, word string) (*dictionary.Definition, error) {
				return nil, tt.err
			},
		})
		w := serve(h, "GET", "/define/word", "")
		assert.Equal(t, tt.code, w.Code)
		assert.Contains(t, w.Body.String(), tt.body)
	}
}

func TestGetDefinition_SanitizesWord(t *testing.T) {
	var gotWord string
	h := newTestHandler(t, &MockService{
		DefineFunc: func(ctx context.Context, word string) (*dictionary.Definition, error) {
			gotWord = word
			return &dictionary.Definition{}, nil
		},
	})

	w := serve(h, "GET", "/define/%1Bcat%07", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cat", gotWord)

	w = serve(h, "GET", "/define/%1B", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostMatrixDeterminant(t *testing.T) {
	h := newTestHandler(t, realService(t))

	w := serve(h, "POST", "/matrix-determinant", `{"value": "[[1, 2], [3, 4]]"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"value": "-2"}`, w.Body.String())

	w = serve(h, "POST", "/matrix-determinant", `{"value": "[[1, 2]]"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotContains(t, resp, "value")
	assert.True(t, strings.HasPrefix(resp["error_reason"], "Calculation error: '"))

	w = serve(h, "POST", "/matrix-determinant", `{"value": "7"}`)
	assert.JSONEq(t, `{"error_reason": "Input is not a matrix"}`, w.Body.String())
}

func TestPostMatrixDeterminant_InvalidBody(t *testing.T) {
	h := newTestHandler(t, realService(t))

	assert.Equal(t, http.StatusBadRequest, serve(h, "POST", "/matrix-determinant", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, "POST", "/matrix-determinant", `{"value": 3}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, "POST", "/matrix-determinant", `not json`).Code)
}

func TestPostMatrixDeterminant_Limits(t *testing.T) {
	h := newTestHandler(t, realService(t), WithMaxInputSize(64))

	t.Run("Body too large", func(t *testing.T) {
		body := `{"value": "[[` + strings.Repeat("1, ", 400) + `1]]"}`
		w := serve(h, "POST", "/matrix-determinant", body)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("Value over input limit", func(t *testing.T) {
		body := `{"value": "[[` + strings.Repeat("1, ", 30) + `1]]"}`
		w := serve(h, "POST", "/matrix-determinant", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid matrix")
	})

	t.Run("Oversized entry", func(t *testing.T) {
		w := serve(h, "POST", "/matrix-determinant", `{"value": "[[3.42e999999]]"}`)
		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, strings.HasPrefix(resp["error_reason"], "Parse error: '"), resp["error_reason"])
	})
}

func TestHealthAndInfo(t *testing.T) {
	h := newTestHandler(t, realService(t))

	w := serve(h, "GET", "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())

	w = serve(h, "GET", "/info", "")
	require.Equal(t, http.StatusOK, w.Code)
	var info map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "mosaic-http", info["app"])
	assert.Equal(t, strings.TrimSpace(mosaic.Version), info["version"])
	assert.Equal(t, "1.0.0", info["api_version"])
}

func TestOpenAPISpec(t *testing.T) {
	doc, err := GetSwagger()
	require.NoError(t, err)
	assert.NotNil(t, doc.Paths.Find("/random-avatar/{id}"))

	w := serve(newTestHandler(t, realService(t)), "GET", "/openapi.yaml", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	h := newTestHandler(t, realService(t, mosaic.WithHooks(metrics.Hooks())), WithGatherer(reg))
	require.Equal(t, http.StatusOK, serve(h, "GET", "/random-avatar/metrics", "").Code)

	w := serve(h, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `mosaic_avatars_generated_total{cache="miss",format="png"} 1`)

	noMetrics := newTestHandler(t, realService(t))
	assert.Equal(t, http.StatusNotFound, serve(noMetrics, "GET", "/metrics", "").Code)
}

func TestCORSAndNotFound(t *testing.T) {
	h := newTestHandler(t, realService(t))

	w := serve(h, "OPTIONS", "/random-avatar/x", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	assert.Equal(t, http.StatusNotFound, serve(h, "GET", "/nope", "").Code)
}
