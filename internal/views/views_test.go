package views

import (
	"bytes"
	"io/fs"
	"strings"
	"testing"

	"github.com/bodyfit-ai/bodyfit/internal/analysis"
	"github.com/bodyfit-ai/bodyfit/internal/content"
	"github.com/bodyfit-ai/bodyfit/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigation(t *testing.T) {
	tests := []struct {
		active string
		want   []bool
	}{
		{"/", []bool{true, false}},
		{"/upload", []bool{false, true}},
		{"/elsewhere", []bool{false, false}},
		{"", []bool{false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.active, func(t *testing.T) {
			links := Navigation(tt.active)
			require.Len(t, links, 2)
			assert.Equal(t, "/", links[0].Path)
			assert.Equal(t, "/upload", links[1].Path)
			for i, want := range tt.want {
				assert.Equal(t, want, links[i].Active, links[i].Label)
			}
		})
	}
}

func TestNavigationDoesNotShareState(t *testing.T) {
	a := Navigation("/")
	b := Navigation("/upload")
	assert.True(t, a[0].Active)
	assert.False(t, a[1].Active)
	assert.True(t, b[1].Active)
}

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)
	return r
}

func TestRenderHome(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newRenderer(t).RenderHome(&buf, content.Default()))

	html := buf.String()
	assert.Contains(t, html, "BodyFit AI")
	assert.Contains(t, html, "Perfect Fit, Every Time")
	assert.Contains(t, html, "How It Works")
	assert.Contains(t, html, "Start Measuring Now")
	assert.Contains(t, html, `href="/upload"`)
	assert.Contains(t, html, `class="nav-link active" aria-current="page">`)
	assert.NotContains(t, html, "upload.js")
}

func renderUpload(t *testing.T, data UploadData) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, newRenderer(t).RenderUpload(&buf, content.Default(), data))
	return buf.String()
}

func photo() *models.ImageRef {
	return &models.ImageRef{Name: "photo.jpg", Size: 2048, MediaType: "image/jpeg", PreviewID: "p1"}
}

func TestRenderUploadIdle(t *testing.T) {
	html := renderUpload(t, UploadData{Session: models.SessionView{ID: "s", Phase: models.PhaseIdle}})

	assert.Contains(t, html, "AI Body Measurement Analysis")
	assert.Contains(t, html, "Upload Your Photo")
	assert.Contains(t, html, `accept="image/*"`)
	assert.Contains(t, html, "Full Body Visible")
	assert.Contains(t, html, `data-phase="idle"`)
	assert.NotContains(t, html, "Selected Image")
	assert.NotContains(t, html, "Analysis Complete")
	assert.NotContains(t, html, "Only image files are supported.")
	assert.Contains(t, html, "upload.js")
}

func TestRenderUploadDragActive(t *testing.T) {
	html := renderUpload(t, UploadData{Session: models.SessionView{Phase: models.PhaseIdle, DragActive: true}})
	assert.Contains(t, html, `class="dropzone dragover"`)
}

func TestRenderUploadRejected(t *testing.T) {
	html := renderUpload(t, UploadData{Session: models.SessionView{Phase: models.PhaseIdle}, Rejected: true})
	assert.Contains(t, html, "Only image files are supported.")
}

func TestRenderUploadImageSelected(t *testing.T) {
	html := renderUpload(t, UploadData{
		Session:    models.SessionView{Phase: models.PhaseImageSelected, Image: photo()},
		PreviewURL: "/upload/preview/p1",
	})

	assert.Contains(t, html, "Selected Image")
	assert.Contains(t, html, `src="/upload/preview/p1"`)
	assert.Contains(t, html, "photo.jpg · 2.0 KB · image/jpeg")
	assert.Contains(t, html, "Analyze Body Measurements")
	assert.NotContains(t, html, "disabled")
	assert.NotContains(t, html, "AI Analysis in Progress")
	assert.NotContains(t, html, "Upload Your Photo")
}

func TestRenderUploadAnalyzing(t *testing.T) {
	html := renderUpload(t, UploadData{
		Session:    models.SessionView{Phase: models.PhaseAnalyzing, Image: photo()},
		PreviewURL: "/upload/preview/p1",
	})

	assert.Contains(t, html, "Selected Image")
	assert.Contains(t, html, "disabled")
	assert.Contains(t, html, "Analyzing...")
	assert.Contains(t, html, "AI Analysis in Progress")
	assert.Contains(t, html, `http-equiv="refresh"`)
	assert.NotContains(t, html, "Analysis Complete")
}

func TestRenderUploadComplete(t *testing.T) {
	result := analysis.FixedMeasurements
	html := renderUpload(t, UploadData{
		Session: models.SessionView{Phase: models.PhaseComplete, Image: photo(), Result: &result},
	})

	assert.Contains(t, html, "Analysis Complete")
	assert.Contains(t, html, "Confidence: 94%")
	assert.Contains(t, html, "5&#39;8&#34; (173 cm)")
	assert.Contains(t, html, "Athletic")
	assert.Contains(t, html, "Upload New Image")
	assert.Contains(t, html, "✓ 40R (Recommended)")
	assert.Contains(t, html, "Louis Philippe")
	assert.Contains(t, html, "34W ✓")
	assert.Contains(t, html, "Fit Recommendations for Your Body Type")
	assert.NotContains(t, html, "Selected Image")
	assert.NotContains(t, html, "AI Analysis in Progress")
	assert.Equal(t, 6, strings.Count(html, `class="measurement"`))
}

func TestRenderUnknownPage(t *testing.T) {
	var buf bytes.Buffer
	err := newRenderer(t).Render(&buf, "about", PageData{})
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestStaticFS(t *testing.T) {
	for _, name := range []string{"app.css", "upload.js"} {
		data, err := fs.ReadFile(StaticFS(), name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, data)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{345678, "337.6 KB"},
		{5 << 20, "5.0 MB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatBytes(tt.in))
	}
}
