package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/bodyfit-ai/bodyfit/internal/content"
	"github.com/bodyfit-ai/bodyfit/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	PageHome   = "home"
	PageUpload = "upload"
)

// PageData is passed to every page template
type PageData struct {
	Brand  string
	Title  string
	Nav    []NavLink
	Home   *content.Home
	Upload *UploadData
}

// UploadData is what the upload page needs beyond the shared layout
type UploadData struct {
	Copy       content.Upload
	Session    models.SessionView
	PreviewURL string
	Rejected   bool
}

// MeasurementCard is one tile of the results grid
type MeasurementCard struct {
	Label string
	Value string
	Icon  string
}

// Renderer executes the embedded page templates
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"formatBytes":      formatBytes,
		"measurementCards": measurementCards,
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, page := range []string{PageHome, PageUpload} {
		tmpl, err := template.New(page).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", page, err)
		}
		r.pages[page] = tmpl
	}
	return r, nil
}

// Render executes page into w. Output is buffered so a template error never
// leaves a half-written page.
func (r *Renderer) Render(w io.Writer, page string, data PageData) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func (r *Renderer) RenderHome(w io.Writer, catalog *content.Catalog) error {
	return r.Render(w, PageHome, PageData{
		Brand: catalog.Brand,
		Title: "Home",
		Nav:   Navigation("/"),
		Home:  &catalog.Home,
	})
}

func (r *Renderer) RenderUpload(w io.Writer, catalog *content.Catalog, data UploadData) error {
	data.Copy = catalog.Upload
	return r.Render(w, PageUpload, PageData{
		Brand:  catalog.Brand,
		Title:  "Upload",
		Nav:    Navigation("/upload"),
		Upload: &data,
	})
}

// StaticFS returns the embedded assets rooted at the static directory
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

func measurementCards(m models.Measurements) []MeasurementCard {
	return []MeasurementCard{
		{Label: "Height", Value: m.Height, Icon: "↕"},
		{Label: "Chest", Value: m.Chest, Icon: "◎"},
		{Label: "Waist", Value: m.Waist, Icon: "∿"},
		{Label: "Hips", Value: m.Hips, Icon: "◎"},
		{Label: "Shoulders", Value: m.Shoulders, Icon: "↔"},
		{Label: "Body Type", Value: m.BodyType, Icon: "☺"},
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
