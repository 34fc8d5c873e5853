package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	assert.Equal(t, "BodyFit AI", c.Brand)
	assert.Equal(t, "/upload", c.Home.Hero.PrimaryPath)
	assert.Equal(t, "/upload", c.Home.CallToAction.Path)
	assert.Len(t, c.Home.HowItWorks.Items, 3)
	assert.Len(t, c.Home.Features.Items, 6)
	assert.Len(t, c.Home.Team, 2)
	assert.Len(t, c.Upload.Guidelines, 3)
	assert.Len(t, c.Upload.Fit.Items, 4)
	assert.Len(t, c.Upload.Legend, 3)
}

func TestDefaultSizeChart(t *testing.T) {
	c := Default()

	want := map[string]string{
		"Shirts":   `M: 38-40"`,
		"T-Shirts": `M: 36-38"`,
		"Pants":    "32-34W",
		"Jackets":  "40R",
	}

	require.Len(t, c.Upload.SizeChart.Garments, len(want))
	for _, g := range c.Upload.SizeChart.Garments {
		t.Run(g.Name, func(t *testing.T) {
			assert.Len(t, g.Sizes, 6)
			rec, ok := Recommended(g.Sizes)
			require.True(t, ok)
			assert.Equal(t, want[g.Name], rec.Label)
		})
	}
}

func TestDefaultBrands(t *testing.T) {
	c := Default()

	names := make([]string, 0, len(c.Upload.Brands.Items))
	for _, b := range c.Upload.Brands.Items {
		names = append(names, b.Name)
		assert.Len(t, b.Lines, 3, b.Name)
	}
	assert.Equal(t, []string{"Peter England", "Allen Solly", "Indian Terrain", "Van Heusen", "Arrow", "Louis Philippe"}, names)
}

func TestFindBrand(t *testing.T) {
	c := Default()

	b, ok := c.FindBrand("van heusen")
	require.True(t, ok)
	assert.Equal(t, "Van Heusen", b.Name)
	assert.Equal(t, "Suits", b.Lines[2].Garment)

	rec, ok := Recommended(b.Lines[2].Sizes)
	require.True(t, ok)
	assert.Equal(t, "40R", rec.Label)

	_, ok = c.FindBrand("Zara")
	assert.False(t, ok)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "malformed",
			yaml: "brand: [",
		},
		{
			name: "missing brand",
			yaml: "upload: {}\n",
		},
		{
			name: "no recommended size",
			yaml: `
brand: X
upload:
  size_chart:
    garments:
      - name: Shirts
        sizes: [{label: S}, {label: M}]
`,
		},
		{
			name: "two recommended sizes",
			yaml: `
brand: X
upload:
  brands:
    items:
      - name: Arrow
        lines:
          - garment: Shirts
            sizes: [{label: S, recommended: true}, {label: M, recommended: true}]
`,
		},
		{
			name: "empty row",
			yaml: `
brand: X
upload:
  size_chart:
    garments:
      - name: Shirts
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "BodyFit AI", c.Brand)

	dir := t.TempDir()
	path := filepath.Join(dir, "content.yaml")
	require.NoError(t, os.WriteFile(path, []byte("brand: FitCheck\n"), 0644))

	c, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "FitCheck", c.Brand)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
