package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultCatalog []byte

// Catalog is all of the static copy and sizing tables shown by the site
type Catalog struct {
	Brand  string `yaml:"brand"`
	Home   Home   `yaml:"home"`
	Upload Upload `yaml:"upload"`
}

type Home struct {
	Hero         Hero         `yaml:"hero"`
	About        About        `yaml:"about"`
	HowItWorks   Section      `yaml:"how_it_works"`
	Features     Section      `yaml:"features"`
	Team         []TeamMember `yaml:"team"`
	CallToAction CallToAction `yaml:"call_to_action"`
}

type Hero struct {
	Title           string `yaml:"title"`
	Highlight       string `yaml:"highlight"`
	Tagline         string `yaml:"tagline"`
	PrimaryLabel    string `yaml:"primary_label"`
	PrimaryPath     string `yaml:"primary_path"`
	SecondaryLabel  string `yaml:"secondary_label"`
	SecondaryAnchor string `yaml:"secondary_anchor"`
}

type About struct {
	Heading    string   `yaml:"heading"`
	Intro      string   `yaml:"intro"`
	Subheading string   `yaml:"subheading"`
	Paragraphs []string `yaml:"paragraphs"`
	Highlights []string `yaml:"highlights"`
	Metrics    []Card   `yaml:"metrics"`
	Processing Card     `yaml:"processing"`
}

// Card is a titled caption used by the metric tiles
type Card struct {
	Title   string `yaml:"title"`
	Caption string `yaml:"caption"`
}

// Section is a heading with a list of titled paragraphs
type Section struct {
	Heading string `yaml:"heading"`
	Intro   string `yaml:"intro"`
	Items   []Item `yaml:"items"`
}

type Item struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

type TeamMember struct {
	Initial string `yaml:"initial"`
	Name    string `yaml:"name"`
	Degree  string `yaml:"degree"`
}

type CallToAction struct {
	Heading string `yaml:"heading"`
	Body    string `yaml:"body"`
	Label   string `yaml:"label"`
	Path    string `yaml:"path"`
}

type Upload struct {
	Title          string     `yaml:"title"`
	Subtitle       string     `yaml:"subtitle"`
	DropHeading    string     `yaml:"drop_heading"`
	DropHint       string     `yaml:"drop_hint"`
	SelectLabel    string     `yaml:"select_label"`
	RejectedNotice string     `yaml:"rejected_notice"`
	Guidelines     []Item     `yaml:"guidelines"`
	Progress       Progress   `yaml:"progress"`
	SizeChart      SizeChart  `yaml:"size_chart"`
	Brands         BrandTable `yaml:"brands"`
	Legend         []string   `yaml:"legend"`
	Note           string     `yaml:"note"`
	Fit            FitAdvice  `yaml:"fit"`
}

type Progress struct {
	Title  string `yaml:"title"`
	Body   string `yaml:"body"`
	Detail string `yaml:"detail"`
}

// Size is one entry of a sizing row
type Size struct {
	Label       string `yaml:"label"`
	Recommended bool   `yaml:"recommended,omitempty"`
}

type Garment struct {
	Name  string `yaml:"name"`
	Sizes []Size `yaml:"sizes"`
}

type SizeChart struct {
	Heading  string    `yaml:"heading"`
	Garments []Garment `yaml:"garments"`
}

type BrandLine struct {
	Garment string `yaml:"garment"`
	Sizes   []Size `yaml:"sizes"`
}

type Brand struct {
	Name  string      `yaml:"name"`
	Lines []BrandLine `yaml:"lines"`
}

type BrandTable struct {
	Heading string  `yaml:"heading"`
	Items   []Brand `yaml:"items"`
}

type FitAdvice struct {
	Heading string   `yaml:"heading"`
	Items   []FitTip `yaml:"items"`
}

type FitTip struct {
	Garment string `yaml:"garment"`
	Advice  string `yaml:"advice"`
}

// Recommended returns the recommended size of a row, if any
func Recommended(sizes []Size) (Size, bool) {
	for _, s := range sizes {
		if s.Recommended {
			return s, true
		}
	}
	return Size{}, false
}

// FindBrand looks up a brand by case-insensitive name
func (c *Catalog) FindBrand(name string) (Brand, bool) {
	for _, b := range c.Upload.Brands.Items {
		if strings.EqualFold(b.Name, name) {
			return b, true
		}
	}
	return Brand{}, false
}

// Default returns the embedded catalog
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded content catalog is invalid: %v", err))
	}
	return c
}

// Load reads a catalog from path, or returns the embedded one when path is empty
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content file: %w", err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid content file %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that every sizing row recommends exactly one size
func (c *Catalog) Validate() error {
	var errs []error

	if c.Brand == "" {
		errs = append(errs, errors.New("brand is required"))
	}

	for _, g := range c.Upload.SizeChart.Garments {
		if err := checkRow(g.Name, g.Sizes); err != nil {
			errs = append(errs, err)
		}
	}

	for _, b := range c.Upload.Brands.Items {
		if b.Name == "" {
			errs = append(errs, errors.New("brand table entry without a name"))
		}
		for _, line := range b.Lines {
			if err := checkRow(b.Name+" "+line.Garment, line.Sizes); err != nil {
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}

func checkRow(name string, sizes []Size) error {
	if len(sizes) == 0 {
		return fmt.Errorf("%s: no sizes", name)
	}
	n := 0
	for _, s := range sizes {
		if s.Recommended {
			n++
		}
	}
	if n != 1 {
		return fmt.Errorf("%s: expected exactly one recommended size, got %d", name, n)
	}
	return nil
}
