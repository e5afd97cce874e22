package pages

import (
	"bytes"
	"cmp"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/dmitrymomot/hireloop/pkg/sanitizer"
)

//go:embed content/*.md
var content embed.FS

//go:embed layout.html
var defaultLayout string

// Page is a rendered informational page.
type Page struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	order       int
	body        template.HTML
	document    []byte
}

// Body returns the sanitized HTML of the markdown body.
func (p Page) Body() template.HTML { return p.body }

// Document returns the full HTML document rendered with the layout.
func (p Page) Document() []byte { return p.document }

// Library holds pages rendered once at construction.
type Library struct {
	pages map[string]Page
	index []Page
}

type config struct {
	fsys   fs.FS
	layout string
	site   string
}

type Option func(*config)

// WithFS replaces the embedded pages. Every *.md file at the root of fsys
// becomes a page named after the file.
func WithFS(fsys fs.FS) Option {
	return func(c *config) {
		c.fsys = fsys
	}
}

// WithLayout sets the html/template layout. It receives Site, Title,
// Description and Content.
func WithLayout(layout string) Option {
	return func(c *config) {
		c.layout = layout
	}
}

// WithSiteName sets the name shown in the layout.
func WithSiteName(name string) Option {
	return func(c *config) {
		c.site = name
	}
}

// New renders every page. Any malformed page fails construction.
func New(opts ...Option) (*Library, error) {
	sub, _ := fs.Sub(content, "content")
	cfg := config{fsys: sub, layout: defaultLayout, site: "HireLoop"}
	for _, opt := range opts {
		opt(&cfg)
	}

	layout, err := template.New("layout").Parse(cfg.layout)
	if err != nil {
		return nil, fmt.Errorf("%w: layout: %v", ErrRenderFailed, err)
	}

	files, err := fs.Glob(cfg.fsys, "*.md")
	if err != nil {
		return nil, fmt.Errorf("pages: list documents: %w", err)
	}

	md := goldmark.New(goldmark.WithExtensions(extension.GFM, buttonExtension{}))
	lib := &Library{pages: make(map[string]Page, len(files))}
	for _, name := range files {
		raw, err := fs.ReadFile(cfg.fsys, name)
		if err != nil {
			return nil, fmt.Errorf("pages: read %s: %w", name, err)
		}
		p, err := render(md, layout, cfg.site, strings.TrimSuffix(path.Base(name), ".md"), raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		lib.pages[p.Slug] = p
		lib.index = append(lib.index, p)
	}

	slices.SortFunc(lib.index, func(a, b Page) int {
		return cmp.Or(cmp.Compare(a.order, b.order), strings.Compare(a.Slug, b.Slug))
	})
	return lib, nil
}

func render(md goldmark.Markdown, layout *template.Template, site, slug string, raw []byte) (Page, error) {
	meta, body, err := ParseDocument(raw)
	if err != nil {
		return Page{}, err
	}
	if meta.Title == "" {
		meta.Title = slug
	}

	var buf bytes.Buffer
	if err := md.Convert(body, &buf); err != nil {
		return Page{}, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	p := Page{
		Slug:        slug,
		Title:       meta.Title,
		Description: meta.Description,
		order:       meta.Order,
		body:        template.HTML(sanitizer.SanitizeHTML(buf.String())),
	}

	var doc bytes.Buffer
	err = layout.Execute(&doc, map[string]any{
		"Site":        site,
		"Title":       p.Title,
		"Description": p.Description,
		"Content":     p.body,
	})
	if err != nil {
		return Page{}, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	p.document = doc.Bytes()
	return p, nil
}

// Get returns a page by slug.
func (l *Library) Get(slug string) (Page, error) {
	p, ok := l.pages[slug]
	if !ok {
		return Page{}, ErrPageNotFound
	}
	return p, nil
}

// List returns pages ordered by their frontmatter order, then slug.
func (l *Library) List() []Page {
	return slices.Clone(l.index)
}
