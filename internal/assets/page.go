package assets

import (
	"bytes"
	"fmt"
	"html/template"
)

// Built-in asset names.
const (
	PageTemplateName = "page"
	PageStyleName    = "page"
	OutputStyleName  = "output"
)

// Page is the data rendered into the page template.
type Page struct {
	Title string
	// Styles are emitted as separate <style> blocks, in order.
	Styles []string
	// Body is trusted HTML produced by the markdown converter.
	Body string
}

// pageData is the template view of Page.
type pageData struct {
	Title  string
	Styles []template.CSS
	Body   template.HTML
}

// PageRenderer renders complete HTML documents from the page template.
type PageRenderer struct {
	tmpl *template.Template
}

// NewPageRenderer parses the page template from loader.
func NewPageRenderer(loader AssetLoader) (*PageRenderer, error) {
	src, err := loader.LoadTemplate(PageTemplateName)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New(PageTemplateName).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateParse, err)
	}
	return &PageRenderer{tmpl: tmpl}, nil
}

// Render executes the template for p.
func (r *PageRenderer) Render(p Page) (string, error) {
	data := pageData{
		Title: p.Title,
		Body:  template.HTML(p.Body), // #nosec G203 -- goldmark output, raw HTML disabled
	}
	for _, css := range p.Styles {
		if css == "" {
			continue
		}
		data.Styles = append(data.Styles, template.CSS(css)) // #nosec G203 -- embedded or user-supplied stylesheet
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	return buf.String(), nil
}
