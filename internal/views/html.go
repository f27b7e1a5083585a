package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = mustParsePages()

func mustParsePages() map[string]*template.Template {
	base := template.Must(template.New("layout.html").ParseFS(templateFS, "templates/layout.html"))
	out := make(map[string]*template.Template, len(titles))
	for name := range titles {
		t := template.Must(base.Clone())
		template.Must(t.ParseFS(templateFS, "templates/"+name+".html"))
		out[name] = t
	}
	return out
}

// HTML renders v as a complete page.
func HTML(v View) ([]byte, error) {
	t, ok := pages[v.Name]
	if !ok {
		return nil, fmt.Errorf("views: no template for %q", v.Name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", v); err != nil {
		return nil, fmt.Errorf("views: render %s: %w", v.Name, err)
	}
	return buf.Bytes(), nil
}
