package main

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/nikolalohinski/gonja/v2"
	"github.com/nikolalohinski/gonja/v2/exec"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages holds the parsed page templates. Every page is rendered into the
// layout's "content" slot.
type pages struct {
	layout *exec.Template
	byName map[string]*exec.Template
}

func loadPages() (*pages, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	p := &pages{byName: make(map[string]*exec.Template, len(files))}
	for _, file := range files {
		src, err := templateFS.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", file, err)
		}
		tpl, err := gonja.FromString(string(src))
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", file, err)
		}

		name := path.Base(file)
		if name == "layout.html" {
			p.layout = tpl
			continue
		}
		p.byName[name] = tpl
	}
	if p.layout == nil {
		return nil, fmt.Errorf("layout.html is missing")
	}
	return p, nil
}

// render executes page inside the layout. Nothing is written to the caller
// unless both templates succeed.
func (p *pages) render(name string, data map[string]interface{}) ([]byte, error) {
	tpl, ok := p.byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown template %s", name)
	}

	content, err := tpl.ExecuteToString(exec.NewContext(data))
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	data["content"] = content

	var buf bytes.Buffer
	if err := p.layout.Execute(&buf, exec.NewContext(data)); err != nil {
		return nil, fmt.Errorf("failed to render layout for %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
