package texts

import (
	"embed"
	"html"
	"io/fs"
	"path"
	"strings"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_texts.go -package mocks gibber/texts ITexts

//go:embed snippets
var snippetsFS embed.FS

// ITexts gives access to user-visible messages. Placeholders look like {{name}};
// values are HTML-escaped in snippets whose name ends in .html.
type ITexts interface {
	Get(id string) string
	WithVals(id string, vals map[string]string) string
}

type texts struct {
	snippets map[string]string
}

func NewTexts() ITexts {
	res := texts{snippets: map[string]string{}}
	entries, _ := fs.ReadDir(snippetsFS, "snippets")
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		bytes, err := snippetsFS.ReadFile(path.Join("snippets", entry.Name()))
		if err != nil {
			continue
		}
		res.snippets[entry.Name()] = string(bytes)
	}
	return &res
}

func (t *texts) Get(id string) string {
	return t.snippets[id]
}

func (t *texts) WithVals(id string, vals map[string]string) string {
	res := t.Get(id)
	isHtml := strings.HasSuffix(id, ".html")
	pairs := make([]string, 0, len(vals)*2)
	for ph, val := range vals {
		if isHtml {
			val = html.EscapeString(val)
		}
		pairs = append(pairs, "{{"+ph+"}}", val)
	}
	return strings.NewReplacer(pairs...).Replace(res)
}
