package chooser

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/atomicstack/satisfying-background/internal/host"
)

// ProgramName is the embedded program the chooser document runs.
const ProgramName = "chooser"

// SelectAttr marks a button with the key it selects.
const SelectAttr = "data-select"

var documentTemplate = template.Must(template.New("chooser").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
</head>
<body>
<h3>Select background</h3>
{{range .Entries}}<button data-select="{{.Key}}">{{.Label}}</button>
{{end}}
<h3>Credit</h3>
{{range .Entries}}{{if .Credit}}<div>{{.Label}}: {{.Credit}}</div>
{{end}}{{end}}</body>
</html>
`))

// Render builds the chooser document for catalog.
func Render(title string, catalog Catalog) (host.Document, error) {
	var buf bytes.Buffer
	err := documentTemplate.Execute(&buf, struct {
		Title   string
		Entries Catalog
	}{Title: title, Entries: catalog})
	if err != nil {
		return host.Document{}, fmt.Errorf("render chooser: %w", err)
	}
	return host.Document{Markup: buf.String(), Program: ProgramName}, nil
}
