package export

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/openkraft/apigrade/internal/domain"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

const htmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; color: #1f2328; }
table { border-collapse: collapse; }
th, td { border: 1px solid #d0d7de; padding: .3rem .7rem; }
code { background: #f6f8fa; padding: .1rem .3rem; border-radius: 4px; }
</style>
</head>
<body>
%s</body>
</html>
`

// HTML renders the Markdown review of every report as one standalone page.
func HTML(reports ...*domain.Report) (string, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(MarkdownAll(reports...)), &body); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	title := "API Design Review"
	if len(reports) == 1 && reports[0].Title != "" {
		title += ": " + reports[0].Title
	}
	return fmt.Sprintf(htmlPage, html.EscapeString(title), body.String()), nil
}
