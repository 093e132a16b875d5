package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

//go:embed templates/email.html.tmpl
var templateFS embed.FS

var emailTemplate = template.Must(template.ParseFS(templateFS, "templates/email.html.tmpl"))

// RenderHTML renders doc as a self-contained HTML email with inline styles.
func RenderHTML(doc Document) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("failed to render email: %w", err)
	}
	return buf.String(), nil
}

// PlainText derives the text alternative of a rendered email. Every element
// marked data-text becomes one line; links keep their target in brackets.
func PlainText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse email html: %w", err)
	}

	var lines []string
	doc.Find("[data-text]").Each(func(_ int, s *goquery.Selection) {
		line := strings.Join(strings.Fields(s.Text()), " ")
		if line == "" {
			return
		}
		if href, ok := s.Attr("href"); ok && href != "" {
			line += " [" + href + "]"
		}
		lines = append(lines, line)
	})
	return strings.Join(lines, "\n"), nil
}
