package email

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"joiny/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS


// templateRenderer implements domain.EmailTemplateRenderer using embedded template files.
type templateRenderer struct{}

// NewTemplateRenderer returns an EmailTemplateRenderer backed by the embedded templates folder.
// Each template name maps to <name>_subject.txt, <name>.html and <name>.txt.
func NewTemplateRenderer() domain.EmailTemplateRenderer {
	return &templateRenderer{}
}

func (r *templateRenderer) Render(templateName string, data any) (subject, htmlBody, textBody string, err error) {
	subject, err = renderText(templateName+"_subject.txt", data)
	if err != nil {
		return "", "", "", fmt.Errorf("render subject: %w", err)
	}
	htmlBody, err = renderHTML(templateName+".html", data)
	if err != nil {
		return "", "", "", fmt.Errorf("render html: %w", err)
	}
	textBody, err = renderText(templateName+".txt", data)
	if err != nil {
		return "", "", "", fmt.Errorf("render text: %w", err)
	}
	return strings.TrimSpace(subject), htmlBody, textBody, nil
}

func renderHTML(name string, data any) (string, error) {
	t, err := htmltemplate.ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderText(name string, data any) (string, error) {
	t, err := texttemplate.ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
