package campaigns

import (
	"fmt"
	"html/template"
	"strings"
)

// templateData exposes the per-recipient fields a campaign body can use.
type templateData struct {
	DisplayName string
	Email       string
	PlanType    string
}

// RenderBody executes the campaign body as an HTML template against one
// recipient. Bodies without template actions pass through unchanged.
func RenderBody(body string, data templateData) (string, error) {
	tmpl, err := template.New("campaign").Parse(body)
	if err != nil {
		return "", fmt.Errorf("parse campaign body: %w", err)
	}
	var out strings.Builder
	if err := tmpl.Execute(&out, data); err != nil {
		return "", fmt.Errorf("render campaign body: %w", err)
	}
	return out.String(), nil
}

// ValidateBody parses the body without executing it, so drafts with broken
// template syntax are rejected at creation time.
func ValidateBody(body string) error {
	if _, err := template.New("campaign").Parse(body); err != nil {
		return fmt.Errorf("invalid campaign body: %w", err)
	}
	return nil
}
