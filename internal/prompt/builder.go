package prompt

import (
	"fmt"
	"strings"
	"text/template"
)

type templateData struct {
	Context  string
	Question string
}

// Builder fills the prompt template. No validation or truncation is applied.
type Builder struct {
	tmpl *template.Template
}

// NewBuilder parses tmpl; an empty string selects DefaultTemplate
func NewBuilder(tmpl string) (*Builder, error) {
	if strings.TrimSpace(tmpl) == "" {
		tmpl = DefaultTemplate
	}

	parsed, err := template.New("prompt").Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("invalid prompt template: %w", err)
	}

	return &Builder{tmpl: parsed}, nil
}

func (b *Builder) Build(context, question string) (string, error) {
	var sb strings.Builder
	if err := b.tmpl.Execute(&sb, templateData{Context: context, Question: question}); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}

	return sb.String(), nil
}

var defaultBuilder = mustBuilder(DefaultTemplate)

// Build renders DefaultTemplate
func Build(context, question string) string {
	p, err := defaultBuilder.Build(context, question)
	if err != nil {
		// DefaultTemplate only references fields of templateData
		panic(err)
	}
	return p
}

func mustBuilder(tmpl string) *Builder {
	b, err := NewBuilder(tmpl)
	if err != nil {
		panic(err)
	}
	return b
}
