// Package mailing renders transactional email content from Liquid templates.
package mailing

import (
	_ "embed"
	"fmt"

	"github.com/osteele/liquid"

	"github.com/ignite/newsletter/internal/domain"
)

var (
	//go:embed templates/welcome.html.liquid
	welcomeHTML string
	//go:embed templates/welcome.txt.liquid
	welcomeText string
)

// WelcomeRenderer renders the welcome email from Liquid templates. Templates
// are parsed once; rendering is safe for concurrent use.
type WelcomeRenderer struct {
	subject *liquid.Template
	html    *liquid.Template
	text    *liquid.Template
}

// NewWelcomeRenderer parses the subject template and the built-in bodies.
// The subject may reference {{ name }}.
func NewWelcomeRenderer(subject string) (*WelcomeRenderer, error) {
	engine := liquid.NewEngine()

	parse := func(label, src string) (*liquid.Template, error) {
		tpl, err := engine.ParseString(src)
		if err != nil {
			return nil, fmt.Errorf("parse welcome %s template: %w", label, err)
		}
		return tpl, nil
	}

	r := &WelcomeRenderer{}
	var err error
	if r.subject, err = parse("subject", subject); err != nil {
		return nil, err
	}
	if r.html, err = parse("html", welcomeHTML); err != nil {
		return nil, err
	}
	if r.text, err = parse("text", welcomeText); err != nil {
		return nil, err
	}
	return r, nil
}

// RenderWelcome renders subject, HTML and plain-text bodies for name.
func (r *WelcomeRenderer) RenderWelcome(name domain.SubscriberName) (subject, htmlBody, textBody string, err error) {
	bindings := liquid.Bindings{"name": name.String()}

	if subject, err = render(r.subject, bindings); err != nil {
		return "", "", "", err
	}
	if htmlBody, err = render(r.html, bindings); err != nil {
		return "", "", "", err
	}
	if textBody, err = render(r.text, bindings); err != nil {
		return "", "", "", err
	}
	return subject, htmlBody, textBody, nil
}

func render(tpl *liquid.Template, bindings liquid.Bindings) (string, error) {
	out, serr := tpl.RenderString(bindings)
	if serr != nil {
		return "", fmt.Errorf("render welcome email: %w", serr)
	}
	return out, nil
}
