package mailer

import (
	"bytes"
	"embed"
	"html/template"
)

const (
	MAX_RETRY                  = 3
	COLLECTION_INVITE_TEMPLATE = "collection_invite.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, toUsername, toEmail string, data any) (int, error)
}

// CollectionInviteData fills templates/collection_invite.tmpl.
type CollectionInviteData struct {
	AppName        string
	LogoURL        string
	InviterName    string
	InviterEmail   string
	CollectionName string
	CollectionURL  string
}

// Render executes the "subject" and "body" blocks of a template.
func Render(templateFile string, data any) (string, string, error) {
	tmpl, err := template.ParseFS(FS, "templates/"+templateFile)
	if err != nil {
		return "", "", err
	}

	subject := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(subject, "subject", data); err != nil {
		return "", "", err
	}

	body := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(body, "body", data); err != nil {
		return "", "", err
	}

	return subject.String(), body.String(), nil
}
