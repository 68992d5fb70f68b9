package mailer

import (
	"strings"
	"testing"
)

func TestRenderCollectionInvite(t *testing.T) {
	subject, body, err := Render(COLLECTION_INVITE_TEMPLATE, CollectionInviteData{
		AppName:        "Annotator",
		InviterName:    "Alice",
		InviterEmail:   "alice@example.com",
		CollectionName: "Manuscripts <draft>",
		CollectionURL:  "http://localhost:3000/collections/1",
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !strings.Contains(subject, "Alice") || !strings.Contains(subject, "Annotator") {
		t.Errorf("subject = %q", subject)
	}
	if !strings.Contains(body, `href="http://localhost:3000/collections/1"`) {
		t.Errorf("body is missing the collection link: %s", body)
	}
	if strings.Contains(body, "<draft>") {
		t.Error("collection name must be html escaped")
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	if _, _, err := Render("missing.tmpl", nil); err == nil {
		t.Error("expected error for unknown template")
	}
}

// isProduction = false and no api key: Send renders but never reaches sendgrid
func TestSendWithoutApiKey(t *testing.T) {
	mail := NewSendgrid("", "", false, nil)

	status, err := mail.Send(COLLECTION_INVITE_TEMPLATE, "Bob", "bob@example.com", CollectionInviteData{AppName: "Annotator"})
	if err != nil || status != 0 {
		t.Errorf("Send() = %d, %v, want 0, nil", status, err)
	}
}
