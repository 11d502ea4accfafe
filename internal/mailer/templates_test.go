package mailer

import (
	"strings"
	"testing"
)

func TestRenderCompletion(t *testing.T) {
	msg := Completion{
		To:         "author@example.com",
		AuthorName: "A. Writer",
		BookTitle:  "The Long Night",
		Links: []DownloadLink{
			{Language: "Spanish", URL: "https://booklingua.com/download/abc/es"},
			{Language: "French", URL: "https://booklingua.com/download/abc/fr"},
		},
	}
	subject, html, err := RenderCompletion(msg)
	if err != nil {
		t.Fatalf("RenderCompletion: %v", err)
	}
	if !strings.Contains(subject, "The Long Night") {
		t.Errorf("subject = %q, want book title", subject)
	}
	for _, want := range []string{
		"Hi A. Writer",
		"https://booklingua.com/download/abc/es",
		"https://booklingua.com/download/abc/fr",
		"Spanish",
		"French",
		"highlighted in yellow",
		"expire in 7 days",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("completion email missing %q", want)
		}
	}
}

func TestRenderOperatorSummary(t *testing.T) {
	msg := OperatorSummary{
		To:         "ops@booklingua.com",
		OrderID:    "8f14e45f-ceea-4e47-b1a7-9d4e8e9c0001",
		AuthorName: "A. Writer",
		Email:      "author@example.com",
		BookTitle:  "The Long Night",
		Languages:  []string{"Spanish", "German"},
		Status:     "Completed and delivered",
	}
	subject, html, err := RenderOperatorSummary(msg)
	if err != nil {
		t.Fatalf("RenderOperatorSummary: %v", err)
	}
	if !strings.Contains(subject, "Translation Complete") {
		t.Errorf("subject = %q", subject)
	}
	for _, want := range []string{
		msg.OrderID,
		"A. Writer (author@example.com)",
		"Spanish, German",
		"Completed and delivered",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("operator email missing %q", want)
		}
	}
}
