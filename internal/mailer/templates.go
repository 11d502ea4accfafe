package mailer

import (
	"fmt"
	"html/template"
	"strings"
)

var completionTmpl = template.Must(template.New("completion").Parse(`
<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #7c3aed;">Your translations are ready! 📚</h1>

  <p>Hi {{.AuthorName}},</p>

  <p>Great news! Your translations for <strong>{{.BookTitle}}</strong> are complete and ready for download.</p>

  <div style="background: #f5f3ff; padding: 20px; border-radius: 12px; margin: 20px 0;">
    <h3 style="margin-top: 0;">Download Your Translations</h3>
    {{range .Links}}
    <p style="margin: 10px 0;">
      <strong>{{.Language}}:</strong>
      <a href="{{.URL}}" style="color: #7c3aed; text-decoration: none;"> Download File →</a>
    </p>
    {{end}}
  </div>

  <div style="background: #fef3c7; padding: 15px; border-radius: 8px; margin: 20px 0;">
    <p style="margin: 0; color: #92400e;">
      <strong>📝 How to review your translations:</strong><br><br>
      Text highlighted in yellow shows the <em>original</em> translation before our editorial improvements.
      The clean text that follows is the improved version ready for publishing.<br><br>
      Simply delete the yellow highlighted portions to get your final, polished translation.
    </p>
  </div>

  <p>Download links expire in 7 days. Need them resent? Just reply to this email.</p>

  <p>Happy publishing!<br>The BookLingua Team</p>
</div>
`))

var operatorTmpl = template.Must(template.New("operator").Parse(`
<h2>Translation Completed!</h2>
<p><strong>Order ID:</strong> {{.OrderID}}</p>
<p><strong>Customer:</strong> {{.AuthorName}} ({{.Email}})</p>
<p><strong>Book:</strong> {{.BookTitle}}</p>
<p><strong>Languages:</strong> {{.LanguageList}}</p>
<p><strong>Status:</strong> ✅ {{.Status}}</p>
`))

// RenderCompletion builds the subject and HTML body of the customer email.
func RenderCompletion(msg Completion) (subject, html string, err error) {
	var b strings.Builder
	if err := completionTmpl.Execute(&b, msg); err != nil {
		return "", "", fmt.Errorf("render completion email: %w", err)
	}
	return fmt.Sprintf("Your translations are ready: %s 🎉", msg.BookTitle), b.String(), nil
}

// RenderOperatorSummary builds the subject and HTML body of the operator email.
func RenderOperatorSummary(msg OperatorSummary) (subject, html string, err error) {
	data := struct {
		OperatorSummary
		LanguageList string
	}{msg, strings.Join(msg.Languages, ", ")}
	var b strings.Builder
	if err := operatorTmpl.Execute(&b, data); err != nil {
		return "", "", fmt.Errorf("render operator email: %w", err)
	}
	return fmt.Sprintf("✅ Translation Complete: %s", msg.BookTitle), b.String(), nil
}
