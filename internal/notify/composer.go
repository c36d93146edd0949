package notify

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/phrazzld/duesoon/internal/domain"
)

// SubjectPrefix and SubjectSuffix surround the task title in the subject line.
const (
	SubjectPrefix = "Gentle Reminder: "
	SubjectSuffix = " Deadline Approaching"
)

const plainTemplate = `Hi{{with .Name}} {{.}}{{end}},

This is a friendly reminder about the {{.Title}} task, due on {{.Formatted}} ({{.Raw}}).
{{with .Suggestion}}
{{.}}
{{end}}
Please let me know if you require any assistance or resources to complete this on time. We're here to support you!

Best regards,
{{.Signature}}
`

const htmlTemplate = `<html>
  <body>
    <p>Hi{{with .Name}} {{.}}{{end}},</p>
    <p>This is a friendly reminder about the <strong>{{.Title}}</strong> task, due on <strong>{{.Formatted}}</strong> ({{.Raw}}).</p>
{{- range .Paragraphs}}
    <p>{{range $i, $line := .}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>
{{- end}}
    <p>Please let me know if you require any assistance or resources to complete this on time. We're here to support you!</p>
    <p>Best regards,<br>{{.Signature}}</p>
  </body>
</html>
`

var (
	plainBody = texttemplate.Must(texttemplate.New("plain").Parse(plainTemplate))
	htmlBody  = htmltemplate.Must(htmltemplate.New("html").Parse(htmlTemplate))
)

type bodyData struct {
	Name       string
	Title      string
	Raw        string
	Formatted  string
	Suggestion string
	Paragraphs [][]string
	Signature  string
}

// paragraphs splits text on blank lines. Each paragraph keeps its
// non-empty lines.
func paragraphs(text string) [][]string {
	var out [][]string
	var current []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if len(current) > 0 {
				out = append(out, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		out = append(out, current)
	}
	return out
}

// Composer renders reminder emails.
type Composer struct {
	signature string
}

// NewComposer creates a Composer that closes every email with signature.
func NewComposer(signature string) *Composer {
	return &Composer{signature: signature}
}

// Subject returns the subject line for a task title.
func Subject(title string) string {
	return SubjectPrefix + title + SubjectSuffix
}

// Compose builds the notification for task. suggestion may be empty, in
// which case the supplementary paragraph is left out.
func (c *Composer) Compose(task domain.DueTask, suggestion string) (domain.Notification, error) {
	if strings.TrimSpace(task.AssigneeEmail) == "" {
		return domain.Notification{}, domain.ErrEmptyRecipient
	}

	data := bodyData{
		Name:       strings.TrimSpace(task.AssigneeName),
		Title:      task.Title,
		Raw:        task.RawDeadline(),
		Formatted:  domain.RenderDeadline(task.Deadline),
		Suggestion: strings.TrimSpace(suggestion),
		Signature:  c.signature,
	}
	data.Paragraphs = paragraphs(data.Suggestion)

	var plain, html bytes.Buffer
	if err := plainBody.Execute(&plain, data); err != nil {
		return domain.Notification{}, err
	}
	if err := htmlBody.Execute(&html, data); err != nil {
		return domain.Notification{}, err
	}

	return domain.Notification{
		To:        task.AssigneeEmail,
		ToName:    data.Name,
		Subject:   Subject(task.Title),
		PlainText: plain.String(),
		HTML:      html.String(),
	}, nil
}
