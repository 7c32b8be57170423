package email

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"
	texttemplate "text/template"
)

var subjects = map[string]string{
	"proposal_created":          "New proposal: {{.projectName}}",
	"proposal_pending_approval": "Proposal awaiting approval: {{.projectName}}",
	"proposal_approved":         "Proposal approved: {{.projectName}}",
	"proposal_rejected":         "Proposal rejected: {{.projectName}}",
	"proposal_won":              "Proposal won: {{.projectName}}",
	"project_allocated":         "Project allocated to you: {{.projectName}}",
	"designers_assigned":        "You were assigned to {{.projectName}}",
	"project_completed":         "Project completed: {{.projectName}}",
	"task_assigned":             "New task: {{.title}}",
	"time_request_created":      "Additional hours requested on {{.projectName}}",
	"time_request_approved":     "Additional hours approved on {{.projectName}}",
	"client_feedback_recorded":  "Client feedback on {{.projectName}}",
	"invoice_paid":              "Invoice {{.invoiceNumber}} paid",
	"invoice_overdue":           "Invoice {{.invoiceNumber}} is overdue",
	"payment_delayed":           "Payment delayed ({{.outstanding}} outstanding)",
}

const bodyTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Hello {{.Name}},</p>
  <p>{{.Subject}}</p>
  {{- if .Fields}}
  <ul>
    {{- range .Fields}}
    <li>{{.Label}}: {{.Value}}</li>
    {{- end}}
  </ul>
  {{- end}}
  {{- if .Link}}
  <p><a href="{{.Link}}">Open in Studioflow</a></p>
  {{- end}}
</body>
</html>`

var bodyTmpl = template.Must(template.New("email_body").Parse(bodyTemplate))

type field struct {
	Label string
	Value string
}

type bodyData struct {
	Name    string
	Subject string
	Fields  []field
	Link    string
}

// renderSubject fills the event's plain-text subject line. Unknown events get a title derived from the
// event name.
func renderSubject(event string, data map[string]string) (string, error) {
	src, ok := subjects[event]
	if !ok {
		return humanize(event), nil
	}
	t, err := texttemplate.New(event).Option("missingkey=zero").Parse(src)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render subject %s: %w", event, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func renderBody(name, subject, link string, data map[string]string) (string, error) {
	keys := make([]string, 0, len(data))
	for k, v := range data {
		if v != "" && !strings.HasSuffix(k, "Id") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	fields := make([]field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, field{Label: humanize(k), Value: data[k]})
	}
	var buf bytes.Buffer
	err := bodyTmpl.Execute(&buf, bodyData{Name: name, Subject: subject, Fields: fields, Link: link})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// humanize turns "projectName" or "proposal_won" into "Project name" / "Proposal won".
func humanize(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_':
			b.WriteByte(' ')
		case r >= 'A' && r <= 'Z' && i > 0:
			b.WriteByte(' ')
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" {
		return out
	}
	return strings.ToUpper(out[:1]) + out[1:]
}
