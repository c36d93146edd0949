package generation

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/phrazzld/duesoon/internal/domain"
)

const promptTemplate = `You are generating a single email notification for the following task:

Please create an email notification for the task assigned to the person below, ensuring it is polite, motivating, and encourages them to complete the task on time. The email should not be repetitive, and should include the following structure:

1. A friendly greeting that addresses the person by their name.
2. A clear mention of the task title and its deadline.
3. A brief and polite reminder of the task deadline.
4. A suggestion or recommendation to help them manage the task efficiently.
5. A closing line offering help or resources if needed.

Your goal is to ensure that the email is helpful, clear, and motivating. Only generate **one email** based on the provided task details. Do not include any additional options or versions.
The following tasks have deadlines in {{.LeadDays}} days:

{{range .Tasks}}Task: {{.Title}}, Deadline: {{.RawDeadline}}, Assigned To: {{assignee .}}
{{end}}
Please provide an additional message or recommendation to include in the email notifications.`

var prompt = template.Must(template.New("prompt").Funcs(template.FuncMap{
	"assignee": assignee,
}).Parse(promptTemplate))

type promptData struct {
	LeadDays int
	Tasks    domain.DueTaskBatch
}

func assignee(t domain.DueTask) string {
	if t.AssigneeName == "" {
		return t.AssigneeEmail
	}
	return fmt.Sprintf("%s <%s>", t.AssigneeName, t.AssigneeEmail)
}

// BuildPrompt renders the instruction prompt for batch, one line per task in
// batch order. leadDays is how far ahead the batch is due.
func BuildPrompt(batch domain.DueTaskBatch, leadDays int) (string, error) {
	if batch.IsEmpty() {
		return "", ErrEmptyBatch
	}

	var b strings.Builder
	if err := prompt.Execute(&b, promptData{LeadDays: leadDays, Tasks: batch}); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return b.String(), nil
}
