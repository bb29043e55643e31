package mailer

import (
	"errors"
	"fmt"

	mailtpl "github.com/oksasatya/savings-tracker/pkg/mailer/templates"
)

var ErrEmptyJob = errors.New("email job has neither template nor subject/body")

// Render resolves the subject, text and html for a job, rendering the embedded
// template when one is named.
func Render(job EmailJob) (subject, text, html string, err error) {
	if job.To == "" {
		return "", "", "", errors.New("email job has no recipient")
	}
	if job.Template == "" {
		if job.Subject == "" || (job.Text == "" && job.HTML == "") {
			return "", "", "", ErrEmptyJob
		}
		return job.Subject, job.Text, job.HTML, nil
	}
	data := job.Data
	if data == nil {
		data = map[string]any{}
	}
	if v, ok := data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		data["Email"] = job.To
	}
	return mailtpl.Render(job.Template, data)
}
