package responder

import (
	"fmt"
	"strings"
	"text/template"
	"time"
)

var letterTmpl = template.Must(template.New("letter").Parse(`{{.Today}}

Internal Revenue Service
Re: Notice {{.Notice.Type}} dated {{.NoticeDate}}
Tax year: {{.TaxYear}}
Taxpayer: {{.Name}} (SSN/ITIN ending {{.Last4}})

To whom it may concern:

I am writing in response to the notice referenced above ({{.Notice.Title}}).
{{.Stance}}
{{- if .Explanation}}

{{.Explanation}}
{{- end}}

{{.Deadline}}

Please contact me at the address on file if you need anything further.

Sincerely,

{{.Name}}
`))

type letterData struct {
	Today       string
	Notice      Notice
	NoticeDate  string
	TaxYear     int
	Name        string
	Last4       string
	Stance      string
	Explanation string
	Deadline    string
}

func stance(n Notice, p Position) string {
	switch p {
	case Agree:
		return n.agree
	case Disagree:
		return n.disagree
	default:
		return "I agree with part of the notice and disagree with the rest, as explained below."
	}
}

func subject(v validDraft) string {
	return fmt.Sprintf("Response to %s for tax year %d", v.notice.Type, v.req.TaxYear)
}

func render(v validDraft, now time.Time) (string, error) {
	due := v.noticeDate.AddDate(0, 0, v.notice.ResponseDays)

	deadline := fmt.Sprintf("I understand a response is due by %s.", due.Format("January 2, 2006"))
	if now.After(due) {
		deadline = fmt.Sprintf("I recognize this response is past the %s due date and ask that it be considered.", due.Format("January 2, 2006"))
	}

	var b strings.Builder
	err := letterTmpl.Execute(&b, letterData{
		Today:       now.Format("January 2, 2006"),
		Notice:      v.notice,
		NoticeDate:  v.noticeDate.Format("January 2, 2006"),
		TaxYear:     v.req.TaxYear,
		Name:        v.req.TaxpayerName,
		Last4:       v.req.TaxpayerLast4,
		Stance:      stance(v.notice, v.req.Position),
		Explanation: v.req.Explanation,
		Deadline:    deadline,
	})
	if err != nil {
		return "", fmt.Errorf("responder: render letter: %w", err)
	}
	return b.String(), nil
}
