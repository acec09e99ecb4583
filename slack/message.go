package slack

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/viaphoton/e2e-harness/report"
)

const summaryTemplate = "```" + `
               Branch: {{ .Branch | default "N/A" }}
             Job Name: {{ .JobName | default "Local Run" }}
                    ---
      Modules Covered: {{ .ModuleName }} {{ .ModuleVersion }}
         Triggered By: {{ .TriggeredBy }}
          Environment: {{ .Environment | title }}
             Test Set: {{ .TestSet }}
` + "```" + `

Test Results Updated in Ticket: <{{ .BrowseURL | trimSuffix "/" }}/{{ .Ticket }}|{{ .Ticket }}>
{{- with .JobURL }} <{{ . }}|Gitlab Pipeline>{{ end }}

{{ with .Stats -}}
{{ if .Tests }}:clipboard:Total Tests: *{{ .Tests }}*
{{ end -}}
{{ if .Passed }}:white_check_mark:Passed: *{{ .Passed }}*
{{ end -}}
{{ if .Failed }}:x:Failed: *{{ .Failed }}*
{{ end -}}
{{ if .Skipped }}:no_entry:Skipped: *{{ .Skipped }}*
{{ end -}}
{{ if .Duration }}:hourglass:Duration: *{{ clock .Duration }}*
{{ end -}}
{{ end -}}
`

var summary = template.Must(template.New("summary").
	Funcs(sprig.TxtFuncMap()).
	Funcs(template.FuncMap{"clock": FormatDuration}).
	Parse(summaryTemplate))

// Summary is everything the run announcement shows.
type Summary struct {
	Branch        string
	JobName       string
	JobURL        string
	ModuleName    string
	ModuleVersion string
	TriggeredBy   string
	Environment   string
	TestSet       string
	Ticket        string
	BrowseURL     string
	Stats         report.Stats
}

// SummaryMessage renders the run announcement posted to the webhooks and as the thread parent.
func SummaryMessage(s Summary) (Message, error) {
	var b strings.Builder
	if err := summary.Execute(&b, s); err != nil {
		return Message{}, fmt.Errorf("failed to render summary message: %w", err)
	}

	return Message{Type: "mrkdwn", Text: b.String()}, nil
}

// FailureBlocks renders one section per failed case.
func FailureBlocks(failures []report.FailedCase, browseURL string) []Block {
	blocks := make([]Block, 0, len(failures))
	for _, failure := range failures {
		blocks = append(blocks, Block{
			Type: "section",
			Text: &TextObject{
				Type: "mrkdwn",
				Text: FailureText(failure, browseURL),
			},
		})
	}
	return blocks
}

// FailureText ...
func FailureText(failure report.FailedCase, browseURL string) string {
	link := strings.TrimSuffix(browseURL, "/") + "/" + failure.Ticket
	return fmt.Sprintf("*<%s|%s>* _%s_\nType: *%s*\n%s", link, failure.Ticket, failure.Name, failure.FailureType, failure.FailureMessage)
}

// WithDividers separates blocks with divider blocks, without leading or trailing ones.
func WithDividers(blocks []Block) []Block {
	if len(blocks) == 0 {
		return nil
	}

	separated := make([]Block, 0, 2*len(blocks)-1)
	for i, block := range blocks {
		if i > 0 {
			separated = append(separated, Block{Type: "divider"})
		}
		separated = append(separated, block)
	}
	return separated
}

// FormatDuration renders d as hh:mm:ss, hours are not wrapped at 24.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total/60%60, total%60)
}
