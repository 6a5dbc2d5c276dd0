package service

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"holdops/internal/domain"
)

var moneyPrinter = message.NewPrinter(language.English)

// formatMoney renders an amount with thousands separators and two decimals.
func formatMoney(v float64) string {
	return moneyPrinter.Sprintf("%.2f", v)
}

var digestFuncs = map[string]interface{}{
	"money": formatMoney,
	"indent": func(depth int) string {
		return strings.Repeat("  ", depth)
	},
}

var digestText = texttemplate.Must(texttemplate.New("digest.txt").Funcs(digestFuncs).Parse(
	`Holdops digest for {{.Period}}
{{range .Sections}}
== {{.Company.Name}} ==
{{- if .Error}}
Report unavailable: {{.Error}}
{{- else}}
Income:   {{money .Bucket.Income}}
Expenses: {{money .Bucket.Expenses}}
Net:      {{money .Bucket.Net}}
{{- range .Lines}}
{{indent .Depth}}{{.Label}}: {{money .Amount}}
{{- end}}
{{- end}}
{{end}}
{{- if .Narrative}}
Summary
{{.Narrative}}
{{end}}`))

var digestHTML = htmltemplate.Must(htmltemplate.New("digest.html").Funcs(digestFuncs).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 640px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Holdops digest for {{.Period}}</h2>
  {{- if .Narrative}}
  <p style="color: #444; line-height: 1.5;">{{.Narrative}}</p>
  {{- end}}
  {{- range .Sections}}
  <h3 style="color: #333; border-bottom: 1px solid #eee;">{{.Company.Name}}</h3>
  {{- if .Error}}
  <p style="color: #b91c1c;">Report unavailable: {{.Error}}</p>
  {{- else}}
  <table style="border-collapse: collapse; width: 100%;">
    <tr><td>Income</td><td style="text-align: right;">{{money .Bucket.Income}}</td></tr>
    <tr><td>Expenses</td><td style="text-align: right;">{{money .Bucket.Expenses}}</td></tr>
    <tr><td><strong>Net</strong></td><td style="text-align: right;"><strong>{{money .Bucket.Net}}</strong></td></tr>
  </table>
  {{- if .Lines}}
  <table style="border-collapse: collapse; width: 100%; margin-top: 12px; color: #555; font-size: 13px;">
    {{- range .Lines}}
    <tr><td style="padding-left: {{.Depth}}em;">{{.Label}}</td><td style="text-align: right;">{{money .Amount}}</td></tr>
    {{- end}}
  </table>
  {{- end}}
  {{- end}}
  {{- end}}
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Generated {{.GeneratedAt.Format "2006-01-02 15:04 MST"}}</p>
</body>
</html>`))

func renderDigest(d *domain.Digest) error {
	var text, html bytes.Buffer
	if err := digestText.Execute(&text, d); err != nil {
		return fmt.Errorf("rendering digest text: %w", err)
	}
	if err := digestHTML.Execute(&html, d); err != nil {
		return fmt.Errorf("rendering digest html: %w", err)
	}
	d.Text = text.String()
	d.HTML = html.String()
	return nil
}

// digestFacts is the plain summary handed to the LLM for the narrative.
func digestFacts(d *domain.Digest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Period: %s\n", d.Period)
	for _, s := range d.Sections {
		if s.Error != "" {
			fmt.Fprintf(&b, "%s: report unavailable\n", s.Company.Name)
			continue
		}
		fmt.Fprintf(&b, "%s: income %s, expenses %s, net %s\n",
			s.Company.Name, formatMoney(s.Bucket.Income), formatMoney(s.Bucket.Expenses), formatMoney(s.Bucket.Net))
		for _, l := range s.Lines {
			fmt.Fprintf(&b, "  %s: %s\n", l.Label, formatMoney(l.Amount()))
		}
	}
	return b.String()
}
