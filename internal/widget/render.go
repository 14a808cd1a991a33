package widget

import (
	"bytes"
	"html/template"
	"strconv"

	"github.com/Armed-Dockers/audiobook-downloader/internal/jobs"
)

var jobListTemplate = template.Must(template.New("jobs-list").Parse(`
{{- if not . -}}
<li class="jobs-empty">No active downloads</li>
{{- else -}}
{{- range . }}
<li class="job-item">
  <div class="job-row">
    <a href="/download/{{.JobID}}" class="job-title">{{.BookTitle}}</a>
    <span class="job-meta">{{.Current}}/{{.Total}} ({{.Percent}}%)</span>
  </div>
  <div class="job-progress-wrap">
    <div class="job-progress-bar" style="width:{{.Percent}}%;"></div>
  </div>
  <p class="job-message">{{.Message}}</p>
</li>
{{- end }}
{{- end -}}
`))

// renderJobList は jobs-list の中身を描画します。
// 書名とメッセージはエスケープされるため、バックエンド由来の文字列をそのまま埋め込みません。
func renderJobList(views []jobs.JobView) (template.HTML, error) {
	var buf bytes.Buffer
	if err := jobListTemplate.Execute(&buf, views); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// badgeText はバッジに表示する件数です。count が無い場合は 0 になります。
func badgeText(count int) string {
	return strconv.Itoa(count)
}
