package widget

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Armed-Dockers/audiobook-downloader/internal/dom"
)

const (
	PagePath   = "/"
	PanelPath  = "/jobs-panel"
	TogglePath = "/jobs-panel/toggle"
)

type elementView struct {
	ID    string
	Class string
	Text  string
	Inner template.HTML
}

type pageView struct {
	RefreshSeconds int
	Toggle         elementView
	Panel          elementView
	Badge          elementView
	List           elementView
}

var panelTemplate = template.Must(template.New("fragment").Parse(`
{{- define "panel" -}}
<div id="{{.Panel.ID}}" class="{{.Panel.Class}}">
  <h2>Active downloads <span id="{{.Badge.ID}}" class="{{.Badge.Class}}">{{.Badge.Text}}</span></h2>
  <ul id="{{.List.ID}}" class="{{.List.Class}}">{{.List.Inner}}</ul>
</div>
{{- end -}}
{{- template "panel" . -}}
`))

var pageTemplate = template.Must(template.Must(panelTemplate.Clone()).New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta http-equiv="refresh" content="{{.RefreshSeconds}}">
<title>Audiobook downloader</title>
<style>
.hidden { display: none; }
.job-progress-wrap { background: #eee; height: 6px; }
.job-progress-bar { background: #4a7; height: 6px; }
</style>
</head>
<body>
<form method="POST" action="` + TogglePath + `">
  <button id="{{.Toggle.ID}}" class="{{.Toggle.Class}}" type="submit">Downloads</button>
</form>
{{template "panel" .}}
</body>
</html>
`))

func viewOf(el *dom.Element) elementView {
	if el == nil {
		return elementView{}
	}
	return elementView{
		ID:    el.ID,
		Class: strings.Join(el.Classes(), " "),
		Text:  el.Text(),
		Inner: el.InnerHTML(),
	}
}

func buildPageView(page Lookup, refreshSeconds int) (pageView, bool) {
	view := pageView{
		RefreshSeconds: refreshSeconds,
		Toggle:         viewOf(page.GetElementByID(dom.JobsToggleID)),
		Panel:          viewOf(page.GetElementByID(dom.JobsPanelID)),
		Badge:          viewOf(page.GetElementByID(dom.JobsBadgeID)),
		List:           viewOf(page.GetElementByID(dom.JobsListID)),
	}
	ok := view.Toggle.ID != "" && view.Panel.ID != "" && view.Badge.ID != "" && view.List.ID != ""
	return view, ok
}

func renderHTML(c *gin.Context, tmpl *template.Template, view pageView) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "RENDER_FAILED",
			"message": "ページの描画に失敗しました。",
		})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// PageHandler は GET / のハンドラーを返します。ページは refreshSeconds ごとに再読み込みされます。
func PageHandler(page Lookup, refreshSeconds int) gin.HandlerFunc {
	if refreshSeconds <= 0 {
		refreshSeconds = 2
	}
	return func(c *gin.Context) {
		view, ok := buildPageView(page, refreshSeconds)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{
				"code":    "PANEL_NOT_FOUND",
				"message": "ジョブパネルが見つかりません。",
			})
			return
		}
		renderHTML(c, pageTemplate, view)
	}
}

// PanelHandler は GET /jobs-panel のハンドラーを返します（パネル部分のみ）。
func PanelHandler(page Lookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, ok := buildPageView(page, 0)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{
				"code":    "PANEL_NOT_FOUND",
				"message": "ジョブパネルが見つかりません。",
			})
			return
		}
		renderHTML(c, panelTemplate, view)
	}
}

// ToggleHandler は POST /jobs-panel/toggle のハンドラーを返します。
// トグル要素のクリックを発火させ、ページへリダイレクトします。
func ToggleHandler(page Lookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		if toggle := page.GetElementByID(dom.JobsToggleID); toggle != nil {
			toggle.Click()
		}
		c.Redirect(http.StatusSeeOther, PagePath)
	}
}

// RegisterRoutes はジョブパネルのルートを登録します。
func RegisterRoutes(router gin.IRouter, page Lookup, refreshSeconds int) {
	router.GET(PagePath, PageHandler(page, refreshSeconds))
	router.GET(PanelPath, PanelHandler(page))
	router.POST(TogglePath, ToggleHandler(page))
}
