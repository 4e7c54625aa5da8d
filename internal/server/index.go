package server

import (
	"html/template"
	"net/http"
)

// indexPage is the operator landing page: live preview plus the
// evening's recent sessions. The kiosk frontend proper is served from
// /static/.
var indexPage = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<title>{{.Header}}</title>
<style>
body { font-family: sans-serif; margin: 2em; background: #1b1b1b; color: #eee; }
img.preview { max-width: 640px; border: 2px solid #444; }
table { border-collapse: collapse; margin-top: 1em; }
td, th { border: 1px solid #444; padding: 0.3em 0.8em; }
</style>
</head>
<body>
<h1>{{.Header}}</h1>
<img class="preview" src="/preview" alt="live preview">
<h2>Recent sessions</h2>
<table>
<tr><th>ID</th><th>Group</th><th>Headline</th><th>Prints</th></tr>
{{range .Sessions}}
<tr>
<td>{{.ID}}</td>
<td>{{if .GroupName}}{{.GroupName}}{{else}}&mdash;{{end}}</td>
<td>{{if .Headline}}{{.Headline}}{{else}}&mdash;{{end}}</td>
<td>{{.CopiesPrinted}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.store.Recent(r.Context(), 20)
	if err != nil {
		s.log.Error("list sessions", "err", err)
		http.Error(w, "could not list sessions", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = indexPage.Execute(w, struct {
		Header   string
		Sessions any
	}{Header: s.cfg.Template.HeaderText, Sessions: sessions})
}
