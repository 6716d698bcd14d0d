package site

import (
	"html/template"
	"net/http"
)

var successTemplate = template.Must(template.New("success").Parse(`<!DOCTYPE html>
<html lang="tr">
<head>
<meta charset="utf-8">
<title>Siparişiniz alındı</title>
</head>
<body>
<main>
<h1>Teşekkürler!</h1>
<p>Siparişiniz alındı. Sorularınız için <a href="mailto:{{.}}">{{.}}</a> adresine yazabilirsiniz.</p>
<p><a href="/">Mağazaya dön</a></p>
</main>
</body>
</html>
`))

func (h *Handler) successPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := successTemplate.Execute(w, h.support); err != nil {
		h.logger.Error("render success page", "error", err)
	}
}
