package email

import (
	htemplate "html/template"
	"strings"
	ttemplate "text/template"
)

// ResetVars son las variables del mail de reset de password.
type ResetVars struct {
	Name string
	Link string
	TTL  string
}

var resetHTML = htemplate.Must(htemplate.New("reset_html").Parse(`<!doctype html>
<html>
  <body style="font-family: Arial, sans-serif; color: #1a1a2e;">
    <h2>Reset your password</h2>
    <p>Hi {{if .Name}}{{.Name}}{{else}}there{{end}},</p>
    <p>We received a request to reset the password for your camp account.
       Click the button below to choose a new one. The link expires in {{.TTL}}.</p>
    <p style="margin: 24px 0;">
      <a href="{{.Link}}" style="background: #e8590c; color: #fff; padding: 12px 24px; border-radius: 6px; text-decoration: none;">Reset password</a>
    </p>
    <p>If you didn't ask for this, you can ignore this email: your password stays as it is.</p>
    <p>— The camp team</p>
  </body>
</html>`))

var resetText = ttemplate.Must(ttemplate.New("reset_txt").Parse(`Hi {{if .Name}}{{.Name}}{{else}}there{{end}},

We received a request to reset the password for your camp account.
Open this link to choose a new one (expires in {{.TTL}}):

{{.Link}}

If you didn't ask for this, ignore this email: your password stays as it is.

— The camp team`))

// RenderReset renderiza el mail de reset en ambas variantes.
func RenderReset(v ResetVars) (html, text string, err error) {
	var hb, tb strings.Builder
	if err = resetHTML.Execute(&hb, v); err != nil {
		return
	}
	if err = resetText.Execute(&tb, v); err != nil {
		return
	}
	return hb.String(), tb.String(), nil
}
