// file: internal/mail/template.go
// version: 1.0.0
// guid: 9c2e5d7a-1f84-4b3c-8e6d-2a0f4c7b9e15

package mail

import (
	"bytes"
	"html/template"
)

const confirmationSubject = "Confirme seu e-mail - Classificação de Concursos"

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Confirme seu e-mail</title>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; background-color: #f4f4f4; margin: 0; padding: 0; }
    .container { max-width: 600px; margin: 20px auto; padding: 20px; background-color: #fff; border-radius: 8px; }
    .header { text-align: center; border-bottom: 2px solid #ddd; padding-bottom: 10px; margin-bottom: 20px; }
    .header h1 { color: #3f51b5; margin: 0; }
    .content { text-align: center; }
    .button { display: inline-block; padding: 10px 20px; margin: 20px 0; background-color: #4CAF50; color: #fff; text-decoration: none; border-radius: 5px; }
    .footer { text-align: center; margin-top: 20px; padding-top: 10px; border-top: 2px solid #ddd; color: #666; font-size: 12px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header"><h1>Classificação de Concursos</h1></div>
    <div class="content">
      <h2>Olá, {{.Name}}!</h2>
      <p>Obrigado por se cadastrar em nossa plataforma. Por favor, clique no botão abaixo para confirmar seu e-mail e ativar sua conta:</p>
      <a href="{{.URL}}" class="button">Confirmar E-mail</a>
      <p>Se o botão acima não funcionar, copie e cole o link abaixo em seu navegador:</p>
      <p><a href="{{.URL}}">{{.URL}}</a></p>
    </div>
    <div class="footer">
      <p>Se você não se cadastrou em nossa plataforma, ignore este e-mail.</p>
    </div>
  </div>
</body>
</html>
`))

// RenderConfirmation returns the HTML body of the confirmation email.
func RenderConfirmation(name, confirmationURL string) (string, error) {
	var buf bytes.Buffer
	err := confirmationTemplate.Execute(&buf, struct {
		Name string
		URL  string
	}{Name: name, URL: confirmationURL})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
