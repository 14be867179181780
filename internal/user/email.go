package user

import (
	"bytes"
	"html/template"
	"net/url"

	"umkm-store-be/internal/mailer"
)

const brandName = "UMKM Clothing"

var emailTemplate = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1 style="background: #4F46E5; color: #fff; padding: 20px; text-align: center;">{{.Brand}}</h1>
    <h2>Hi, {{.Name}}!</h2>
    <p>{{.Intro}}</p>
    <p style="text-align: center;"><a href="{{.Link}}" style="background: #4F46E5; color: #fff; padding: 12px 30px; text-decoration: none; border-radius: 5px;">{{.Action}}</a></p>
    <p>Or open this link in your browser:</p>
    <p style="word-break: break-all;">{{.Link}}</p>
    <p>{{.Outro}}</p>
  </div>
</body>
</html>`))

type emailData struct {
	Brand  string
	Name   string
	Intro  string
	Action string
	Link   string
	Outro  string
}

func frontendLink(base, path, token string) string {
	return base + path + "?token=" + url.QueryEscape(token)
}

func renderEmail(to, subject string, data emailData) (mailer.Message, error) {
	data.Brand = brandName

	var b bytes.Buffer
	if err := emailTemplate.Execute(&b, data); err != nil {
		return mailer.Message{}, err
	}
	return mailer.Message{To: to, Subject: subject, HTML: b.String()}, nil
}

func verificationEmail(frontendURL string, u *User, token string) (mailer.Message, error) {
	return renderEmail(u.Email, "Verify your email - "+brandName, emailData{
		Name:   u.Name,
		Intro:  "Thank you for registering. Please confirm your email address to activate your account.",
		Action: "Verify Email",
		Link:   frontendLink(frontendURL, "/verify-email", token),
		Outro:  "If you did not create an account, you can ignore this email.",
	})
}

func resetPasswordEmail(frontendURL string, u *User, token string) (mailer.Message, error) {
	return renderEmail(u.Email, "Reset Password - "+brandName, emailData{
		Name:   u.Name,
		Intro:  "We received a request to reset your password.",
		Action: "Reset Password",
		Link:   frontendLink(frontendURL, "/reset-password", token),
		Outro:  "This link expires in 1 hour. If you did not request a reset, you can ignore this email.",
	})
}
