package email

import (
	"fmt"
	"html"
	"strings"
)

// ConfirmationSubject is the subject line of the confirmation email.
const ConfirmationSubject = "Welcome!"

// ConfirmationLink returns the link subscribers follow to confirm.
// It carries no per-subscriber token.
func ConfirmationLink(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/subscriptions/confirm"
}

// ConfirmationEmailHTML returns the HTML body for the confirmation email.
// The link appears exactly once.
func ConfirmationEmailHTML(link string, appName string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Confirm your subscription</title>
</head>
<body style="margin:0;padding:0;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,Helvetica,Arial,sans-serif;background-color:#f4f5f7;">
<table width="100%%" cellpadding="0" cellspacing="0" style="background-color:#f4f5f7;padding:40px 0;">
<tr><td align="center">
<table width="480" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;overflow:hidden;">
  <tr><td style="padding:32px 40px 24px;text-align:center;">
    <h1 style="margin:0;font-size:24px;color:#1a1a2e;">Welcome to our newsletter!</h1>
  </td></tr>
  <tr><td style="padding:0 40px 32px;">
    <p style="margin:0;font-size:15px;color:#4a4a68;line-height:1.6;">
      Thanks for subscribing to <strong>%s</strong>. Click <a href="%s">here</a> to confirm your subscription.
      If you didn't sign up, you can safely ignore this email.
    </p>
  </td></tr>
</table>
</td></tr>
</table>
</body>
</html>`, html.EscapeString(appName), html.EscapeString(link))
}

// ConfirmationEmailText returns the plain-text body for the confirmation email.
func ConfirmationEmailText(link string, appName string) string {
	return fmt.Sprintf(`Welcome to our newsletter!

Thanks for subscribing to %s. Visit %s to confirm your subscription.

If you didn't sign up, you can safely ignore this email.`, appName, link)
}
