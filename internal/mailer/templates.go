package mailer

import (
	"fmt"
	"html"
)

func PasswordResetMessage(to, name, resetURL string) Message {
	return Message{
		To:      to,
		ToName:  name,
		Subject: "Reset your password",
		TextBody: fmt.Sprintf("Hi %s,\n\nUse the link below to choose a new password. It expires in one hour.\n\n%s\n\n"+
			"If you did not request this, you can ignore this email.\n", name, resetURL),
		HTMLBody: fmt.Sprintf(`<p>Hi %s,</p><p>Use the link below to choose a new password. It expires in one hour.</p>`+
			`<p><a href="%s">Reset password</a></p><p>If you did not request this, you can ignore this email.</p>`, html.EscapeString(name), html.EscapeString(resetURL)),
	}
}

func WelcomeMessage(to, name string) Message {
	return Message{
		To:       to,
		ToName:   name,
		Subject:  "Welcome aboard",
		TextBody: fmt.Sprintf("Hi %s,\n\nYour account is ready. Finish onboarding to get course recommendations.\n", name),
	}
}
