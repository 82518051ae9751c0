package service

import "fmt"

func verificationEmail(name string, code string) (subject string, html string, text string) {
	subject = "Verify your email"
	html = fmt.Sprintf(
		"<p>Hi %s,</p><p>Your verification code is:</p><h2>%s</h2><p>It expires in 5 minutes.</p>",
		name, code,
	)
	text = fmt.Sprintf("Hi %s, your verification code is %s. It expires in 5 minutes.", name, code)
	return subject, html, text
}

func passwordResetEmail(name string, code string) (subject string, html string, text string) {
	subject = "Reset your password"
	html = fmt.Sprintf(
		"<p>Hi %s,</p><p>Your password reset code is:</p><h2>%s</h2><p>It expires in 5 minutes. If you did not request this, you can ignore this email.</p>",
		name, code,
	)
	text = fmt.Sprintf("Hi %s, your password reset code is %s. It expires in 5 minutes.", name, code)
	return subject, html, text
}
