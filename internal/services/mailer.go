package services

import (
	"fmt"
	"net/smtp"
)

// CommentEmailData is the fixed prop contract consumed by the comment
// notification email template
type CommentEmailData struct {
	OwnerName            string
	CommenterName        string
	CommenterNickname    string
	CommenterAvatarURL   string
	CommenterProfileLink string
	CommentText          string
	EntityType           string
	EntityTitle          string
	EntityThumbnail      string
	EntityLink           string
	OptOutLink           string
	IsReply              bool
}

// EmailService sends transactional comment notification emails. Send calls
// are independent: a failure for one recipient never prevents sending to
// the next.
type EmailService interface {
	SendCommentEmail(to string, data CommentEmailData) error
}

type smtpEmailService struct {
	smtpHost string
	smtpPort string
	username string
	password string
	from     string
}

// NewSMTPEmailService creates an EmailService backed by plain SMTP
func NewSMTPEmailService(smtpHost, smtpPort, username, password, from string) EmailService {
	return &smtpEmailService{
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		username: username,
		password: password,
		from:     from,
	}
}

func (e *smtpEmailService) SendCommentEmail(to string, data CommentEmailData) error {
	var subject string
	if data.IsReply {
		subject = fmt.Sprintf("%s replied to your comment", data.CommenterName)
	} else {
		subject = fmt.Sprintf("%s commented on your %s", data.CommenterName, data.EntityType)
	}

	thumbnail := ""
	if data.EntityThumbnail != "" {
		thumbnail = fmt.Sprintf(`<img src="%s" alt="" style="max-width: 100%%; border-radius: 5px;">`, data.EntityThumbnail)
	}

	action := ""
	if data.EntityLink != "" {
		action = fmt.Sprintf(`<a href="%s" class="button">View comment</a>`, data.EntityLink)
	}

	commenter := data.CommenterName
	if data.CommenterProfileLink != "" {
		commenter = fmt.Sprintf(`<a href="%s" style="color: #2D7FF9;">%s</a>`, data.CommenterProfileLink, data.CommenterName)
	}

	footer := ""
	if data.OptOutLink != "" {
		footer = fmt.Sprintf(`<p>Don't want these emails? <a href="%s" style="color: #666;">Unsubscribe</a>.</p>`, data.OptOutLink)
	}

	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #2D7FF9; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background-color: #f4f4f4; }
        .comment { background-color: white; border-left: 4px solid #2D7FF9; padding: 15px; margin: 15px 0; }
        .button { display: inline-block; padding: 12px 30px; background-color: #2D7FF9; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
        .footer { text-align: center; padding: 20px; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Shutterfolk</h1>
        </div>
        <div class="content">
            <h2>Hi %s,</h2>
            <p>%s left a comment on <strong>%s</strong>:</p>
            %s
            <div class="comment">%s</div>
            %s
        </div>
        <div class="footer">
            %s
            <p>© 2026 Shutterfolk. All rights reserved.</p>
        </div>
    </div>
</body>
</html>
`, data.OwnerName, commenter, data.EntityTitle, thumbnail, data.CommentText, action, footer)

	return e.sendEmail(to, subject, body)
}

func (e *smtpEmailService) sendEmail(to, subject, body string) error {
	if e.username == "" || e.password == "" {
		fmt.Printf("\n=== EMAIL WOULD BE SENT ===\nTo: %s\nSubject: %s\n===========================\n", to, subject)
		return nil
	}

	auth := smtp.PlainAuth("", e.username, e.password, e.smtpHost)

	headers := make(map[string]string)
	headers["From"] = e.from
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	message := ""
	for k, v := range headers {
		message += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	message += "\r\n" + body

	addr := fmt.Sprintf("%s:%s", e.smtpHost, e.smtpPort)
	if err := smtp.SendMail(addr, auth, e.from, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

type mockEmailService struct{}

// NewMockEmailService creates an EmailService that only prints, for dev use
func NewMockEmailService() EmailService {
	return &mockEmailService{}
}

func (m *mockEmailService) SendCommentEmail(to string, data CommentEmailData) error {
	fmt.Printf("\n=== COMMENT EMAIL ===\nTo: %s\nCommenter: %s\nEntity: %s (%s)\nReply: %v\n=====================\n",
		to, data.CommenterName, data.EntityTitle, data.EntityType, data.IsReply)
	return nil
}
