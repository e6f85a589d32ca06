package services

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"eventloop-api/config"
	"eventloop-api/models"
)

type EmailService struct {
	config *config.Config
	dialer *gomail.Dialer
}

func NewEmailService(cfg *config.Config) *EmailService {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)

	return &EmailService{
		config: cfg,
		dialer: dialer,
	}
}

// SendEventReminder sends a single reminder email for an event starting in
// daysBefore days.
func (es *EmailService) SendEventReminder(user models.User, event models.Event, daysBefore int) error {
	var subject string
	if daysBefore == 1 {
		subject = fmt.Sprintf("Reminder: %s is tomorrow", event.Title)
	} else {
		subject = fmt.Sprintf("Reminder: %s starts in %d days", event.Title, daysBefore)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", es.config.FromName, es.config.FromEmail))
	m.SetHeader("To", user.Email)
	m.SetHeader("Subject", subject)

	when := event.StartDate.Format("Monday, Jan 2 2006 at 15:04")
	link := fmt.Sprintf("%s/events/%s", es.config.BaseURL, event.ID)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { text-align: center; background: #1f6feb; color: white; padding: 20px; border-radius: 10px 10px 0 0; }
        .content { background: #f8f9fa; padding: 30px; border-radius: 0 0 10px 10px; }
        .event { background: white; padding: 20px; border-radius: 8px; border-left: 4px solid #1f6feb; }
        .btn { display: inline-block; background: #1f6feb; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin: 10px 0; }
        .footer { text-align: center; margin-top: 20px; color: #666; font-size: 14px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>eventLoop</h1>
            <p>Event Reminder</p>
        </div>
        <div class="content">
            <h2>Hello %s!</h2>
            <p>Just a heads-up about an event you saved:</p>
            <div class="event">
                <h3>%s</h3>
                <p><strong>When:</strong> %s</p>
                <p><strong>Where:</strong> %s (%s)</p>
                <p>%s</p>
            </div>
            <a class="btn" href="%s">View event</a>
            <p>See you there!</p>
            <p><strong>The eventLoop Team</strong></p>
        </div>
        <div class="footer">
            <p>You are receiving this because you enabled reminders for this event.</p>
        </div>
    </div>
</body>
</html>`, user.Name, event.Title, when, event.Location, event.Format, event.ShortDescription, link)

	textBody := fmt.Sprintf(`
Hello %s!

Just a heads-up about an event you saved:

%s
When: %s
Where: %s (%s)

%s

View event: %s

See you there!
The eventLoop Team

You are receiving this because you enabled reminders for this event.
`, user.Name, event.Title, when, event.Location, event.Format, event.ShortDescription, link)

	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	if err := es.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send reminder email: %w", err)
	}

	return nil
}

// SendWeeklyDigest sends the weekly digest email. The subject carries the
// computed week's start and end date labels.
func (es *EmailService) SendWeeklyDigest(user models.User, digest Digest, weekStart, weekEnd time.Time) error {
	subject := fmt.Sprintf("Your weekly event digest (%s - %s)",
		weekStart.Format("Jan 2"), weekEnd.Format("Jan 2, 2006"))

	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", es.config.FromName, es.config.FromEmail))
	m.SetHeader("To", user.Email)
	m.SetHeader("Subject", subject)

	var html strings.Builder
	var text strings.Builder

	html.WriteString(fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { text-align: center; background: #1f6feb; color: white; padding: 20px; border-radius: 10px 10px 0 0; }
        .content { background: #f8f9fa; padding: 30px; border-radius: 0 0 10px 10px; }
        .event { background: white; padding: 15px; margin: 10px 0; border-radius: 8px; border-left: 4px solid #1f6feb; }
        .footer { text-align: center; margin-top: 20px; color: #666; font-size: 14px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>eventLoop</h1>
            <p>Your weekly digest</p>
        </div>
        <div class="content">
            <h2>Hello %s!</h2>`, user.Name))

	text.WriteString(fmt.Sprintf("Hello %s!\n\nHere is what's happening this week on eventLoop.\n", user.Name))

	es.writeSection(&html, &text, "New this week", digest.NewEvents)
	es.writeSection(&html, &text, "Popular upcoming events", digest.PopularEvents)
	es.writeSection(&html, &text, "Coming up in the next two weeks", digest.UpcomingEvents)
	es.writeSection(&html, &text, "Picked for you", digest.RecommendedEvents)

	html.WriteString(`
            <p><strong>The eventLoop Team</strong></p>
        </div>
        <div class="footer">
            <p>You are receiving this because weekly digests are enabled in your profile.</p>
        </div>
    </div>
</body>
</html>`)
	text.WriteString("\nThe eventLoop Team\n\nYou are receiving this because weekly digests are enabled in your profile.\n")

	m.SetBody("text/plain", text.String())
	m.AddAlternative("text/html", html.String())

	if err := es.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send digest email: %w", err)
	}

	return nil
}

func (es *EmailService) writeSection(html, text *strings.Builder, title string, events []models.Event) {
	if len(events) == 0 {
		return
	}

	html.WriteString(fmt.Sprintf("<h3>%s</h3>", title))
	text.WriteString(fmt.Sprintf("\n%s\n", title))

	for _, event := range events {
		when := event.StartDate.Format("Mon, Jan 2")
		link := fmt.Sprintf("%s/events/%s", es.config.BaseURL, event.ID)

		html.WriteString(fmt.Sprintf(`
            <div class="event">
                <strong><a href="%s">%s</a></strong><br>
                %s · %s · %s
            </div>`, link, event.Title, when, event.Location, event.Format))
		text.WriteString(fmt.Sprintf("- %s (%s, %s, %s)\n  %s\n", event.Title, when, event.Location, event.Format, link))
	}
}
