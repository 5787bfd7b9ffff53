// Package mailer implements the email outreach batch: the reference consumer
// of the activity store. It selects stored email leads, applies blocklist,
// cooldown, cross-channel dedup and the ramp quota, and records every outcome
// back into the event log.
package mailer

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/gomail.v2"
)

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers messages. Implementations must treat delivery failure for
// one message as non-fatal for the batch.
type Sender interface {
	Send(m Message) error
}

// SMTPSender sends via SMTP with STARTTLS.
type SMTPSender struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	ReplyTo  string
}

func (s *SMTPSender) Send(msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", msg.To)
	if s.ReplyTo != "" {
		m.SetHeader("Reply-To", s.ReplyTo)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	d := gomail.NewDialer(s.Host, s.Port, s.Username, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}

var placeholderRe = regexp.MustCompile(`\{([a-zA-Z0-9_.]+)\}`)

// RenderTemplate substitutes {name} placeholders from vars. Unknown
// placeholders are left intact so a broken template is visible in dry runs.
func RenderTemplate(tpl string, vars map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(tpl, func(ph string) string {
		key := ph[1 : len(ph)-1]
		if v, ok := vars[key]; ok {
			return v
		}
		return ph
	})
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

var rolePrefixes = []string{"noreply", "no-reply", "donotreply", "do-not-reply", "mailer-daemon", "postmaster"}

// ValidContactEmail reports whether value looks like a real, contactable
// address: syntactically an email and not a no-reply/daemon mailbox.
func ValidContactEmail(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	if !emailRe.MatchString(v) {
		return false
	}
	local := v[:strings.Index(v, "@")]
	for _, p := range rolePrefixes {
		if strings.HasPrefix(local, p) {
			return false
		}
	}
	return true
}
