package notifier

import (
	"html"
	"strings"
	"time"
)

const (
	Title       = "Question of the day"
	footerStamp = "2006-01-02 15:04:05"
	embedColour = 0xff0000
	// Telegram rejects messages above 4096 characters.
	telegramTextLimit = 4096
)

// telegramHTML renders the message body for Telegram's HTML parse mode.
func telegramHTML(text string, at time.Time) string {
	var b strings.Builder
	b.WriteString("❓ <b>")
	b.WriteString(Title)
	b.WriteString("</b> ❓\n\n")
	b.WriteString(html.EscapeString(truncateRunes(text, telegramTextLimit-128)))
	b.WriteString("\n\n<i>Asked at ")
	b.WriteString(at.UTC().Format(footerStamp))
	b.WriteString(" UTC</i>")
	return b.String()
}

func footerText(at time.Time) string {
	return "Asked at " + at.UTC().Format(footerStamp) + " UTC"
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n < 4 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
