package main

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/nabyrahkigenyi-design/Komtifix/libs/mailer"
)

const (
	missingValuePlaceholder = "—"
	receivedAtLayout        = "2-1-2006, 15:04:05"
	businessTimeZone        = "Europe/Amsterdam"
)

var (
	htmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	businessLocation = mustLoadLocation(businessTimeZone)
)

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// multilineHTML escapes s and keeps its line breaks visible in HTML mail.
func multilineHTML(s string) string {
	normalized := strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(escapeHTML(normalized), "\n", "<br/>")
}

func valueOrDash(value *string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return missingValuePlaceholder
	}
	return *value
}

func mapQueryURL(address string) string {
	return "https://www.google.com/maps?q=" + url.QueryEscape(address)
}

func formatReceivedAt(t time.Time) string {
	return t.In(businessLocation).Format(receivedAtLayout)
}

func leadSubject(sub Submission) string {
	subject := fmt.Sprintf("New quote request: %s", sub.Name)
	if sub.Service != nil && strings.TrimSpace(*sub.Service) != "" {
		subject += " — " + *sub.Service
	}
	return subject
}

func buildLeadEmail(sub Submission, brand Brand, from, to string, receivedAt time.Time) mailer.Message {
	createdAt := formatReceivedAt(receivedAt)

	html := fmt.Sprintf(`
		<div style="font-family:system-ui,-apple-system,Segoe UI,Roboto;line-height:1.5">
			<h2 style="margin:0 0 12px">New lead via %s</h2>
			<table style="width:100%%;border-collapse:collapse">
				<tr><td style="padding:6px 0;width:140px"><b>Name</b></td><td style="padding:6px 0">%s</td></tr>
				<tr><td style="padding:6px 0"><b>Email</b></td><td style="padding:6px 0">%s</td></tr>
				<tr><td style="padding:6px 0"><b>Phone</b></td><td style="padding:6px 0">%s</td></tr>
				<tr><td style="padding:6px 0"><b>Service</b></td><td style="padding:6px 0">%s</td></tr>
			</table>
			<div style="margin-top:14px">
				<b>Message</b>
				<div style="margin-top:6px;padding:12px;border:1px solid #e5e7eb;border-radius:12px;background:#fafafa">
					%s
				</div>
			</div>
			<hr style="margin:16px 0;border:none;border-top:1px solid #e5e7eb" />
			<div style="color:#6b7280;font-size:12px">
				Sent: %s · %s ·
				<a href="%s" target="_blank" rel="noopener noreferrer">Map</a>
			</div>
		</div>
	`,
		escapeHTML(brand.Name),
		escapeHTML(sub.Name),
		escapeHTML(sub.Email),
		escapeHTML(valueOrDash(sub.Phone)),
		escapeHTML(valueOrDash(sub.Service)),
		multilineHTML(sub.Message),
		escapeHTML(createdAt),
		escapeHTML(brand.City),
		mapQueryURL(brand.Address),
	)

	text := fmt.Sprintf(
		"New lead via %s\n\nName: %s\nEmail: %s\nPhone: %s\nService: %s\n\nMessage:\n%s\n\nSent: %s · %s",
		brand.Name, sub.Name, sub.Email, valueOrDash(sub.Phone), valueOrDash(sub.Service), sub.Message, createdAt, brand.City,
	)

	return mailer.Message{
		From:    from,
		To:      []string{to},
		ReplyTo: sub.Email,
		Subject: leadSubject(sub),
		HTML:    html,
		Text:    text,
	}
}

func buildConfirmationEmail(sub Submission, brand Brand, from string) mailer.Message {
	html := fmt.Sprintf(`
		<div style="font-family:system-ui,-apple-system,Segoe UI,Roboto;line-height:1.6">
			<h2 style="margin:0 0 10px">Thanks, %s!</h2>
			<p style="margin:0 0 12px">
				We received your request and will contact you as soon as possible.
			</p>
			<div style="padding:12px 14px;border:1px solid #e5e7eb;border-radius:14px;background:#ffffff">
				<b>Summary</b>
				<ul style="margin:8px 0 0;padding-left:18px">
					<li>Service: %s</li>
					<li>Phone: %s</li>
				</ul>
			</div>
			<p style="margin:14px 0 6px"><b>Your message</b></p>
			<div style="padding:12px 14px;border-left:4px solid #0ea5a4;background:#f8fafc;border-radius:10px">
				%s
			</div>
			<p style="margin:16px 0 0">
				Regards,<br/>
				<b>%s</b><br/>
				%s · %s
			</p>
		</div>
	`,
		escapeHTML(sub.Name),
		escapeHTML(valueOrDash(sub.Service)),
		escapeHTML(valueOrDash(sub.Phone)),
		multilineHTML(sub.Message),
		escapeHTML(brand.Name),
		escapeHTML(brand.Phone),
		escapeHTML(brand.Address),
	)

	text := fmt.Sprintf(
		"Thanks, %s!\n\nWe received your request and will contact you as soon as possible.\n\nService: %s\nPhone: %s\n\nYour message:\n%s\n\nRegards,\n%s\n%s · %s",
		sub.Name, valueOrDash(sub.Service), valueOrDash(sub.Phone), sub.Message, brand.Name, brand.Phone, brand.Address,
	)

	return mailer.Message{
		From:    from,
		To:      []string{sub.Email},
		Subject: fmt.Sprintf("We received your request — %s", brand.Name),
		HTML:    html,
		Text:    text,
	}
}
