package main

import (
	"strings"
	"testing"
	"time"
)

func testBrand() Brand {
	return Brand{
		Name:    "Komtifix",
		Phone:   "0633002254",
		Address: "Pr. Annalaan 343, 2263 XK Leidschendam",
		City:    "Leidschendam",
	}
}

func strPtr(s string) *string { return &s }

func TestEscapeHTMLReplacesAllSignificantCharacters(t *testing.T) {
	got := escapeHTML(`<a href="x">Tom & Jerry's</a>`)
	want := "&lt;a href=&quot;x&quot;&gt;Tom &amp; Jerry&#39;s&lt;/a&gt;"
	if got != want {
		t.Fatalf("escapeHTML() = %q, want %q", got, want)
	}
}

func TestMultilineHTMLKeepsLineBreaks(t *testing.T) {
	got := multilineHTML("line one\r\nline <two>\nthree")
	want := "line one<br/>line &lt;two&gt;<br/>three"
	if got != want {
		t.Fatalf("multilineHTML() = %q, want %q", got, want)
	}
}

func TestFormatReceivedAtUsesAmsterdamTime(t *testing.T) {
	winter := time.Date(2026, time.January, 5, 8, 3, 5, 0, time.UTC)
	if got := formatReceivedAt(winter); got != "5-1-2026, 09:03:05" {
		t.Errorf("winter timestamp = %q", got)
	}

	summer := time.Date(2026, time.July, 15, 22, 30, 0, 0, time.UTC)
	if got := formatReceivedAt(summer); got != "16-7-2026, 00:30:00" {
		t.Errorf("summer timestamp = %q", got)
	}
}

func TestBuildLeadEmail(t *testing.T) {
	sub := Submission{
		Name:    "Jo <script>",
		Email:   "jo@example.com",
		Service: strPtr("Tegelwerk"),
		Message: "Hello <b>world</b>\nSecond \"line\" & 'more'",
	}
	receivedAt := time.Date(2026, time.January, 5, 8, 3, 5, 0, time.UTC)

	msg := buildLeadEmail(sub, testBrand(), "noreply@komtifix.nl", "owner@komtifix.nl", receivedAt)

	if msg.From != "noreply@komtifix.nl" {
		t.Errorf("From = %q", msg.From)
	}
	if len(msg.To) != 1 || msg.To[0] != "owner@komtifix.nl" {
		t.Errorf("To = %v", msg.To)
	}
	if msg.ReplyTo != "jo@example.com" {
		t.Errorf("ReplyTo = %q", msg.ReplyTo)
	}
	if msg.Subject != "New quote request: Jo <script> — Tegelwerk" {
		t.Errorf("Subject = %q", msg.Subject)
	}

	for _, want := range []string{
		"New lead via Komtifix",
		"Jo &lt;script&gt;",
		"Hello &lt;b&gt;world&lt;/b&gt;<br/>Second &quot;line&quot; &amp; &#39;more&#39;",
		"Tegelwerk",
		"5-1-2026, 09:03:05",
		"Leidschendam",
		"https://www.google.com/maps?q=Pr.+Annalaan+343%2C+2263+XK+Leidschendam",
	} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("lead HTML missing %q", want)
		}
	}
	if strings.Contains(msg.HTML, "<script>") || strings.Contains(msg.HTML, "<b>world") {
		t.Error("lead HTML contains unescaped user markup")
	}
	if !strings.Contains(msg.Text, "Hello <b>world</b>") {
		t.Error("plain text body should carry the raw message")
	}
}

func TestBuildLeadEmailUsesPlaceholdersForMissingOptionals(t *testing.T) {
	sub := Submission{Name: "Jo", Email: "jo@example.com", Message: "Hello world"}

	msg := buildLeadEmail(sub, testBrand(), "from@x.nl", "to@x.nl", time.Now())

	if msg.Subject != "New quote request: Jo" {
		t.Errorf("Subject = %q", msg.Subject)
	}
	if strings.Count(msg.HTML, ">—</td>") != 2 {
		t.Errorf("expected phone and service placeholders in lead HTML:\n%s", msg.HTML)
	}
}

func TestBuildConfirmationEmail(t *testing.T) {
	sub := Submission{
		Name:    "Jo & Co",
		Email:   "jo@example.com",
		Phone:   strPtr("06-1234"),
		Message: "Hello <b>world</b>",
	}

	msg := buildConfirmationEmail(sub, testBrand(), "noreply@komtifix.nl")

	if len(msg.To) != 1 || msg.To[0] != "jo@example.com" {
		t.Errorf("To = %v", msg.To)
	}
	if msg.ReplyTo != "" {
		t.Errorf("confirmation should not set ReplyTo, got %q", msg.ReplyTo)
	}
	if msg.Subject != "We received your request — Komtifix" {
		t.Errorf("Subject = %q", msg.Subject)
	}
	for _, want := range []string{
		"Thanks, Jo &amp; Co!",
		"<li>Service: —</li>",
		"<li>Phone: 06-1234</li>",
		"Hello &lt;b&gt;world&lt;/b&gt;",
		"<b>Komtifix</b>",
		"0633002254 · Pr. Annalaan 343, 2263 XK Leidschendam",
	} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("confirmation HTML missing %q", want)
		}
	}
}
