package email

import (
	"html"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	hrefPattern = regexp.MustCompile(`href="([^"]*)"`)
	urlPattern  = regexp.MustCompile(`https?://[^\s"<>]+`)
)

func TestConfirmationEmail_SingleIdenticalLink(t *testing.T) {
	for _, base := range []string{
		"http://127.0.0.1:8000",
		"https://news.example.com/",
		"https://news.example.com/app?ref=a&b=c",
	} {
		t.Run(base, func(t *testing.T) {
			link := ConfirmationLink(base)

			htmlBody := ConfirmationEmailHTML(link, "Newsletter")
			textBody := ConfirmationEmailText(link, "Newsletter")

			hrefs := hrefPattern.FindAllStringSubmatch(htmlBody, -1)
			require.Len(t, hrefs, 1)
			assert.Len(t, urlPattern.FindAllString(htmlBody, -1), 1)

			textLinks := urlPattern.FindAllString(textBody, -1)
			require.Len(t, textLinks, 1)

			assert.Equal(t, html.UnescapeString(hrefs[0][1]), strings.TrimRight(textLinks[0], "."))
			assert.Equal(t, link, strings.TrimRight(textLinks[0], "."))
		})
	}
}

func TestConfirmationLink(t *testing.T) {
	assert.Equal(t, "http://localhost:8000/subscriptions/confirm", ConfirmationLink("http://localhost:8000/"))
}

func TestBuildMIME(t *testing.T) {
	msg := Message{
		To:       mustEmail(t, "ursula_le_guin@gmail.com"),
		Subject:  ConfirmationSubject,
		HTMLBody: "<p>hi</p>",
		TextBody: "hi",
	}

	raw := buildMIME("Newsletter <newsletter@example.com>", msg)

	assert.Contains(t, raw, "From: Newsletter <newsletter@example.com>\r\n")
	assert.Contains(t, raw, "To: ursula_le_guin@gmail.com\r\n")
	assert.Contains(t, raw, "Content-Type: multipart/alternative; boundary="+mimeBoundary)
	assert.True(t, strings.HasSuffix(raw, "--"+mimeBoundary+"--"))

	msg.HTMLBody = ""
	raw = buildMIME("newsletter@example.com", msg)
	assert.Contains(t, raw, "Content-Type: text/plain; charset=UTF-8")
	assert.NotContains(t, raw, "multipart")
}
