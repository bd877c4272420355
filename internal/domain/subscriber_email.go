package domain

import (
	"net/mail"
	"strings"
)

// SubscriberEmail is a syntactically valid email address.
type SubscriberEmail struct {
	value string
}

// ParseSubscriberEmail validates raw as a bare addr-spec (local@domain) and
// returns it unchanged. Case and surrounding whitespace are not normalized.
func ParseSubscriberEmail(raw string) (SubscriberEmail, error) {
	if !isEmailAddress(raw) {
		return SubscriberEmail{}, &ValidationError{Field: "email", Value: raw, Reason: "is not a valid email address"}
	}
	return SubscriberEmail{value: raw}, nil
}

func isEmailAddress(s string) bool {
	at := strings.LastIndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return false
	}

	// Rejects display names ("Ursula <u@example.com>") and anything the
	// parser had to rewrite, such as surrounding whitespace.
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Name != "" || addr.Address != s {
		return false
	}

	domain := s[at+1:]
	for _, label := range strings.Split(domain, ".") {
		if label == "" {
			return false
		}
	}
	return true
}

func (e SubscriberEmail) String() string {
	return e.value
}
