package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// MaxNameGraphemes is the longest name accepted, counted in user-perceived characters.
const MaxNameGraphemes = 256

const forbiddenNameChars = `/()"<>\{}`

// SubscriberName is a validated subscriber name.
type SubscriberName struct {
	value string
}

// ParseSubscriberName validates raw and returns it unchanged as a SubscriberName.
func ParseSubscriberName(raw string) (SubscriberName, error) {
	if !utf8.ValidString(raw) {
		return SubscriberName{}, &ValidationError{Field: "name", Value: raw, Reason: "is not valid UTF-8"}
	}
	if strings.ContainsRune(raw, 0) {
		return SubscriberName{}, &ValidationError{Field: "name", Value: raw, Reason: "contains a NUL character"}
	}
	if strings.TrimSpace(raw) == "" {
		return SubscriberName{}, &ValidationError{Field: "name", Value: raw, Reason: "must not be blank"}
	}
	if uniseg.GraphemeClusterCount(raw) > MaxNameGraphemes {
		return SubscriberName{}, &ValidationError{Field: "name", Value: raw, Reason: "is too long"}
	}
	if strings.ContainsAny(raw, forbiddenNameChars) {
		return SubscriberName{}, &ValidationError{Field: "name", Value: raw, Reason: "contains a forbidden character"}
	}
	return SubscriberName{value: raw}, nil
}

func (n SubscriberName) String() string {
	return n.value
}
