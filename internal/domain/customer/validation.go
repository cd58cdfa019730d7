package customer

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"
)

// Kind classifies a customer validation failure.
type Kind int

const (
	KindOther Kind = iota
	KindInvalidEmail
	KindDuplicateEmail
	KindInvalidPhone
	KindDuplicatePhone
	KindInvalidName
)

// Phone numbers must carry between MinPhoneDigits and MaxPhoneDigits digits.
const (
	MinPhoneDigits = 9
	MaxPhoneDigits = 11
)

var kindMessages = map[Kind]string{
	KindInvalidEmail:   "Email format is invalid",
	KindDuplicateEmail: "This email is already registered to another customer",
	KindInvalidPhone:   fmt.Sprintf("Phone number must contain %d to %d digits", MinPhoneDigits, MaxPhoneDigits),
	KindDuplicatePhone: "This phone number is already registered to another customer",
	KindInvalidName:    "Name may only contain letters and spaces",
}

func (k Kind) String() string {
	switch k {
	case KindInvalidEmail:
		return "invalid_email"
	case KindDuplicateEmail:
		return "duplicate_email"
	case KindInvalidPhone:
		return "invalid_phone"
	case KindDuplicatePhone:
		return "duplicate_phone"
	case KindInvalidName:
		return "invalid_name"
	default:
		return "other"
	}
}

// ValidationError reports a rejected customer create or update.
type ValidationError struct {
	Kind Kind
	// Raw is the message received from the backend, if any.
	Raw string
}

// Error returns the user-facing message for the failure. Unclassified
// failures are shown with their raw message.
func (e *ValidationError) Error() string {
	if msg, ok := kindMessages[e.Kind]; ok {
		return msg
	}
	if e.Raw != "" {
		return e.Raw
	}
	return "customer data was rejected"
}

// reasonKinds maps backend reason codes to kinds.
var reasonKinds = map[string]Kind{
	"INVALID_EMAIL":   KindInvalidEmail,
	"DUPLICATE_EMAIL": KindDuplicateEmail,
	"EMAIL_EXISTS":    KindDuplicateEmail,
	"INVALID_PHONE":   KindInvalidPhone,
	"DUPLICATE_PHONE": KindDuplicatePhone,
	"PHONE_EXISTS":    KindDuplicatePhone,
	"INVALID_NAME":    KindInvalidName,
}

// ClassifyRejection builds a ValidationError from a backend reason code and
// message. The reason code wins; otherwise the message is matched by keywords.
func ClassifyRejection(reason, message string) *ValidationError {
	if k, ok := reasonKinds[strings.ToUpper(strings.TrimSpace(reason))]; ok {
		return &ValidationError{Kind: k, Raw: message}
	}

	m := strings.ToLower(message)
	duplicate := strings.Contains(m, "exist") || strings.Contains(m, "duplicate") || strings.Contains(m, "already")
	switch {
	case strings.Contains(m, "email") && duplicate:
		return &ValidationError{Kind: KindDuplicateEmail, Raw: message}
	case strings.Contains(m, "email"):
		return &ValidationError{Kind: KindInvalidEmail, Raw: message}
	case strings.Contains(m, "phone") && duplicate:
		return &ValidationError{Kind: KindDuplicatePhone, Raw: message}
	case strings.Contains(m, "phone"):
		return &ValidationError{Kind: KindInvalidPhone, Raw: message}
	case strings.Contains(m, "name"):
		return &ValidationError{Kind: KindInvalidName, Raw: message}
	}
	return &ValidationError{Kind: KindOther, Raw: message}
}

// Validate checks the draft locally before it is sent to the backend.
func Validate(d Draft) error {
	d = d.Trimmed()
	if !validName(d.Name) {
		return &ValidationError{Kind: KindInvalidName}
	}
	if n := PhoneDigits(d.Phone); n < MinPhoneDigits || n > MaxPhoneDigits {
		return &ValidationError{Kind: KindInvalidPhone}
	}
	if !validEmail(d.Email) {
		return &ValidationError{Kind: KindInvalidEmail}
	}
	return nil
}

// PhoneDigits counts the digits in phone. Any non-digit other than common
// separators makes the number invalid and yields -1.
func PhoneDigits(phone string) int {
	n := 0
	for i, r := range phone {
		switch {
		case unicode.IsDigit(r):
			n++
		case r == ' ' || r == '-' || r == '.':
		case r == '+' && i == 0:
		default:
			return -1
		}
	}
	return n
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) && !unicode.Is(unicode.Mn, r) {
			return false
		}
	}
	return true
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndexByte(email, '@')
	return at > 0 && strings.Contains(email[at:], ".")
}
