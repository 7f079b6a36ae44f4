package waitlist

import (
	"context"
	"log"
	"regexp"

	"github.com/pkg/errors"
)

// User-facing copy for each outcome
const (
	MsgEmpty       = "Please provide your email to join the waitlist."
	MsgInvalid     = "That email doesn't look right. Please check it and try again."
	MsgLoading     = "Saving your spot..."
	MsgWelcome     = "Welcome aboard! Your spot on the waitlist is confirmed."
	MsgRateLimited = "Whoa, slow down! Please try again in a little while."
	MsgFailed      = "We couldn't save your spot. Let's try that again."
	MsgUnexpected  = "Something unexpected happened. Please try again."
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like local@domain.tld
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Notifier shows transient feedback, like a toast
type Notifier interface {
	Loading(msg string)
	Success(msg string)
	Error(msg string)
}

// LogNotifier writes notifications to the standard logger
type LogNotifier struct{}

func (LogNotifier) Loading(msg string) { log.Printf("waitlist: %s", msg) }
func (LogNotifier) Success(msg string) { log.Printf("waitlist: %s", msg) }
func (LogNotifier) Error(msg string)   { log.Printf("waitlist error: %s", msg) }

// Message maps a submission error to the copy shown to the user
func Message(err error) string {
	switch errors.Cause(err) {
	case nil:
		return MsgWelcome
	case ErrEmptyEmail:
		return MsgEmpty
	case ErrInvalidEmail:
		return MsgInvalid
	case ErrRateLimited:
		return MsgRateLimited
	case ErrRegistrationFailed:
		return MsgFailed
	default:
		return MsgUnexpected
	}
}

// Form is the state behind the waitlist input: the typed email and whether
// a submission is in flight.
type Form struct {
	email     string
	loading   bool
	registrar Registrar
	notifier  Notifier
}

// NewForm creates an empty form
func NewForm(r Registrar, n Notifier) *Form {
	return &Form{registrar: r, notifier: n}
}

// SetEmail replaces the typed email
func (f *Form) SetEmail(email string) {
	f.email = email
}

// Email returns the typed email
func (f *Form) Email() string {
	return f.email
}

// Loading reports whether a submission is in flight
func (f *Form) Loading() bool {
	return f.loading
}

// Submit validates the email locally and, if it passes, registers it. The
// email is cleared only when registration succeeds. Every outcome is
// reported through the notifier; the error is returned for callers that
// need it.
func (f *Form) Submit(ctx context.Context) error {
	switch {
	case f.email == "":
		f.notifier.Error(MsgEmpty)
		return ErrEmptyEmail
	case !ValidEmail(f.email):
		f.notifier.Error(MsgInvalid)
		return ErrInvalidEmail
	}

	f.loading = true
	defer func() { f.loading = false }()
	f.notifier.Loading(MsgLoading)

	if err := f.registrar.Register(ctx, f.email); err != nil {
		f.notifier.Error(Message(err))
		return err
	}
	f.email = ""
	f.notifier.Success(MsgWelcome)
	return nil
}
