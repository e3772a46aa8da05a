package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInputMissing  = errors.New("input missing")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
	ErrExternalTool  = errors.New("external tool error")
)

// Wrap builds an error message that includes flow context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, flow, operation, message string, err error) error {
	detail := buildDetail(flow, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether err must abort the whole run. Only a missing or
// unreadable input is fatal; every other failure degrades into a ledger
// entry for the affected file.
func IsFatal(err error) bool {
	return errors.Is(err, ErrInputMissing)
}

func buildDetail(flow, operation, message string) string {
	var detail strings.Builder
	for _, part := range []string{flow, operation, message} {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if detail.Len() > 0 {
			detail.WriteString(": ")
		}
		detail.WriteString(part)
	}
	if detail.Len() == 0 {
		return "service failure"
	}
	return detail.String()
}
