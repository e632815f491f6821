package probe

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/okian/cedula/internal/domain/cedula"
)

const expectedContentType = "application/json"

// verifyResponse checks a service response against the local validator.
func verifyResponse(c Case, status int, contentType, echoedID, sentID string, resp Response) error {
	want := cedula.Validate(c.CI)

	wantStatus := http.StatusBadRequest
	if want.Valid() {
		wantStatus = http.StatusOK
	}
	if status != wantStatus {
		return fmt.Errorf("%w: ci %q: status %d, want %d", ErrProbeMismatch, c.CI, status, wantStatus)
	}
	if contentType != expectedContentType {
		return fmt.Errorf("%w: ci %q: content type %q", ErrProbeMismatch, c.CI, contentType)
	}
	if echoedID != sentID {
		return fmt.Errorf("%w: ci %q: request id %q, want %q", ErrProbeMismatch, c.CI, echoedID, sentID)
	}
	if resp.Value != c.CI {
		return fmt.Errorf("%w: ci %q: value %q", ErrProbeMismatch, c.CI, resp.Value)
	}
	if resp.IsValid != want.Valid() {
		return fmt.Errorf("%w: ci %q: isValid %t, want %t", ErrProbeMismatch, c.CI, resp.IsValid, want.Valid())
	}
	if !slices.Equal(resp.Errors, want.Messages()) {
		return fmt.Errorf("%w: ci %q: errors %q, want %q", ErrProbeMismatch, c.CI, resp.Errors, want.Messages())
	}
	return nil
}

// firstMismatch returns the first verification error among outcomes.
func firstMismatch(outcomes []Outcome) error {
	for _, o := range outcomes {
		if o.Err != nil {
			return o.Err
		}
	}
	return nil
}
