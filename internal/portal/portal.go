// Package portal holds the community features around the messaging core:
// the job board, matrimony listings, the business and people directory,
// events, news, and moderation reports.
package portal

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lalith-99/communityhub/internal/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Actor is the authenticated caller of a portal operation.
type Actor struct {
	UserID uuid.UUID
	Role   string
}

func (a Actor) IsAdmin() bool {
	return models.IsAdmin(a.Role)
}

// DisplayStatus capitalizes the first letter: "accepted" -> "Accepted".
func DisplayStatus(status string) string {
	r, size := utf8.DecodeRuneInString(status)
	if r == utf8.RuneError {
		return status
	}
	return string(unicode.ToUpper(r)) + status[size:]
}

// listStatus maps an "include everything" request to the empty filter.
func listStatus(includeAll bool) string {
	if includeAll {
		return ""
	}
	return models.StatusApproved
}

// required takes name, value pairs and returns the first blank name.
func required(pairs ...string) string {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return pairs[i]
		}
	}
	return ""
}

func validEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}
