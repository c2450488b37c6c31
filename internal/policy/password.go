package policy

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/campusportal/portal-api/internal/constants"
	"github.com/campusportal/portal-api/internal/models"
)

// ValidatePassword checks a candidate password against the portal's rules
// and returns every reason it is unacceptable. An empty slice means the
// password is acceptable.
func ValidatePassword(candidate string, user *models.User) []string {
	var reasons []string

	if len(candidate) < constants.MinPasswordLength {
		reasons = append(reasons,
			fmt.Sprintf("This password is too short. It must contain at least %d characters.", constants.MinPasswordLength))
	}

	if candidate != "" && isEntirelyNumeric(candidate) {
		reasons = append(reasons, "This password is entirely numeric.")
	}

	if user != nil && tooSimilarToEmail(candidate, user.Email) {
		reasons = append(reasons, "The password is too similar to the email.")
	}

	return reasons
}

func isEntirelyNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func tooSimilarToEmail(candidate, email string) bool {
	if email == "" {
		return false
	}
	lower := strings.ToLower(candidate)
	local := strings.ToLower(strings.SplitN(email, "@", 2)[0])
	if local == "" {
		return false
	}
	return lower == strings.ToLower(email) || lower == local
}
