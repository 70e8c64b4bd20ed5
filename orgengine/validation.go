package orgengine

import (
	"fmt"
	"regexp"
)

var orgIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ValidateOrgID checks an organization identifier. Ids appear in URLs,
// log fields and store scoping, so the accepted alphabet is deliberately
// narrow: lowercase letters, digits and hyphens, 1-64 characters, not a
// reserved name.
func ValidateOrgID(orgID string) error {
	if len(orgID) == 0 {
		return fmt.Errorf("identifier cannot be empty")
	}
	if len(orgID) > 64 {
		return fmt.Errorf("identifier length %d exceeds maximum of 64 characters", len(orgID))
	}
	if !orgIDPattern.MatchString(orgID) {
		return fmt.Errorf("must match pattern ^[a-z0-9][a-z0-9-]*$ (lowercase letters, digits and hyphens, not starting with a hyphen)")
	}
	if isReservedOrgID(orgID) {
		return fmt.Errorf("cannot use reserved name %q as identifier", orgID)
	}
	return nil
}

// isReservedOrgID rejects names that collide with API routes or internal
// scoping conventions.
func isReservedOrgID(orgID string) bool {
	reserved := map[string]bool{
		"api":        true,
		"health":     true,
		"internal":   true,
		"admin":      true,
		"system":     true,
		"default":    true,
		"all":        true,
		"jobs":       true,
		"candidates": true,
		"evaluate":   true,
	}
	return reserved[orgID]
}
