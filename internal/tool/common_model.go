package tool

import "strings"

// EmailAddress represents an email address with optional display name.
type EmailAddress struct {
	Name  string `json:"name,omitempty" jsonschema:"the display name"`
	Email string `json:"email" jsonschema:"the email address"`
}

func parseEmailAddress(from string) EmailAddress {
	addr := EmailAddress{}

	if idx := strings.Index(from, "<"); idx != -1 {
		addr.Name = strings.TrimSpace(from[:idx])
		if endIdx := strings.Index(from[idx:], ">"); endIdx != -1 {
			addr.Email = strings.TrimSpace(from[idx+1 : idx+endIdx])
		}
	} else {
		addr.Email = strings.TrimSpace(from)
	}

	addr.Name = strings.Trim(addr.Name, "\"")

	return addr
}
