package shared

import (
	"fmt"
	"regexp"
)

// urlPattern mirrors the analysis server's acceptance check: http(s)/ftp(s) scheme,
// a domain, localhost, IPv4 or bracketed IPv6 host, optional port and path.
var urlPattern = regexp.MustCompile(`(?i)^(?:http|ftp)s?://` +
	`(?:(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+(?:[A-Z]{2,6}\.?|[A-Z0-9-]{2,}\.?)|` +
	`localhost|` +
	`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}|` +
	`\[?[A-F0-9]*:[A-F0-9:]+\]?)` +
	`(?::\d+)?` +
	`(?:/?|[/?]\S+)$`)

// InvalidURLIssue is the issue text the analysis server reports for malformed URLs.
const InvalidURLIssue = "Invalid URL format. Please check the URL."

// ValidateURL reports [ErrInvalidURL] when raw would be rejected by the server's format check.
func ValidateURL(raw string) error {
	if !urlPattern.MatchString(raw) {
		return fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return nil
}
