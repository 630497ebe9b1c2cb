package shared

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

var reUsername = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
var reDomain = regexp.MustCompile(`^[a-z0-9]([a-z0-9\-]*[a-z0-9])?(\.[a-z0-9]([a-z0-9\-]*[a-z0-9])?)*(:[0-9]+)?$`)

func GetHostName(userUrl string) (string, error) {
	var parsedUrl *url.URL
	var urlError error
	parsedUrl, urlError = url.Parse(userUrl)
	if urlError != nil {
		return "", fmt.Errorf("failed to parse URL '%s': %v", userUrl, urlError)
	}
	if parsedUrl.Host == "" {
		return "", fmt.Errorf("URL has no host: '%s'", userUrl)
	}
	return parsedUrl.Host, nil
}

func MakeAcct(user, domain string) string {
	return user + "@" + domain
}

func MakeFullMoniker(domain, user string) string {
	return "@" + user + "@" + domain
}

// ParseIdentity splits user@domain, @user@domain or acct:user@domain into its parts.
// Both parts are lower-cased.
func ParseIdentity(ident string) (user, domain string, err error) {
	ident = strings.TrimSpace(ident)
	ident = strings.TrimPrefix(ident, "acct:")
	ident = strings.TrimPrefix(ident, "@")
	parts := strings.Split(ident, "@")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("identity must have the form user@domain: '%s'", ident)
	}
	user = strings.ToLower(parts[0])
	domain = strings.ToLower(parts[1])
	if err = ValidateUsername(user); err != nil {
		return "", "", err
	}
	if !reDomain.MatchString(domain) {
		return "", "", fmt.Errorf("invalid domain: '%s'", domain)
	}
	return
}

func ValidateUsername(user string) error {
	if len(user) == 0 {
		return errors.New("username cannot be empty")
	}
	if !reUsername.MatchString(user) {
		return fmt.Errorf("username may only contain letters, digits and underscores: '%s'", user)
	}
	return nil
}

func TruncateWithEllipsis(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	// https://stackoverflow.com/a/73939904/7479498
	lastSpaceIx := maxLen
	len := 0
	for i, r := range text {
		if unicode.IsSpace(r) {
			lastSpaceIx = i
		}
		len++
		if len > maxLen {
			return text[:lastSpaceIx] + "…"
		}
	}
	// If here, string is shorter or equal to maxLen
	return text
}
