package creds

import (
	"context"
	"fmt"
	"strings"

	"github.com/browserutils/kooky"
	_ "github.com/browserutils/kooky/browser/all"
)

// BrowserSessionCookie scans installed browsers' cookie stores for a
// still-valid session cookie. Used as a last-resort credential source
// when neither the credential file nor the desktop app store has one.
func BrowserSessionCookie(ctx context.Context, domainSuffix, cookieName string) (string, error) {
	cookies, err := kooky.ReadCookies(ctx,
		kooky.Valid,
		kooky.DomainHasSuffix(domainSuffix),
		kooky.Name(cookieName),
	)
	if err != nil {
		return "", fmt.Errorf("reading browser cookies: %w", err)
	}

	for _, c := range cookies {
		if v := strings.TrimSpace(c.Value); v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("no %s cookie found for %s in any browser", cookieName, domainSuffix)
}
