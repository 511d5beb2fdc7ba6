// Package linkresolver decides whether a Link's URL, taken relative to
// a base directory, points at another Markdown document in the vault.
// Grounded on original_source/src/link.rs's to_markdown_path: a link
// resolves only when its URL has no scheme (Rust's
// url::Url::parse returning RelativeUrlWithoutBase); Go's net/url
// never errors on a schemeless string, so the equivalent test is
// u.IsAbs() == false.
package linkresolver

import (
	"net/url"

	"github.com/vaultkb/vaultkb/internal/mdparse"
	"github.com/vaultkb/vaultkb/internal/pathnorm"
)

// Resolve attempts to resolve l.URL, relative to base, into a
// NormPath. It returns ok=false if the URL carries a scheme (an
// absolute reference) or if PathNorm construction fails for any
// reason.
func Resolve(l mdparse.Link, base string) (pathnorm.NormPath, bool) {
	u, err := url.Parse(l.URL)
	if err != nil {
		return pathnorm.NormPath{}, false
	}
	if u.IsAbs() {
		return pathnorm.NormPath{}, false
	}

	np, err := pathnorm.New(base, l.URL)
	if err != nil {
		return pathnorm.NormPath{}, false
	}
	return np, true
}
