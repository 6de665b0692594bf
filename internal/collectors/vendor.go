package collectors

import (
	"regexp"
	"strings"
)

// copyrightVendorRe pulls a publisher name out of a copyright string: skip
// the copyright marker and any year run, capture up to the first period or
// the phrase "All rights". The marker alternation also accepts the Â©
// mis-decoding seen in real Info.plist files and the plain (c) spelling.
var copyrightVendorRe = regexp.MustCompile(`(?:©|Â©|\([cC]\))\s*[\d\s,\x{2013}-]*\s*(.+?)\s*(?:\.|,?\s*All rights|$)`)

// vendorFromCopyright extracts a vendor name from a copyright string.
// Best-effort with a low-confidence contract: unusual copyright formats
// return "" and the vendor field stays absent.
func vendorFromCopyright(copyright string) string {
	if copyright == "" {
		return ""
	}
	m := copyrightVendorRe.FindStringSubmatch(copyright)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
