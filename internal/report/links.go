// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"strings"
)

// Default bases for the published segment corpus.
const (
	DefaultRawBase = "https://raw.githubusercontent.com/MarkGotham/species/refs/heads/main/scores/1x1/"
	DefaultVHVBase = "https://verovio.humdrum.org/?file=" + DefaultRawBase
)

// BaseName derives the published file base name for a figure label:
// the first whitespace-separated token (labels may carry a trailing
// comment), zero-padded to three digits. Figures whose label starts
// with "8" get a single leading zero instead, following the corpus's
// own numbering of the late figures.
func BaseName(figureName string) string {
	token := figureName
	if i := strings.IndexByte(token, ' '); i >= 0 {
		token = token[:i]
	}
	if strings.HasPrefix(token, "8") {
		return "0" + token
	}
	for len(token) < 3 {
		token = "0" + token
	}
	return token
}

// DownloadLinks renders the direct-download anchor pair (.mxl and
// .krn) for a figure.
func DownloadLinks(rawBase, figureName string) string {
	shared := rawBase + BaseName(figureName)
	return fmt.Sprintf(`<a href="%s.mxl">.mxl</a> <a href="%s.krn">.krn</a>`, shared, shared)
}

// VHVLink renders the Verovio Humdrum Viewer anchor for a figure.
func VHVLink(vhvBase, figureName string) string {
	return fmt.Sprintf(`<a href="%s%s.krn">click here</a>`, vhvBase, BaseName(figureName))
}

// PublishedURLs returns the direct URLs of a figure's published
// artifacts, for link verification.
func PublishedURLs(rawBase, figureName string) []string {
	shared := rawBase + BaseName(figureName)
	return []string{shared + ".mxl", shared + ".krn"}
}
