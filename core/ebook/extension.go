package ebook

import "strings"

// Extension is a file extension, dot included.
type Extension string

const (
	ExtPDF  Extension = ".pdf"
	ExtEPUB Extension = ".epub"
	ExtMOBI Extension = ".mobi"

	ExtJPG  Extension = ".jpg"
	ExtJPEG Extension = ".jpeg"
	ExtPNG  Extension = ".png"
	ExtWEBP Extension = ".webp"
)

var (
	DocumentExtensions = []Extension{ExtPDF, ExtEPUB, ExtMOBI}
	ImageExtensions    = []Extension{ExtJPG, ExtJPEG, ExtPNG, ExtWEBP}
)

// hasExtension does a case-insensitive suffix match of url against allowed.
func hasExtension(url string, allowed []Extension) bool {
	url = strings.ToLower(strings.TrimSpace(url))
	for _, ext := range allowed {
		if strings.HasSuffix(url, string(ext)) {
			return true
		}
	}
	return false
}

func joinExtensions(exts []Extension) string {
	strs := make([]string, 0, len(exts))
	for _, e := range exts {
		strs = append(strs, string(e))
	}
	return strings.Join(strs, ", ")
}
