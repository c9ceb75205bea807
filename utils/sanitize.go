package utils

import (
	"fmt"
	"strings"
)

// SanitizeHeaderFilename removes characters that can break headers.
func SanitizeHeaderFilename(name string) string {
	clean := strings.TrimSpace(name)
	if clean == "" {
		return "download"
	}
	clean = strings.ReplaceAll(clean, "\r", "")
	clean = strings.ReplaceAll(clean, "\n", "")
	clean = strings.ReplaceAll(clean, "\"", "")
	return clean
}

// AttachmentDisposition builds a Content-Disposition header value for a forced
// download with a sanitized file name.
func AttachmentDisposition(name string) string {
	return fmt.Sprintf("attachment; filename=\"%s\"", SanitizeHeaderFilename(name))
}
