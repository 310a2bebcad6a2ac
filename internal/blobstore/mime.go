package blobstore

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// sniffMIME detects the MIME type of the file at path from its content and
// splits it into the type/subtype pair the catalog stores separately.
func sniffMIME(path string) (typ, subtype string, err error) {
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return "", "", err
	}

	full := m.String()
	if idx := strings.IndexByte(full, ';'); idx != -1 {
		full = full[:idx]
	}
	full = strings.TrimSpace(full)

	parts := strings.SplitN(full, "/", 2)
	if len(parts) != 2 {
		return "application", "octet-stream", nil
	}
	return parts[0], parts[1], nil
}
