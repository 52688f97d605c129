package static

import (
	"path/filepath"
	"strings"
)

// mimeTypes maps file extensions to Content-Type values. Unknown
// extensions fall back to application/octet-stream.
var mimeTypes = map[string]string{
	".css":   "text/css",
	".js":    "application/javascript",
	".html":  "text/html",
	".txt":   "text/plain",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".ico":   "image/x-icon",
	".svg":   "image/svg+xml",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".ttf":   "font/ttf",
	".otf":   "font/otf",
	".json":  "application/json",
	".xml":   "application/xml",
}

// forbiddenExtensions are never served, regardless of location.
var forbiddenExtensions = map[string]bool{
	".php": true,
	".exe": true,
	".sh":  true,
	".bat": true,
	".cmd": true,
}

// DetectMIMEType returns the Content-Type for a file path based on
// its extension.
func DetectMIMEType(path string) string {
	if mime, ok := mimeTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return mime
	}
	return "application/octet-stream"
}

// IsForbidden reports whether the file extension is denylisted.
func IsForbidden(path string) bool {
	return forbiddenExtensions[strings.ToLower(filepath.Ext(path))]
}
