package server

import (
	"sort"
	"strings"
)

// DefaultDocument is served when a request names a directory
const DefaultDocument = "index.html"

// ContentType maps a file name suffix to the MIME type sent for it
type ContentType struct {
	Suffix   string
	MIMEType string
}

// contentTypes is ordered longest suffix first so a longer entry such as
// ".min.js" would win over ".js".
var contentTypes = sortedBySuffixLength([]ContentType{
	{Suffix: ".html", MIMEType: "text/html"},
	{Suffix: ".css", MIMEType: "text/css"},
	{Suffix: ".js", MIMEType: "application/javascript"},
})

// ContentTypes returns a copy of the extension table
func ContentTypes() []ContentType {
	out := make([]ContentType, len(contentTypes))
	copy(out, contentTypes)
	return out
}

// ResolveFileName derives the file to serve from a decoded request path.
//
// An empty path or "/" yields the default document. A path ending in "/"
// names a directory and gets the default document appended. Exactly one
// leading "/" is stripped; nothing else in the path is changed.
func ResolveFileName(requestPath string) string {
	if requestPath == "" || requestPath == "/" {
		return DefaultDocument
	}

	name := strings.TrimPrefix(requestPath, "/")
	if strings.HasSuffix(requestPath, "/") {
		return name + DefaultDocument
	}
	return name
}

// Classify returns the MIME type for fileName by exact, case-sensitive
// suffix match. ok is false when no suffix matches.
func Classify(fileName string) (contentType string, ok bool) {
	for _, ct := range contentTypes {
		if strings.HasSuffix(fileName, ct.Suffix) {
			return ct.MIMEType, true
		}
	}
	return "", false
}

func sortedBySuffixLength(table []ContentType) []ContentType {
	sort.SliceStable(table, func(i, j int) bool {
		return len(table[i].Suffix) > len(table[j].Suffix)
	})
	return table
}
