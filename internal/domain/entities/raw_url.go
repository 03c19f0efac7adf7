package entities

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	blobSegment = "blob"
	rawSegment  = "raw"

	// owner, repository, blob|raw, ref, path...
	minRawURLSegments = 5
)

// RawLocation is the decomposed form of a raw content URL.
type RawLocation struct {
	Owner      string
	Repository string
	Ref        string
	Path       string
}

// RawURL rewrites a code search "blob at commit" URL into a raw content URL on
// the given branch, keeping host, owner, repository and file path:
//
//	https://github.com/foo/bar/blob/93d1bc/path/to/pom.xml
//	https://github.com/foo/bar/raw/main/path/to/pom.xml
//
// URLs that already point at raw content are returned unchanged.
func RawURL(htmlURL, branch string) (string, error) {
	parsed, err := url.Parse(htmlURL)
	if err != nil {
		return "", fmt.Errorf("invalid file URL %q: %w", htmlURL, err)
	}

	segments := strings.Split(strings.TrimPrefix(parsed.EscapedPath(), "/"), "/")
	if len(segments) < minRawURLSegments {
		return "", fmt.Errorf("file URL %q has no owner/repo/blob/ref/path structure", htmlURL)
	}

	switch segments[2] {
	case rawSegment:
		return htmlURL, nil
	case blobSegment:
		segments[2] = rawSegment
		segments[3] = escapeRef(branch)
	default:
		return "", fmt.Errorf("file URL %q is neither a blob nor a raw URL", htmlURL)
	}

	rewritten := *parsed
	rewritten.RawPath = "/" + strings.Join(segments, "/")
	unescaped, err := url.PathUnescape(rewritten.RawPath)
	if err != nil {
		return "", fmt.Errorf("invalid file URL %q: %w", htmlURL, err)
	}
	rewritten.Path = unescaped
	return rewritten.String(), nil
}

// ParseRawURL extracts owner, repository, ref and file path from a raw URL.
// A ref may span several segments ("release/1.x"), so when the caller knows it
// the split happens after the whole ref; otherwise the ref is one segment.
// Leading slashes of the file path are dropped, so "raw/main//pom.xml" yields
// "pom.xml".
func ParseRawURL(rawURL, ref string) (RawLocation, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return RawLocation{}, fmt.Errorf("invalid raw URL %q: %w", rawURL, err)
	}

	segments := strings.Split(strings.TrimPrefix(parsed.EscapedPath(), "/"), "/")
	if len(segments) < minRawURLSegments || segments[2] != rawSegment {
		return RawLocation{}, fmt.Errorf("URL %q is not a raw content URL", rawURL)
	}

	rest := strings.Join(segments[3:], "/")
	escapedRef, escapedPath, _ := strings.Cut(rest, "/")
	if known := escapeRef(ref); ref != "" && strings.HasPrefix(rest, known+"/") {
		escapedRef, escapedPath = known, strings.TrimPrefix(rest, known+"/")
	}

	filePath, err := url.PathUnescape(strings.TrimLeft(escapedPath, "/"))
	if err != nil {
		return RawLocation{}, fmt.Errorf("invalid raw URL %q: %w", rawURL, err)
	}
	if filePath == "" {
		return RawLocation{}, fmt.Errorf("raw URL %q has no file path", rawURL)
	}

	unescapedRef, err := url.PathUnescape(escapedRef)
	if err != nil {
		return RawLocation{}, fmt.Errorf("invalid raw URL %q: %w", rawURL, err)
	}

	return RawLocation{
		Owner:      segments[0],
		Repository: segments[1],
		Ref:        unescapedRef,
		Path:       filePath,
	}, nil
}

// escapeRef escapes each slash-separated segment of a branch name, keeping the
// slashes themselves as path separators.
func escapeRef(ref string) string {
	parts := strings.Split(ref, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
