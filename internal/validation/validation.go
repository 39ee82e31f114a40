package validation

import (
	"regexp"
	"strings"
)

// VideoLinkPattern matches the video URLs this system acts on. Everything
// else in a submission message is ignored.
var VideoLinkPattern = regexp.MustCompile(`https?://(?:www\.)?(?:youtube\.com/watch\?v=|youtu\.be/)\S+`)

// ExtractVideoLinks returns all video URLs found in a message, in order.
func ExtractVideoLinks(text string) []string {
	return VideoLinkPattern.FindAllString(text, -1)
}

// IsCollectionURL reports whether a URL designates a multi-item collection.
// Collection URLs are truncated to their first item at fetch time.
func IsCollectionURL(url string) bool {
	return strings.Contains(url, "playlist?list=") || strings.Contains(url, "&list=")
}

// ValidTitle reports whether a title is usable as an asset file name under
// the download directory. Titles containing path separators or traversal
// sequences would escape the directory and are rejected.
func ValidTitle(title string) bool {
	if title == "" || len(title) > 255 {
		return false
	}
	if strings.ContainsAny(title, `/\`) {
		return false
	}
	if title == "." || title == ".." {
		return false
	}
	return true
}
