package logic

import (
	"github.com/microcosm-cc/bluemonday"
	"github.com/spaolacci/murmur3"
	"strings"
)

// Remote HTML keeps its formatting; names are plain text.
var ugcPolicy = bluemonday.UGCPolicy()
var strictPolicy = bluemonday.StrictPolicy()

func sanitizeHtml(html string) string {
	return strings.TrimSpace(ugcPolicy.Sanitize(html))
}

func stripHtml(html string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(html))
}

func contentHash(content string) int64 {
	return int64(murmur3.Sum64([]byte(content)))
}
