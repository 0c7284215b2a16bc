package app

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

var (
	reDateInURL  = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
	reDateInName = regexp.MustCompile(`\d{4}_\d{2}_\d{2}`)

	// mediaURLPattern marks URLs that look like media/download targets rather
	// than HTML pages. Used only when media gating is enabled.
	mediaURLPattern = regexp.MustCompile(`(?i)\.(mp4|webm|mkv|dem|zip|rar|7z)(\?|$)|/stream/|/download|/video/.*\.mp4`)
)

// NormalizeTargets resolves raw link targets against baseURL, trims blanks and
// drops duplicates while preserving first-seen order.
func NormalizeTargets(baseURL string, targets []string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}

	seen := make(map[string]struct{}, len(targets))
	out := make([]string, 0, len(targets))
	for _, raw := range targets {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		absolute := raw
		if base != nil {
			if ref, err := url.Parse(raw); err == nil {
				absolute = base.ResolveReference(ref).String()
			}
		}
		if _, ok := seen[absolute]; ok {
			continue
		}
		seen[absolute] = struct{}{}
		out = append(out, absolute)
	}
	return out
}

// DeriveDateFolder extracts a YYYY-MM-DD token from the listing URL and maps
// it to the YYYY_MM_DD folder name. Empty result means no date present.
func DeriveDateFolder(listURL string) string {
	m := reDateInURL.FindStringSubmatch(listURL)
	if m == nil {
		return ""
	}
	return m[1] + "_" + m[2] + "_" + m[3]
}

// dateFolderFromName finds a YYYY_MM_DD token already embedded in a filename.
// Listing URLs without a date sometimes serve files that carry one.
func dateFolderFromName(name string) string {
	return reDateInName.FindString(name)
}

// FilenameFromURL returns the final path segment of rawURL, or fallback when
// the segment is empty or ambiguous.
func FilenameFromURL(rawURL, fallback string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fallback
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return fallback
	}
	return name
}

// IsMediaURL reports whether u is shaped like a direct media/download URL.
func IsMediaURL(u string) bool {
	return mediaURLPattern.MatchString(u)
}
