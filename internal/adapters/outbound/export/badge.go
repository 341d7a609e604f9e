package export

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/openkraft/apigrade/internal/domain"
)

const badgeLabel = "API grade"

// BadgeURL returns a shields.io static badge for the report's grade.
func BadgeURL(r *domain.Report) string {
	message := fmt.Sprintf("%s (%d)", r.Grade, r.Score)
	return fmt.Sprintf("https://img.shields.io/badge/%s-%s-%s",
		badgeEscape(badgeLabel), badgeEscape(message), domain.BadgeColor(r.Grade))
}

// BadgeMarkdown wraps BadgeURL in a Markdown image.
func BadgeMarkdown(r *domain.Report) string {
	return fmt.Sprintf("![%s](%s)", badgeLabel, BadgeURL(r))
}

// shields.io treats "-" and "_" as separators; doubling escapes them.
func badgeEscape(s string) string {
	s = strings.ReplaceAll(s, "-", "--")
	s = strings.ReplaceAll(s, "_", "__")
	return url.PathEscape(s)
}
