package extract

import (
	"strings"

	"github.com/dazzlo/video-downloader/internal/model"
)

// Truncation limits for raw engine error text surfaced to users.
const (
	ExtractorErrorLimit = 100
	DownloadErrorLimit  = 150
)

// classifyRule maps message substrings to an error kind with a fixed
// user-facing message. Rules are matched in order; first hit wins.
type classifyRule struct {
	needles []string
	kind    model.ErrorKind
	message string
}

// extractorRules classify structured extraction errors reported while
// probing metadata.
var extractorRules = []classifyRule{
	{[]string{"private", "login"}, model.ErrorKindPrivateOrLoginRequired, "This content is private or requires login"},
	{[]string{"not available"}, model.ErrorKindContentUnavailable, "Content not available or has been removed"},
	{[]string{"geo", "region"}, model.ErrorKindGeoBlocked, "Content blocked in your region"},
	{[]string{"unsupported"}, model.ErrorKindUnsupportedSite, "This website is not supported"},
}

// downloadRules classify errors raised by the actual download run.
var downloadRules = []classifyRule{
	{[]string{"private"}, model.ErrorKindPrivateOrLoginRequired, "Content is private - login required"},
	{[]string{"not available"}, model.ErrorKindContentUnavailable, "Content removed, restricted, or not available in your region"},
	{[]string{"login", "sign in"}, model.ErrorKindPrivateOrLoginRequired, "Login required - content is private"},
	{[]string{"geo", "region"}, model.ErrorKindGeoBlocked, "Geographic restriction"},
	{[]string{"rate limit"}, model.ErrorKindRateLimited, "Rate limited - try again later"},
	{[]string{"unsupported"}, model.ErrorKindUnsupportedSite, "This website is not supported"},
}

// unexpectedRules classify anything that escaped the two layers above.
var unexpectedRules = []classifyRule{
	{[]string{"unsupported url"}, model.ErrorKindUnsupportedSite, "This website is not supported"},
	{[]string{"network", "connection"}, model.ErrorKindNetworkError, "Network error. Check your internet connection"},
	{[]string{"timeout", "deadline exceeded"}, model.ErrorKindTimeout, "Connection timeout. Try again later"},
	{[]string{"no video", "no formats"}, model.ErrorKindNoVideoFound, "No downloadable video found on this page"},
}

// ClassifyExtractorError maps a metadata-probe error onto the taxonomy. The
// fallback truncates the raw message to 100 characters.
func ClassifyExtractorError(err error) (model.ErrorKind, string) {
	raw := errText(err)
	if kind, msg, ok := match(extractorRules, raw); ok {
		return kind, msg
	}
	return model.ErrorKindExtractionFailed, "Extraction failed: " + Truncate(raw, ExtractorErrorLimit)
}

// ClassifyDownloadError maps a download-run error onto the taxonomy,
// consulting the download rules first and the generic rules second. The
// fallback truncates to 150 characters.
func ClassifyDownloadError(err error) (model.ErrorKind, string) {
	raw := errText(err)
	if kind, msg, ok := match(downloadRules, raw); ok {
		return kind, msg
	}
	if kind, msg, ok := match(unexpectedRules, raw); ok {
		return kind, msg
	}
	return model.ErrorKindUnknown, "Download failed: " + Truncate(raw, DownloadErrorLimit)
}

// ClassifyUnexpectedError maps any other failure onto the taxonomy with a
// 150-character fallback.
func ClassifyUnexpectedError(err error) (model.ErrorKind, string) {
	raw := errText(err)
	if kind, msg, ok := match(unexpectedRules, raw); ok {
		return kind, msg
	}
	return model.ErrorKindUnknown, "Unexpected error: " + Truncate(raw, DownloadErrorLimit)
}

func match(rules []classifyRule, raw string) (model.ErrorKind, string, bool) {
	lower := strings.ToLower(raw)
	for _, rule := range rules {
		for _, needle := range rule.needles {
			if strings.Contains(lower, needle) {
				return rule.kind, rule.message, true
			}
		}
	}
	return model.ErrorKindNone, "", false
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Truncate shortens s to at most limit runes.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
