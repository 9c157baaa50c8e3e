package model

// ErrorKind classifies a failed pipeline step. Every failure surfaced to a
// caller carries exactly one kind; raw underlying error text is truncated
// before it reaches a user.
type ErrorKind string

const (
	ErrorKindNone                   ErrorKind = ""
	ErrorKindInvalidURL             ErrorKind = "invalid_url"
	ErrorKindExtractionFailed       ErrorKind = "extraction_failed"
	ErrorKindPrivateOrLoginRequired ErrorKind = "private_or_login_required"
	ErrorKindContentUnavailable     ErrorKind = "content_unavailable"
	ErrorKindGeoBlocked             ErrorKind = "geo_blocked"
	ErrorKindUnsupportedSite        ErrorKind = "unsupported_site"
	ErrorKindRateLimited            ErrorKind = "rate_limited"
	ErrorKindNetworkError           ErrorKind = "network_error"
	ErrorKindTimeout                ErrorKind = "timeout"
	ErrorKindNoVideoFound           ErrorKind = "no_video_found"
	ErrorKindNoFilesProduced        ErrorKind = "no_files_produced"
	ErrorKindFilterUnavailable      ErrorKind = "filter_engine_unavailable"
	ErrorKindFilterQualityRejected  ErrorKind = "filter_quality_rejected"
	ErrorKindUnknown                ErrorKind = "unknown"
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	return string(k)
}
