// Package download orchestrates one retrieval request end to end: platform
// classification, extraction, output resolution, optional watermark removal
// and publication of the final artifact into the shared downloads directory.
package download
