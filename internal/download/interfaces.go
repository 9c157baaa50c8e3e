package download

import (
	"context"

	"github.com/dazzlo/video-downloader/internal/extract"
	"github.com/dazzlo/video-downloader/internal/model"
	"github.com/dazzlo/video-downloader/internal/playlist"
	"github.com/dazzlo/video-downloader/internal/status"
)

// Extractor drives the external extraction engine for one request.
type Extractor interface {
	Download(ctx context.Context, req extract.Request, rep status.Reporter) model.DownloadOutcome
}

// Filter applies a watermark-removal pass. Apply never fails hard: on any
// problem it returns the input path and a nil artifact.
type Filter interface {
	Available() bool
	Apply(ctx context.Context, inputPath string, p model.Platform, rep status.Reporter) (string, *model.CleanedArtifact)
}

// Resolver locates the artifact a download attempt produced.
type Resolver interface {
	Verify(dir string, info *model.MediaInfo, rep status.Reporter) (*model.CandidateFile, model.DownloadOutcome)
}

// PlaylistScanner pre-scans playlist URLs for status enrichment.
type PlaylistScanner interface {
	Scan(ctx context.Context, url string) (*playlist.Preview, error)
}
