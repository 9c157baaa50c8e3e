package extract

// Package extract builds per-platform extraction requests and drives yt-dlp
// (via github.com/lrstanley/go-ytdlp) through probe, download, and error
// classification. Every failure is converted into a DownloadOutcome; nothing
// panics past this package.
