// Package watermark builds per-platform ffmpeg filter graphs and applies
// them to downloaded videos. Every failure mode degrades to the original
// file with a warning; the caller always gets a playable path back.
package watermark
