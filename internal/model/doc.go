package model

// Package model defines domain data structures shared across the pipeline:
// platform classification, extraction outcomes, candidate files, and the
// error taxonomy surfaced to callers. All types are request-scoped values
// with no cross-request sharing.
