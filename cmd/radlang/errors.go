package main

import "errors"

// Sentinel errors
var (
	ErrFileNotFormatted = errors.New("file is not formatted")
	ErrFormattingErrors = errors.New("some files had formatting errors")
	ErrCheckFailed      = errors.New("check failed")
	ErrUnknownFormat    = errors.New("unknown output format")
)
