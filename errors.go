package reportparse

import "errors"

var (
	// ErrReportNotFound is returned when a report ID or path does not exist.
	ErrReportNotFound = errors.New("reportparse: report not found")

	// ErrUnsupportedFormat is returned for unrecognized file formats.
	ErrUnsupportedFormat = errors.New("reportparse: unsupported report format")

	// ErrLoadingFailed is returned when reading a report file fails.
	ErrLoadingFailed = errors.New("reportparse: loading failed")

	// ErrAnalysisNotFound is returned when a report has no stored analysis.
	ErrAnalysisNotFound = errors.New("reportparse: analysis not found")

	// ErrInvalidConfig is returned for invalid configuration values.
	ErrInvalidConfig = errors.New("reportparse: invalid configuration")
)
