package export

import "errors"

var (
	ErrExportInProgress = errors.New("export_in_progress")
	ErrExportFailed     = errors.New("export_failed")
	ErrUnknownGenerator = errors.New("unknown_generator")
	ErrNoRasterizer     = errors.New("rasterizer_not_configured")
	ErrInvalidImage     = errors.New("invalid_image")
)
