package editor

import "errors"

var (
	ErrNotReady    = errors.New("editor_not_ready")
	ErrNoExporter  = errors.New("exporter_not_configured")
	ErrNoConfirmer = errors.New("confirmer_required")
)
