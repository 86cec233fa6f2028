package context

import "context"

type contextKey string

const (
	requestIDKey contextKey = "observability_request_id"
	exportJobKey contextKey = "observability_export_job_id"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil || requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDKey).(string)
	return value
}

// WithExportJobID tags everything logged during one PDF export.
func WithExportJobID(ctx context.Context, jobID string) context.Context {
	if ctx == nil || jobID == "" {
		return ctx
	}
	return context.WithValue(ctx, exportJobKey, jobID)
}

func ExportJobIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(exportJobKey).(string)
	return value
}
