package core

import "context"

type contextKey string

const ctxKeyRequestInfo contextKey = "request_info"

// RequestInfo is the caller metadata attached to audit records.
type RequestInfo struct {
	RequestID string
	IPAddress string
	UserAgent string
}

// ContextWithRequestInfo returns ctx carrying info for observers.
func ContextWithRequestInfo(ctx context.Context, info RequestInfo) context.Context {
	return context.WithValue(ctx, ctxKeyRequestInfo, info)
}

// RequestInfoFromContext returns the RequestInfo stored in ctx, or the zero
// value when none was set.
func RequestInfoFromContext(ctx context.Context) RequestInfo {
	if v, ok := ctx.Value(ctxKeyRequestInfo).(RequestInfo); ok {
		return v
	}
	return RequestInfo{}
}
