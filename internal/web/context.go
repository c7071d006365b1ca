package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/dataclean/internal/core"
	"github.com/JonMunkholm/dataclean/internal/logging"
)

// requestContext attaches request metadata for the audit log and the session
// id for logging.
func requestContext(r *http.Request, sessionID string) context.Context {
	ctx := core.ContextWithRequestInfo(r.Context(), core.RequestInfo{
		RequestID: middleware.GetReqID(r.Context()),
		IPAddress: r.RemoteAddr, // already resolved by TrustedRealIP
		UserAgent: r.UserAgent(),
	})
	if sessionID != "" {
		ctx = logging.ContextWithSessionID(ctx, sessionID)
	}
	return ctx
}
