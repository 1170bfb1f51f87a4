// SPDX-License-Identifier: MIT

package log

import "context"

type ctxKey string

const sessionIDKey ctxKey = "session_id"

// ContextWithSessionID stores the session ID in the context for log
// correlation across pipeline stages.
func ContextWithSessionID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext extracts the session ID if present.
func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(sessionIDKey).(string); ok {
		return v
	}
	return ""
}
