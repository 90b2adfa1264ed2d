package grantkit

import (
	"net/http"
)

// Middleware provides HTTP middleware gating requests on access checks.
type Middleware struct {
	manager      *Manager
	getUserID    func(*http.Request) string
	errorHandler func(http.ResponseWriter, *http.Request, error)
}

// MiddlewareOption configures the Middleware.
type MiddlewareOption func(*Middleware)

// NewMiddleware creates a new Middleware instance.
//
// Example:
//
//	mw := grantkit.NewMiddleware(manager,
//	    grantkit.WithUserIDExtractor(func(r *http.Request) string {
//	        return r.Header.Get("X-User-ID")
//	    }),
//	)
func NewMiddleware(manager *Manager, opts ...MiddlewareOption) *Middleware {
	m := &Middleware{
		manager:      manager,
		getUserID:    defaultGetUserID,
		errorHandler: defaultErrorHandler,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// WithUserIDExtractor sets a custom function to extract user ID from request.
func WithUserIDExtractor(fn func(*http.Request) string) MiddlewareOption {
	return func(m *Middleware) {
		m.getUserID = fn
	}
}

// WithErrorHandler sets a custom error handler for middleware.
func WithErrorHandler(fn func(http.ResponseWriter, *http.Request, error)) MiddlewareOption {
	return func(m *Middleware) {
		m.errorHandler = fn
	}
}

func defaultGetUserID(r *http.Request) string {
	return GetUserID(r.Context())
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	if IsUnauthorized(err) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// ParamsExtractor builds rule parameters from an HTTP request. Extractors
// compose: each one merges its contribution into the params map handed to
// CheckAccess.
type ParamsExtractor func(*http.Request, map[string]any)

// ParamFromPath contributes a rule parameter read from a URL path value.
// Compatible with chi, gorilla/mux, and standard library patterns.
//
// Example:
//
//	// For route /posts/{domain}/publish
//	mw.RequireAccess("publish-post", grantkit.ParamFromPath("domain", "domain"))
func ParamFromPath(param, pathName string) ParamsExtractor {
	return func(r *http.Request, params map[string]any) {
		if v := r.PathValue(pathName); v != "" {
			params[param] = v
		}
	}
}

// ParamFromQuery contributes a rule parameter read from the query string.
func ParamFromQuery(param, queryName string) ParamsExtractor {
	return func(r *http.Request, params map[string]any) {
		if v := r.URL.Query().Get(queryName); v != "" {
			params[param] = v
		}
	}
}

// ParamFromHeader contributes a rule parameter read from a request header.
func ParamFromHeader(param, headerName string) ParamsExtractor {
	return func(r *http.Request, params map[string]any) {
		if v := r.Header.Get(headerName); v != "" {
			params[param] = v
		}
	}
}

// StaticParams contributes fixed rule parameters to every request.
func StaticParams(fixed map[string]any) ParamsExtractor {
	return func(_ *http.Request, params map[string]any) {
		for k, v := range fixed {
			params[k] = v
		}
	}
}

// RequireAccess creates middleware that admits a request only when the
// requesting user passes CheckAccess for the named item.
//
// Example:
//
//	router.With(mw.RequireAccess("publish-post", grantkit.ParamFromPath("domain", "domain"))).
//	    Post("/posts/{domain}/publish", publishHandler)
func (m *Middleware) RequireAccess(itemName string, extractors ...ParamsExtractor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID := m.getUserID(r)
			if userID == "" {
				m.errorHandler(w, r, ErrNoUserID)
				return
			}

			params := make(map[string]any)
			for _, extract := range extractors {
				extract(r, params)
			}

			granted, err := m.manager.CheckAccess(ctx, userID, itemName, params)
			if err != nil {
				m.errorHandler(w, r, err)
				return
			}
			if !granted {
				m.errorHandler(w, r, NewError(ErrUnauthorized, "access check denied").
					WithItem(itemName).
					WithUser(userID))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyAccess creates middleware that admits a request when the user
// passes CheckAccess for at least one of the named items.
func (m *Middleware) RequireAnyAccess(itemNames []string, extractors ...ParamsExtractor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID := m.getUserID(r)
			if userID == "" {
				m.errorHandler(w, r, ErrNoUserID)
				return
			}

			params := make(map[string]any)
			for _, extract := range extractors {
				extract(r, params)
			}

			for _, itemName := range itemNames {
				granted, err := m.manager.CheckAccess(ctx, userID, itemName, params)
				if err != nil {
					m.errorHandler(w, r, err)
					return
				}
				if granted {
					next.ServeHTTP(w, r)
					return
				}
			}

			m.errorHandler(w, r, NewError(ErrUnauthorized, "access check denied").
				WithUser(userID))
		})
	}
}

// InjectAuditContext creates middleware that extracts audit information from
// the request and adds it to the context for use in mutation operations.
//
// Example:
//
//	router.Use(mw.InjectAuditContext())
func (m *Middleware) InjectAuditContext() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			ip := r.Header.Get("X-Forwarded-For")
			if ip == "" {
				ip = r.Header.Get("X-Real-IP")
			}
			if ip == "" {
				ip = r.RemoteAddr
			}
			ctx = WithIPAddress(ctx, ip)
			ctx = WithUserAgent(ctx, r.UserAgent())

			if requestID := r.Header.Get("X-Request-ID"); requestID != "" {
				ctx = WithRequestID(ctx, requestID)
			}

			if userID := m.getUserID(r); userID != "" {
				ctx = WithActorID(ctx, userID)
				ctx = WithUserID(ctx, userID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
