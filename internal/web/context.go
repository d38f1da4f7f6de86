package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/kbimport/internal/web/views"
)

type contextKey string

const ctxKeyLang contextKey = "lang"

// withLanguage resolves the request language once from ?lang= or
// Accept-Language and stores it in the context.
func (s *Server) withLanguage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Accept-Language")
		if q := r.URL.Query().Get("lang"); q != "" {
			header = q
		}
		lang := s.catalog.Match(header)

		w.Header().Set("Content-Language", lang)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyLang, lang)))
	})
}

// langFromContext returns the request language, or "" to use the catalog default.
func langFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyLang).(string); ok {
		return v
	}
	return ""
}

// translator binds the catalog to the request language for views.
func (s *Server) translator(r *http.Request) views.Translator {
	lang := langFromContext(r.Context())
	return func(key string) string {
		return s.catalog.T(lang, key)
	}
}
