package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/statsdash/internal/session"
)

func TestBasicRouter(t *testing.T) {
	t.Run("Handle", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle("get", "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "pong")
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
			t.Errorf("expected 200 pong, got %d %q", rec.Code, rec.Body.String())
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("Middleware Order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mark("first"), mark("second"))
		router.Handle(http.MethodGet, "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		if strings.Join(order, ",") != "first,second,handler" {
			t.Errorf("unexpected order %v", order)
		}
	})

	t.Run("Routes", func(t *testing.T) {
		router := NewRedirectRouter(NewTokenHandler(session.NewTokenManager(), nil), log.New(io.Discard))
		routes := router.Routes()

		if len(routes) != 2 || routes[0] != "GET /{$}" || routes[1] != "GET /favicon.ico" {
			t.Errorf("unexpected routes %v", routes)
		}
	})
}

func TestTokenHandler(t *testing.T) {
	t.Run("Captures Token", func(t *testing.T) {
		tokens := session.NewTokenManager()
		var notified []string
		handler := NewTokenHandler(tokens, func(c string) { notified = append(notified, c) })

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?token=abc123&tab=stats", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if cred, _ := tokens.Credential(); cred != "abc123" {
			t.Errorf("expected credential abc123, got %q", cred)
		}
		if len(notified) != 1 || notified[0] != "abc123" {
			t.Errorf("expected one notification, got %v", notified)
		}

		body := rec.Body.String()
		if !strings.Contains(body, "history.replaceState") {
			t.Error("expected address bar rewrite script")
		}
		if !strings.Contains(body, "?tab=stats") {
			t.Errorf("expected stripped target in script, got:\n%s", body)
		}
		if strings.Contains(body, "abc123") {
			t.Error("expected token absent from page")
		}
	})

	t.Run("Missing Token", func(t *testing.T) {
		tokens := session.NewTokenManager()
		called := false
		handler := NewTokenHandler(tokens, func(string) { called = true })

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if called {
			t.Error("expected no notification")
		}
		if strings.Contains(rec.Body.String(), "replaceState") {
			t.Error("expected no rewrite script")
		}
	})

	t.Run("Escapes Target", func(t *testing.T) {
		handler := NewTokenHandler(session.NewTokenManager(), nil)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, `/?token=x&q=%3C%2Fscript%3E`, nil))

		if strings.Contains(rec.Body.String(), "</script>\"") {
			t.Error("expected script content to be escaped")
		}
	})

	t.Run("Logs Failed Render", func(t *testing.T) {
		var buf bytes.Buffer
		handler := NewTokenHandler(session.NewTokenManager(), nil)
		handler.SetLogger(log.New(&buf))

		w := &brokenResponseWriter{header: http.Header{}}
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?token=abc123", nil))

		if w.status != http.StatusOK {
			t.Errorf("expected 200, got %d", w.status)
		}
		if !strings.Contains(buf.String(), "failed to render page") {
			t.Errorf("expected render failure to be logged, got %q", buf.String())
		}
		if strings.Contains(buf.String(), "abc123") {
			t.Error("expected credential to stay out of the log")
		}
	})
}

// brokenResponseWriter fails every body write.
type brokenResponseWriter struct {
	header http.Header
	status int
}

func (w *brokenResponseWriter) Header() http.Header  { return w.header }
func (w *brokenResponseWriter) WriteHeader(code int) { w.status = code }
func (w *brokenResponseWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestMiddleware(t *testing.T) {
	t.Run("RequestLogger Omits Query", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.New(&buf)

		router := NewRedirectRouter(NewTokenHandler(session.NewTokenManager(), nil), logger)
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/?token=secret", nil))

		out := buf.String()
		if strings.Contains(out, "secret") {
			t.Errorf("expected credential not logged, got %q", out)
		}
		if !strings.Contains(out, "status=200") {
			t.Errorf("expected status in log, got %q", out)
		}
	})

	t.Run("RequestLogger Records Status", func(t *testing.T) {
		var buf bytes.Buffer
		router := NewRedirectRouter(NewTokenHandler(session.NewTokenManager(), nil), log.New(&buf))
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		if !strings.Contains(buf.String(), "status=400") {
			t.Errorf("expected status=400 in log, got %q", buf.String())
		}
	})

	t.Run("NoStore", func(t *testing.T) {
		router := NewRedirectRouter(NewTokenHandler(session.NewTokenManager(), nil), log.New(io.Discard))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?token=abc", nil))

		if rec.Header().Get("Cache-Control") != "no-store" {
			t.Error("expected Cache-Control no-store")
		}
		if rec.Header().Get("Referrer-Policy") != "no-referrer" {
			t.Error("expected Referrer-Policy no-referrer")
		}
	})
}

func TestListener(t *testing.T) {
	tokens := session.NewTokenManager()
	var (
		mu   sync.Mutex
		seen string
	)
	handler := NewTokenHandler(tokens, func(c string) {
		mu.Lock()
		seen = c
		mu.Unlock()
	})

	logger := log.New(io.Discard)
	l, err := Listen("127.0.0.1:0", NewRedirectRouter(handler, logger), logger)
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	resp, err := http.Get(l.URL() + "?token=live")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	mu.Lock()
	got := seen
	mu.Unlock()
	if got != "live" {
		t.Errorf("expected live token, got %q", got)
	}

	if err := l.Shutdown(context.Background()); err != nil {
		t.Errorf("expected clean shutdown, got %v", err)
	}
	if err, ok := <-l.Errors(); ok && err != nil {
		t.Errorf("expected no serve error, got %v", err)
	}

	again, err := Listen(l.Addr(), http.NotFoundHandler(), logger)
	if err != nil {
		t.Fatalf("expected address to be free after shutdown, got %v", err)
	}
	again.Shutdown(context.Background())
}
