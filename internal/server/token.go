package server

import (
	"html/template"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/statsdash/internal/session"
)

var pageTemplate = template.Must(template.New("redirect").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.Title}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: {{.Color}}; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
    {{- if .Target}}
    <script>history.replaceState(null, "", {{.Target}});</script>
    {{- end}}
</head>
<body>
    <div class="container">
        <h1>{{.Title}}</h1>
        <p>{{.Message}}</p>
    </div>
</body>
</html>
`))

type page struct {
	Title   string
	Message string
	Color   template.CSS
	Target  string
}

// requestLocation is the browser's address bar for one redirect request.
type requestLocation struct {
	u        *url.URL
	replaced *url.URL
}

func newRequestLocation(r *http.Request) *requestLocation {
	u := *r.URL
	u.Host = r.Host
	if u.Scheme == "" {
		u.Scheme = "http"
	}
	return &requestLocation{u: &u}
}

func (l *requestLocation) URL() *url.URL      { return l.u }
func (l *requestLocation) Replace(u *url.URL) { l.replaced = u }

// target returns the relative URL the page rewrites the address bar to.
func (l *requestLocation) target() string {
	if l.replaced == nil {
		return ""
	}
	return l.replaced.RequestURI()
}

// TokenHandler receives the backend's post-login redirect and captures its token.
//
// The response page rewrites the address bar without the token using history.replaceState,
// so the browser does not navigate and the token does not remain in history.
type TokenHandler struct {
	tokens *session.TokenManager
	notify func(credential string)
	logger *log.Logger
}

// NewTokenHandler creates a handler storing credentials in tokens and reporting each capture to notify.
//
// notify runs on the request goroutine and must not block.
func NewTokenHandler(tokens *session.TokenManager, notify func(credential string)) *TokenHandler {
	if notify == nil {
		notify = func(string) {}
	}
	return &TokenHandler{tokens: tokens, notify: notify, logger: log.Default()}
}

// SetLogger replaces the logger used to report failed page renders.
func (h *TokenHandler) SetLogger(logger *log.Logger) {
	h.logger = logger
}

// Routes returns the HTTP routes this handler serves.
func (h *TokenHandler) Routes() []string {
	return []string{"GET /{$}"}
}

// ServeHTTP handles the redirect request.
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	loc := newRequestLocation(r)

	credential, ok := h.tokens.Capture(loc)
	if !ok {
		h.render(w, http.StatusBadRequest, page{
			Title:   "✗ Login Incomplete",
			Message: "The redirect carried no token. Start the login again from the terminal.",
			Color:   "#E22134",
		})
		return
	}

	h.notify(credential)

	h.render(w, http.StatusOK, page{
		Title:   "✓ Login Successful",
		Message: "You can close this window and return to the terminal.",
		Color:   "#1DB954",
		Target:  loc.target(),
	})
}

func (h *TokenHandler) render(w http.ResponseWriter, status int, p page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, p); err != nil {
		h.logger.Error("failed to render page", "status", status, "error", err)
	}
}
