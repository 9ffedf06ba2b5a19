// Package server provides HTTP routing, middleware, and the local listener that receives the post-login redirect.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] is applied so the first one added is the outermost, following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method-aware patterns.
//
// # Token Redirect Handler
//
// After login the backend redirects the browser to the listener root with a token query parameter.
// [TokenHandler] captures it through a [session.TokenManager], answers with a page whose script rewrites
// the address bar without the token, and reports the capture through a callback. A redirect without a
// token gets 400.
//
// # Middleware
//
// [RequestLogger] logs method, path and status and never the query string. [NoStore] disables caching and
// referrers so the token cannot leak from the redirect page.
//
// # Current Usage
//
// The TUI keeps a [Listener] open for its whole run so a login can happen at any time. The login and stats
// commands start one, wait for the first token or a timeout, and shut it down.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
