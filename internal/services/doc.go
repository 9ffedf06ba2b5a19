// Package services provides [APIService], the HTTP client for the listening analytics backend.
//
// # Requests
//
// [APIService.Get] performs an unauthenticated GET and is used for debugging commands.
// [APIService.GetBearer] performs the same request with the session credential attached as an
// Authorization: Bearer header. The header is set by an [oauth2.Transport] over a static token source
// wrapping the configured base client, so timeouts and transports configured on that client still apply.
//
// # Responses
//
// Both return an [APIResponse] carrying status, headers, raw body and a decoded JSON value when the body
// parses. A non-2xx status is not an error at this layer; callers decide how to treat it. Errors are
// returned only for request construction, transport failures and unreadable bodies.
//
// # Credentials
//
// The credential is never logged or stored by this package.
package services
