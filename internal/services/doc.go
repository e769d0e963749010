// Package services talks to the text analysis server.
//
// # Analyzer
//
// [Analyzer] is the single operation the rest of txa depends on: submit an ordered URL list
// and receive an [models.AnalysisResponse]. [AnalysisService] implements it over HTTP.
//
// # Transport
//
// [APIService] performs raw GET/POST requests and keeps the body regardless of status,
// because the server answers rejected URLs with HTTP 400 and a JSON body. Requests are
// optionally throttled with [rate.Limiter] and, when a token is configured, authenticated
// through an [oauth2.Transport] carrying a static bearer token.
//
// # Error Handling
//
// Services use sentinel errors from the shared package:
//   - [shared.ErrNoURLs] : nothing to submit
//   - [shared.ErrAPIRequest] : transport failure, non-2xx status, or a server "error" field
//   - [shared.ErrInvalidResponse] : the body was not a JSON object
//
// Timeouts surface as [shared.ErrAPIRequest] wrapping [context.DeadlineExceeded].
package services
