// Package server provides HTTP routing, middleware, and the run history handlers behind `txa serve`.
//
// # Router Infrastructure
//
// [BasicRouter] implements [Router] on top of [http.ServeMux] and adds per-route method filtering.
// Middleware registered with Use wraps each handler as it is registered; the first one added runs outermost.
// [NewReportRouter] assembles the read-only stack used by `txa serve`.
//
// # Report Handler
//
// [ReportHandler] lists recorded runs at "/" and renders a stored run's HTML report at "/runs/{ref}",
// where ref is a run sequence number, ID or unique ID prefix. Appending "?format=json" returns the
// stored analysis response instead.
//
// # Handler Interface
//
// A [Handler] is an [http.Handler] that also names the paths it serves, so one value can own several routes.
package server
