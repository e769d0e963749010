// Package tasks runs the analysis request/render pipeline with real-time progress reporting.
//
// # Submission
//
// [Pipeline.Submit] takes the ordered URL list and ends in exactly one [Outcome]:
//
//  1. Rejected : the list was empty, or another submission is in flight
//  2. Invalid  : URLs failed local validation or the server reported invalid_urls
//  3. Failed   : transport, parse or server error; the generic alert is shown
//  4. Rendered : whichever of word clouds, sentiment and readability were present
//
// The pipeline carries an explicit Idle/InFlight state. A second submission while one is
// outstanding is rejected with [shared.ErrRequestInFlight]; it is never queued.
//
// # Progress Reporting
//
// Operations accept an optional channel of [ProgressUpdate]. Updates use select with
// default so reporting never blocks.
//
// # History
//
// With [WithRecorder] every submission that reached validation is stored as a
// [models.Run]. Recording failures are logged and do not change the outcome.
//
// # Export
//
// [Export] writes report.html, README.md, scores.csv, summary.txt and one PNG per word
// cloud. PNGs are decoded concurrently on an [errgroup.Group] bounded by
// [ExportOpts.NumWorkers].
package tasks
