// Package models defines domain entities and persistence interfaces for txa.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): structs exchanged with the analysis server
//   - [Entry] : a URL and its 1-based display position
//   - [AnalysisRequest] : the POST /analyze body
//   - [AnalysisResponse] : the decoded reply, each field optional
//   - [InvalidURL], [WordCloud], [Sentiment], [Readability] : per-URL records
//
// 2. Persistent Entities: database-backed models with full lifecycle management
//   - [Run] : one submission with its URLs, outcome and raw response
//
// Persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
