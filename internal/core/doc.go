// Package core provides the business logic for checking order response files.
//
// An order response file has one record per line in the form
//
//	OrderRef,Sequence,ISBN,ResponseCode,Message
//
// Each record is classified against a reference index of known item codes
// (see package reference). A record is Available when its ISBN is in the
// index. Among available records, one is flagged as an "other error" when
// its response or message indicates a problem that is not a catalogue miss.
// Not Available records are never other errors.
//
// # Flow
//
//  1. [ReadLines] strips a UTF-8 BOM, replaces invalid bytes and splits lines
//  2. [ClassifyAll] parses and classifies each line in order
//  3. [Summarize] counts accepted, rejected and other-error records
//  4. [FilterForDisplay] and [VisibleRows] select what the results page shows
//  5. [ToExportLines] rebuilds upload-format lines for download
//
// Records are never edited after classification. Display and export derive
// their changes (the IR response and the standard Not Available message)
// from the classification at projection time.
//
// # Service
//
// [Service] holds per-browser [Session] state and bounds concurrent uploads
// with an [UploadLimiter]. Transports (the web server and the CLI) call it
// or the pure functions directly.
package core
