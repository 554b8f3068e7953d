// Package core provides the upload and plotting logic around the CSV parser.
//
// It is independent of any transport: the HTTP server and tests drive it
// through [Service], which stores uploads in an [UploadStore] and parses
// them with [csvdoc.Parse].
//
// # Upload flow
//
//  1. [Service.Upload] checks the file type and takes an [UploadLimiter] slot
//  2. [DecodeUpload] strips the BOM, enforces the size limit and repairs
//     non-UTF-8 input
//  3. The text is parsed and stored; an [UploadResult] with a row preview
//     is returned
//
// # Plotting
//
// [Service.PlotData] re-parses a stored upload and hands it to [BuildPlot],
// which turns one X column and several Y columns into labels and colored
// datasets ready for a charting front end.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each category has a code prefix for support reference:
//
//   - FILE001-FILE006: file size, format, encoding and type
//   - PARSE001-PARSE002: parser configuration
//   - PLOT001-PLOT005: plot request validation
//   - UPL001-UPL004: capacity, expiry, cancellation and timeouts
//   - DB001-DB003, RATE001, AUTH001-AUTH002: storage, throttling and access
package core
