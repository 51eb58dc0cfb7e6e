// Package ingestion loads corpus snapshot dumps into storage.
//
// The Pipeline type reads the two-file dump format used by study corpus
// distributions: a database file with one row per activation peak and a
// features file holding the term weight matrix, including:
//   - Parsing both tab-separated dumps, gzip-compressed or plain
//   - Writing study, peak, and annotation batches concurrently on a worker pool
//   - Recording file digests and row counts in the snapshot manifest
//
// A parse or write failure aborts the run before a manifest is written, so a
// corrupt snapshot never half-loads behind one.
package ingestion
