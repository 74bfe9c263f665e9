// Package vol encodes uniform grid contents into brick-of-bytes volumetric
// files for external visualization.
//
// Each channel of a field (x, y, z, magnitude, or the single scalar channel)
// is normalized against its min/max statistics, quantized to one byte per
// grid point in canonical scan order, and written to its own data file with a
// trailing "MIN <min> MAX <max>" text line. Every encode call also appends a
// two-line entry to a shared .ogle script manifest: a comment recording the
// value range and a data line naming the channel files.
//
// The byte layout, trailer format, and filename pattern are a contract with
// an external volumetric viewer and are reproduced bit for bit; see the
// package tests for the exact shapes.
//
// Encoding is all-or-nothing per call: channel bytes are staged in pooled
// buffers and flushed to the Sink only after every channel has encoded, and
// the manifest entry is appended last. On a sink failure, already-flushed
// channel files are removed best-effort and the manifest is left untouched,
// so a manifest entry never references a file that was not fully written.
package vol
