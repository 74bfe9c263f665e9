// Package compress provides the compression codecs used by the snapshot
// format.
//
// Grid snapshot payloads are component-major planes of raw float32 values.
// Neighboring grid points of a smooth field share exponent and high mantissa
// bits, so general-purpose byte compressors do well on them:
//
//   - Zstd: best ratio, moderate speed; the default for archived snapshots
//   - S2: fastest, lower ratio; good for per-frame checkpoints
//   - LZ4: balanced speed and ratio, frame format
//   - None: pass-through for already-small preview grids
//
// All codecs are safe for concurrent use.
package compress
