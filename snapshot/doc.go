// Package snapshot persists full grid contents losslessly, unlike the lossy
// byte volumes produced by package vol.
//
// A snapshot is a 48-byte header followed by a payload of float32 component
// planes in canonical scan order (all component 0 values, then all component
// 1 values, and so on), optionally compressed. The header records the grid
// shape and domain bounds, the element field kind, the compression type, the
// byte order of the payload, and an xxHash64 checksum of the uncompressed
// payload. Writers emit native byte order; readers handle either.
package snapshot
