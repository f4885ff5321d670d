// Package domain defines the core business entities for pagespin.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Rotation: A clockwise page rotation in 90 degree steps
//   - RotationStore: Per-page rotation requested since load
//   - Session: One loaded file with its page count and rotation state
//   - ExportResult: The encoded output of an export
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
