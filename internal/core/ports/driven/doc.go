// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DocumentCodec: Parses and re-serialises PDF documents
//   - FileReader: Reads a user-selected file and declares its media type
//   - ArtifactWriter: Delivers the exported document
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - PageRenderer: Page previews. Without it, only the rotation is shown.
//   - FileWatcher: Reload on change. Without it, reload is manual.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
