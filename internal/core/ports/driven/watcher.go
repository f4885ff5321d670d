package driven

import "context"

// FileWatcher reports changes to a single file.
type FileWatcher interface {
	// Watch starts watching path. The returned channel receives a value
	// after the file was written or replaced and is closed when ctx is
	// done or Close is called. Bursts of events are coalesced.
	Watch(ctx context.Context, path string) (<-chan struct{}, error)

	// Close stops all watches.
	Close() error
}
