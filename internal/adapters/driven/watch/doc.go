// Package watch reports changes to the open document on disk so it can
// be reloaded. Reports are throttled with a token bucket.
package watch
