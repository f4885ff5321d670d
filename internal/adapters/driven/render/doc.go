// Package render draws page previews for the terminal.
package render
