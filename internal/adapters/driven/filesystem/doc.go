// Package filesystem reads source documents from and writes rotated
// documents to the local disk.
package filesystem
