// Package file provides a file-based DataFetcher and DataWriter for the document package.
//
// Fetch reads the file on every call, so a reload sees the latest contents.
// Write replaces the file through a temporary file and a rename; readers
// never observe a half-written document, and a file watcher sees a single
// create or rename event.
//
// Usage:
//
//	fetcher, err := file.NewFetcher("/path/to/config.yaml")()
//	if err != nil {
//	    // Handle error: path is a directory, permission denied, etc.
//	}
//	data, err := fetcher.Fetch()
//
// Error Handling:
//   - Construction returns an error if the path is a directory or cannot be inspected
//   - A missing file is reported by Fetch, not at construction
//   - Errors include the filepath for easier debugging
//   - Use errors.Is(err, file.ErrPathIsDirectory) to check for directory errors
package file
