package playback

import (
	"fmt"
	"io"
	"os"
)

// Resource is a read cursor bounded to a window of an underlying file. It
// reports io.EOF after exactly Window.Length() bytes regardless of how much
// file remains, and Close always releases the file handle.
type Resource struct {
	file      *os.File
	remaining int64
}

// OpenResource opens the file for random-access read, seeks to the window
// start and returns a cursor bounded to the window. The file handle is
// released before returning on any error path.
func OpenResource(path string, w Window) (*Resource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open media file: %w", err)
	}

	if _, err := file.Seek(w.Start, io.SeekStart); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to seek to range start: %w", err)
	}

	return &Resource{file: file, remaining: w.Length()}, nil
}

// Read reads up to len(p) bytes, never past the window end
func (r *Resource) Read(p []byte) (int, error) {
	if r.remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > r.remaining {
		p = p[:r.remaining]
	}
	n, err := r.file.Read(p)
	r.remaining -= int64(n)
	return n, err
}

// Close releases the underlying file handle
func (r *Resource) Close() error {
	return r.file.Close()
}
