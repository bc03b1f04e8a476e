// Package playback implements HTTP byte-range media delivery: parsing and
// validating Range headers, bounded reads over file windows, and building
// full or partial content responses.
package playback

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Custom range errors. Both translate to a 416 response with a
// "Content-Range: bytes */total" hint; they are kept distinct because a
// multi-range request is a deliberate non-goal rather than a malformed header.
var (
	ErrInvalidRange        = errors.New("invalid range")
	ErrRangeNotSatisfiable = errors.New("range not satisfiable")
)

// Window is a validated byte interval of a file, inclusive on both ends.
// Invariant: 0 <= Start <= End < Total.
type Window struct {
	Start int64
	End   int64
	Total int64
}

// Length returns the number of bytes covered by the window
func (w Window) Length() int64 {
	return w.End - w.Start + 1
}

// ContentRange formats the window as a Content-Range header value
func (w Window) ContentRange() string {
	return fmt.Sprintf("bytes %d-%d/%d", w.Start, w.End, w.Total)
}

// UnsatisfiedContentRange formats the Content-Range hint sent with a 416
// response.
func UnsatisfiedContentRange(total int64) string {
	return fmt.Sprintf("bytes */%d", total)
}

// ParseRange parses a single-range Range header value against the total file
// length. An empty header returns (nil, nil): serve the full content.
//
// Accepted forms are "bytes=start-end", "bytes=start-" (to end of file) and
// "bytes=-suffix" (last suffix bytes). Comma-separated range lists return
// ErrRangeNotSatisfiable; multi-part responses are not supported. A window
// that falls outside the file after resolution returns ErrInvalidRange.
func ParseRange(header string, total int64) (*Window, error) {
	if header == "" {
		return nil, nil
	}

	if !strings.HasPrefix(header, "bytes=") {
		return nil, ErrInvalidRange
	}
	spec := strings.TrimSpace(strings.TrimPrefix(header, "bytes="))

	if strings.Contains(spec, ",") {
		return nil, ErrRangeNotSatisfiable
	}

	parts := strings.SplitN(spec, "-", 2)
	if len(parts) != 2 {
		return nil, ErrInvalidRange
	}

	var start, end int64
	switch {
	case parts[0] == "":
		// Suffix form: last N bytes
		suffix, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil || suffix <= 0 {
			return nil, ErrInvalidRange
		}
		start = total - suffix
		if start < 0 {
			start = 0
		}
		end = total - 1

	default:
		var err error
		start, err = strconv.ParseInt(parts[0], 10, 64)
		if err != nil || start < 0 {
			return nil, ErrInvalidRange
		}
		if parts[1] == "" {
			// Open-ended form: to end of file
			end = total - 1
		} else {
			end, err = strconv.ParseInt(parts[1], 10, 64)
			if err != nil {
				return nil, ErrInvalidRange
			}
		}
	}

	if start > end || start >= total || end >= total {
		return nil, ErrInvalidRange
	}

	return &Window{Start: start, End: end, Total: total}, nil
}
