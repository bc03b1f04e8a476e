package playback

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/gabriel-vasile/mimetype"

	"github.com/cadenza-audio/cadenza/internal/logger"
)

const fallbackMimeType = "application/octet-stream"

// Response is a fully-resolved media response descriptor: status, headers and
// an optional body stream. Streaming endpoints speak pure HTTP status and
// headers; there is no JSON envelope around binary bodies.
type Response struct {
	Status        int
	Header        http.Header
	ContentLength int64
	Body          io.ReadCloser
}

// Write copies the descriptor onto w and streams the body. The body is always
// closed, releasing the file handle even when the client disconnects
// mid-transfer.
func (resp *Response) Write(w http.ResponseWriter) error {
	for key, values := range resp.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	if resp.ContentLength >= 0 {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", resp.ContentLength))
	}
	w.WriteHeader(resp.Status)

	if resp.Body == nil {
		return nil
	}
	defer resp.Body.Close()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("failed to stream media body: %w", err)
	}
	return nil
}

// Responder builds full-content and partial-content responses for catalog
// media files.
type Responder struct{}

// NewResponder creates a Responder
func NewResponder() *Responder {
	return &Responder{}
}

// Respond resolves a media request to a response descriptor. A missing or
// unreadable file yields a NotFound descriptor, never an error. Download
// responses sniff the MIME type from file content; play responses trust the
// declared type validated at upload time and honor a single byte-range.
func (r *Responder) Respond(filePath, fileName, declaredMime, rangeHeader string, download bool) *Response {
	file, err := os.Open(filePath)
	if err != nil {
		logger.Log.Warn().
			Err(err).
			Str("path", filePath).
			Msg("Media file missing or unreadable")
		return &Response{Status: http.StatusNotFound, Header: http.Header{}, ContentLength: -1}
	}

	info, err := file.Stat()
	if err != nil || info.IsDir() {
		file.Close()
		logger.Log.Warn().
			Str("path", filePath).
			Msg("Media path is not a readable regular file")
		return &Response{Status: http.StatusNotFound, Header: http.Header{}, ContentLength: -1}
	}
	total := info.Size()

	if download {
		return r.downloadResponse(file, filePath, fileName, total)
	}
	return r.playResponse(file, filePath, fileName, declaredMime, rangeHeader, total)
}

// downloadResponse streams the whole file as an attachment. The MIME type is
// sniffed from content rather than trusted from the extension.
func (r *Responder) downloadResponse(file *os.File, filePath, fileName string, total int64) *Response {
	contentType := fallbackMimeType
	if mtype, err := mimetype.DetectFile(filePath); err == nil {
		contentType = mtype.String()
	}

	header := http.Header{}
	header.Set("Content-Type", contentType)
	header.Set("Content-Disposition", contentDisposition("attachment", fileName))
	header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	header.Set("Pragma", "no-cache")
	header.Set("Expires", "0")

	logger.Log.Info().
		Str("path", filePath).
		Str("file_name", fileName).
		Str("content_type", contentType).
		Int64("size", total).
		Msg("Serving media download")

	return &Response{
		Status:        http.StatusOK,
		Header:        header,
		ContentLength: total,
		Body:          file,
	}
}

// playResponse streams the file inline with byte-range support
func (r *Responder) playResponse(file *os.File, filePath, fileName, declaredMime, rangeHeader string, total int64) *Response {
	contentType := declaredMime
	if contentType == "" {
		contentType = fallbackMimeType
	}

	header := http.Header{}
	header.Set("Content-Type", contentType)
	header.Set("Content-Disposition", contentDisposition("inline", fileName))
	header.Set("Accept-Ranges", "bytes")
	header.Set("Cache-Control", "public, max-age=3600")

	window, err := ParseRange(rangeHeader, total)
	if err != nil {
		file.Close()
		header.Set("Content-Range", UnsatisfiedContentRange(total))
		logger.Log.Warn().
			Err(err).
			Str("path", filePath).
			Str("range", rangeHeader).
			Int64("size", total).
			Msg("Rejecting unsatisfiable range request")
		return &Response{
			Status:        http.StatusRequestedRangeNotSatisfiable,
			Header:        header,
			ContentLength: 0,
		}
	}

	if window == nil {
		logger.Log.Info().
			Str("path", filePath).
			Int64("size", total).
			Msg("Serving full media content")
		return &Response{
			Status:        http.StatusOK,
			Header:        header,
			ContentLength: total,
			Body:          file,
		}
	}

	// The validating open above and the bounded resource use separate
	// handles; release the first before handing off.
	file.Close()

	resource, err := OpenResource(filePath, *window)
	if err != nil {
		logger.Log.Warn().
			Err(err).
			Str("path", filePath).
			Msg("Failed to open range resource")
		return &Response{Status: http.StatusNotFound, Header: http.Header{}, ContentLength: -1}
	}

	header.Set("Content-Range", window.ContentRange())
	logger.Log.Info().
		Str("path", filePath).
		Int64("start", window.Start).
		Int64("end", window.End).
		Int64("size", total).
		Msg("Serving partial media content")

	return &Response{
		Status:        http.StatusPartialContent,
		Header:        header,
		ContentLength: window.Length(),
		Body:          resource,
	}
}

// contentDisposition formats a Content-Disposition header with the RFC 5987
// encoded filename alongside the plain quoted fallback.
func contentDisposition(kind, fileName string) string {
	encoded := url.PathEscape(fileName)
	return fmt.Sprintf(`%s; filename="%s"; filename*=UTF-8''%s`, kind, encoded, encoded)
}
