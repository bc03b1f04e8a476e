package media

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// IsAudioFile reports whether the file content (not the extension) identifies
// an audio format. Uploads with mislabeled extensions are rejected on this
// check.
func IsAudioFile(path string) bool {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mtype.String(), "audio/")
}

// MimeTypeForExtension returns the catalog MIME type for an audio file
// extension (without dot). The declared type is trusted at play time because
// the content was sniffed at upload time.
func MimeTypeForExtension(ext string) string {
	switch strings.ToLower(ext) {
	case "mp3":
		return "audio/mpeg"
	case "wav":
		return "audio/wav"
	case "ogg":
		return "audio/ogg"
	case "m4a":
		return "audio/mp4"
	case "flac":
		return "audio/flac"
	case "aac":
		return "audio/aac"
	default:
		return "application/octet-stream"
	}
}
