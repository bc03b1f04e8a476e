package media

import (
	"fmt"
	"regexp"
	"strings"
)

const maxFileNameLength = 255

var invalidFileNameChars = regexp.MustCompile(`[\\/:*?"<>|]`)

// SafeFileName builds the display filename "singer-title.ext" with characters
// that are invalid in filenames stripped out. It never returns an empty name.
func SafeFileName(title, singer, fileType string) string {
	cleanTitle := strings.TrimSpace(invalidFileNameChars.ReplaceAllString(title, ""))
	cleanSinger := strings.TrimSpace(invalidFileNameChars.ReplaceAllString(singer, ""))

	if cleanTitle == "" {
		cleanTitle = "Unknown Title"
	}
	if cleanSinger == "" {
		cleanSinger = "Unknown Singer"
	}
	if fileType == "" {
		fileType = "mp3"
	}

	name := fmt.Sprintf("%s-%s.%s", cleanSinger, cleanTitle, strings.ToLower(fileType))
	if len(name) > maxFileNameLength {
		name = name[:maxFileNameLength]
	}
	return name
}
