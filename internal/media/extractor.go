// Package media extracts metadata from uploaded audio files and validates
// their content.
package media

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/go-audio/wav"
	"github.com/mewkiz/flac"
	"github.com/tcolgate/mp3"

	"github.com/cadenza-audio/cadenza/internal/logger"
	"github.com/cadenza-audio/cadenza/internal/models"
)

// TrackInfo is the metadata extracted from an uploaded audio file. Title and
// Singer fall back to filename-derived values when the file carries no tags;
// Duration degrades to models.DurationUnknown when no decoder understands the
// format.
type TrackInfo struct {
	Title     string
	Singer    string
	Album     string
	Duration  string
	Cover     []byte
	CoverMIME string
}

// Extract reads embedded tags and computes the playback duration of the audio
// file at path. Extraction failures are degraded, not fatal: the returned
// info is always usable.
func Extract(path, originalName string) TrackInfo {
	info := TrackInfo{
		Title:    titleFromFilename(originalName),
		Singer:   "Unknown Singer",
		Duration: models.DurationUnknown,
	}

	if seconds, err := calculateDuration(path, filepath.Ext(originalName)); err == nil {
		info.Duration = FormatDuration(seconds)
	} else {
		logger.Log.Warn().
			Err(err).
			Str("path", path).
			Msg("Failed to calculate duration")
	}

	file, err := os.Open(path)
	if err != nil {
		logger.Log.Warn().
			Err(err).
			Str("path", path).
			Msg("Failed to open file for tag extraction")
		return info
	}
	defer file.Close()

	metadata, err := tag.ReadFrom(file)
	if err != nil {
		logger.Log.Warn().
			Err(err).
			Str("path", path).
			Msg("Failed to read embedded tags, using filename")
		return info
	}

	if title := strings.TrimSpace(metadata.Title()); title != "" {
		info.Title = title
	}
	if singer := strings.TrimSpace(metadata.Artist()); singer != "" {
		info.Singer = singer
	}
	info.Album = strings.TrimSpace(metadata.Album())

	if pic := metadata.Picture(); pic != nil && len(pic.Data) > 0 {
		info.Cover = pic.Data
		info.CoverMIME = pic.MIMEType
	}

	return info
}

// FormatDuration formats whole seconds as mm:ss, zero-padded
func FormatDuration(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// calculateDuration computes the duration in seconds of the audio file at
// path. The decoder is chosen by ext, not by the path: uploads are staged
// under extensionless temporary names.
func calculateDuration(path, ext string) (int, error) {
	switch strings.ToLower(ext) {
	case ".mp3":
		return durationMP3(path)
	case ".flac":
		return durationFLAC(path)
	case ".wav":
		return durationWAV(path)
	default:
		return 0, fmt.Errorf("unsupported format: %s", ext)
	}
}

// MP3 duration by decoding frame headers
func durationMP3(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	dec := mp3.NewDecoder(f)
	var total float64
	var skipped int
	frames := 0
	for {
		var fr mp3.Frame
		if err := dec.Decode(&fr, &skipped); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if frames == 0 {
				return 0, fmt.Errorf("no decodable mp3 frames: %w", err)
			}
			break // partial decode; use what we have
		}
		total += fr.Duration().Seconds()
		frames++
	}
	return int(total + 0.5), nil
}

// FLAC duration via the STREAMINFO metadata block
func durationFLAC(path string) (int, error) {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return 0, err
	}
	si := stream.Info
	if si.NSamples == 0 || si.SampleRate == 0 {
		return 0, fmt.Errorf("flac stream missing sample info")
	}
	return int(float64(si.NSamples)/float64(si.SampleRate) + 0.5), nil
}

// WAV duration from the header, approximating PCM length from file size
func durationWAV(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return 0, fmt.Errorf("invalid wav file")
	}
	if dec.SampleRate == 0 || dec.BitDepth == 0 || dec.NumChans == 0 {
		return 0, fmt.Errorf("invalid wav header")
	}

	st, err := f.Stat()
	if err != nil {
		return 0, err
	}
	const headerSize = int64(44)
	pcmBytes := st.Size() - headerSize
	if pcmBytes < 0 {
		pcmBytes = 0
	}
	bytesPerFrame := int64(dec.BitDepth/8) * int64(dec.NumChans)
	if bytesPerFrame <= 0 {
		return 0, fmt.Errorf("invalid sample frame size")
	}
	return int(float64(pcmBytes/bytesPerFrame)/float64(dec.SampleRate) + 0.5), nil
}

// titleFromFilename derives a fallback title from the uploaded filename
func titleFromFilename(name string) string {
	base := filepath.Base(name)
	title := strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
	if title == "" {
		return "Unknown Title"
	}
	return title
}
