// Package media scores scalar values for image and audio likeness.
// Scores feed the profiler's image/audio feature detection.
package media

import (
	"bytes"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"net/http"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder

	"github.com/johndauphine/tabprof/internal/util"
)

// ImageExtensions are the file suffixes treated as images.
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".tiff", ".tif", ".bmp", ".gif", ".webp"}

// AudioExtensions are the file suffixes treated as audio.
var AudioExtensions = []string{".wav", ".amb", ".mp3", ".ogg", ".vorbis", ".flac", ".opus", ".sphere"}

// ImageScore returns 1 for a value that decodes as an image (raw bytes or a
// readable local file), 0.5 for a string that only carries an image extension
// (for example an expired URL) and 0 otherwise.
func ImageScore(v any) float64 {
	switch x := v.(type) {
	case []byte:
		if isImageBytes(x) {
			return 1
		}
	case string:
		if !util.HasAnySuffixFold(x, ImageExtensions) {
			return 0
		}
		if isImageFile(x) {
			return 1
		}
		return 0.5
	}
	return 0
}

// AudioScore returns 1 for a string ending in an audio extension, else 0.
func AudioScore(v any) float64 {
	s, ok := v.(string)
	if ok && util.HasAnySuffixFold(s, AudioExtensions) {
		return 1
	}
	return 0
}

func isImageBytes(b []byte) bool {
	if !strings.HasPrefix(http.DetectContentType(b), "image/") {
		return false
	}
	_, _, err := image.DecodeConfig(bytes.NewReader(b))
	return err == nil
}

func isImageFile(path string) bool {
	if strings.Contains(path, "://") {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	_, _, err = image.DecodeConfig(f)
	return err == nil
}
