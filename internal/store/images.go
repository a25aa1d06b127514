package store

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// ThumbnailSize bounds the longer edge of the thumbnail variant.
const ThumbnailSize = 256

// ThumbnailName returns the object name of the thumbnail variant of name.
func ThumbnailName(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "_thumb" + ext
}

// thumbnail scales an encoded image to fit ThumbnailSize in the source
// format. Formats imaging cannot write, such as webp, get no thumbnail.
func thumbnail(data []byte, name string) ([]byte, string, error) {
	format, err := imaging.FormatFromFilename(name)
	if err != nil {
		return nil, "", fmt.Errorf("thumbnail %s: %w", name, err)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	resized := imaging.Fit(img, ThumbnailSize, ThumbnailSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(85)); err != nil {
		return nil, "", fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), contentTypes[format], nil
}

var contentTypes = map[imaging.Format]string{
	imaging.JPEG: "image/jpeg",
	imaging.PNG:  "image/png",
	imaging.GIF:  "image/gif",
	imaging.TIFF: "image/tiff",
	imaging.BMP:  "image/bmp",
}
