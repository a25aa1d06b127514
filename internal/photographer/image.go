package photographer

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/capture-moments/backend/internal/models"
)

// imageKind is an upload format accepted for profile pictures.
type imageKind struct {
	ext         string
	contentType string
}

// Keyed by the format name the image decoders register under.
var imageKinds = map[string]imageKind{
	"jpeg": {ext: ".jpg", contentType: "image/jpeg"},
	"png":  {ext: ".png", contentType: "image/png"},
	"gif":  {ext: ".gif", contentType: "image/gif"},
	"webp": {ext: ".webp", contentType: "image/webp"},
}

var errNotAnImage = fmt.Errorf("%w: profile_image must be a jpg, png, gif or webp image", models.ErrInvalidInput)

// detectImage identifies data by its content and checks that it decodes in
// full. The client's file name and Content-Type play no part.
func detectImage(data []byte) (imageKind, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return imageKind{}, errNotAnImage
	}
	kind, ok := imageKinds[format]
	if !ok {
		return imageKind{}, errNotAnImage
	}
	if _, err := imaging.Decode(bytes.NewReader(data)); err != nil {
		return imageKind{}, errNotAnImage
	}
	return kind, nil
}
