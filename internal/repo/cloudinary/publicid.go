package cloudinary

import (
	"regexp"
	"strings"

	"github.com/tk-online/catalog-api/internal/models"
)

// uploadMarker separates the delivery routing prefix from the asset path in
// every URL the media service hands out.
const uploadMarker = "/upload/"

var versionSegment = regexp.MustCompile(`^v\d+/`)

// PublicID derives the deletable resource key from a delivery URL. The
// optional version segment ("v1234567890/") and the trailing extension are
// stripped; folder segments survive, including ones containing dots.
func PublicID(rawURL string) (string, error) {
	idx := strings.Index(rawURL, uploadMarker)
	if idx == -1 {
		return "", models.ErrMalformedURL
	}
	path := rawURL[idx+len(uploadMarker):]

	if m := versionSegment.FindString(path); m != "" {
		path = path[len(m):]
	}

	if dot := strings.LastIndex(path, "."); dot != -1 {
		path = path[:dot]
	}

	return path, nil
}
