package compositor

import "github.com/gogpu/ggedit/internal/imageio"

// Format is an output encoding accepted by Encode and Bytes.
type Format = imageio.Format

// Output formats.
const (
	PNG  = imageio.PNG
	JPEG = imageio.JPEG
)

// ParseFormat accepts "png", "jpeg" and "jpg".
func ParseFormat(s string) (Format, error) {
	return imageio.ParseFormat(s)
}
