package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

var (
	ErrInvalidImage  = errors.New("invalid image")
	ErrImageTooLarge = errors.New("image too large")
)

// extensions maps sniffed content types to the file extension images are stored with.
var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Image is a decoded, content-checked upload.
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
}

// DecodeDataURI decodes "data:image/<ext>;base64,<payload>".
func DecodeDataURI(uri string, maxBytes int64) (*Image, error) {
	header, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(header, "data:image/") || !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("%w: expected data:image/<ext>;base64,<payload>", ErrInvalidImage)
	}

	if int64(base64.StdEncoding.DecodedLen(len(payload))) > maxBytes+2 {
		return nil, ErrImageTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return sniff(data, maxBytes)
}

// FromMultipart reads an uploaded file part.
func FromMultipart(fh *multipart.FileHeader, maxBytes int64) (*Image, error) {
	if fh.Size > maxBytes {
		return nil, ErrImageTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return sniff(data, maxBytes)
}

// sniff trusts the bytes rather than the declared type.
func sniff(data []byte, maxBytes int64) (*Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrImageTooLarge
	}

	contentType := http.DetectContentType(data)
	ext, ok := extensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported content type %s", ErrInvalidImage, contentType)
	}
	return &Image{Data: bytes.Clone(data), ContentType: contentType, Ext: ext}, nil
}
