package record

import (
	"encoding/base64"
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrMalformedIdentifier is returned by DecodePath for input that is not a
// well-formed record identifier. Identifiers arrive from untrusted request
// paths, so decode failures are an expected condition, never a panic.
var ErrMalformedIdentifier = errors.New("record: malformed identifier")

// EncodePath converts a root-relative file path into an opaque, URL-safe
// identifier. The encoding is unpadded base64url over the path's UTF-8 bytes,
// so the result is safe to embed in a URL path or query segment.
func EncodePath(relativePath string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(relativePath))
}

// DecodePath is the inverse of EncodePath. The decoded output is only a
// candidate path; callers must still pass it through the sandbox before
// touching the filesystem.
func DecodePath(identifier string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(identifier)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrMalformedIdentifier, err)
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%w: decoded bytes are not valid UTF-8", ErrMalformedIdentifier)
	}
	return string(raw), nil
}
