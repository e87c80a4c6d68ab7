package extract

import (
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// LoadFile reads an already-extracted submission or answer-key document from
// a local path. Only plain-text payloads are accepted; PDF extraction happens
// upstream and hands this service text.
func LoadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read submission file: %w", err)
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "text/") {
		return "", fmt.Errorf("unsupported submission content type %q", mime.String())
	}

	return string(data), nil
}
