package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/abrplay/abrplay/filesystem"
)

// File is the on-disk description of one piece of content and its renditions.
type File struct {
	// Title shown by the player window.
	Title string `json:"title,omitempty" jsonschema:"description=Window title used by the player"`
	// Headers sent by the player with every media request.
	Headers map[string]string `json:"headers,omitempty" jsonschema:"description=HTTP headers forwarded to the player"`
	// Sources lists the renditions in any order.
	Sources []Raw `json:"sources" jsonschema:"required,minItems=1"`
}

// ErrNoSources is returned for catalog files that list no renditions.
var ErrNoSources = errors.New("catalog file lists no sources")

// Decode reads a catalog file. A bare JSON array of sources is accepted too.
func Decode(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	var file File
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &file.Sources); err != nil {
			return nil, fmt.Errorf("decode sources: %w", err)
		}
	} else if err := json.Unmarshal(trimmed, &file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	if len(file.Sources) == 0 {
		return nil, ErrNoSources
	}

	return &file, nil
}

// Open reads a catalog file through the application filesystem.
func Open(path string) (*File, error) {
	f, err := filesystem.API().Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}
