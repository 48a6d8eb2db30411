package sources

import (
	"path/filepath"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"
)

type FileType string

func (f FileType) String() string {
	return string(f)
}

const (
	FileTypeYAML FileType = "yaml"
	FileTypeTOML FileType = "toml"
	FileTypeJSON FileType = "json"
)

func (f FileType) Valid() error {
	switch f {
	case FileTypeJSON, FileTypeYAML, FileTypeTOML:
		return nil
	default:
		return errors.New("invalid file type", errors.CategoryValidation).
			WithTextCode("INVALID_FILE_TYPE").
			WithMetadata(map[string]any{
				"file_type": string(f),
				"valid_types": []string{
					string(FileTypeJSON),
					string(FileTypeYAML),
					string(FileTypeTOML),
				},
			})
	}
}

// Parser returns the koanf parser for f, or nil for an unknown type.
func (f FileType) Parser() koanf.Parser {
	switch f {
	case FileTypeJSON:
		return json.Parser()
	case FileTypeTOML:
		return toml.Parser()
	case FileTypeYAML:
		return yaml.Parser()
	default:
		return nil
	}
}

// FileTypeOf infers the file type from the extension of path, defaulting to JSON.
func FileTypeOf(path string) FileType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FileTypeTOML
	case ".yaml", ".yml":
		return FileTypeYAML
	default:
		return FileTypeJSON
	}
}
