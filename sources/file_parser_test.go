package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTypeOf(t *testing.T) {
	tests := []struct {
		path     string
		expected FileType
	}{
		{"testdata/config.json", FileTypeJSON},
		{"testdata/config.yaml", FileTypeYAML},
		{"testdata/config.YML", FileTypeYAML},
		{"testdata/config.toml", FileTypeTOML},
		// unknown extensions fall back to JSON
		{"testdata/config.unknown", FileTypeJSON},
		{"config", FileTypeJSON},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, FileTypeOf(tt.path))
		})
	}
}

func TestFileTypeParser(t *testing.T) {
	tests := []struct {
		fileType FileType
		content  string
	}{
		{FileTypeJSON, `{"key":"jsonValue"}`},
		{FileTypeYAML, "key: yamlValue\n"},
		{FileTypeTOML, "key = \"tomlValue\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.fileType.String(), func(t *testing.T) {
			require.NoError(t, tt.fileType.Valid())

			parser := tt.fileType.Parser()
			require.NotNil(t, parser)

			data, err := parser.Unmarshal([]byte(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.fileType.String()+"Value", data["key"])
		})
	}

	assert.Nil(t, FileType("ini").Parser())
	assert.Error(t, FileType("ini").Valid())
}
