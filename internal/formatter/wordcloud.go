package formatter

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/desertthunder/txa/internal/charts"
	"github.com/desertthunder/txa/internal/shared"
)

// DecodeWordCloud decodes a base64 PNG payload and checks that it is a PNG.
//
// A "data:image/png;base64," prefix is tolerated.
func DecodeWordCloud(payload string) ([]byte, image.Config, error) {
	payload = strings.TrimPrefix(strings.TrimSpace(payload), "data:image/png;base64,")
	if payload == "" {
		return nil, image.Config{}, fmt.Errorf("%w: empty word cloud", shared.ErrInvalidInput)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, image.Config{}, fmt.Errorf("%w: word cloud is not base64: %v", shared.ErrInvalidInput, err)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, image.Config{}, fmt.Errorf("%w: word cloud is not a PNG: %v", shared.ErrInvalidInput, err)
	}

	return data, cfg, nil
}

// WordCloudFilename is the file a cell is exported to.
func WordCloudFilename(cell charts.Cell) string {
	return fmt.Sprintf("wordcloud_%d.png", cell.Position)
}

// WriteWordCloud decodes the cell's image and writes it to path.
func WriteWordCloud(cell charts.Cell, path string) error {
	if !cell.Available() {
		return fmt.Errorf("%w: %s has no word cloud", shared.ErrInvalidInput, cell.Label())
	}

	data, _, err := DecodeWordCloud(cell.Image)
	if err != nil {
		return fmt.Errorf("%s: %w", cell.Label(), err)
	}
	return writeFile(path, data)
}
