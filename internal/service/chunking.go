package service

import (
	"strings"

	"github.com/vidhi-labs/vidhiai/internal/domain"
)

// ChunkConfig controls how extracted text is split for embedding.
type ChunkConfig struct {
	Size     int
	Overlap  int
	MinChars int
}

// DefaultChunkConfig provides the standard chunking parameters.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		Size:     1000,
		Overlap:  200,
		MinChars: 100,
	}
}

// ChunkText splits text into overlapping fixed-size segments. The window
// advances by Size-Overlap each step, so consecutive chunks share Overlap
// characters. Chunks shorter than MinChars after trimming are discarded.
// The result is deterministic for a given input and config.
func ChunkText(text string, cfg ChunkConfig) ([]string, error) {
	if cfg.Size <= 0 {
		cfg = DefaultChunkConfig()
	}
	if cfg.MinChars <= 0 {
		cfg.MinChars = DefaultChunkConfig().MinChars
	}
	if cfg.Overlap >= cfg.Size {
		return nil, domain.ErrInvalidChunkConfig
	}
	if cfg.Overlap < 0 {
		cfg.Overlap = 0
	}

	clean := strings.TrimSpace(text)
	if clean == "" {
		return nil, nil
	}

	runes := []rune(clean)
	stride := cfg.Size - cfg.Overlap

	chunks := make([]string, 0, (len(runes)+stride-1)/stride)
	for start := 0; start < len(runes); start += stride {
		end := start + cfg.Size
		if end > len(runes) {
			end = len(runes)
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if len([]rune(chunk)) >= cfg.MinChars {
			chunks = append(chunks, chunk)
		}

		if end >= len(runes) {
			break
		}
	}

	return chunks, nil
}
