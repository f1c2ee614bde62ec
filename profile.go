package main

import (
	"fmt"

	"gopkg.in/ini.v1"

	"avgtool/gametext"
)

// loadProfile reads the per-game ini and returns the codec and glyph
// metrics the translate/dump commands use. An empty path means the
// built-in defaults (Shift-JIS, uniform 12px glyphs).
func loadProfile(path string) (*gametext.Codec, *gametext.Metrics, error) {
	codepage := ""
	metrics := gametext.DefaultMetrics()

	if path != "" {
		cfg, err := ini.Load(path)
		if err != nil {
			return nil, nil, fmt.Errorf("load profile: %w", err)
		}
		text := cfg.Section("text")
		codepage = text.Key("codepage").String()

		font := cfg.Section("font")
		if widths := font.Key("metrics").String(); widths != "" {
			metrics, err = gametext.LoadMetrics(widths)
			if err != nil {
				return nil, nil, fmt.Errorf("load metrics: %w", err)
			}
		}
		metrics.LineHeight = font.Key("line_height").MustInt(metrics.LineHeight)
		metrics.Default = font.Key("default_width").MustInt(metrics.Default)
	}

	codec, err := gametext.NewCodec(codepage)
	if err != nil {
		return nil, nil, err
	}
	return codec, metrics, nil
}
