package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TranslationEntry is one string of a translation file. An empty Text
// keeps the source string.
type TranslationEntry struct {
	ID     int    `yaml:"id"`
	Source string `yaml:"source,omitempty"`
	Text   string `yaml:"text"`
}

// TranslationFile is the YAML document operators edit.
type TranslationFile struct {
	Script  string             `yaml:"script"`
	Strings []TranslationEntry `yaml:"strings"`
}

func LoadTranslation(path string) (*TranslationFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tf TranslationFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &tf, nil
}

// DumpTranslation builds the editable skeleton for a parsed script:
// sources filled in, translations empty.
func DumpTranslation(sc *Script) *TranslationFile {
	tf := &TranslationFile{Script: sc.Name}
	for i, s := range sc.Strings {
		tf.Strings = append(tf.Strings, TranslationEntry{ID: i, Source: s})
	}
	return tf
}

// Translate rewrites one script's strings from a translation file and
// re-lays-out every dialog window the new text lands in. The returned
// warnings are informational; only structural problems (bad container,
// string count mismatch, path explosion) abort.
func Translate(data []byte, tr *TranslationFile, codec StringCodec, m Measurer) ([]byte, []Warning, error) {
	sc, err := ParseScript(data, codec)
	if err != nil {
		return nil, nil, err
	}
	if len(tr.Strings) != len(sc.Strings) {
		return nil, nil, fmt.Errorf("script %s declares %d strings, translation supplies %d",
			sc.Name, len(sc.Strings), len(tr.Strings))
	}

	texts := append([]string{}, sc.Strings...)
	for _, e := range tr.Strings {
		if e.ID < 0 || e.ID >= len(texts) {
			return nil, nil, fmt.Errorf("translation id %d out of range (script has %d strings)", e.ID, len(texts))
		}
		if e.Text != "" {
			texts[e.ID] = e.Text
		}
	}
	sc.Strings = texts

	lookup := func(id int) string {
		if id < 0 || id >= len(texts) {
			return ""
		}
		return texts[id]
	}

	a := NewAnalysis(sc.Name, sc.Code)
	if sc.Kind == KindMap {
		a.AnalyzeLinear()
	} else {
		if err := a.AnalyzePaths(NewEnumerator(), 0, sc.EntryAddrs()); err != nil {
			return nil, nil, err
		}
	}
	a.Layout(lookup, m)
	a.ValidateChoices(lookup)
	a.CheckMapNames(lookup)

	out, err := sc.Build(codec)
	if err != nil {
		return nil, nil, err
	}
	return out, a.Warnings(), nil
}
