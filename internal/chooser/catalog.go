package chooser

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Entry is one button of the chooser.
type Entry struct {
	Key    string `mapstructure:"key"`
	Label  string `mapstructure:"label"`
	Credit string `mapstructure:"credit"`
}

// Catalog is the ordered list of backgrounds offered.
type Catalog []Entry

// Keys returns the selection keys in display order.
func (c Catalog) Keys() []string {
	keys := make([]string, 0, len(c))
	for _, e := range c {
		keys = append(keys, e.Key)
	}
	return keys
}

// Lookup finds the entry for key.
func (c Catalog) Lookup(key string) (Entry, bool) {
	for _, e := range c {
		if e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}

// DefaultCatalog lists the backgrounds bundled with the binary.
func DefaultCatalog() Catalog {
	return Catalog{
		{Key: "animasiBinary", Label: "Binary Animation", Credit: "https://codepen.io/fmattuschka/pen/bjZKNQ"},
		{Key: "jepangMatrix", Label: "Matrix Japanese", Credit: "https://codepen.io/AdrianBL/details/WNqpmMg"},
		{Key: "kotakPutar", Label: "Spinning Square", Credit: "still Not found, sorry"},
		{Key: "matrix", Label: "Matrix", Credit: "https://codepen.io/gnsp/pen/vYBQZJm"},
		{Key: "maze", Label: "Maze Solution", Credit: "https://codepen.io/infinitestack/details/MWMbJMb"},
		{Key: "orbit", Label: "Orbit", Credit: "https://codepen.io/megh-bari/pen/gOJeZXv"},
		{Key: "piramidEnergi", Label: "Energy Pyramid", Credit: "https://codepen.io/juan-antonio-ledesma/pen/bGOadXb"},
		{Key: "textJatuh", Label: "Falling Text"},
	}
}

// LoadCatalog reads a catalog file (YAML, TOML or JSON, by extension) of the form
//
//	backgrounds:
//	  - key: matrix
//	    label: Matrix
//	    credit: https://example.com
//
// An empty path returns DefaultCatalog.
func LoadCatalog(path string) (Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultCatalog(), nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	var file struct {
		Backgrounds []Entry `mapstructure:"backgrounds"`
	}
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return normalize(file.Backgrounds)
}

func normalize(entries []Entry) (Catalog, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog has no backgrounds")
	}
	seen := make(map[string]struct{}, len(entries))
	out := make(Catalog, 0, len(entries))
	for i, e := range entries {
		e.Key = strings.TrimSpace(e.Key)
		e.Label = strings.TrimSpace(e.Label)
		e.Credit = strings.TrimSpace(e.Credit)
		if e.Key == "" {
			return nil, fmt.Errorf("catalog entry %d has no key", i)
		}
		if _, dup := seen[e.Key]; dup {
			return nil, fmt.Errorf("catalog key %q listed twice", e.Key)
		}
		seen[e.Key] = struct{}{}
		if e.Label == "" {
			e.Label = e.Key
		}
		out = append(out, e)
	}
	return out, nil
}
