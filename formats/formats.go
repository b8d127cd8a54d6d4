// Package formats registers every built-in codec with the molt
// registry in one call. It exists so the root package never has to
// import the codec packages itself.
package formats

import (
	"github.com/moltdata/molt"
	"github.com/moltdata/molt/csv"
	"github.com/moltdata/molt/ini"
	"github.com/moltdata/molt/json"
	"github.com/moltdata/molt/pack"
	"github.com/moltdata/molt/tabular"
	"github.com/moltdata/molt/toml"
	"github.com/moltdata/molt/xml"
	"github.com/moltdata/molt/yaml"
)

// All returns one codec instance per built-in format.
func All() map[molt.Format]molt.Codec {
	return map[molt.Format]molt.Codec{
		molt.FormatJSON:    json.NewLenient(),
		molt.FormatYAML:    yaml.New(),
		molt.FormatTOML:    toml.New(),
		molt.FormatINI:     ini.New(),
		molt.FormatXML:     xml.New(),
		molt.FormatCSV:     csv.New(),
		molt.FormatTabular: tabular.New(),
		molt.FormatPack:    pack.New(),
	}
}

// RegisterAll registers every built-in codec.
func RegisterAll() {
	for f, c := range All() {
		molt.Register(f, c)
	}
}
