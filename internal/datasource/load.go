package datasource

import (
	"github.com/baloola/naucse/pkg/loader"
)

// Load detects the content source at path and loads everything from it.
func Load(path string, opts loader.Options) (*loader.Root, error) {
	source, err := Detect(path)
	if err != nil {
		return nil, err
	}

	switch source.Type {
	case SourceTypeBundle:
		reader, err := OpenBundle(source)
		if err != nil {
			return nil, err
		}
		defer reader.Close()
		return reader.LoadRoot()
	default:
		return loader.LoadRoot(source.Path, opts)
	}
}
