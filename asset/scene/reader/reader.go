package reader

import (
	"fmt"

	"github.com/YitongTseo/WaterSimulationAndRendering/asset"
	"github.com/YitongTseo/WaterSimulationAndRendering/asset/scene"
)

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read scene definition from a resource.
	Read(*asset.Resource) (*scene.Scene, error)
}

// Read a scene from a local path or http(s) URL.
func ReadScene(location string) (*scene.Scene, error) {
	res, err := asset.NewResource(location, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	var reader Reader
	switch res.Ext() {
	case ".obj":
		reader = newWavefrontReader()
	default:
		return nil, fmt.Errorf("readScene: unsupported file format %q", res.Ext())
	}
	return reader.Read(res)
}
