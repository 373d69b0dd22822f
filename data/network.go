// Package data holds the reference datasets compiled into the binary.
package data

import (
	"embed"
	"fmt"
	"sync"

	"aerogrow/models"
	"aerogrow/utils"

	"gopkg.in/yaml.v3"
)

//go:embed network.yaml geology.yaml
var files embed.FS

type networkFile struct {
	Grid    models.NetworkData `yaml:"grid"`
	Mindmap models.NetworkData `yaml:"mindmap"`
}

var (
	networkOnce sync.Once
	network     networkFile
	networkErr  error
)

func decode(name string, out interface{}) error {
	raw, err := files.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read embedded %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse embedded %s: %w", name, err)
	}
	return nil
}

// LoadNetworkBase returns the subsystem nodes and links of a layout.
// Anything other than mindmap selects the grid layout. The returned slices
// are copies and may be modified by the caller.
func LoadNetworkBase(layout string) (models.NetworkData, error) {
	networkOnce.Do(func() {
		networkErr = decode("network.yaml", &network)
	})
	if networkErr != nil {
		return models.NetworkData{}, networkErr
	}

	src := network.Grid
	if layout == utils.LayoutMindmap {
		src = network.Mindmap
	}
	return models.NetworkData{
		Nodes:       append([]models.NetworkNode(nil), src.Nodes...),
		Connections: append([]models.NetworkConnection(nil), src.Connections...),
	}, nil
}
