package data

import "sync"

// Coordinates is a WGS84 position, optionally with the bounds of an overlay.
type Coordinates struct {
	Lat    float64 `json:"lat" yaml:"lat"`
	Lng    float64 `json:"lng" yaml:"lng"`
	Bounds *Bounds `json:"bounds,omitempty" yaml:"bounds,omitempty"`
}

type Bounds struct {
	North float64 `json:"north" yaml:"north"`
	South float64 `json:"south" yaml:"south"`
	East  float64 `json:"east" yaml:"east"`
	West  float64 `json:"west" yaml:"west"`
}

// ScenePosition places a site in the terrain viewer's local frame.
type ScenePosition struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

type MiningSite struct {
	Name        string         `json:"name" yaml:"name"`
	Position    *ScenePosition `json:"position,omitempty" yaml:"position,omitempty"`
	Coordinates Coordinates    `json:"coordinates" yaml:"coordinates"`
	Depth       int            `json:"depth" yaml:"depth"`
	Shafts      int            `json:"shafts,omitempty" yaml:"shafts,omitempty"`
	Established int            `json:"established" yaml:"established"`
	Production  string         `json:"production" yaml:"production"`
	Status      string         `json:"status" yaml:"status"`
	Type        string         `json:"type,omitempty" yaml:"type,omitempty"`
	Formation   string         `json:"formation,omitempty" yaml:"formation,omitempty"`
}

type FormationLocation struct {
	Lat   float64 `json:"lat" yaml:"lat"`
	Lng   float64 `json:"lng" yaml:"lng"`
	Depth int     `json:"depth" yaml:"depth"`
}

type Formation struct {
	Age             string              `json:"age" yaml:"age"`
	Composition     string              `json:"composition" yaml:"composition"`
	GoldPotential   string              `json:"goldPotential" yaml:"goldPotential"`
	DepthRange      string              `json:"depthRange" yaml:"depthRange"`
	Characteristics string              `json:"characteristics" yaml:"characteristics"`
	Locations       []FormationLocation `json:"locations" yaml:"locations"`
}

type Fault struct {
	Name         string `json:"name" yaml:"name"`
	Strike       string `json:"strike" yaml:"strike"`
	Length       string `json:"length" yaml:"length"`
	Displacement string `json:"displacement" yaml:"displacement"`
}

// Fold is an anticline or syncline.
type Fold struct {
	Name       string `json:"name" yaml:"name"`
	Axis       string `json:"axis" yaml:"axis"`
	Wavelength string `json:"wavelength" yaml:"wavelength"`
}

type Structures struct {
	Faults     []Fault `json:"faults" yaml:"faults"`
	Anticlines []Fold  `json:"anticlines" yaml:"anticlines"`
	Synclines  []Fold  `json:"synclines" yaml:"synclines"`
}

type DrillInterval struct {
	From  int    `json:"from" yaml:"from"`
	To    int    `json:"to" yaml:"to"`
	Grade string `json:"grade" yaml:"grade"`
	Width string `json:"width" yaml:"width"`
}

type DrillHole struct {
	ID                   string          `json:"id" yaml:"id"`
	Coordinates          Coordinates     `json:"coordinates" yaml:"coordinates"`
	Depth                int             `json:"depth" yaml:"depth"`
	DateDrilled          string          `json:"dateDrilled" yaml:"dateDrilled"`
	SignificantIntervals []DrillInterval `json:"significantIntervals" yaml:"significantIntervals"`
}

// Texture is a map overlay draped over the terrain.
type Texture struct {
	Name        string      `json:"name" yaml:"name"`
	Path        string      `json:"path" yaml:"path"`
	Type        string      `json:"type" yaml:"type"`
	Opacity     float64     `json:"opacity" yaml:"opacity"`
	Transparent bool        `json:"transparent" yaml:"transparent"`
	Coordinates Coordinates `json:"coordinates" yaml:"coordinates"`
}

// RockUnit describes a formation in the elevation metadata.
type RockUnit struct {
	Period      string `json:"period,omitempty" yaml:"period,omitempty"`
	RockType    string `json:"rockType,omitempty" yaml:"rockType,omitempty"`
	GoldBearing bool   `json:"goldBearing,omitempty" yaml:"goldBearing,omitempty"`
	DepthRange  []int  `json:"depthRange,omitempty" yaml:"depthRange,omitempty"`
	Composition string `json:"composition,omitempty" yaml:"composition,omitempty"`
	Orientation string `json:"orientation,omitempty" yaml:"orientation,omitempty"`
	Dip         string `json:"dip,omitempty" yaml:"dip,omitempty"`
}

// ElevationMetadata accompanies a generated height field.
type ElevationMetadata struct {
	Width          int                 `json:"width" yaml:"width"`
	Height         int                 `json:"height" yaml:"height"`
	Segments       int                 `json:"segments" yaml:"segments"`
	BaseElevation  float64             `json:"baseElevation" yaml:"baseElevation"`
	ElevationRange []float64           `json:"elevationRange" yaml:"elevationRange"`
	Formations     map[string]RockUnit `json:"geologicalFormations" yaml:"formations"`
	Landmarks      map[string]int      `json:"landmarkElevations" yaml:"landmarks"`
}

// LayerMaterial is the render material of a DXF layer.
type LayerMaterial struct {
	Color     string  `json:"color" yaml:"color"`
	Opacity   float64 `json:"opacity" yaml:"opacity"`
	Roughness float64 `json:"roughness" yaml:"roughness"`
	Metalness float64 `json:"metalness" yaml:"metalness"`
}

type DXFFallback struct {
	Layers     int      `json:"layers" yaml:"layers"`
	Entities   int      `json:"entities" yaml:"entities"`
	LayerNames []string `json:"layerNames" yaml:"layerNames"`
}

type DXFReference struct {
	LayerMaterials map[string]LayerMaterial `yaml:"layerMaterials"`
	Fallback       DXFFallback              `yaml:"fallback"`
}

// Geology is the Bendigo goldfield reference dataset.
type Geology struct {
	Region                    string               `yaml:"region"`
	GeologicalFormation       string               `yaml:"geologicalFormation"`
	TotalHistoricalProduction string               `yaml:"totalHistoricalProduction"`
	HeritageSites             []MiningSite         `yaml:"heritageSites"`
	Workings                  []MiningSite         `yaml:"workings"`
	Formations                map[string]Formation `yaml:"formations"`
	Structures                Structures           `yaml:"structures"`
	DrillHoles                []DrillHole          `yaml:"drillHoles"`
	Textures                  []Texture            `yaml:"textures"`
	Elevation                 ElevationMetadata    `yaml:"elevation"`
	DXF                       DXFReference         `yaml:"dxf"`
}

var (
	geologyOnce sync.Once
	geology     Geology
	geologyErr  error
)

// LoadGeology returns the parsed geology dataset. The value is shared and
// must be treated as read-only.
func LoadGeology() (*Geology, error) {
	geologyOnce.Do(func() {
		geologyErr = decode("geology.yaml", &geology)
	})
	if geologyErr != nil {
		return nil, geologyErr
	}
	return &geology, nil
}
