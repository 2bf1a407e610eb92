package scene

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/YitongTseo/WaterSimulationAndRendering/asset"
	"github.com/YitongTseo/WaterSimulationAndRendering/types"
	"github.com/olekukonko/tablewriter"
)

// Material presets that can be referenced from mtl files.
type Preset uint8

const (
	NoPreset Preset = iota
	WaterPreset
)

// Surface parameters as declared in a material library.
type Material struct {
	Name string

	Preset Preset

	Lambertian   types.Vec3
	Glossy       types.Vec3
	Transmissive types.Vec3
	Emissive     types.Vec3
	IOR          float32
	KappaPos     types.Vec3
	KappaNeg     types.Vec3
	TwoSided     bool

	// The resource the material was loaded from.
	AssetRelPath *asset.Resource

	// True if the material is referenced by scene geometry.
	Used bool
}

// A triangle primitive.
type Primitive struct {
	Vertices      [3]types.Vec3
	Normals       [3]types.Vec3
	MaterialIndex int
}

// Get the primitive AABB.
func (prim *Primitive) BBox() [2]types.Vec3 {
	bbox := [2]types.Vec3{prim.Vertices[0], prim.Vertices[0]}
	for _, v := range prim.Vertices[1:] {
		bbox[0] = types.MinVec3(bbox[0], v)
		bbox[1] = types.MaxVec3(bbox[1], v)
	}
	return bbox
}

// A named group of primitives.
type Mesh struct {
	Name       string
	Primitives []*Primitive
}

func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:       name,
		Primitives: make([]*Primitive, 0),
	}
}

// Get mesh bounding box.
func (m *Mesh) BBox() [2]types.Vec3 {
	bbox := emptyBBox()
	for _, prim := range m.Primitives {
		primBBox := prim.BBox()
		bbox[0] = types.MinVec3(bbox[0], primBBox[0])
		bbox[1] = types.MaxVec3(bbox[1], primBBox[1])
	}
	return bbox
}

// An analytic sphere.
type Sphere struct {
	Center        types.Vec3
	Radius        float32
	MaterialIndex int
}

// A foam particle. Each particle gets its own material encoding its age
// and radius.
type FoamParticle struct {
	Position types.Vec3
	Age      float32
	Radius   float32
}

type LightType uint8

const (
	PointLight LightType = iota
	SpotLight
)

func (lt LightType) String() string {
	switch lt {
	case PointLight:
		return "point"
	case SpotLight:
		return "spot"
	}
	panic(fmt.Sprintf("unsupported light type %d", lt))
}

type Light struct {
	Type     LightType
	Position types.Vec3
	Power    types.Vec3

	// Spot lights only.
	Target types.Vec3
	Angle  float32
}

type SkyType uint8

const (
	UniformSky SkyType = iota
	GradientSky
)

type Sky struct {
	Type    SkyType
	Horizon types.Vec3
	Zenith  types.Vec3
}

// Camera settings.
type Camera struct {
	FOV  float32
	Eye  types.Vec3
	Look types.Vec3
	Up   types.Vec3
}

// A scene as described by its source files, before any acceleration
// structures are built.
type Scene struct {
	Meshes    []*Mesh
	Spheres   []*Sphere
	Foam      []*FoamParticle
	Materials []*Material
	Lights    []*Light
	Sky       *Sky
	Camera    *Camera
}

func NewScene() *Scene {
	return &Scene{
		Meshes:    make([]*Mesh, 0),
		Spheres:   make([]*Sphere, 0),
		Foam:      make([]*FoamParticle, 0),
		Materials: make([]*Material, 0),
		Lights:    make([]*Light, 0),
		Sky: &Sky{
			Type:    GradientSky,
			Horizon: types.Vec3{1, 1, 1},
			Zenith:  types.Vec3{0.5, 0.7, 1.0},
		},
		Camera: &Camera{
			FOV:  45.0,
			Eye:  types.Vec3{0, 0, 0},
			Look: types.Vec3{0, 0, -1},
			Up:   types.Vec3{0, 1, 0},
		},
	}
}

// Count the triangles across all meshes.
func (sc *Scene) PrimitiveCount() int {
	count := 0
	for _, mesh := range sc.Meshes {
		count += len(mesh.Primitives)
	}
	return count
}

// Calculate the scene bounding box over meshes, spheres and foam.
func (sc *Scene) BBox() [2]types.Vec3 {
	bbox := emptyBBox()
	for _, mesh := range sc.Meshes {
		meshBBox := mesh.BBox()
		bbox[0] = types.MinVec3(bbox[0], meshBBox[0])
		bbox[1] = types.MaxVec3(bbox[1], meshBBox[1])
	}
	for _, s := range sc.Spheres {
		r := types.Splat3(s.Radius)
		bbox[0] = types.MinVec3(bbox[0], s.Center.Sub(r))
		bbox[1] = types.MaxVec3(bbox[1], s.Center.Add(r))
	}
	for _, f := range sc.Foam {
		r := types.Splat3(f.Radius)
		bbox[0] = types.MinVec3(bbox[0], f.Position.Sub(r))
		bbox[1] = types.MaxVec3(bbox[1], f.Position.Add(r))
	}
	return bbox
}

// Build a tabular representation of scene statistics.
func (sc *Scene) Stats() string {
	primitives := make([]Primitive, 0, sc.PrimitiveCount())
	for _, mesh := range sc.Meshes {
		for _, prim := range mesh.Primitives {
			primitives = append(primitives, *prim)
		}
	}

	usedMaterials := 0
	for _, mat := range sc.Materials {
		if mat.Used {
			usedMaterials++
		}
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Asset Type", "Asset", "Count", "Size"})
	table.Append([]string{"Geometry", "---", " ", fmtSize(primitives, sc.Spheres, sc.Foam)})
	table.Append([]string{"", "Meshes", fmt.Sprint(len(sc.Meshes)), " "})
	table.Append([]string{"", "Triangles", fmt.Sprint(len(primitives)), fmtSize(primitives)})
	table.Append([]string{"", "Spheres", fmt.Sprint(len(sc.Spheres)), fmtSize(sc.Spheres)})
	table.Append([]string{"", "Foam particles", fmt.Sprint(len(sc.Foam)), fmtSize(sc.Foam)})
	table.Append([]string{" ", " ", " ", " "})
	table.Append([]string{"Lighting", "---", " ", fmtSize(sc.Lights)})
	for _, lt := range []LightType{PointLight, SpotLight} {
		count := 0
		for _, l := range sc.Lights {
			if l.Type == lt {
				count++
			}
		}
		table.Append([]string{"", lt.String() + " lights", fmt.Sprint(count), " "})
	}
	table.Append([]string{" ", " ", " ", " "})
	table.Append([]string{"Materials", "---", fmt.Sprintf("%d/%d used", usedMaterials, len(sc.Materials)), fmtSize(sc.Materials)})
	table.SetFooter([]string{"Total", " ", " ", strings.TrimLeft(fmtSize(primitives, sc.Spheres, sc.Foam, sc.Lights, sc.Materials), " ")})

	table.Render()
	return buf.String()
}

// Sum the space used by the elements of a set of slices and format it
// using the appropriate byte/kb/mb unit.
func fmtSize(items ...interface{}) string {
	var totalBytes float32
	for _, item := range items {
		v := reflect.ValueOf(item)
		if v.Len() == 0 {
			continue
		}

		elem := v.Type().Elem()
		if elem.Kind() == reflect.Ptr {
			elem = elem.Elem()
		}
		totalBytes += float32(int(elem.Size()) * v.Len())
	}

	if totalBytes < 1e3 {
		return fmt.Sprintf("%3d bytes", int(totalBytes))
	} else if totalBytes < 1e6 {
		return fmt.Sprintf("%3.1f kb", totalBytes/1e3)
	}
	return fmt.Sprintf("%5.1f mb", totalBytes/1e6)
}

func emptyBBox() [2]types.Vec3 {
	return [2]types.Vec3{
		types.Splat3(math.MaxFloat32),
		types.Splat3(-math.MaxFloat32),
	}
}
