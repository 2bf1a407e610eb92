package scene

import (
	"errors"
	"fmt"
	"time"

	assetscene "github.com/YitongTseo/WaterSimulationAndRendering/asset/scene"
	"github.com/YitongTseo/WaterSimulationAndRendering/log"
)

var (
	ErrNoSceneDescription = errors.New("scene: no scene description")
)

// A posed snapshot of the scene ready for rendering.
type Scene struct {
	Surfaces []Surface
	Lights   []Light
	Sky      Sky
	Camera   *Camera
}

// Convert a scene description into posed surfaces, lights and a camera.
// Foam particles become spheres, each with its own foam material.
func Compile(desc *assetscene.Scene) (*Scene, error) {
	if desc == nil {
		return nil, ErrNoSceneDescription
	}

	logger := log.New("scene compiler")
	start := time.Now()

	materials := make([]*Material, len(desc.Materials))
	for index, mat := range desc.Materials {
		materials[index] = compileMaterial(mat)
	}
	materialAt := func(index int) (*Material, error) {
		if index < 0 || index >= len(materials) {
			return nil, fmt.Errorf("scene: material index %d out of range [0, %d)", index, len(materials))
		}
		return materials[index], nil
	}

	sc := &Scene{
		Surfaces: make([]Surface, 0, desc.PrimitiveCount()+len(desc.Spheres)+len(desc.Foam)),
		Lights:   make([]Light, 0, len(desc.Lights)),
	}

	for _, mesh := range desc.Meshes {
		for _, prim := range mesh.Primitives {
			mat, err := materialAt(prim.MaterialIndex)
			if err != nil {
				return nil, err
			}
			sc.Surfaces = append(sc.Surfaces, NewTriangle(prim.Vertices, prim.Normals, mat))
		}
	}

	for _, sphere := range desc.Spheres {
		mat, err := materialAt(sphere.MaterialIndex)
		if err != nil {
			return nil, err
		}
		sc.Surfaces = append(sc.Surfaces, NewSphere(sphere.Center, sphere.Radius, mat))
	}

	for _, particle := range desc.Foam {
		sc.Surfaces = append(sc.Surfaces, NewSphere(particle.Position, particle.Radius, FoamMaterial(particle.Age, particle.Radius)))
	}

	for _, light := range desc.Lights {
		switch light.Type {
		case assetscene.PointLight:
			sc.Lights = append(sc.Lights, NewPointLight(light.Position, light.Power))
		case assetscene.SpotLight:
			sc.Lights = append(sc.Lights, NewSpotLight(light.Position, light.Target, light.Power, light.Angle))
		default:
			return nil, fmt.Errorf("scene: unsupported light type %d", light.Type)
		}
	}

	sc.Sky = compileSky(desc.Sky)
	sc.Camera = compileCamera(desc.Camera)

	logger.Infof(
		"compiled scene in %d ms; surfaces: %d, lights: %d",
		time.Since(start).Nanoseconds()/1e6, len(sc.Surfaces), len(sc.Lights),
	)
	return sc, nil
}

func compileMaterial(desc *assetscene.Material) *Material {
	var mat *Material
	switch desc.Preset {
	case assetscene.WaterPreset:
		mat = WaterMaterial()
	default:
		mat = &Material{
			Lambertian:   desc.Lambertian,
			Glossy:       desc.Glossy,
			Transmissive: desc.Transmissive,
			Emissive:     desc.Emissive,
			EtaPos:       1.0,
			EtaNeg:       1.0,
			KappaPos:     desc.KappaPos,
			KappaNeg:     desc.KappaNeg,
			TwoSided:     desc.TwoSided,
		}
	}
	mat.Name = desc.Name

	// Explicit values override the preset defaults
	if desc.Preset != assetscene.NoPreset {
		if !desc.Transmissive.IsZero() {
			mat.Transmissive = desc.Transmissive
		}
		if !desc.Glossy.IsZero() {
			mat.Glossy = desc.Glossy
		}
		if !desc.KappaNeg.IsZero() {
			mat.KappaNeg = desc.KappaNeg
		}
	}
	if desc.IOR > 0 {
		mat.EtaNeg = desc.IOR
	}
	return mat
}

func compileSky(desc *assetscene.Sky) Sky {
	if desc == nil {
		return UniformSky{}
	}
	switch desc.Type {
	case assetscene.UniformSky:
		return UniformSky{Color: desc.Zenith}
	default:
		return GradientSky{Horizon: desc.Horizon, Zenith: desc.Zenith}
	}
}

func compileCamera(desc *assetscene.Camera) *Camera {
	if desc == nil {
		return NewCamera(45)
	}
	camera := NewCamera(desc.FOV)
	camera.Position = desc.Eye
	camera.LookAt = desc.Look
	camera.Up = desc.Up
	return camera
}
