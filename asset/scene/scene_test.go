package scene

import (
	"strings"
	"testing"

	"github.com/YitongTseo/WaterSimulationAndRendering/types"
)

func TestSceneBBox(t *testing.T) {
	sc := NewScene()

	mesh := NewMesh("floor")
	mesh.Primitives = append(mesh.Primitives, &Primitive{
		Vertices: [3]types.Vec3{{-1, 0, -1}, {1, 0, -1}, {1, 0, 1}},
	})
	sc.Meshes = append(sc.Meshes, mesh)
	sc.Spheres = append(sc.Spheres, &Sphere{Center: types.Vec3{0, 2, 0}, Radius: 0.5})
	sc.Foam = append(sc.Foam, &FoamParticle{Position: types.Vec3{3, 0, 0}, Radius: 0.1})

	bbox := sc.BBox()
	expMin := types.Vec3{-1, -0.1, -1}
	expMax := types.Vec3{3.1, 2.5, 1}
	if !types.ApproxEqual(bbox[0], expMin, 1e-5) || !types.ApproxEqual(bbox[1], expMax, 1e-5) {
		t.Fatalf("expected scene bbox to be [%v %v]; got %v", expMin, expMax, bbox)
	}

	if sc.PrimitiveCount() != 1 {
		t.Fatalf("expected primitive count to be 1; got %d", sc.PrimitiveCount())
	}
}

func TestSceneStats(t *testing.T) {
	sc := NewScene()
	sc.Materials = append(sc.Materials, &Material{Name: "water", Used: true}, &Material{Name: "tiles"})
	sc.Lights = append(sc.Lights,
		&Light{Type: PointLight},
		&Light{Type: SpotLight, Angle: 30},
		&Light{Type: SpotLight, Angle: 45},
	)

	stats := sc.Stats()
	type spec struct {
		row    string
		expCol string
	}
	specs := []spec{
		{"spot lights", "2"},
		{"point lights", "1"},
		{"Materials", "1/2 used"},
		{"Total", "bytes"},
	}

	lines := strings.Split(stats, "\n")
	for index, s := range specs {
		found := false
		for _, line := range lines {
			if strings.Contains(line, s.row) && strings.Contains(line, s.expCol) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("[spec %d] expected a %q row containing %q; got\n%s", index, s.row, s.expCol, stats)
		}
	}
}

func TestLightTypeString(t *testing.T) {
	defer func() {
		if err := recover(); err == nil {
			t.Fatal("expected String() to panic for an unknown light type")
		}
	}()

	if PointLight.String() != "point" || SpotLight.String() != "spot" {
		t.Fatal("unexpected light type names")
	}
	_ = LightType(99).String()
}
