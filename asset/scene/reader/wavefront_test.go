package reader

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/YitongTseo/WaterSimulationAndRendering/asset"
	"github.com/YitongTseo/WaterSimulationAndRendering/asset/scene"
	"github.com/YitongTseo/WaterSimulationAndRendering/types"
)

func TestFloat32Parser(t *testing.T) {
	expError := `unsupported syntax for "Ni"; expected 1 argument; got 0`
	_, err := parseFloat32([]string{"Ni"})
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get %s; got %v", expError, err)
	}

	_, err = parseFloat32([]string{"Ni", "not-a-float"})
	if err == nil {
		t.Fatal("expected to get a parse error")
	}

	v, err := parseFloat32([]string{"Ni", "1.33"})
	if err != nil {
		t.Fatal(err)
	}
	if v != 1.33 {
		t.Fatalf("expected parsed value to be 1.33; got %f", v)
	}
}

func TestVec3Parser(t *testing.T) {
	expError := `unsupported syntax for "v"; expected 3 arguments; got 0`
	_, err := parseVec3([]string{"v"})
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get %s; got %v", expError, err)
	}

	_, err = parseVec3([]string{"v", "not-a-float", "2", "3"})
	if err == nil {
		t.Fatal("expected to get a parse error")
	}

	v, err := parseVec3([]string{"v", "3.14", "0", "0.4"})
	if err != nil {
		t.Fatal(err)
	}

	expVal := types.Vec3{3.14, 0, 0.4}
	if !reflect.DeepEqual(v, expVal) {
		t.Fatalf("expected parsed value to be %v; got %v", expVal, v)
	}
}

func TestFloatsParser(t *testing.T) {
	expError := `unsupported syntax for "sphere"; expected 4 arguments; got 3`
	_, err := parseFloats([]string{"sphere", "0", "0", "0"}, 4)
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get %s; got %v", expError, err)
	}

	v, err := parseFloats([]string{"sphere", "0", "1", "2", "0.5"}, 4)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(v, []float32{0, 1, 2, 0.5}) {
		t.Fatalf("expected parsed values to be [0 1 2 0.5]; got %v", v)
	}
}

func TestSelectFaceCoordinate(t *testing.T) {
	expError := "index out of bounds"
	type spec struct {
		in        string
		listLen   int
		relOffset int
		out       int
		expError  string
	}
	specs := []spec{
		{"2", 1, 0, -1, expError},
		{"-2", 1, 0, -1, expError},
		{"1", 10, 0, 0, ""}, // indices are 1-based
		{"-1", 10, 0, 9, ""},
		{"1", 10, 4, 4, ""},
	}

	for idx, s := range specs {
		v, err := selectFaceCoordIndex(s.in, s.listLen, s.relOffset)
		if s.expError != "" {
			if err == nil || err.Error() != s.expError {
				t.Fatalf("[spec %d] expected error %s; got %v", idx, s.expError, err)
			}
			continue
		}
		if v != s.out {
			t.Fatalf("[spec %d] expected index to be %d; got %d", idx, s.out, v)
		}
	}
}

func TestParseSingleFacedObject(t *testing.T) {
	payload := `
o testObj
v 0 0 0
v 1 0 0
v 0 1 0
vn 1 0 0
vt 0 0
vn 0 1 0
vt 0 1
vn 0 1 0
vt 1 0
vn 0 0 1
# Comment
f 1/1/1 2/2/2 -1/-1/-1
`

	r := newWavefrontReader()
	if err := r.parse(mockResource(payload)); err != nil {
		t.Fatal(err)
	}

	if len(r.sceneDesc.Meshes) != 1 {
		t.Fatalf("expected 1 mesh to be parsed; got %d", len(r.sceneDesc.Meshes))
	}

	mesh0 := r.sceneDesc.Meshes[0]
	if mesh0.Name != "testObj" {
		t.Fatalf("expected mesh[0] name to be 'testObj'; got %s", mesh0.Name)
	}
	if len(mesh0.Primitives) != 1 {
		t.Fatalf("expected mesh[0] to contain 1 primitive; got %d", len(mesh0.Primitives))
	}
	if len(r.sceneDesc.Materials) != 1 || !r.sceneDesc.Materials[0].Used {
		t.Fatalf("expected a single used default material; got %d materials", len(r.sceneDesc.Materials))
	}

	expPoints := [3]types.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	expNormals := [3]types.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	prim0 := mesh0.Primitives[0]
	if prim0.Vertices != expPoints {
		t.Fatalf("expected vertices to be %v; got %v", expPoints, prim0.Vertices)
	}
	if prim0.Normals != expNormals {
		t.Fatalf("expected normals to be %v; got %v", expNormals, prim0.Normals)
	}

	bbox := prim0.BBox()
	if bbox[0] != (types.Vec3{0, 0, 0}) || bbox[1] != (types.Vec3{1, 1, 0}) {
		t.Fatalf("expected bbox to be [(0,0,0) (1,1,0)]; got %v", bbox)
	}
}

func TestParseQuadWithGeneratedNormals(t *testing.T) {
	payload := `
v -1 0 -1
v -1 0 1
v 1 0 1
v 1 0 -1
f 1 2 3 4
`

	r := newWavefrontReader()
	if err := r.parse(mockResource(payload)); err != nil {
		t.Fatal(err)
	}

	if len(r.sceneDesc.Meshes) != 1 || r.sceneDesc.Meshes[0].Name != "default" {
		t.Fatal("expected faces without an object to be added to a default mesh")
	}

	prims := r.sceneDesc.Meshes[0].Primitives
	if len(prims) != 2 {
		t.Fatalf("expected quad to be split into 2 triangles; got %d", len(prims))
	}
	for idx, prim := range prims {
		for _, n := range prim.Normals {
			if !types.ApproxEqual(n, types.Vec3{0, 1, 0}, 1e-5) {
				t.Fatalf("[prim %d] expected generated normal to point up; got %v", idx, n)
			}
		}
	}
}

func TestFaceErrors(t *testing.T) {
	type spec struct {
		payload  string
		expError string
	}
	specs := []spec{
		{"v 0 0 0\nf 1 2", `[test.obj: 2] error: unsupported syntax for "f"; expected 3 arguments for triangular face or 4 arguments for a quad face; got 2. Select the triangulation option in your exporter`},
		{"v 0 0 0\nf 1 2 3", `[test.obj: 2] error: could not parse vertex coord for face argument 1: index out of bounds`},
		{"v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2/2 3", `[test.obj: 4] error: expected each face argument to contain 1 indices; arg 1 contains 2 indices`},
		{"usemtl foo", `[test.obj: 1] error: undefined material with name "foo"`},
		{"sphere 0 0 0 -1", `[test.obj: 1] error: sphere radius must be positive; got -1.000000`},
	}

	for idx, s := range specs {
		err := newWavefrontReader().parse(asset.NewResourceFromStream("test.obj", strings.NewReader(s.payload)))
		if err == nil || err.Error() != s.expError {
			t.Fatalf("[spec %d] expected error %q; got %v", idx, s.expError, err)
		}
	}
}

func TestMeshInstancing(t *testing.T) {
	payload := `
o testObj
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
instance testObj 	1 0 1	0 0 0 	1 1 1
instance testObj 	0 0 0	0 90 0 	1 1 1
instance testObj 	0 1 0	90 0 0	10 10 10
`

	r := newWavefrontReader()
	sc, err := r.Read(mockResource(payload))
	if err != nil {
		t.Fatal(err)
	}

	if len(sc.Meshes) != 3 {
		t.Fatalf("expected 3 baked mesh instances; got %d", len(sc.Meshes))
	}

	type spec struct {
		instance int
		vertex   int
		expOut   types.Vec3
	}
	specs := []spec{
		{0, 0, types.Vec3{1, 0, 1}},
		{0, 1, types.Vec3{2, 0, 1}},
		{1, 1, types.Vec3{0, 0, -1}},
		{2, 2, types.Vec3{0, 1, 10}},
	}
	for idx, s := range specs {
		out := sc.Meshes[s.instance].Primitives[0].Vertices[s.vertex]
		if !types.ApproxEqual(out, s.expOut, 1e-3) {
			t.Fatalf("[spec %d] expected vertex %d of instance %d to be %v; got %v", idx, s.vertex, s.instance, s.expOut, out)
		}
	}

	// Rotating 90 degrees around X maps the +Z face normal to -Y
	n := sc.Meshes[2].Primitives[0].Normals[0]
	if !types.ApproxEqual(n, types.Vec3{0, -1, 0}, 1e-3) {
		t.Fatalf("expected instance normal to be rotated to (0, -1, 0); got %v", n)
	}
}

func TestSceneDirectives(t *testing.T) {
	payload := `
camera_fov 60
camera_eye 0 2 5
camera_look 0 0 0
camera_up 0 1 0
light_point 0 10 0 100 100 100
light_spot 0 10 0 0 0 0 50 50 50 30
sky_uniform 0.1 0.2 0.3
sphere 0 1 0 0.5
foam_radius 0.02
foam 1 1 1 0.87
foam 2 1 1 0.2
`

	sc, err := newWavefrontReader().Read(mockResource(payload))
	if err != nil {
		t.Fatal(err)
	}

	expCamera := scene.Camera{FOV: 60, Eye: types.Vec3{0, 2, 5}, Look: types.Vec3{0, 0, 0}, Up: types.Vec3{0, 1, 0}}
	if *sc.Camera != expCamera {
		t.Fatalf("expected camera %v; got %v", expCamera, *sc.Camera)
	}

	if len(sc.Lights) != 2 {
		t.Fatalf("expected 2 lights; got %d", len(sc.Lights))
	}
	if sc.Lights[0].Type != scene.PointLight || sc.Lights[0].Power != (types.Vec3{100, 100, 100}) {
		t.Fatalf("expected first light to be a point light with power 100; got %+v", sc.Lights[0])
	}
	if sc.Lights[1].Type != scene.SpotLight || sc.Lights[1].Angle != 30 || sc.Lights[1].Target != (types.Vec3{}) {
		t.Fatalf("expected second light to be a 30 degree spot light; got %+v", sc.Lights[1])
	}

	if sc.Sky.Type != scene.UniformSky || sc.Sky.Zenith != (types.Vec3{0.1, 0.2, 0.3}) {
		t.Fatalf("expected uniform sky (0.1, 0.2, 0.3); got %+v", sc.Sky)
	}

	if len(sc.Spheres) != 1 || sc.Spheres[0].Radius != 0.5 {
		t.Fatalf("expected a single sphere with radius 0.5; got %d", len(sc.Spheres))
	}
	if !sc.Materials[sc.Spheres[0].MaterialIndex].Used {
		t.Fatal("expected sphere material to be flagged as used")
	}

	if len(sc.Foam) != 2 {
		t.Fatalf("expected 2 foam particles; got %d", len(sc.Foam))
	}
	if sc.Foam[0].Radius != 0.02 || sc.Foam[0].Age != 0.87 {
		t.Fatalf("expected foam particle radius 0.02 and age 0.87; got %+v", sc.Foam[0])
	}
}

func TestMaterialLoaderMissingNewMaterialCommand(t *testing.T) {
	err := newWavefrontReader().parseMaterials(asset.NewResourceFromStream("test.mtl", strings.NewReader("Kd 1.0 1.0 1.0")))
	expError := `[test.mtl: 1] error: got "Kd" without a "newmtl"`
	if err == nil || err.Error() != expError {
		t.Fatalf("expected error %q; got %v", expError, err)
	}
}

func TestMaterialLoader(t *testing.T) {
	payload := `
newmtl pool
Kd 0.8 0.8 0.8
Ks 0.1 0.1 0.1

newmtl liquid
preset water
Tf 0.8 0.9 1
Kn 1 1 1
Ni 1.33
two_sided

newmtl liquid2
include liquid
Kp 0.1 0.1 0.1
`

	r := newWavefrontReader()
	if err := r.parseMaterials(mockResource(payload)); err != nil {
		t.Fatal(err)
	}

	if len(r.sceneDesc.Materials) != 3 {
		t.Fatalf("expected 3 materials; got %d", len(r.sceneDesc.Materials))
	}

	pool := r.sceneDesc.Materials[r.matNameToIndex["pool"]]
	if pool.Lambertian != (types.Vec3{0.8, 0.8, 0.8}) || pool.Glossy != (types.Vec3{0.1, 0.1, 0.1}) {
		t.Fatalf("unexpected pool material %+v", pool)
	}

	liquid2 := r.sceneDesc.Materials[r.matNameToIndex["liquid2"]]
	if liquid2.Name != "liquid2" {
		t.Fatalf("expected included material to keep its name; got %s", liquid2.Name)
	}
	if liquid2.Preset != scene.WaterPreset || !liquid2.TwoSided || liquid2.IOR != 1.33 {
		t.Fatalf("expected included material to inherit base properties; got %+v", liquid2)
	}
	if liquid2.KappaNeg != (types.Vec3{1, 1, 1}) || liquid2.KappaPos != (types.Vec3{0.1, 0.1, 0.1}) {
		t.Fatalf("expected kappa tags to be set; got %v / %v", liquid2.KappaNeg, liquid2.KappaPos)
	}

	expError := `[embedded: 2] error: unknown material preset "lava"`
	err := newWavefrontReader().parseMaterials(mockResource("newmtl hot\npreset lava"))
	if err == nil || err.Error() != expError {
		t.Fatalf("expected error %q; got %v", expError, err)
	}
}

func TestReadSceneWithMaterialLibrary(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"pool.obj": `
mtllib pool.mtl
call floor.obj
light_point 0 5 0 10 10 10
`,
		"floor.obj": `
o floor
usemtl tiles
v -1 0 -1
v -1 0 1
v 1 0 1
f 1 2 3
`,
		"pool.mtl": `
newmtl tiles
Kd 0.5 0.5 0.5
newmtl unused
Kd 1 0 0
`,
	}
	for name, contents := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0644); err != nil {
			t.Fatal(err)
		}
	}

	sc, err := ReadScene(filepath.Join(dir, "pool.obj"))
	if err != nil {
		t.Fatal(err)
	}

	if len(sc.Meshes) != 1 || sc.Meshes[0].Name != "floor" {
		t.Fatal("expected floor mesh to be loaded from the called obj file")
	}
	mat := sc.Materials[sc.Meshes[0].Primitives[0].MaterialIndex]
	if mat.Name != "tiles" || !mat.Used {
		t.Fatalf("expected floor to use the tiles material; got %q", mat.Name)
	}
	if len(sc.Lights) != 1 {
		t.Fatalf("expected 1 light; got %d", len(sc.Lights))
	}

	stats := sc.Stats()
	for _, exp := range []string{"Triangles", "point lights", "1/2 used"} {
		if !strings.Contains(stats, exp) {
			t.Fatalf("expected scene stats to contain %q; got\n%s", exp, stats)
		}
	}
}

func TestReadSceneErrors(t *testing.T) {
	dir := t.TempDir()
	objFile := filepath.Join(dir, "broken.obj")
	if err := os.WriteFile(objFile, []byte("mtllib missing.mtl\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ReadScene(objFile)
	if err == nil || !strings.Contains(err.Error(), "referenced from") {
		t.Fatalf("expected error to include the include stack; got %v", err)
	}

	_, err = ReadScene(filepath.Join(dir, "scene.ply"))
	if err == nil {
		t.Fatal("expected an error for unsupported files")
	}
}

func mockResource(payload string) *asset.Resource {
	return asset.NewResourceFromStream("embedded", strings.NewReader(payload))
}
