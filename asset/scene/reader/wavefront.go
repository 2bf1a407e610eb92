package reader

import (
	"bufio"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/YitongTseo/WaterSimulationAndRendering/asset"
	"github.com/YitongTseo/WaterSimulationAndRendering/asset/scene"
	"github.com/YitongTseo/WaterSimulationAndRendering/log"
	"github.com/YitongTseo/WaterSimulationAndRendering/types"
)

const (
	defaultMaterialName = ""
	defaultFoamRadius   = 0.05
)

type meshInstance struct {
	meshIndex int
	transform types.Mat4
	normalMat types.Mat4
	invScale  types.Vec3
}

type wavefrontSceneReader struct {
	logger log.Logger

	// The parsed scene.
	sceneDesc *scene.Scene

	// Material lookup by name.
	matNameToIndex map[string]int

	// Currently selected material.
	curMaterial *scene.Material

	// Radius assigned to subsequent foam particles.
	foamRadius float32

	// Explicit mesh instances. When empty every mesh is rendered as-is.
	instances []meshInstance

	vertexList []types.Vec3
	normalList []types.Vec3

	// Texture coordinates are parsed so face indices resolve but are
	// otherwise unused.
	uvCount int

	// An error stack that provides additional error information when
	// scene files include other files (models, mat libs e.t.c)
	errStack []string
}

func newWavefrontReader() *wavefrontSceneReader {
	return &wavefrontSceneReader{
		logger:         log.New("wavefront reader"),
		sceneDesc:      scene.NewScene(),
		matNameToIndex: make(map[string]int, 0),
		foamRadius:     defaultFoamRadius,
		vertexList:     make([]types.Vec3, 0),
		normalList:     make([]types.Vec3, 0),
		errStack:       make([]string, 0),
	}
}

// Read scene definition.
func (r *wavefrontSceneReader) Read(sceneRes *asset.Resource) (*scene.Scene, error) {
	r.logger.Noticef(`parsing scene from "%s"`, sceneRes.Path())
	start := time.Now()

	err := r.parse(sceneRes)
	if err != nil {
		return nil, err
	}

	if len(r.instances) != 0 {
		r.bakeInstances()
	}

	r.logger.Noticef(
		"parsed scene in %d ms; meshes: %d, spheres: %d, foam: %d, lights: %d",
		time.Since(start).Nanoseconds()/1e6,
		len(r.sceneDesc.Meshes), len(r.sceneDesc.Spheres), len(r.sceneDesc.Foam), len(r.sceneDesc.Lights),
	)

	return r.sceneDesc, nil
}

// Generate an error message that also includes any data in the error stack.
func (r *wavefrontSceneReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)

	var errMsg string
	if file != "" {
		errMsg = fmt.Sprintf("[%s: %d] error: %s\n%s", file, line, msg, strings.Join(r.errStack, "\n"))
	} else {
		errMsg = fmt.Sprintf("error: %s\n%s", msg, strings.Join(r.errStack, "\n"))
	}

	return fmt.Errorf("%s", strings.Trim(errMsg, "\n"))
}

func (r *wavefrontSceneReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

func (r *wavefrontSceneReader) popFrame() {
	r.errStack = r.errStack[1:]
}

// Select (and create on first use) the material for surfaces not using one.
func (r *wavefrontSceneReader) defaultMaterial() *scene.Material {
	matIndex, exists := r.matNameToIndex[defaultMaterialName]
	if !exists {
		r.sceneDesc.Materials = append(r.sceneDesc.Materials, &scene.Material{
			Name:       defaultMaterialName,
			Lambertian: types.Vec3{0.7, 0.7, 0.7},
		})
		matIndex = len(r.sceneDesc.Materials) - 1
		r.matNameToIndex[defaultMaterialName] = matIndex
	}
	return r.sceneDesc.Materials[matIndex]
}

// Select the active material index and flag it as used.
func (r *wavefrontSceneReader) useCurrentMaterial() int {
	if r.curMaterial == nil {
		r.curMaterial = r.defaultMaterial()
	}
	r.curMaterial.Used = true
	return r.matNameToIndex[r.curMaterial.Name]
}

// Parse wavefront object scene format.
func (r *wavefrontSceneReader) parse(res *asset.Resource) error {
	var lineNum int = 0
	var err error

	// Included obj files use 1-based indices relative to their own
	// coordinates so we track the offsets at the point of inclusion.
	relVertexOffset := len(r.vertexList)
	relUvOffset := r.uvCount
	relNormalOffset := len(r.normalList)

	sceneDesc := r.sceneDesc
	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "call", "mtllib":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
			}

			r.pushFrame(fmt.Sprintf("referenced from %s:%d [%s]", res.Path(), lineNum, lineTokens[0]))

			incRes, err := asset.NewResource(lineTokens[1], res)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}

			switch lineTokens[0] {
			case "call":
				err = r.parse(incRes)
			case "mtllib":
				err = r.parseMaterials(incRes)
			}
			incRes.Close()

			if err != nil {
				return err
			}
			r.popFrame()
		case "usemtl":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "usemtl"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			matIndex, exists := r.matNameToIndex[lineTokens[1]]
			if !exists {
				return r.emitError(res.Path(), lineNum, `undefined material with name "%s"`, lineTokens[1])
			}
			r.curMaterial = sceneDesc.Materials[matIndex]
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.vertexList = append(r.vertexList, v)
		case "vn":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.normalList = append(r.normalList, v.Normalize())
		case "vt":
			if len(lineTokens) < 3 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "vt"; expected 2 arguments; got %d`, len(lineTokens)-1)
			}
			r.uvCount++
		case "g", "o":
			if len(lineTokens) < 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument for object name; got %d`, lineTokens[0], len(lineTokens)-1)
			}

			r.verifyLastParsedMesh()
			sceneDesc.Meshes = append(sceneDesc.Meshes, scene.NewMesh(lineTokens[1]))
		case "f":
			primList, err := r.parseFace(lineTokens, relVertexOffset, relUvOffset, relNormalOffset)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}

			if len(sceneDesc.Meshes) == 0 {
				sceneDesc.Meshes = append(sceneDesc.Meshes, scene.NewMesh("default"))
			}

			meshIndex := len(sceneDesc.Meshes) - 1
			sceneDesc.Meshes[meshIndex].Primitives = append(sceneDesc.Meshes[meshIndex].Primitives, primList...)
		case "camera_fov":
			sceneDesc.Camera.FOV, err = parseFloat32(lineTokens)
		case "camera_eye":
			sceneDesc.Camera.Eye, err = parseVec3(lineTokens)
		case "camera_look":
			sceneDesc.Camera.Look, err = parseVec3(lineTokens)
		case "camera_up":
			sceneDesc.Camera.Up, err = parseVec3(lineTokens)
		case "instance":
			var instance meshInstance
			instance, err = r.parseMeshInstance(lineTokens)
			if err == nil {
				r.instances = append(r.instances, instance)
			}
		case "light_point":
			var light *scene.Light
			light, err = parsePointLight(lineTokens)
			if err == nil {
				sceneDesc.Lights = append(sceneDesc.Lights, light)
			}
		case "light_spot":
			var light *scene.Light
			light, err = parseSpotLight(lineTokens)
			if err == nil {
				sceneDesc.Lights = append(sceneDesc.Lights, light)
			}
		case "sky_uniform":
			var color types.Vec3
			color, err = parseVec3(lineTokens)
			sceneDesc.Sky = &scene.Sky{Type: scene.UniformSky, Horizon: color, Zenith: color}
		case "sky_gradient":
			var values []float32
			values, err = parseFloats(lineTokens, 6)
			if err == nil {
				sceneDesc.Sky = &scene.Sky{
					Type:    scene.GradientSky,
					Horizon: types.Vec3{values[0], values[1], values[2]},
					Zenith:  types.Vec3{values[3], values[4], values[5]},
				}
			}
		case "sphere":
			var values []float32
			values, err = parseFloats(lineTokens, 4)
			if err == nil {
				if values[3] <= 0 {
					err = fmt.Errorf("sphere radius must be positive; got %f", values[3])
					break
				}
				sceneDesc.Spheres = append(sceneDesc.Spheres, &scene.Sphere{
					Center:        types.Vec3{values[0], values[1], values[2]},
					Radius:        values[3],
					MaterialIndex: r.useCurrentMaterial(),
				})
			}
		case "foam_radius":
			var radius float32
			radius, err = parseFloat32(lineTokens)
			if err == nil && radius <= 0 {
				err = fmt.Errorf("foam radius must be positive; got %f", radius)
			}
			if err == nil {
				r.foamRadius = radius
			}
		case "foam":
			var values []float32
			values, err = parseFloats(lineTokens, 4)
			if err == nil {
				sceneDesc.Foam = append(sceneDesc.Foam, &scene.FoamParticle{
					Position: types.Vec3{values[0], values[1], values[2]},
					Age:      values[3],
					Radius:   r.foamRadius,
				})
			}
		}

		if err != nil {
			return r.emitError(res.Path(), lineNum, "%s", err.Error())
		}
	}

	if err = scanner.Err(); err != nil {
		return r.emitError(res.Path(), lineNum, "%s", err.Error())
	}

	r.verifyLastParsedMesh()
	return nil
}

// Drop the last parsed mesh if it contains no primitives.
func (r *wavefrontSceneReader) verifyLastParsedMesh() {
	lastMeshIndex := len(r.sceneDesc.Meshes) - 1
	if lastMeshIndex >= 0 && len(r.sceneDesc.Meshes[lastMeshIndex].Primitives) == 0 {
		r.logger.Warningf(`dropping mesh "%s" as it contains no polygons`, r.sceneDesc.Meshes[lastMeshIndex].Name)
		r.sceneDesc.Meshes = r.sceneDesc.Meshes[:lastMeshIndex]
	}
}

// Parse mesh instance definition. Definitions use the following format:
// instance mesh_name tX tY tZ yaw pitch roll sX sY sZ
// where:
// - tX, tY, tZ       : translation vector
// - yaw, pitch, roll : rotation angles in degrees
// - sX, sY, sZ	      : scale
func (r *wavefrontSceneReader) parseMeshInstance(lineTokens []string) (meshInstance, error) {
	if len(lineTokens) != 11 {
		return meshInstance{}, fmt.Errorf(`unsupported syntax for "instance"; expected 10 arguments: mesh_name tX tY tZ yaw pitch roll sX sY sZ; got %d`, len(lineTokens)-1)
	}

	meshIndex := -1
	for index, mesh := range r.sceneDesc.Meshes {
		if mesh.Name == lineTokens[1] {
			meshIndex = index
			break
		}
	}
	if meshIndex == -1 {
		return meshInstance{}, fmt.Errorf(`unknown mesh with name "%s"`, lineTokens[1])
	}

	values, err := parseFloats(lineTokens[1:], 9)
	if err != nil {
		return meshInstance{}, err
	}

	translation := types.Vec3{values[0], values[1], values[2]}
	scale := types.Vec3{values[6], values[7], values[8]}
	if scale[0] == 0 || scale[1] == 0 || scale[2] == 0 {
		return meshInstance{}, fmt.Errorf("instance scale components must be non-zero; got %v", scale)
	}

	var rotation types.Vec3
	for i := 0; i < 3; i++ {
		rotation[i] = values[3+i] * math.Pi / 180.0
	}

	yawQuat := types.QuatFromAxisAngle(types.Vec3{1, 0, 0}, rotation[0])
	pitchQuat := types.QuatFromAxisAngle(types.Vec3{0, 1, 0}, rotation[1])
	rollQuat := types.QuatFromAxisAngle(types.Vec3{0, 0, 1}, rotation[2])
	rotMat := rollQuat.Mul(pitchQuat.Mul(yawQuat)).Normalize().Mat4()

	// M = T * R * S
	return meshInstance{
		meshIndex: meshIndex,
		transform: types.Translate4(translation).Mul4(rotMat.Mul4(types.Scale4(scale))),
		normalMat: rotMat,
		invScale:  types.Vec3{1 / scale[0], 1 / scale[1], 1 / scale[2]},
	}, nil
}

// Replace the parsed meshes with world-space copies, one per instance.
func (r *wavefrontSceneReader) bakeInstances() {
	meshes := make([]*scene.Mesh, 0, len(r.instances))
	for index, inst := range r.instances {
		src := r.sceneDesc.Meshes[inst.meshIndex]
		dst := scene.NewMesh(fmt.Sprintf("%s#%d", src.Name, index))
		for _, prim := range src.Primitives {
			baked := &scene.Primitive{MaterialIndex: prim.MaterialIndex}
			for i := 0; i < 3; i++ {
				baked.Vertices[i] = inst.transform.TransformPoint(prim.Vertices[i])
				baked.Normals[i] = inst.normalMat.TransformDir(prim.Normals[i].MulVec(inst.invScale)).Normalize()
			}
			dst.Primitives = append(dst.Primitives, baked)
		}
		meshes = append(meshes, dst)
	}
	r.sceneDesc.Meshes = meshes
}

// Parse face definition. Each face definitions consists of 3 or 4 arguments,
// one for each vertex. Each one of the vertex arguments is comprised of
// 1, 2 or 3 args separated by a slash character:
// - vertexIndex
// - vertexIndex/uvIndex
// - vertexIndex//normalIndex
// - vertexIndex/uvIndex/normalIndex
//
// Indices start from 1 and may be negative to indicate an offset off the
// end of the coordinate list. Quads are split into two triangles.
func (r *wavefrontSceneReader) parseFace(lineTokens []string, relVertexOffset, relUvOffset, relNormalOffset int) ([]*scene.Primitive, error) {
	if len(lineTokens) < 4 || len(lineTokens) > 5 {
		return nil, fmt.Errorf(`unsupported syntax for "f"; expected 3 arguments for triangular face or 4 arguments for a quad face; got %d. Select the triangulation option in your exporter`, len(lineTokens)-1)
	}

	var vertices [4]types.Vec3
	var normals [4]types.Vec3
	var vOffset int
	var err error
	expIndices := 0
	hasNormals := false
	for arg := 0; arg < len(lineTokens)-1; arg++ {
		vTokens := strings.Split(lineTokens[arg+1], "/")

		// The first arg defines the format for the following args
		if arg == 0 {
			expIndices = len(vTokens)
		} else if len(vTokens) != expIndices {
			return nil, fmt.Errorf("expected each face argument to contain %d indices; arg %d contains %d indices", expIndices, arg, len(vTokens))
		}

		if vTokens[0] == "" {
			return nil, fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		vOffset, err = selectFaceCoordIndex(vTokens[0], len(r.vertexList), relVertexOffset)
		if err != nil {
			return nil, fmt.Errorf("could not parse vertex coord for face argument %d: %s", arg, err.Error())
		}
		vertices[arg] = r.vertexList[vOffset]

		if expIndices > 1 && vTokens[1] != "" {
			if _, err = selectFaceCoordIndex(vTokens[1], r.uvCount, relUvOffset); err != nil {
				return nil, fmt.Errorf("could not parse tex coord for face argument %d: %s", arg, err.Error())
			}
		}

		if expIndices > 2 && vTokens[2] != "" {
			vOffset, err = selectFaceCoordIndex(vTokens[2], len(r.normalList), relNormalOffset)
			if err != nil {
				return nil, fmt.Errorf("could not parse normal coord for face argument %d: %s", arg, err.Error())
			}
			normals[arg] = r.normalList[vOffset]
			hasNormals = true
		}
	}

	matIndex := r.useCurrentMaterial()

	if !hasNormals {
		faceNormal := vertices[1].Sub(vertices[0]).Cross(vertices[2].Sub(vertices[0])).Normalize()
		for i := range normals {
			normals[i] = faceNormal
		}
	}

	indiceList := [][3]int{{0, 1, 2}}
	if len(lineTokens) == 5 {
		indiceList = append(indiceList, [3]int{0, 2, 3})
	}

	primitives := make([]*scene.Primitive, 0, len(indiceList))
	for _, indices := range indiceList {
		prim := &scene.Primitive{MaterialIndex: matIndex}
		for triIndex, selectIndex := range indices {
			prim.Vertices[triIndex] = vertices[selectIndex]
			prim.Normals[triIndex] = normals[selectIndex]
		}
		primitives = append(primitives, prim)
	}

	return primitives, nil
}

// Parse a wavefront material library.
func (r *wavefrontSceneReader) parseMaterials(res *asset.Resource) error {
	var lineNum int = 0
	var err error

	r.logger.Infof(`parsing material library "%s"`, res.Path())

	scanner := bufio.NewScanner(res)

	var curMaterial *scene.Material = nil
	var matName string = ""

	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		if lineTokens[0] == "newmtl" {
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "newmtl"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			matName = lineTokens[1]
			if _, exists := r.matNameToIndex[matName]; exists {
				return r.emitError(res.Path(), lineNum, `material "%s" already defined`, matName)
			}

			curMaterial = &scene.Material{
				Name:         matName,
				AssetRelPath: res,
			}
			r.sceneDesc.Materials = append(r.sceneDesc.Materials, curMaterial)
			r.matNameToIndex[matName] = len(r.sceneDesc.Materials) - 1
			continue
		}

		if curMaterial == nil {
			return r.emitError(res.Path(), lineNum, `got "%s" without a "newmtl"`, lineTokens[0])
		}

		switch lineTokens[0] {
		case "include":
			if len(lineTokens) < 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
			}

			baseMaterialIndex, exists := r.matNameToIndex[lineTokens[1]]
			if !exists {
				return r.emitError(res.Path(), lineNum, `could not include unknown material "%s"`, lineTokens[1])
			}

			// Overwrite material but keep the original name
			*curMaterial = *r.sceneDesc.Materials[baseMaterialIndex]
			curMaterial.Name = matName
			curMaterial.Used = false
		case "Kd", "Ks", "Ke", "Tf", "Kn", "Kp":
			var target *types.Vec3
			switch lineTokens[0] {
			case "Kd":
				target = &curMaterial.Lambertian
			case "Ks":
				target = &curMaterial.Glossy
			case "Ke":
				target = &curMaterial.Emissive
			case "Tf":
				target = &curMaterial.Transmissive
			case "Kn":
				target = &curMaterial.KappaNeg
			case "Kp":
				target = &curMaterial.KappaPos
			}

			*target, err = parseVec3(lineTokens)
		case "Ni":
			curMaterial.IOR, err = parseFloat32(lineTokens)
		case "two_sided":
			curMaterial.TwoSided = true
		case "preset":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "preset"; expected 1 argument; got %d`, len(lineTokens)-1)
			}
			switch lineTokens[1] {
			case "water":
				curMaterial.Preset = scene.WaterPreset
			default:
				err = fmt.Errorf(`unknown material preset "%s"`, lineTokens[1])
			}
		}

		if err != nil {
			return r.emitError(res.Path(), lineNum, "%s", err.Error())
		}
	}

	return scanner.Err()
}

// Given an index for a face coord type (vertex, normal, tex) calculate the
// proper offset into the coord list. Wavefront format can also use negative
// indices to reference elements from the end of the coord list.
func selectFaceCoordIndex(indexToken string, coordListLen int, relOffset int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var vOffset int = 0
	if index < 0 {
		vOffset = coordListLen + int(index)
	} else {
		vOffset = relOffset + int(index-1)
	}
	if vOffset < 0 || vOffset >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return vOffset, nil
}

// Parse "light_point x y z r g b".
func parsePointLight(lineTokens []string) (*scene.Light, error) {
	values, err := parseFloats(lineTokens, 6)
	if err != nil {
		return nil, err
	}
	return &scene.Light{
		Type:     scene.PointLight,
		Position: types.Vec3{values[0], values[1], values[2]},
		Power:    types.Vec3{values[3], values[4], values[5]},
	}, nil
}

// Parse "light_spot x y z tx ty tz r g b angle".
func parseSpotLight(lineTokens []string) (*scene.Light, error) {
	values, err := parseFloats(lineTokens, 10)
	if err != nil {
		return nil, err
	}
	if values[9] <= 0 || values[9] > 180 {
		return nil, fmt.Errorf("spot light angle must be in (0, 180]; got %f", values[9])
	}
	return &scene.Light{
		Type:     scene.SpotLight,
		Position: types.Vec3{values[0], values[1], values[2]},
		Target:   types.Vec3{values[3], values[4], values[5]},
		Power:    types.Vec3{values[6], values[7], values[8]},
		Angle:    values[9],
	}, nil
}

// Parse exactly count float arguments.
func parseFloats(lineTokens []string, count int) ([]float32, error) {
	if len(lineTokens) != count+1 {
		return nil, fmt.Errorf(`unsupported syntax for "%s"; expected %d arguments; got %d`, lineTokens[0], count, len(lineTokens)-1)
	}

	values := make([]float32, count)
	for i := range values {
		v, err := strconv.ParseFloat(lineTokens[i+1], 32)
		if err != nil {
			return nil, err
		}
		values[i] = float32(v)
	}
	return values, nil
}

// Parse a float scalar value.
func parseFloat32(lineTokens []string) (float32, error) {
	if len(lineTokens) < 2 {
		return 0, fmt.Errorf(`unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	val, err := strconv.ParseFloat(lineTokens[1], 32)
	if err != nil {
		return 0, err
	}

	return float32(val), nil
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec3{}
	for tokIdx := 1; tokIdx <= 3; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}
