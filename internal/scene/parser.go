package scene

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"scene-renderer/internal/mathutil"
	"scene-renderer/internal/transform"
)

var (
	// ErrMissingCamera is returned when a scene defines no camera.
	ErrMissingCamera = errors.New("scene: missing camera")

	// ErrNoRoot is returned when a scene defines no root node.
	ErrNoRoot = errors.New("scene: missing root node")
)

// Load reads and parses a YAML or JSON scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}

	sc, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	if abs, err := filepath.Abs(filepath.Dir(path)); err == nil {
		sc.Dir = abs
		sc.Root.Walk(func(n *Node, _ int) {
			for i := range n.Primitives {
				p := &n.Primitives[i]
				if p.Type == PrimitiveMesh && !filepath.IsAbs(p.MeshFile) {
					p.MeshFile = filepath.Join(abs, p.MeshFile)
				}
			}
		})
	}
	return sc, nil
}

// Parse decodes a scene document. source names the document in errors.
// Relative mesh paths are left as written.
func Parse(data []byte, source string) (*Scene, error) {
	var raw rawScene
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", source, err)
	}

	p := parser{source: source}
	sc := &Scene{Source: source}

	if raw.Camera == nil {
		return nil, fmt.Errorf("%w in %s", ErrMissingCamera, source)
	}
	cam, err := p.camera(raw.Camera)
	if err != nil {
		return nil, err
	}
	sc.Camera = cam

	sc.Global = GlobalData{Ka: 0.5, Kd: 0.5, Ks: 0.5}
	if g := raw.Global; g != nil {
		sc.Global = GlobalData{Ka: g.Ka, Kd: g.Kd, Ks: g.Ks}
	}

	if raw.Path != nil {
		if sc.Path, err = p.path(raw.Path); err != nil {
			return nil, err
		}
	}

	if raw.Root == nil {
		return nil, fmt.Errorf("%w in %s", ErrNoRoot, source)
	}
	if sc.Root, err = p.node(raw.Root); err != nil {
		return nil, err
	}
	return sc, nil
}

type rawScene struct {
	Camera *rawCamera `yaml:"camera"`
	Global *rawGlobal `yaml:"global"`
	Path   *rawPath   `yaml:"path"`
	Root   *rawNode   `yaml:"root"`
}

type rawCamera struct {
	Position    []float32 `yaml:"position"`
	Look        []float32 `yaml:"look"`
	Focus       []float32 `yaml:"focus"`
	Up          []float32 `yaml:"up"`
	HeightAngle *float32  `yaml:"height_angle"`
	line        int
}

type rawGlobal struct {
	Ka float32 `yaml:"ka"`
	Kd float32 `yaml:"kd"`
	Ks float32 `yaml:"ks"`
}

type rawPath struct {
	Duration  float32       `yaml:"duration"`
	Keyframes []rawKeyframe `yaml:"keyframes"`
	line      int
}

type rawKeyframe struct {
	Position []float32 `yaml:"position"`
	Look     []float32 `yaml:"look"`
	Up       []float32 `yaml:"up"`
}

type rawNode struct {
	Name       string         `yaml:"name"`
	Transforms []rawTransform `yaml:"transforms"`
	Primitives []rawPrimitive `yaml:"primitives"`
	Lights     []rawLight     `yaml:"lights"`
	Children   []*rawNode     `yaml:"children"`
	line       int
}

type rawTransform struct {
	node *yaml.Node
}

type rawPrimitive struct {
	Type     string       `yaml:"type"`
	Mesh     string       `yaml:"mesh"`
	Material *rawMaterial `yaml:"material"`
	line     int
}

type rawMaterial struct {
	Ambient   []float32   `yaml:"ambient"`
	Diffuse   []float32   `yaml:"diffuse"`
	Specular  []float32   `yaml:"specular"`
	Shininess float32     `yaml:"shininess"`
	Blend     float32     `yaml:"blend"`
	Texture   *rawTexture `yaml:"texture"`
}

type rawTexture struct {
	File    string  `yaml:"file"`
	RepeatU float32 `yaml:"repeat_u"`
	RepeatV float32 `yaml:"repeat_v"`
}

type rawLight struct {
	ID          *int      `yaml:"id"`
	Type        string    `yaml:"type"`
	Color       []float32 `yaml:"color"`
	Attenuation []float32 `yaml:"attenuation"`
	Direction   []float32 `yaml:"direction"`
	Angle       float32   `yaml:"angle"`
	Penumbra    float32   `yaml:"penumbra"`
	line        int
}

func (c *rawCamera) UnmarshalYAML(value *yaml.Node) error {
	type plain rawCamera
	c.line = value.Line
	return decodeStrict(value, "camera", (*plain)(c))
}

func (g *rawGlobal) UnmarshalYAML(value *yaml.Node) error {
	type plain rawGlobal
	return decodeStrict(value, "global", (*plain)(g))
}

func (p *rawPath) UnmarshalYAML(value *yaml.Node) error {
	type plain rawPath
	p.line = value.Line
	return decodeStrict(value, "path", (*plain)(p))
}

func (k *rawKeyframe) UnmarshalYAML(value *yaml.Node) error {
	type plain rawKeyframe
	return decodeStrict(value, "keyframe", (*plain)(k))
}

func (n *rawNode) UnmarshalYAML(value *yaml.Node) error {
	type plain rawNode
	n.line = value.Line
	return decodeStrict(value, "node", (*plain)(n))
}

func (t *rawTransform) UnmarshalYAML(value *yaml.Node) error {
	t.node = value
	return nil
}

func (p *rawPrimitive) UnmarshalYAML(value *yaml.Node) error {
	type plain rawPrimitive
	p.line = value.Line
	return decodeStrict(value, "primitive", (*plain)(p))
}

func (m *rawMaterial) UnmarshalYAML(value *yaml.Node) error {
	type plain rawMaterial
	return decodeStrict(value, "material", (*plain)(m))
}

func (t *rawTexture) UnmarshalYAML(value *yaml.Node) error {
	type plain rawTexture
	return decodeStrict(value, "texture", (*plain)(t))
}

func (l *rawLight) UnmarshalYAML(value *yaml.Node) error {
	type plain rawLight
	l.line = value.Line
	return decodeStrict(value, "light", (*plain)(l))
}

// decodeStrict decodes value into out, rejecting mapping keys that match no
// yaml tag of out. Node.Decode does not inherit the decoder's KnownFields.
func decodeStrict(value *yaml.Node, what string, out interface{}) error {
	if value.Kind == yaml.MappingNode {
		known := yamlFields(reflect.TypeOf(out).Elem())
		for i := 0; i+1 < len(value.Content); i += 2 {
			key := value.Content[i]
			if !known[key.Value] {
				return fmt.Errorf("line %d: unknown %s field %q", key.Line, what, key.Value)
			}
		}
	}
	return value.Decode(out)
}

var fieldCache sync.Map // reflect.Type -> map[string]bool

func yamlFields(typ reflect.Type) map[string]bool {
	if v, ok := fieldCache.Load(typ); ok {
		return v.(map[string]bool)
	}
	known := make(map[string]bool, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		name, _, _ := strings.Cut(typ.Field(i).Tag.Get("yaml"), ",")
		if name != "" && name != "-" {
			known[name] = true
		}
	}
	fieldCache.Store(typ, known)
	return known
}

type parser struct {
	source string
}

func (p *parser) errorf(line int, format string, args ...interface{}) error {
	return fmt.Errorf("scene: [%s: %d] %s", p.source, line, fmt.Sprintf(format, args...))
}

func (p *parser) vec3(line int, field string, v []float32) (mgl32.Vec3, error) {
	if len(v) != 3 {
		return mgl32.Vec3{}, p.errorf(line, "%s: expected 3 values; got %d", field, len(v))
	}
	return mgl32.Vec3{v[0], v[1], v[2]}, nil
}

// color accepts RGB or RGBA; alpha is dropped.
func (p *parser) color(line int, field string, v []float32, def mgl32.Vec3) (mgl32.Vec3, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 3, 4:
		return mgl32.Vec3{v[0], v[1], v[2]}, nil
	}
	return mgl32.Vec3{}, p.errorf(line, "%s: expected 3 or 4 values; got %d", field, len(v))
}

func (p *parser) direction(line int, field string, v []float32) (mgl32.Vec3, error) {
	d, err := p.vec3(line, field, v)
	if err != nil {
		return d, err
	}
	if d.Len() < mathutil.Epsilon {
		return d, p.errorf(line, "%s: zero-length vector", field)
	}
	return d.Normalize(), nil
}

func (p *parser) camera(rc *rawCamera) (CameraData, error) {
	var cam CameraData
	var err error

	if rc.Position == nil {
		return cam, fmt.Errorf("%w position in %s", ErrMissingCamera, p.source)
	}
	if cam.Position, err = p.vec3(rc.line, "camera.position", rc.Position); err != nil {
		return cam, err
	}

	switch {
	case rc.Look != nil:
		cam.Look, err = p.direction(rc.line, "camera.look", rc.Look)
	case rc.Focus != nil:
		var focus mgl32.Vec3
		if focus, err = p.vec3(rc.line, "camera.focus", rc.Focus); err == nil {
			cam.Look, err = p.direction(rc.line, "camera.focus", toSlice(focus.Sub(cam.Position)))
		}
	default:
		return cam, fmt.Errorf("%w look direction in %s", ErrMissingCamera, p.source)
	}
	if err != nil {
		return cam, err
	}

	cam.Up = mathutil.WorldY
	if rc.Up != nil {
		if cam.Up, err = p.direction(rc.line, "camera.up", rc.Up); err != nil {
			return cam, err
		}
	}

	cam.HeightAngle = mathutil.Deg2Rad(45)
	if rc.HeightAngle != nil {
		if *rc.HeightAngle <= 0 || *rc.HeightAngle >= 180 {
			return cam, p.errorf(rc.line, "camera.height_angle: %g outside (0, 180)", *rc.HeightAngle)
		}
		cam.HeightAngle = mathutil.Deg2Rad(*rc.HeightAngle)
	}
	return cam, nil
}

func (p *parser) path(rp *rawPath) (*PathData, error) {
	if len(rp.Keyframes) != 4 {
		return nil, p.errorf(rp.line, "path: expected 4 keyframes; got %d", len(rp.Keyframes))
	}
	if rp.Duration < 0 {
		return nil, p.errorf(rp.line, "path: negative duration %g", rp.Duration)
	}

	out := &PathData{Duration: rp.Duration}
	for i, rk := range rp.Keyframes {
		field := fmt.Sprintf("path.keyframes[%d]", i)
		k := &out.Keyframes[i]
		var err error
		if k.Position, err = p.vec3(rp.line, field+".position", rk.Position); err != nil {
			return nil, err
		}
		if k.Look, err = p.direction(rp.line, field+".look", rk.Look); err != nil {
			return nil, err
		}
		k.Up = mathutil.WorldY
		if rk.Up != nil {
			if k.Up, err = p.direction(rp.line, field+".up", rk.Up); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func (p *parser) node(rn *rawNode) (*Node, error) {
	n := &Node{Name: rn.Name}

	for _, rt := range rn.Transforms {
		t, err := p.transform(rt.node)
		if err != nil {
			return nil, err
		}
		n.Transforms = append(n.Transforms, t)
	}
	for i := range rn.Primitives {
		prim, err := p.primitive(&rn.Primitives[i])
		if err != nil {
			return nil, err
		}
		n.Primitives = append(n.Primitives, prim)
	}
	for i := range rn.Lights {
		l, err := p.light(&rn.Lights[i])
		if err != nil {
			return nil, err
		}
		n.Lights = append(n.Lights, l)
	}
	for _, rc := range rn.Children {
		if rc == nil {
			continue
		}
		c, err := p.node(rc)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, c)
	}
	return n, nil
}

// transform decodes a single-key mapping such as {translate: [1, 2, 3]}.
func (p *parser) transform(node *yaml.Node) (transform.Transformation, error) {
	if node == nil || node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		line := 0
		if node != nil {
			line = node.Line
		}
		return nil, p.errorf(line, "transform: expected a mapping with exactly one key")
	}
	key, value := node.Content[0].Value, node.Content[1]
	line := node.Line

	op := strings.ToLower(key)
	switch op {
	case "translate", "scale":
		var v []float32
		if err := value.Decode(&v); err != nil {
			return nil, p.errorf(line, "%s: %v", key, err)
		}
		vec, err := p.vec3(line, key, v)
		if err != nil {
			return nil, err
		}
		if op == "scale" {
			return transform.Scale{V: vec}, nil
		}
		return transform.Translate{V: vec}, nil
	case "rotate":
		var r struct {
			Axis  []float32 `yaml:"axis"`
			Angle float32   `yaml:"angle"`
		}
		if err := decodeStrict(value, "rotate", &r); err != nil {
			return nil, p.errorf(line, "rotate: %v", err)
		}
		axis, err := p.direction(line, "rotate.axis", r.Axis)
		if err != nil {
			return nil, err
		}
		return transform.Rotate{Axis: axis, Angle: mathutil.Deg2Rad(r.Angle)}, nil
	case "matrix":
		var v []float32
		if err := value.Decode(&v); err != nil {
			return nil, p.errorf(line, "matrix: %v", err)
		}
		if len(v) != 16 {
			return nil, p.errorf(line, "matrix: expected 16 values; got %d", len(v))
		}
		var rows [16]float32
		copy(rows[:], v)
		return transform.FromRowMajor(rows), nil
	}
	return nil, p.errorf(line, "transform: unknown operation %q", key)
}

func (p *parser) primitive(rp *rawPrimitive) (Primitive, error) {
	var prim Primitive
	switch strings.ToLower(rp.Type) {
	case "cube":
		prim.Type = PrimitiveCube
	case "sphere":
		prim.Type = PrimitiveSphere
	case "cone":
		prim.Type = PrimitiveCone
	case "cylinder":
		prim.Type = PrimitiveCylinder
	case "mesh":
		prim.Type = PrimitiveMesh
		if rp.Mesh == "" {
			return prim, p.errorf(rp.line, "mesh primitive without a mesh file")
		}
		prim.MeshFile = rp.Mesh
	default:
		return prim, p.errorf(rp.line, "unknown primitive type %q", rp.Type)
	}

	if rm := rp.Material; rm != nil {
		m := &prim.Material
		var err error
		if m.Ambient, err = p.color(rp.line, "material.ambient", rm.Ambient, mgl32.Vec3{}); err != nil {
			return prim, err
		}
		if m.Diffuse, err = p.color(rp.line, "material.diffuse", rm.Diffuse, mgl32.Vec3{}); err != nil {
			return prim, err
		}
		if m.Specular, err = p.color(rp.line, "material.specular", rm.Specular, mgl32.Vec3{}); err != nil {
			return prim, err
		}
		m.Shininess = rm.Shininess
		m.Blend = mgl32.Clamp(rm.Blend, 0, 1)
		if rt := rm.Texture; rt != nil && rt.File != "" {
			m.Texture = TextureMap{File: rt.File, RepeatU: rt.RepeatU, RepeatV: rt.RepeatV}
			if m.Texture.RepeatU == 0 {
				m.Texture.RepeatU = 1
			}
			if m.Texture.RepeatV == 0 {
				m.Texture.RepeatV = 1
			}
		}
	}
	return prim, nil
}

func (p *parser) light(rl *rawLight) (LightData, error) {
	l := LightData{ID: -1}
	if rl.ID != nil {
		l.ID = *rl.ID
	}

	switch strings.ToLower(rl.Type) {
	case "point":
		l.Type = LightPoint
	case "directional":
		l.Type = LightDirectional
	case "spot":
		l.Type = LightSpot
	default:
		return l, p.errorf(rl.line, "unknown light type %q", rl.Type)
	}

	var err error
	if l.Color, err = p.color(rl.line, "light.color", rl.Color, mgl32.Vec3{1, 1, 1}); err != nil {
		return l, err
	}

	l.Function = mgl32.Vec3{1, 0, 0}
	if rl.Attenuation != nil {
		if l.Function, err = p.vec3(rl.line, "light.attenuation", rl.Attenuation); err != nil {
			return l, err
		}
	}

	if l.Type != LightPoint {
		if l.Direction, err = p.direction(rl.line, "light.direction", rl.Direction); err != nil {
			return l, err
		}
	}
	if l.Type == LightSpot {
		if rl.Angle <= 0 || rl.Angle >= 180 {
			return l, p.errorf(rl.line, "light.angle: %g outside (0, 180)", rl.Angle)
		}
		l.Angle = mathutil.Deg2Rad(rl.Angle)
		l.Penumbra = mathutil.Deg2Rad(mgl32.Clamp(rl.Penumbra, 0, rl.Angle))
	}
	return l, nil
}

func toSlice(v mgl32.Vec3) []float32 {
	return []float32{v[0], v[1], v[2]}
}
