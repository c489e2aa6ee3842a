package shader

import (
	"fmt"
	"os"
	"sort"
	"strings"

	graphite "github.com/Carmen-Shannon/graphite-go"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ShaderType identifies whether a shader provides a vertex or a fragment stage.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

// String returns the lowercase stage name, e.g. "vertex".
func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

// variantCacheSize bounds how many processed variants each shader retains.
const variantCacheSize = 16

// shader is the implementation of the Shader interface.
// It holds the raw source and a bounded cache of processed variants keyed by
// their definition set.
type shader struct {
	key        string
	rawSource  string
	shaderType ShaderType

	pp       PreProcessor
	variants *lru.Cache[string, ShaderVariant]
}

// Shader defines the interface for a loaded WGSL shader asset. A shader holds raw,
// unprocessed source; callers obtain concrete variants per definition set via Variant,
// which pre-processes, reflects, and compiles the source on first use and caches the
// result for subsequent requests.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// ShaderType returns the type of the shader (vertex or fragment).
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// RawSource retrieves the unprocessed WGSL shader source code, with all
	// # directives still present.
	//
	// Returns:
	//   - string: the raw WGSL source code of the shader
	RawSource() string

	// Variant resolves the shader for the given definition set. On first request the
	// source is pre-processed with the definitions, the entry point and resource
	// bindings are reflected from the processed source, and the source is compiled to
	// SPIR-V. The resulting variant is cached, so repeated requests with the same
	// definition set (in any order) return the same instance.
	//
	// Parameters:
	//   - defs: the definition names active for this variant, order-insensitive
	//
	// Returns:
	//   - ShaderVariant: the processed, reflected, and compiled variant
	//   - error: an error if pre-processing, reflection, or compilation fails
	Variant(defs ...string) (ShaderVariant, error)
}

var _ Shader = &shader{}

// shaderVariant is the implementation of the ShaderVariant interface.
type shaderVariant struct {
	source        string
	entryPoint    string
	vertexLayouts []wgpu.VertexBufferLayout
	bindings      []BindingDecl
	bytecode      []byte
	module        *wgpu.ShaderModuleDescriptor
}

// ShaderVariant is one processed form of a shader: the source with a specific
// definition set applied, plus everything reflected and compiled from it.
type ShaderVariant interface {
	// Source retrieves the processed WGSL source code with all directives resolved.
	//
	// Returns:
	//   - string: the processed WGSL source code
	Source() string

	// EntryPoint returns the entry point function name for this variant.
	//
	// Returns:
	//   - string: the entry point function name (e.g. "vs_main")
	EntryPoint() string

	// VertexLayouts retrieves the vertex buffer layouts reflected from the processed
	// source, one per vertex input struct in source order. Nil for fragment shaders.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the reflected vertex buffer layouts
	VertexLayouts() []wgpu.VertexBufferLayout

	// Bindings retrieves the resource declarations reflected from the processed
	// source, sorted by group then binding index.
	//
	// Returns:
	//   - []BindingDecl: the reflected resource declarations
	Bindings() []BindingDecl

	// Bytecode returns the SPIR-V bytecode compiled from the processed source.
	// Compilation doubles as validation: a variant that exists always carried
	// source the compiler accepted.
	//
	// Returns:
	//   - []byte: the SPIR-V module as little-endian bytes
	Bytecode() []byte

	// Module returns the wgpu.ShaderModuleDescriptor for this variant, ready to be
	// passed to wgpu.Device.CreateShaderModule.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the shader module descriptor containing the processed WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor
}

var _ ShaderVariant = &shaderVariant{}

// NewShader creates a new Shader instance from raw WGSL source code. The source is
// stored unprocessed; variants are built lazily on the first Variant call for each
// definition set.
//
// Parameters:
//   - key: a unique identifier for the shader, used for caching and lookups
//   - shaderType: the type of shader (vertex or fragment), used for entry point and layout reflection
//   - source: the raw WGSL source code, which may contain # directives
//
// Returns:
//   - Shader: a new Shader instance holding the provided source
func NewShader(key string, shaderType ShaderType, source string) Shader {
	if source == "" {
		panic(fmt.Sprintf("shader: %s must have non-empty source", key))
	}
	variants, _ := lru.New[string, ShaderVariant](variantCacheSize)
	return &shader{
		key:        key,
		rawSource:  source,
		shaderType: shaderType,
		pp:         NewPreProcessor(),
		variants:   variants,
	}
}

// NewShaderFromPath creates a new Shader instance by reading raw WGSL source code
// from a file.
//
// Parameters:
//   - key: a unique identifier for the shader, used for caching and lookups
//   - shaderType: the type of shader (vertex or fragment), used for entry point and layout reflection
//   - sourcePath: the file path to read WGSL source from
//
// Returns:
//   - Shader: a new Shader instance holding the file's contents
func NewShaderFromPath(key string, shaderType ShaderType, sourcePath string) Shader {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		panic(fmt.Sprintf("shader: failed to read source file %q: %v", sourcePath, err))
	}
	return NewShader(key, shaderType, string(data))
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) RawSource() string {
	return s.rawSource
}

func (s *shader) Variant(defs ...string) (ShaderVariant, error) {
	key := variantKey(defs)
	if v, ok := s.variants.Get(key); ok {
		return v, nil
	}

	source, err := s.pp.Process(s.rawSource, defs...)
	if err != nil {
		return nil, fmt.Errorf("shader %q: %w", s.key, err)
	}

	entryPoint := parseEntryPoint(source, s.shaderType)
	if entryPoint == "" {
		return nil, fmt.Errorf("shader %q: no %s entry point found", s.key, s.shaderType)
	}

	bindings, err := parseBindingDecls(source)
	if err != nil {
		return nil, fmt.Errorf("shader %q: %w", s.key, err)
	}

	var vertexLayouts []wgpu.VertexBufferLayout
	if s.shaderType == ShaderTypeVertex {
		vertexLayouts = parseVertexLayouts(source)
	}

	bytecode, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("shader %q: compile failed: %w", s.key, err)
	}

	v := &shaderVariant{
		source:        source,
		entryPoint:    entryPoint,
		vertexLayouts: vertexLayouts,
		bindings:      bindings,
		bytecode:      bytecode,
		module: &wgpu.ShaderModuleDescriptor{
			Label: s.key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
				Code: source,
			},
		},
	}
	s.variants.Add(key, v)

	graphite.Logger().Debug("compiled shader variant",
		"shader", s.key,
		"defs", key,
		"bindings", len(bindings),
		"spirvBytes", len(bytecode))

	return v, nil
}

func (v *shaderVariant) Source() string {
	return v.source
}

func (v *shaderVariant) EntryPoint() string {
	return v.entryPoint
}

func (v *shaderVariant) VertexLayouts() []wgpu.VertexBufferLayout {
	return v.vertexLayouts
}

func (v *shaderVariant) Bindings() []BindingDecl {
	return v.bindings
}

func (v *shaderVariant) Bytecode() []byte {
	return v.bytecode
}

func (v *shaderVariant) Module() *wgpu.ShaderModuleDescriptor {
	return v.module
}

// variantKey canonicalizes a definition set into a cache key. Definitions are
// sorted and de-duplicated so "A,B" and "B,A,B" produce the same key.
func variantKey(defs []string) string {
	if len(defs) == 0 {
		return ""
	}
	sorted := make([]string, len(defs))
	copy(sorted, defs)
	sort.Strings(sorted)

	unique := sorted[:1]
	for _, d := range sorted[1:] {
		if d != unique[len(unique)-1] {
			unique = append(unique, d)
		}
	}
	return strings.Join(unique, ";")
}
