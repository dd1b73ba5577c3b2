package shader

import (
	"fmt"
	"os"
)

// shader is the implementation of the Shader interface.
// It holds the processed source and the metadata backends need to build a pipeline.
type shader struct {
	key           string
	source        string
	vertexEntry   string
	fragmentEntry string
	bindings      []Binding
	vertexLayouts []VertexLayout
	uniformLayout UniformLayout
	declarations  []Annotation
}

// Shader is a pre-processed and parsed WGSL module holding both the vertex and fragment
// stages of a render program.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the processed WGSL source code.
	//
	// Returns:
	//   - string: the WGSL source code with annotations expanded
	Source() string

	// VertexEntry returns the name of the @vertex entry point.
	VertexEntry() string

	// FragmentEntry returns the name of the @fragment entry point.
	FragmentEntry() string

	// Bindings returns every resource declaration sorted by group and binding.
	Bindings() []Binding

	// VertexLayouts returns the layouts of the vertex input structs in declaration order.
	VertexLayouts() []VertexLayout

	// UniformLayout returns the layout of the per-draw block.
	UniformLayout() UniformLayout

	// Declarations returns the group and provider annotations found by the pre-processor.
	Declarations() []Annotation

	// Provider finds the binding declared for a provider role.
	//
	// Parameters:
	//   - role: the binding role, e.g. AnnotationArgDiffuseTexture
	//
	// Returns:
	//   - group, binding: the binding location
	//   - bool: false if the shader declares no such role
	Provider(role AnnotationArg) (group, binding int, ok bool)
}

var _ Shader = &shader{}

// NewShader pre-processes and parses WGSL source.
//
// Parameters:
//   - key: a unique identifier for the shader, used for caching and lookups
//   - source: the WGSL source containing @oxy annotations
//
// Returns:
//   - Shader: the parsed shader
//   - error: ErrShaderCompile wrapped with the cause
func NewShader(key, source string) (Shader, error) {
	pp := NewPreProcessor()
	processed, err := pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrShaderCompile, key, err)
	}
	s := &shader{
		key:           key,
		source:        processed,
		vertexEntry:   parseEntryPoint(processed, vertexEntryRegex),
		fragmentEntry: parseEntryPoint(processed, fragmentEntryRegex),
		bindings:      parseBindings(processed),
		vertexLayouts: parseVertexLayouts(processed),
		declarations:  append([]Annotation(nil), pp.Declarations()...),
	}
	if s.vertexEntry == "" || s.fragmentEntry == "" {
		return nil, fmt.Errorf("%w: %s: missing @vertex or @fragment entry point", ErrShaderCompile, key)
	}
	s.uniformLayout, err = parseUniformLayout(processed)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrShaderCompile, key, err)
	}
	return s, nil
}

// NewShaderFromPath reads WGSL source from disk and parses it with NewShader.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - path: the file path to read WGSL source from
//
// Returns:
//   - Shader: the parsed shader
//   - error: the read error or ErrShaderCompile
func NewShaderFromPath(key, path string) (Shader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read shader %q: %w", path, err)
	}
	return NewShader(key, string(data))
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) VertexEntry() string {
	return s.vertexEntry
}

func (s *shader) FragmentEntry() string {
	return s.fragmentEntry
}

func (s *shader) Bindings() []Binding {
	return s.bindings
}

func (s *shader) VertexLayouts() []VertexLayout {
	return s.vertexLayouts
}

func (s *shader) UniformLayout() UniformLayout {
	return s.uniformLayout
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}

func (s *shader) Provider(role AnnotationArg) (group, binding int, ok bool) {
	for _, d := range s.declarations {
		if d.Type != AnnotationTypeProvider || len(d.Args) < 2 || d.Args[1] != role {
			continue
		}
		return *d.Group, *d.Binding, true
	}
	return 0, 0, false
}
