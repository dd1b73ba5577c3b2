package shader

// wgslTypeLayout holds the byte size and alignment for a WGSL type per the WGSL layout rules.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// parsedField represents a single field extracted from a WGSL struct during parsing
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

// parsedStruct represents a WGSL struct block extracted during parsing
type parsedStruct struct {
	name   string
	fields []parsedField
}

// Binding is a resource declaration found in shader source.
type Binding struct {
	Group        int
	Binding      int
	AddressSpace string
	VarName      string
	TypeName     string
}

// IsBuffer reports whether the binding is a uniform or storage buffer.
func (b Binding) IsBuffer() bool {
	return b.AddressSpace != ""
}

// VertexAttribute is one attribute of a vertex input struct. Format is the WGSL type name;
// backends map it to their own vertex format enumeration.
type VertexAttribute struct {
	Location int
	Format   string
	Offset   uint64
}

// VertexLayout describes one interleaved vertex buffer.
type VertexLayout struct {
	Stride     uint64
	Attributes []VertexAttribute
}
