package shader

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	// structBlockRegex matches struct declarations and captures the name and body
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	// locationRegex matches @location(N) attributes
	locationRegex = regexp.MustCompile(`@location\((\d+)\)`)

	// builtinRegex matches @builtin(...) attributes
	builtinRegex = regexp.MustCompile(`@builtin\(\w+\)`)

	// fieldRegex matches a struct field line: optional attributes, name, colon, type.
	// The type capture (.+) is greedy to handle parameterized types like array<T, N>.
	fieldRegex = regexp.MustCompile(`(?:(?:@\w+\([^)]*\)\s*)*)*\s*(\w+)\s*:\s*(.+)`)

	// vertexEntryRegex matches @vertex functions and captures the entry point name
	vertexEntryRegex = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)

	// fragmentEntryRegex matches @fragment functions and captures the entry point name
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	// bindGroupDeclRegex captures group, binding, optional address space, variable name, and type
	// from declarations like: @group(0) @binding(0) var<storage, read> draw: DrawUniforms;
	// or handle types: @group(1) @binding(0) var diffuseTexture: texture_2d<f32>;
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// parseVertexLayouts extracts the vertex buffer layouts of every pure vertex input struct
// (@location fields and no @builtin fields). Structs containing unsupported types are skipped.
//
// Parameters:
//   - source: the WGSL source code string
//
// Returns:
//   - []VertexLayout: vertex layouts in declaration order
func parseVertexLayouts(source string) []VertexLayout {
	var result []VertexLayout
	for _, ps := range parseStructBlocks(stripComments(source)) {
		if !isVertexInputStruct(ps) {
			continue
		}
		if layout, ok := buildVertexLayout(ps); ok {
			result = append(result, layout)
		}
	}
	return result
}

// parseBindings extracts all @group(N) @binding(M) resource declarations, sorted by group
// and binding.
//
// Parameters:
//   - source: the WGSL source code string
//
// Returns:
//   - []Binding: the declarations
func parseBindings(source string) []Binding {
	matches := bindGroupDeclRegex.FindAllStringSubmatch(stripComments(source), -1)
	bindings := make([]Binding, 0, len(matches))
	for _, match := range matches {
		group, _ := strconv.Atoi(match[1])
		binding, _ := strconv.Atoi(match[2])
		bindings = append(bindings, Binding{
			Group:        group,
			Binding:      binding,
			AddressSpace: strings.TrimSpace(match[3]),
			VarName:      strings.TrimSpace(match[4]),
			TypeName:     strings.TrimSpace(match[5]),
		})
	}
	sort.Slice(bindings, func(i, j int) bool {
		if bindings[i].Group != bindings[j].Group {
			return bindings[i].Group < bindings[j].Group
		}
		return bindings[i].Binding < bindings[j].Binding
	})
	return bindings
}

// parseUniformLayout finds the first buffer binding whose type is a struct and flattens the
// struct's members into slots with their WGSL offsets.
//
// Parameters:
//   - source: the WGSL source code string, already pre-processed
//
// Returns:
//   - UniformLayout: the layout of the block
//   - error: an error if no buffer binding exists or a member type cannot be resolved
func parseUniformLayout(source string) (UniformLayout, error) {
	cleaned := stripComments(source)
	structs := parseStructBlocks(cleaned)
	byName := make(map[string]parsedStruct, len(structs))
	for _, ps := range structs {
		byName[ps.name] = ps
	}

	for _, b := range parseBindings(cleaned) {
		if !b.IsBuffer() {
			continue
		}
		ps, ok := byName[b.TypeName]
		if !ok {
			continue
		}
		return buildUniformLayout(b, ps, structs)
	}
	return UniformLayout{}, fmt.Errorf("no struct-typed buffer binding found")
}

// buildUniformLayout places every member of ps according to the layout rules of the
// binding's address space.
func buildUniformLayout(b Binding, ps parsedStruct, structs []parsedStruct) (UniformLayout, error) {
	uniform := b.AddressSpace == "uniform"
	known := computeStructSizes(structs, uniform)

	layout := UniformLayout{Binding: b}
	offset := uint64(0)
	maxAlign := uint64(1)
	for _, field := range ps.fields {
		fl, ok := resolveTypeLayout(field.typeName, known, uniform)
		if !ok {
			return UniformLayout{}, fmt.Errorf("member %s.%s: unsupported type %q", ps.name, field.name, field.typeName)
		}
		offset = roundUpAlign(fl.align, offset)

		slot := UniformSlot{
			Name:   field.name,
			Type:   canonicalType(field.typeName),
			Offset: offset,
			Size:   fl.size,
		}
		if elem, count, ok := splitArrayType(field.typeName); ok {
			el, _ := resolveTypeLayout(elem, known, uniform)
			slot.Elem = canonicalType(elem)
			slot.Count = int(count)
			slot.Stride = arrayStride(el, uniform)
			slot.Type = fmt.Sprintf("array<%s, %d>", slot.Elem, count)
		}
		layout.Slots = append(layout.Slots, slot)

		offset += fl.size
		maxAlign = max(maxAlign, fl.align)
	}
	layout.Size = roundUpAlign(maxAlign, offset)
	return layout, nil
}

// parseEntryPoint extracts the entry point function name of the given stage.
// Returns an empty string if no matching entry point is found.
//
// Parameters:
//   - source: the WGSL source code string
//   - re: vertexEntryRegex or fragmentEntryRegex
//
// Returns:
//   - string: the entry point function name, or empty string if not found
func parseEntryPoint(source string, re *regexp.Regexp) string {
	if match := re.FindStringSubmatch(stripComments(source)); match != nil {
		return match[1]
	}
	return ""
}

// parseStructBlocks finds all struct { ... } blocks in the cleaned WGSL source
// and parses their fields including @location and @builtin attributes
//
// Parameters:
//   - source: WGSL source with comments already stripped
//
// Returns:
//   - []parsedStruct: all struct blocks found in the source
func parseStructBlocks(source string) []parsedStruct {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	structs := make([]parsedStruct, 0, len(matches))

	for _, match := range matches {
		structs = append(structs, parsedStruct{
			name:   match[1],
			fields: parseStructFields(match[2]),
		})
	}

	return structs
}

// parseStructFields parses the body of a struct block into individual fields,
// extracting @location and @builtin attributes along with the field name and type
//
// Parameters:
//   - body: the content between { and } of a struct declaration
//
// Returns:
//   - []parsedField: all fields found in the struct body
func parseStructFields(body string) []parsedField {
	lines := splitAtTopLevelCommas(body)
	fields := make([]parsedField, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		field := parsedField{location: -1}
		if builtinRegex.MatchString(line) {
			field.isBuiltin = true
		}
		if locMatch := locationRegex.FindStringSubmatch(line); locMatch != nil {
			if loc, err := strconv.Atoi(locMatch[1]); err == nil {
				field.location = loc
			}
		}

		fm := fieldRegex.FindStringSubmatch(line)
		if fm == nil {
			continue
		}
		field.name = fm[1]
		field.typeName = strings.Join(strings.Fields(fm[2]), " ")

		fields = append(fields, field)
	}

	return fields
}
