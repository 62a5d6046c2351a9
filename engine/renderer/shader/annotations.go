// annotations.go defines the @oxy: comment annotations understood by the shader
// pre-processor. An annotation is a WGSL line comment of the form
//
//	//@oxy:<type> <args...>
//
// and is replaced by generated WGSL when the shader is processed.
package shader

import (
	"fmt"
	"strconv"
	"strings"
)

// annotationPrefix marks an annotation inside a WGSL line comment.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the action an annotation requests.
type AnnotationType string

const (
	// AnnotationTypeInclude injects a registered struct definition at the annotation site.
	//
	// Syntax: //@oxy:include <struct_type>
	//
	// Example: //@oxy:include camera
	AnnotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup emits a @group/@binding variable declaration for a
	// registered struct and records it in the pre-processor's declarations.
	//
	// Syntax: //@oxy:group <group> <binding> <address_space> <var_name> <struct_type>
	//
	// Example: //@oxy:group 0 0 uniform camera camera
	AnnotationTypeBindingGroup AnnotationType = "group"
)

// AnnotationArg is a struct type key or address space accepted as an annotation argument.
type AnnotationArg string

const (
	// AnnotationArgCamera is the CameraUniform struct (engine/camera/assets/camera_uniform.wgsl).
	AnnotationArgCamera AnnotationArg = "camera"

	// AnnotationArgVoxelInput is the VertexInput and InstanceInput pair
	// (engine/model/assets/voxel_input.wgsl).
	AnnotationArgVoxelInput AnnotationArg = "voxel_input"

	// AnnotationArgModel is the ModelUniform struct (engine/model/assets/model_uniform.wgsl).
	AnnotationArgModel AnnotationArg = "model"
)

const (
	annotationArgAddressUniform AnnotationArg = "uniform"
	annotationArgAddressRead    AnnotationArg = "storage_read"
)

// Annotation is one parsed @oxy: line.
type Annotation struct {
	Type AnnotationType

	// Args holds the arguments after the type:
	//   - include: [0] = struct type
	//   - group:   [0] = address space, [1] = var name, [2] = struct type
	Args []AnnotationArg

	// Line is the 1-based source line, for error reporting.
	Line int

	// Group and Binding are set for group annotations only.
	Group   *int
	Binding *int
}

// parseAnnotation parses a single source line. A line that is not an annotation
// returns (nil, nil).
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	rest, ok := strings.CutPrefix(trimmed, "//")
	if !ok {
		return nil, nil
	}
	rest, ok = strings.CutPrefix(strings.TrimSpace(rest), annotationPrefix)
	if !ok {
		return nil, nil
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return nil, fmt.Errorf("line %d: empty annotation", lineNum)
	}

	a := &Annotation{Type: AnnotationType(fields[0]), Line: lineNum}
	args := fields[1:]

	switch a.Type {
	case AnnotationTypeInclude:
		if len(args) != 1 {
			return nil, fmt.Errorf("line %d: include expects 1 argument, got %d", lineNum, len(args))
		}
		a.Args = []AnnotationArg{AnnotationArg(args[0])}
	case AnnotationTypeBindingGroup:
		if len(args) != 5 {
			return nil, fmt.Errorf("line %d: group expects 5 arguments, got %d", lineNum, len(args))
		}
		group, err := strconv.Atoi(args[0])
		if err != nil || group < 0 {
			return nil, fmt.Errorf("line %d: invalid group index %q", lineNum, args[0])
		}
		binding, err := strconv.Atoi(args[1])
		if err != nil || binding < 0 {
			return nil, fmt.Errorf("line %d: invalid binding index %q", lineNum, args[1])
		}
		a.Group = &group
		a.Binding = &binding
		a.Args = []AnnotationArg{AnnotationArg(args[2]), AnnotationArg(args[3]), AnnotationArg(args[4])}
	default:
		return nil, fmt.Errorf("line %d: unknown annotation type %q", lineNum, a.Type)
	}

	return a, nil
}
