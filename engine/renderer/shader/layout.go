package shader

import (
	"fmt"
	"sort"

	"github.com/cogentcore/webgpu/wgpu"
)

// BindGroupLayouts builds one layout descriptor per bind group from group declarations.
// Every binding is visible to both the vertex and fragment stages.
//
// Parameters:
//   - decls: declarations collected by PreProcessor.Process
//
// Returns:
//   - []wgpu.BindGroupLayoutDescriptor: descriptors indexed by group, with no gaps
//   - error: a group index is skipped or a binding is declared twice
func BindGroupLayouts(decls []Annotation) ([]wgpu.BindGroupLayoutDescriptor, error) {
	byGroup := make(map[int][]wgpu.BindGroupLayoutEntry)
	maxGroup := -1
	for _, d := range decls {
		if d.Type != AnnotationTypeBindingGroup {
			continue
		}
		for _, e := range byGroup[*d.Group] {
			if int(e.Binding) == *d.Binding {
				return nil, fmt.Errorf("line %d: binding %d of group %d declared twice", d.Line, *d.Binding, *d.Group)
			}
		}
		byGroup[*d.Group] = append(byGroup[*d.Group], classifyBinding(uint32(*d.Binding), d.Args[0]))
		maxGroup = max(maxGroup, *d.Group)
	}

	descriptors := make([]wgpu.BindGroupLayoutDescriptor, maxGroup+1)
	for g := range descriptors {
		entries, ok := byGroup[g]
		if !ok {
			return nil, fmt.Errorf("bind group %d has no bindings", g)
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Binding < entries[j].Binding })
		descriptors[g] = wgpu.BindGroupLayoutDescriptor{
			Label:   fmt.Sprintf("Group %d Layout", g),
			Entries: entries,
		}
	}
	return descriptors, nil
}

func classifyBinding(binding uint32, addressSpace AnnotationArg) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
	}
	switch addressSpace {
	case annotationArgAddressRead:
		entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
	default:
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	}
	return entry
}
