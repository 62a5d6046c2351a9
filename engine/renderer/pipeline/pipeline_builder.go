package pipeline

import "github.com/cogentcore/webgpu/wgpu"

// PipelineBuilderOption is a functional option applied to a pipeline during construction via NewPipeline.
type PipelineBuilderOption func(*pipeline)

// WithSource sets the WGSL module and the number of bind groups it declares.
//
// Parameters:
//   - source: pre-processed WGSL containing the vertex and fragment entry points
//   - bindGroupCount: number of bind groups the module uses, starting at group 0
//
// Returns:
//   - PipelineBuilderOption: a function that applies the source option to a pipeline
func WithSource(source string, bindGroupCount int) PipelineBuilderOption {
	return func(p *pipeline) {
		p.source = source
		p.bindGroupCount = bindGroupCount
	}
}

// WithEntryPoints overrides the vertex and fragment entry function names.
//
// Parameters:
//   - vertex: vertex entry point name
//   - fragment: fragment entry point name
//
// Returns:
//   - PipelineBuilderOption: a function that applies the entry point option to a pipeline
func WithEntryPoints(vertex, fragment string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexEntry = vertex
		p.fragmentEntry = fragment
	}
}

// WithVertexLayouts sets the vertex buffer layouts in slot order.
//
// Parameters:
//   - layouts: one layout per vertex buffer slot
//
// Returns:
//   - PipelineBuilderOption: a function that applies the vertex layouts to a pipeline
func WithVertexLayouts(layouts ...wgpu.VertexBufferLayout) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexLayouts = layouts
	}
}

// WithDepthWriteEnabled toggles depth writes. Depth testing always stays on.
//
// Parameters:
//   - enabled: true to write depth
//
// Returns:
//   - PipelineBuilderOption: a function that applies the depth write option to a pipeline
func WithDepthWriteEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthWriteEnabled = enabled
	}
}

// WithCullMode sets which triangle faces are culled.
//
// Parameters:
//   - mode: the wgpu.CullMode to use
//
// Returns:
//   - PipelineBuilderOption: a function that applies the cull mode to a pipeline
func WithCullMode(mode wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// WithTopology sets the primitive topology.
//
// Parameters:
//   - topology: the wgpu.PrimitiveTopology to use
//
// Returns:
//   - PipelineBuilderOption: a function that applies the topology to a pipeline
func WithTopology(topology wgpu.PrimitiveTopology) PipelineBuilderOption {
	return func(p *pipeline) {
		p.topology = topology
	}
}

// WithFrontFace sets the winding order that counts as front facing.
//
// Parameters:
//   - frontFace: the wgpu.FrontFace to use
//
// Returns:
//   - PipelineBuilderOption: a function that applies the front face to a pipeline
func WithFrontFace(frontFace wgpu.FrontFace) PipelineBuilderOption {
	return func(p *pipeline) {
		p.frontFace = frontFace
	}
}

// WithWriteMask sets the color channels written by the fragment stage.
//
// Parameters:
//   - writeMask: the wgpu.ColorWriteMask to use
//
// Returns:
//   - PipelineBuilderOption: a function that applies the write mask to a pipeline
func WithWriteMask(writeMask wgpu.ColorWriteMask) PipelineBuilderOption {
	return func(p *pipeline) {
		p.writeMask = writeMask
	}
}
