package bind_group_provider

import "testing"

func TestNewBindGroupProviderDefaults(t *testing.T) {
	p := NewBindGroupProvider("Voxel Mesh", WithIndexCount(36))

	if p.Label() != "Voxel Mesh" {
		t.Errorf("expected label %q, got %q", "Voxel Mesh", p.Label())
	}
	if p.IndexCount() != 36 {
		t.Errorf("expected index count 36, got %d", p.IndexCount())
	}
	if p.BindGroup() != nil || p.VertexBuffer() != nil || p.InstanceBuffer() != nil || p.Buffer(0) != nil {
		t.Error("expected no GPU resources before initialization")
	}
}

func TestSetInstanceBufferTracksCount(t *testing.T) {
	p := NewBindGroupProvider("Voxel Mesh")

	p.SetInstanceBuffer(nil, 12)
	if p.InstanceCount() != 12 {
		t.Errorf("expected instance count 12, got %d", p.InstanceCount())
	}

	p.Release()
	if p.InstanceCount() != 0 || p.IndexCount() != 0 {
		t.Errorf("expected counts cleared on release, got %d/%d", p.InstanceCount(), p.IndexCount())
	}
}
