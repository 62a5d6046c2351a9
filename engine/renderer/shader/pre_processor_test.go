package shader

import (
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestProcessIncludeAndGroup(t *testing.T) {
	src := strings.Join([]string{
		"//@oxy:include camera",
		"//@oxy:group 0 0 uniform camera camera",
		"  // @oxy:group 1 0 uniform model model",
		"fn main() {}",
	}, "\n")

	p := NewPreProcessor()
	out, err := p.Process(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"struct CameraUniform",
		"@group(0) @binding(0) var<uniform> camera: CameraUniform;",
		"@group(1) @binding(0) var<uniform> model: ModelUniform;",
		"fn main() {}",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, annotationPrefix) {
		t.Errorf("expected every annotation to be replaced:\n%s", out)
	}

	decls := p.Declarations()
	if len(decls) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(decls))
	}
	if *decls[1].Group != 1 || *decls[1].Binding != 0 || decls[1].Args[2] != AnnotationArgModel {
		t.Errorf("unexpected second declaration %+v", decls[1])
	}
}

func TestProcessResetsDeclarations(t *testing.T) {
	p := NewPreProcessor()
	if _, err := p.Process("//@oxy:group 0 0 uniform camera camera"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Process("fn main() {}"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Declarations()) != 0 {
		t.Errorf("expected declarations reset, got %d", len(p.Declarations()))
	}
}

func TestProcessErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown type", "//@oxy:frobnicate camera"},
		{"empty", "//@oxy:"},
		{"include arity", "//@oxy:include camera model"},
		{"unknown include", "//@oxy:include lights"},
		{"group arity", "//@oxy:group 0 0 uniform camera"},
		{"bad group index", "//@oxy:group x 0 uniform camera camera"},
		{"negative binding", "//@oxy:group 0 -1 uniform camera camera"},
		{"unknown address space", "//@oxy:group 0 0 private camera camera"},
		{"unknown struct", "//@oxy:group 0 0 uniform lights lights"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPreProcessor().Process("fn a() {}\n" + tt.src); err == nil {
				t.Errorf("expected an error for %q", tt.src)
			} else if !strings.Contains(err.Error(), "line 2") {
				t.Errorf("expected error to name line 2, got %v", err)
			}
		})
	}
}

func TestPlainCommentsPassThrough(t *testing.T) {
	src := "// lighting\n// oxy:include camera"
	out, err := NewPreProcessor().Process(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != src {
		t.Errorf("expected plain comments unchanged, got %q", out)
	}
}

func TestBindGroupLayouts(t *testing.T) {
	p := NewPreProcessor()
	_, err := p.Process(strings.Join([]string{
		"//@oxy:group 1 0 uniform model model",
		"//@oxy:group 0 0 uniform camera camera",
	}, "\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	layouts, err := BindGroupLayouts(p.Declarations())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(layouts) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(layouts))
	}
	for g, l := range layouts {
		if len(l.Entries) != 1 || l.Entries[0].Buffer.Type != wgpu.BufferBindingTypeUniform {
			t.Errorf("group %d: expected one uniform entry, got %+v", g, l.Entries)
		}
		if l.Entries[0].Visibility&wgpu.ShaderStageVertex == 0 {
			t.Errorf("group %d: expected vertex visibility", g)
		}
	}
}

func TestBindGroupLayoutsErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"gap", "//@oxy:group 1 0 uniform model model"},
		{"duplicate", "//@oxy:group 0 0 uniform camera camera\n//@oxy:group 0 0 uniform model model"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPreProcessor()
			if _, err := p.Process(tt.src); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, err := BindGroupLayouts(p.Declarations()); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
