package variant

import "testing"

func TestList_FourVariantsInOrder(t *testing.T) {
	specs := List()

	want := []string{"cpu", "gpu", "gpu-deepspeed", "gpu-fp8-transformerengine"}
	if len(specs) != len(want) {
		t.Fatalf("List() returned %d specs, want %d", len(specs), len(want))
	}
	for i, name := range want {
		if specs[i].Name != name {
			t.Errorf("specs[%d].Name = %q, want %q", i, specs[i].Name, name)
		}
	}
}

func TestList_Deterministic(t *testing.T) {
	first := List()
	second := List()

	for i := range first {
		if first[i] != second[i] {
			t.Errorf("List() not deterministic at index %d: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestList_ReturnsCopy(t *testing.T) {
	specs := List()
	specs[0].Name = "mutated"

	if List()[0].Name != "cpu" {
		t.Error("mutation of List() result leaked into registry")
	}
}

func TestSpec_Tag(t *testing.T) {
	tests := []struct {
		variant string
		version string
		want    string
	}{
		{"cpu", "1.2.3", "cpu-release-1.2.3"},
		{"gpu", "1.2.3", "gpu-release-1.2.3"},
		{"gpu-deepspeed", "1.2.3", "gpu-deepspeed-release-1.2.3"},
		{"gpu-fp8-transformerengine", "1.2.3", "gpu-fp8-transformerengine-release-1.2.3"},
		{"gpu", "0.4.0rc1", "gpu-release-0.4.0rc1"},
	}

	for _, tt := range tests {
		spec, ok := Lookup(tt.variant)
		if !ok {
			t.Fatalf("Lookup(%q) not found", tt.variant)
		}
		if got := spec.Tag(tt.version); got != tt.want {
			t.Errorf("Tag(%q) for %s = %q, want %q", tt.version, tt.variant, got, tt.want)
		}
	}
}

func TestSpec_Validate(t *testing.T) {
	tests := []struct {
		name    string
		spec    Spec
		wantErr bool
	}{
		{
			name:    "valid",
			spec:    Spec{Name: "cpu", ContextPath: "docker/cpu", TagTemplate: "cpu-release-{version}"},
			wantErr: false,
		},
		{
			name:    "empty name",
			spec:    Spec{ContextPath: "docker/cpu", TagTemplate: "cpu-release-{version}"},
			wantErr: true,
		},
		{
			name:    "empty context",
			spec:    Spec{Name: "cpu", TagTemplate: "cpu-release-{version}"},
			wantErr: true,
		},
		{
			name:    "template without placeholder",
			spec:    Spec{Name: "cpu", ContextPath: "docker/cpu", TagTemplate: "cpu-release-latest"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSpec_DockerfilePath(t *testing.T) {
	spec := Spec{Name: "cpu", ContextPath: "docker/cpu"}
	if got := spec.DockerfilePath(); got != "docker/cpu/Dockerfile" {
		t.Errorf("DockerfilePath() = %q, want docker/cpu/Dockerfile", got)
	}
}
