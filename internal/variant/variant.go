package variant

import (
	"fmt"
	"path/filepath"
	"strings"
)

// VersionPlaceholder is the token substituted with the resolved
// release version when a tag template is rendered.
const VersionPlaceholder = "{version}"

// Spec describes one image variant: where its build context lives and
// how its release tag is derived from the version.
// Specs are immutable, shared configuration; they are never mutated
// after process start.
type Spec struct {
	// Name identifies the variant (e.g. "gpu-deepspeed")
	Name string

	// ContextPath is the build context directory, relative to the
	// project root
	ContextPath string

	// Dockerfile is the build file name within the context
	Dockerfile string

	// TagTemplate is the tag with a {version} placeholder
	TagTemplate string
}

// Tag renders the release tag for the given version
func (s Spec) Tag(version string) string {
	return strings.ReplaceAll(s.TagTemplate, VersionPlaceholder, version)
}

// DockerfilePath returns the full path of the build file
func (s Spec) DockerfilePath() string {
	name := s.Dockerfile
	if name == "" {
		name = "Dockerfile"
	}
	return filepath.Join(s.ContextPath, name)
}

// Validate checks the spec for use in a release run
func (s Spec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("variant name must not be empty")
	}
	if s.ContextPath == "" {
		return fmt.Errorf("variant %s: context path must not be empty", s.Name)
	}
	if !strings.Contains(s.TagTemplate, VersionPlaceholder) {
		return fmt.Errorf("variant %s: tag template %q missing %s placeholder",
			s.Name, s.TagTemplate, VersionPlaceholder)
	}
	return nil
}

// defaults is the built-in registry: the four release variants, in
// the order they are reported.
var defaults = []Spec{
	{
		Name:        "cpu",
		ContextPath: "docker/cpu",
		Dockerfile:  "Dockerfile",
		TagTemplate: "cpu-release-{version}",
	},
	{
		Name:        "gpu",
		ContextPath: "docker/gpu",
		Dockerfile:  "Dockerfile",
		TagTemplate: "gpu-release-{version}",
	},
	{
		Name:        "gpu-deepspeed",
		ContextPath: "docker/gpu-deepspeed",
		Dockerfile:  "Dockerfile",
		TagTemplate: "gpu-deepspeed-release-{version}",
	},
	{
		Name:        "gpu-fp8-transformerengine",
		ContextPath: "docker/gpu-fp8-transformerengine",
		Dockerfile:  "Dockerfile",
		TagTemplate: "gpu-fp8-transformerengine-release-{version}",
	},
}

// List returns the registered variants in deterministic order.
// The returned slice is a copy; callers may not mutate registry state.
func List() []Spec {
	specs := make([]Spec, len(defaults))
	copy(specs, defaults)
	return specs
}

// Lookup returns the spec with the given name
func Lookup(name string) (Spec, bool) {
	for _, s := range defaults {
		if s.Name == name {
			return s, true
		}
	}
	return Spec{}, false
}
