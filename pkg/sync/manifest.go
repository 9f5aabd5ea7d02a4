package sync

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"regsync/pkg/registry"
)

// Defaults applied when a target does not pin its own values
const (
	DefaultReadmePath = "README.md"
	DefaultRefName    = "main"
)

// RewriteRule defines a literal link rewrite applied to the readme before
// upload. Replace is a template that may reference ${repository} and
// ${ref_name}.
type RewriteRule struct {
	Search  string `yaml:"search"`
	Replace string `yaml:"replace"`
}

// TargetDefaults holds manifest-wide settings merged into every target
type TargetDefaults struct {
	Registry string       `yaml:"registry,omitempty"`
	Readme   string       `yaml:"readme,omitempty"`
	Ref      string       `yaml:"ref,omitempty"`
	Rewrite  *RewriteRule `yaml:"rewrite,omitempty"`
	Retries  *int         `yaml:"retries,omitempty"`
}

// Target defines a single repository to sync
type Target struct {
	Repository string       `yaml:"repository"`
	Registry   string       `yaml:"registry,omitempty"`
	Readme     string       `yaml:"readme,omitempty"`
	Ref        string       `yaml:"ref,omitempty"`
	Rewrite    *RewriteRule `yaml:"rewrite,omitempty"`
	Retries    *int         `yaml:"retries,omitempty"`
}

// Manifest is the declarative sync configuration: global defaults plus a
// list of targets
type Manifest struct {
	Defaults TargetDefaults `yaml:"defaults,omitempty"`
	Targets  []Target       `yaml:"targets"`
}

// Request carries everything one sync invocation needs. It is constructed
// once from the manifest and CLI context and never mutated afterwards.
type Request struct {
	Repository      registry.Repository
	Backend         registry.Backend
	ReadmePath      string
	Search          string
	ReplaceTemplate string
	RefName         string
	Retries         int
}

// HasRewrite reports whether a link rewrite is configured for this request
func (r Request) HasRewrite() bool {
	return r.Search != ""
}

// LoadManifest reads and parses a sync manifest from a YAML file
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest file: %w", err)
	}

	return &manifest, nil
}

// Validate checks the manifest for structural problems, collecting every
// field error instead of stopping at the first
func (m *Manifest) Validate() error {
	var validationErrors ValidationErrors

	if len(m.Targets) == 0 {
		validationErrors.Add("targets", "", "at least one target is required")
	}

	if m.Defaults.Registry != "" {
		if _, err := registry.ParseBackend(m.Defaults.Registry); err != nil {
			validationErrors.Add("defaults.registry", m.Defaults.Registry, "unknown registry backend")
		}
	}
	validateRewrite(&validationErrors, "defaults.rewrite", m.Defaults.Rewrite)
	if m.Defaults.Retries != nil && *m.Defaults.Retries < 0 {
		validationErrors.Add("defaults.retries", fmt.Sprintf("%d", *m.Defaults.Retries), "retries cannot be negative")
	}

	seen := make(map[string]bool)
	for i, target := range m.Targets {
		field := fmt.Sprintf("targets[%d]", i)

		if target.Repository == "" {
			validationErrors.Add(field+".repository", "", "repository is required")
		} else if _, err := registry.ParseRepository(target.Repository); err != nil {
			validationErrors.Add(field+".repository", target.Repository, "expected owner/name")
		}

		if seen[target.Repository] && target.Repository != "" {
			validationErrors.Add(field+".repository", target.Repository, "duplicate target repository")
		}
		seen[target.Repository] = true

		registryName := target.Registry
		if registryName == "" {
			registryName = m.Defaults.Registry
		}
		if registryName == "" {
			validationErrors.Add(field+".registry", "", "registry is required (set it on the target or in defaults)")
		} else if _, err := registry.ParseBackend(registryName); err != nil {
			validationErrors.Add(field+".registry", registryName, "unknown registry backend")
		}

		validateRewrite(&validationErrors, field+".rewrite", target.Rewrite)
		if target.Retries != nil && *target.Retries < 0 {
			validationErrors.Add(field+".retries", fmt.Sprintf("%d", *target.Retries), "retries cannot be negative")
		}
	}

	if validationErrors.HasErrors() {
		return validationErrors
	}
	return nil
}

func validateRewrite(errs *ValidationErrors, field string, rule *RewriteRule) {
	if rule == nil {
		return
	}
	if rule.Search == "" {
		errs.Add(field+".search", "", "search pattern cannot be empty")
	}
	if rule.Replace == "" {
		errs.Add(field+".replace", "", "replace template cannot be empty")
	}
}

// TargetNames returns the repository identifiers of all targets, in
// manifest order
func (m *Manifest) TargetNames() []string {
	names := make([]string, 0, len(m.Targets))
	for _, target := range m.Targets {
		names = append(names, target.Repository)
	}
	return names
}

// ResolveTargets merges defaults into each target and builds the sync
// requests. An empty filter selects every target; otherwise only the named
// repositories are resolved, and naming an unknown repository is an error.
func (m *Manifest) ResolveTargets(filter []string) ([]Request, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	selected := make(map[string]bool)
	for _, name := range filter {
		selected[strings.TrimSpace(name)] = false
	}

	var requests []Request
	for _, target := range m.Targets {
		if len(filter) > 0 {
			if _, ok := selected[target.Repository]; !ok {
				continue
			}
			selected[target.Repository] = true
		}

		req, err := m.resolveTarget(target)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	for name, found := range selected {
		if !found {
			return nil, fmt.Errorf("repository %q not found in manifest (available: %s)",
				name, strings.Join(m.TargetNames(), ", "))
		}
	}

	return requests, nil
}

func (m *Manifest) resolveTarget(target Target) (Request, error) {
	repository, err := registry.ParseRepository(target.Repository)
	if err != nil {
		return Request{}, err
	}

	registryName := target.Registry
	if registryName == "" {
		registryName = m.Defaults.Registry
	}
	backend, err := registry.ParseBackend(registryName)
	if err != nil {
		return Request{}, err
	}

	readme := firstNonEmpty(target.Readme, m.Defaults.Readme, DefaultReadmePath)
	ref := firstNonEmpty(target.Ref, m.Defaults.Ref, DefaultRefName)

	rule := target.Rewrite
	if rule == nil {
		rule = m.Defaults.Rewrite
	}

	retries := 0
	if m.Defaults.Retries != nil {
		retries = *m.Defaults.Retries
	}
	if target.Retries != nil {
		retries = *target.Retries
	}

	req := Request{
		Repository: repository,
		Backend:    backend,
		ReadmePath: readme,
		RefName:    ref,
		Retries:    retries,
	}
	if rule != nil {
		req.Search = rule.Search
		req.ReplaceTemplate = rule.Replace
	}

	return req, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
