package sync

import (
	"context"
	"os"

	"regsync/pkg/registry"
	"regsync/pkg/rewrite"
)

// Plan records what a sync would change: the readme content after
// rewriting against the remote description as it stands now.
type Plan struct {
	Request      Request `json:"request"`
	Before       string  `json:"before"`
	After        string  `json:"after"`
	Replacements int     `json:"replacements"`
	Unchanged    bool    `json:"unchanged"`
}

// Syncer pushes a local readme to a remote repository description through
// a registry client. It depends only on the registry.Client interface.
type Syncer struct {
	client    registry.Client
	retryBase *registry.RetryConfig
}

// New creates a syncer backed by the given registry client
func New(client registry.Client) *Syncer {
	return NewWithRetryConfig(client, registry.DefaultRetryConfig())
}

// NewWithRetryConfig creates a syncer with custom retry pacing. The
// per-request retry budget still comes from the request itself.
func NewWithRetryConfig(client registry.Client, retryBase *registry.RetryConfig) *Syncer {
	return &Syncer{client: client, retryBase: retryBase}
}

// Plan reads the readme, interpolates the replacement template, applies
// the literal rewrite, then authenticates and fetches the current remote
// description to detect whether an upload is needed.
//
// Local failures (unreadable readme, bad template, empty search pattern)
// surface before any network call is made.
func (s *Syncer) Plan(ctx context.Context, req Request) (*Plan, error) {
	content, err := os.ReadFile(req.ReadmePath)
	if err != nil {
		return nil, &FileReadError{Path: req.ReadmePath, Cause: err}
	}

	after := string(content)
	replacements := 0
	if req.HasRewrite() {
		replacement, err := rewrite.Interpolate(req.ReplaceTemplate,
			rewrite.TemplateVars(req.Repository.String(), req.RefName))
		if err != nil {
			return nil, err
		}

		result, err := rewrite.Replace(after, req.Search, replacement)
		if err != nil {
			return nil, err
		}
		after = result.Content
		replacements = result.Replacements
	}

	if err := s.client.Authenticate(ctx); err != nil {
		return nil, err
	}

	before, err := s.client.GetDescription(ctx, req.Repository)
	if err != nil {
		return nil, err
	}

	return &Plan{
		Request:      req,
		Before:       before,
		After:        after,
		Replacements: replacements,
		Unchanged:    before == after,
	}, nil
}

// Apply uploads the rewritten readme as the new repository description.
// The write overwrites the remote field wholesale, so re-applying an
// identical plan is a no-op on the remote state.
func (s *Syncer) Apply(ctx context.Context, plan *Plan) error {
	if plan.Unchanged {
		return nil
	}

	retryConfig := *s.retryBase
	retryConfig.MaxRetries = plan.Request.Retries
	return registry.WithRetry(func() error {
		return s.client.UpdateDescription(ctx, plan.Request.Repository, plan.After)
	}, &retryConfig)
}

// Sync plans and applies in one step
func (s *Syncer) Sync(ctx context.Context, req Request) (*Plan, error) {
	plan, err := s.Plan(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.Apply(ctx, plan); err != nil {
		return plan, err
	}
	return plan, nil
}
