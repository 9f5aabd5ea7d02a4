package sync

import (
	"context"
	"fmt"

	"regsync/pkg/registry"
)

// ClientFactory produces a registry client for a backend. The factory is
// where credentials are bound, so the multi-syncer itself never sees
// secrets.
type ClientFactory func(backend registry.Backend) (registry.Client, error)

// TargetResult records the outcome of one target
type TargetResult struct {
	Repository   string           `json:"repository"`
	Backend      registry.Backend `json:"backend"`
	Replacements int              `json:"replacements"`
	Unchanged    bool             `json:"unchanged"`
	DryRun       bool             `json:"dry_run"`
	Err          error            `json:"-"`
}

// Result aggregates the outcomes of a multi-target run
type Result struct {
	Targets   []TargetResult `json:"targets"`
	Succeeded int            `json:"succeeded"`
	Unchanged int            `json:"unchanged"`
	Failed    int            `json:"failed"`
}

// MultiSyncer processes several sync targets in sequence. Targets are
// independent: a failure is recorded and the remaining targets still run.
type MultiSyncer struct {
	factory ClientFactory
	dryRun  bool
}

// NewMultiSyncer creates a multi-target syncer
func NewMultiSyncer(factory ClientFactory, dryRun bool) *MultiSyncer {
	return &MultiSyncer{factory: factory, dryRun: dryRun}
}

// SyncAll processes every request. The returned Result always covers all
// requests; the error is nil only when every target succeeded. When some
// targets succeeded and some failed the error is a *PartialFailureError.
func (ms *MultiSyncer) SyncAll(ctx context.Context, requests []Request) (*Result, error) {
	if len(requests) == 0 {
		return nil, fmt.Errorf("no sync targets to process")
	}

	result := &Result{}
	var succeeded []string
	failed := make(map[string]error)

	for _, req := range requests {
		target := ms.syncOne(ctx, req)
		result.Targets = append(result.Targets, target)

		if target.Err != nil {
			result.Failed++
			failed[target.Repository] = target.Err
			continue
		}

		result.Succeeded++
		if target.Unchanged {
			result.Unchanged++
		}
		succeeded = append(succeeded, target.Repository)
	}

	if len(failed) == 0 {
		return result, nil
	}
	if len(succeeded) == 0 && len(failed) == 1 {
		for _, err := range failed {
			return result, err
		}
	}
	return result, &PartialFailureError{Succeeded: succeeded, Failed: failed}
}

func (ms *MultiSyncer) syncOne(ctx context.Context, req Request) TargetResult {
	target := TargetResult{
		Repository: req.Repository.String(),
		Backend:    req.Backend,
		DryRun:     ms.dryRun,
	}

	client, err := ms.factory(req.Backend)
	if err != nil {
		target.Err = err
		return target
	}

	syncer := New(client)
	plan, err := syncer.Plan(ctx, req)
	if err != nil {
		target.Err = err
		return target
	}

	target.Replacements = plan.Replacements
	target.Unchanged = plan.Unchanged

	if ms.dryRun {
		return target
	}

	if err := syncer.Apply(ctx, plan); err != nil {
		target.Err = err
	}
	return target
}
