// Package sync pushes local readme files to remote registry repository
// descriptions. It implements declarative sync configuration through YAML
// manifests and plans each upload against the current remote state.
//
// The package includes:
// - Manifest models for sync targets and defaults
// - Syncer for the read/rewrite/upload flow of a single target
// - MultiSyncer for independent processing of several targets
// - Error types for file-read and partial-failure reporting
package sync
