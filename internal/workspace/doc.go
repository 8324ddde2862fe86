// Package workspace manages the scratch directory holding source checkouts,
// supporting both ephemeral and persistent modes.
//
// Ephemeral mode creates a unique directory (e.g. plugindocs-1234567) that is
// removed when the run finishes.
//
// Persistent mode uses a fixed directory (e.g. ./.checkouts) that survives
// runs, so tag checkouts already on disk are reused instead of cloned again.
package workspace
