package covers

import (
	"context"
	"fmt"
	"path"
	"strings"

	"dekugames/internal/core"
	"dekugames/internal/log"
)

// Unused returns the files whose name or extensionless stem is not in refs.
// The placeholder cover and dotfiles are never returned.
func Unused(files []string, refs map[string]struct{}) []string {
	var out []string
	for _, f := range files {
		if f == core.PlaceholderCover || strings.HasPrefix(f, ".") {
			continue
		}
		if strings.HasSuffix(f, ".json") {
			continue // mapping files
		}
		stem := strings.TrimSuffix(f, path.Ext(f))
		if _, ok := refs[f]; ok {
			continue
		}
		if _, ok := refs[stem]; ok {
			continue
		}
		out = append(out, f)
	}
	return out
}

// CleanupResult reports a cleanup run.
type CleanupResult struct {
	Unused  []string
	Deleted []string
	Failed  map[string]error
}

// Cleaner finds and deletes unreferenced covers.
type Cleaner struct {
	store  AssetStore
	logger *log.Logger
}

func NewCleaner(store AssetStore, logger *log.Logger) *Cleaner {
	if logger == nil {
		logger = log.Discard()
	}
	return &Cleaner{store: store, logger: logger.WithComponent(log.ComponentCovers)}
}

// Find lists the unused files in the store.
func (c *Cleaner) Find(ctx context.Context, refs map[string]struct{}) ([]string, error) {
	files, err := c.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list covers: %w", err)
	}
	return Unused(files, refs), nil
}

// Delete removes each file, continuing past failures.
func (c *Cleaner) Delete(ctx context.Context, files []string) *CleanupResult {
	res := &CleanupResult{Unused: files, Failed: make(map[string]error)}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			res.Failed[f] = err
			continue
		}
		if err := c.store.Delete(ctx, f); err != nil {
			res.Failed[f] = err
			c.logger.Warn("Cover delete failed", log.FieldOperation, log.OpCleanup, log.FieldCover, f, log.FieldError, err.Error())
			continue
		}
		res.Deleted = append(res.Deleted, f)
	}
	c.logger.Info("Cleanup finished",
		log.FieldOperation, log.OpCleanup,
		"deleted", len(res.Deleted),
		"failed", len(res.Failed))
	return res
}
