package covers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"dekugames/internal/core"
	"dekugames/internal/log"
)

// MappingFile is the download result written next to the covers.
const MappingFile = "game-covers-mapping.json"

// ImageSource finds and fetches cover images.
type ImageSource interface {
	Search(ctx context.Context, title string) (string, error)
	Fetch(ctx context.Context, imageURL string) (io.ReadCloser, error)
}

// DownloadResult reports one download run.
type DownloadResult struct {
	// Mapping holds title to public path for every stored cover.
	Mapping  map[string]string
	Failures map[string]error
}

// Downloader fetches covers for game titles into an AssetStore.
type Downloader struct {
	source      ImageSource
	store       AssetStore
	concurrency int
	logger      *log.Logger
}

// NewDownloader returns a Downloader running at most concurrency fetches at a time.
func NewDownloader(source ImageSource, store AssetStore, concurrency int, logger *log.Logger) *Downloader {
	if concurrency < 1 {
		concurrency = 4
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Downloader{
		source:      source,
		store:       store,
		concurrency: concurrency,
		logger:      logger.WithComponent(log.ComponentCovers),
	}
}

// FileName is the asset name a title is stored under.
func FileName(title string) string {
	return Slug(title) + ".jpg"
}

// Download stores a cover for each title. A failed title is recorded and the
// run continues; only context cancellation aborts it.
func (d *Downloader) Download(ctx context.Context, titles []string) (*DownloadResult, error) {
	res := &DownloadResult{
		Mapping:  make(map[string]string),
		Failures: make(map[string]error),
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)

	for _, title := range titles {
		if title == "" || Slug(title) == "" {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			name := FileName(title)
			err := d.one(gctx, title, name)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failures[title] = err
				d.logger.Warn("Cover download failed", log.FieldOperation, log.OpDownload, "title", title, log.FieldError, err.Error())
				return nil
			}
			res.Mapping[title] = core.CoverDir + "/" + name
			d.logger.Info("Cover downloaded", log.FieldOperation, log.OpDownload, "title", title, log.FieldCover, name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	return res, ctx.Err()
}

func (d *Downloader) one(ctx context.Context, title, name string) error {
	imageURL, err := d.source.Search(ctx, title)
	if err != nil {
		return err
	}
	body, err := d.source.Fetch(ctx, imageURL)
	if err != nil {
		return err
	}
	defer body.Close()
	return d.store.Put(ctx, name, body)
}

// WriteMapping writes m as indented JSON with sorted keys.
func WriteMapping(path string, m map[string]string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode mapping: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write mapping %s: %w", path, err)
	}
	return nil
}

// SortedKeys returns the keys of m in order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
