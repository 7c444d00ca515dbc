package covers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

type fakeSource struct {
	missing  map[string]bool
	inFlight atomic.Int32
	peak     atomic.Int32
	mu       sync.Mutex
	searched []string
}

func (f *fakeSource) Search(_ context.Context, title string) (string, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	f.mu.Lock()
	f.searched = append(f.searched, title)
	f.mu.Unlock()
	if f.missing[title] {
		return "", ErrNoImage
	}
	return "https://img.example/" + Slug(title), nil
}

func (f *fakeSource) Fetch(_ context.Context, imageURL string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(imageURL)), nil
}

func TestDownloader_Download(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDirStore(dir)
	if err != nil {
		t.Fatalf("NewDirStore() error = %v", err)
	}
	src := &fakeSource{missing: map[string]bool{"Ghost Game": true}}
	d := NewDownloader(src, store, 2, nil)

	titles := []string{"Hades", "Super Mario Odyssey", "Ghost Game", "", "Celeste"}
	res, err := d.Download(context.Background(), titles)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	want := map[string]string{
		"Hades":               "/game-covers/hades.jpg",
		"Super Mario Odyssey": "/game-covers/super-mario-odyssey.jpg",
		"Celeste":             "/game-covers/celeste.jpg",
	}
	if !reflect.DeepEqual(res.Mapping, want) {
		t.Errorf("Mapping = %v, want %v", res.Mapping, want)
	}
	if !errors.Is(res.Failures["Ghost Game"], ErrNoImage) {
		t.Errorf("Failures = %v", res.Failures)
	}
	if len(src.searched) != 4 {
		t.Errorf("searched %d titles, want 4 (empty skipped)", len(src.searched))
	}
	if p := src.peak.Load(); p > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", p)
	}

	data, err := os.ReadFile(filepath.Join(dir, "hades.jpg"))
	if err != nil {
		t.Fatalf("read stored cover: %v", err)
	}
	if string(data) != "https://img.example/hades" {
		t.Errorf("stored cover = %q", data)
	}
}

func TestDownloader_Cancelled(t *testing.T) {
	store, _ := NewDirStore(t.TempDir())
	d := NewDownloader(&fakeSource{}, store, 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.Download(ctx, []string{"Hades"}); !errors.Is(err, context.Canceled) {
		t.Errorf("Download() error = %v, want context.Canceled", err)
	}
}

func TestWriteMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), MappingFile)
	m := map[string]string{"Hades": "/game-covers/hades.jpg"}
	if err := WriteMapping(path, m); err != nil {
		t.Fatalf("WriteMapping() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(got, m) {
		t.Errorf("mapping = %v, want %v", got, m)
	}
}

func TestSortedKeys(t *testing.T) {
	got := SortedKeys(map[string]int{"b": 1, "a": 2, "c": 3})
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("SortedKeys() = %v, want %v", got, want)
	}
}
