package covers

import (
	"context"
	"errors"
	"io"
	"reflect"
	"testing"
)

func TestUnused(t *testing.T) {
	files := []string{
		"game-placeholder.png",
		"hades.png",
		"celeste.png",
		"old-game.png",
		"by-name.jpg",
		"game-covers-mapping.json",
		".DS_Store",
	}
	refs := map[string]struct{}{
		"hades":       {},
		"celeste.png": {},
		"by-name.jpg": {},
	}
	got := Unused(files, refs)
	if want := []string{"old-game.png"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Unused() = %v, want %v", got, want)
	}
}

type flakyStore struct {
	files   []string
	fail    map[string]bool
	deleted []string
}

func (s *flakyStore) List(context.Context) ([]string, error) { return s.files, nil }
func (s *flakyStore) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, ErrNotFound
}
func (s *flakyStore) Put(context.Context, string, io.Reader) error { return nil }
func (s *flakyStore) Delete(_ context.Context, name string) error {
	if s.fail[name] {
		return errors.New("permission denied")
	}
	s.deleted = append(s.deleted, name)
	return nil
}

func TestCleaner(t *testing.T) {
	store := &flakyStore{
		files: []string{"a.png", "b.png", "c.png", "game-placeholder.png"},
		fail:  map[string]bool{"b.png": true},
	}
	c := NewCleaner(store, nil)

	unused, err := c.Find(context.Background(), map[string]struct{}{})
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if want := []string{"a.png", "b.png", "c.png"}; !reflect.DeepEqual(unused, want) {
		t.Fatalf("Find() = %v, want %v", unused, want)
	}

	res := c.Delete(context.Background(), unused)
	if want := []string{"a.png", "c.png"}; !reflect.DeepEqual(res.Deleted, want) {
		t.Errorf("Deleted = %v, want %v", res.Deleted, want)
	}
	if _, ok := res.Failed["b.png"]; !ok || len(res.Failed) != 1 {
		t.Errorf("Failed = %v", res.Failed)
	}
}
