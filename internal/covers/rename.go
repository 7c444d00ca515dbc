package covers

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"dekugames/internal/log"
)

// RenameMappingFile records code to file for a rename run.
const RenameMappingFile = "rename-mapping.json"

const progressEvery = 100

// TitleEntry is one "CODE = Name" line of a title database.
type TitleEntry struct {
	Code string
	Name string
}

// ParseTitleDB reads a switchtdb-style listing. Blank lines, "TITLES ="
// headers and lines without " = " are ignored.
func ParseTitleDB(r io.Reader) ([]TitleEntry, error) {
	var entries []TitleEntry
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "TITLES =") {
			continue
		}
		code, name, ok := strings.Cut(line, " = ")
		if !ok {
			continue
		}
		code, name = strings.TrimSpace(code), strings.TrimSpace(name)
		if code == "" || name == "" {
			continue
		}
		entries = append(entries, TitleEntry{Code: code, Name: name})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read title database: %w", err)
	}
	return entries, nil
}

// RenameResult reports a rename run.
type RenameResult struct {
	Renamed       int
	Skipped       int
	Mapping       map[string]string
	SourceRemoved bool
}

// Renamer moves CODE.png files named by title code to their slugged title.
type Renamer struct {
	sourceDir string
	targetDir string
	logger    *log.Logger
}

func NewRenamer(sourceDir, targetDir string, logger *log.Logger) *Renamer {
	if logger == nil {
		logger = log.Discard()
	}
	return &Renamer{sourceDir: sourceDir, targetDir: targetDir, logger: logger.WithComponent(log.ComponentCovers)}
}

// Rename moves every entry whose CODE.png exists in the source dir. Entries
// without a file, or whose name slugs to nothing, are skipped.
func (r *Renamer) Rename(entries []TitleEntry) (*RenameResult, error) {
	if err := os.MkdirAll(r.targetDir, 0o755); err != nil {
		return nil, fmt.Errorf("create target dir: %w", err)
	}

	res := &RenameResult{Mapping: make(map[string]string)}
	for _, e := range entries {
		slug := Slug(e.Name)
		src := filepath.Join(r.sourceDir, e.Code+".png")
		if slug == "" {
			r.skip(res)
			continue
		}
		if _, err := os.Stat(src); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return res, fmt.Errorf("stat %s: %w", src, err)
			}
			r.skip(res)
			continue
		}
		name := slug + ".png"
		if err := os.Rename(src, filepath.Join(r.targetDir, name)); err != nil {
			return res, fmt.Errorf("move %s: %w", src, err)
		}
		res.Mapping[e.Code] = name
		res.Renamed++
		if res.Renamed%progressEvery == 0 {
			r.logger.Info("Rename progress", log.FieldOperation, log.OpRename, "renamed", res.Renamed)
		}
	}

	if err := WriteMapping(filepath.Join(r.targetDir, RenameMappingFile), res.Mapping); err != nil {
		return res, err
	}

	// os.Remove refuses a non-empty directory, which is what we want here.
	if err := os.Remove(r.sourceDir); err == nil {
		res.SourceRemoved = true
	} else {
		r.logger.Debug("Source dir kept", log.FieldOperation, log.OpRename, log.FieldError, err.Error())
	}

	r.logger.Info("Rename finished",
		log.FieldOperation, log.OpRename,
		"renamed", res.Renamed,
		"skipped", res.Skipped,
		"source_removed", res.SourceRemoved)
	return res, nil
}

func (r *Renamer) skip(res *RenameResult) {
	res.Skipped++
	if res.Skipped%progressEvery == 0 {
		r.logger.Info("Rename progress", log.FieldOperation, log.OpRename, "skipped", res.Skipped)
	}
}
