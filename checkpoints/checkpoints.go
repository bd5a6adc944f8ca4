// Package checkpoints persists parameter sets as files in a directory, one
// JSON file per tag.
package checkpoints

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	bs "github.com/sharnoff/classroom"
)

// Dir implements classroom.Checkpointer on top of a directory. Each Save
// writes <dir>/<tag>.json; Load reads it back. Saving a tag twice overwrites
// the earlier file.
type Dir struct {
	path string
}

// New creates the directory (and any parents, with permissions 0700) if it
// does not already exist.
func New(path string) (*Dir, error) {
	if path == "" {
		return nil, errors.Errorf("checkpoint directory path is empty")
	}

	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, errors.Wrapf(err, "Couldn't make checkpoint directory %s\n", path)
	}

	return &Dir{path: path}, nil
}

// Path returns the directory the checkpoints live in.
func (d *Dir) Path() string {
	return d.path
}

func (d *Dir) file(tag string) (string, error) {
	if tag == "" {
		return "", errors.Errorf("checkpoint tag is empty")
	} else if strings.ContainsAny(tag, "/\\") {
		return "", errors.Errorf("checkpoint tag %q contains a path separator", tag)
	}

	return filepath.Join(d.path, tag+".json"), nil
}

// Save implements classroom.Checkpointer. The write goes through a temporary
// file and a rename, so a crash mid-save never leaves a truncated checkpoint
// under the tag.
func (d *Dir) Save(p bs.Params, tag string) error {
	path, err := d.file(tag)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(d.path, tag+"-*.tmp")
	if err != nil {
		return errors.Wrapf(err, "Couldn't create file for checkpoint %q\n", tag)
	}

	enc := json.NewEncoder(f)
	if err := enc.Encode([][]float64(p)); err != nil {
		f.Close()
		os.Remove(f.Name())
		return errors.Wrapf(err, "Couldn't encode checkpoint %q\n", tag)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return errors.Wrapf(err, "Couldn't write checkpoint %q\n", tag)
	}

	if err := os.Rename(f.Name(), path); err != nil {
		os.Remove(f.Name())
		return errors.Wrapf(err, "Couldn't move checkpoint %q into place\n", tag)
	}

	return nil
}

// Load implements classroom.Checkpointer.
func (d *Dir) Load(tag string) (bs.Params, error) {
	path, err := d.file(tag)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Couldn't open checkpoint %q\n", tag)
	}
	defer f.Close()

	var groups [][]float64
	if err := json.NewDecoder(f).Decode(&groups); err != nil {
		return nil, errors.Wrapf(err, "Couldn't decode checkpoint %q\n", tag)
	}

	return bs.Params(groups), nil
}

// Tags returns the tags present in the directory, sorted.
func (d *Dir) Tags() ([]string, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, errors.Wrapf(err, "Couldn't read checkpoint directory %s\n", d.path)
	}

	var tags []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}

		tags = append(tags, strings.TrimSuffix(name, ".json"))
	}

	sort.Strings(tags)
	return tags, nil
}
