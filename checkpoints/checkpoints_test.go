package checkpoints

import (
	"path/filepath"
	"testing"

	bs "github.com/sharnoff/classroom"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	d, err := New(filepath.Join(t.TempDir(), "run"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	p := bs.Params{{1, 2, 3}, {-0.5}, {0, 0.25}}
	if err := d.Save(p, "epoch-1"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := d.Load("epoch-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.Equal(p) {
		t.Fatalf("Load = %v, want %v", got, p)
	}
}

func TestSaveOverwrites(t *testing.T) {
	d, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := d.Save(bs.Params{{1}}, "best"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := d.Save(bs.Params{{2}}, "best"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := d.Load("best")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got[0][0] != 2 {
		t.Fatalf("Load = %v, want the later save", got)
	}
}

func TestLoadMissingTag(t *testing.T) {
	d, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := d.Load("nope"); err == nil {
		t.Fatalf("missing tag did not error")
	}
}

func TestBadTags(t *testing.T) {
	d, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := d.Save(bs.Params{{1}}, ""); err == nil {
		t.Fatalf("empty tag was accepted")
	}
	if err := d.Save(bs.Params{{1}}, "../escape"); err == nil {
		t.Fatalf("tag with a path separator was accepted")
	}
}

func TestTags(t *testing.T) {
	d, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, tag := range []string{"epoch-2", "epoch-1", "best"} {
		if err := d.Save(bs.Params{{1}}, tag); err != nil {
			t.Fatalf("Save(%q): %v", tag, err)
		}
	}

	tags, err := d.Tags()
	if err != nil {
		t.Fatalf("Tags: %v", err)
	}

	want := []string{"best", "epoch-1", "epoch-2"}
	if len(tags) != len(want) {
		t.Fatalf("Tags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("Tags = %v, want %v", tags, want)
		}
	}
}
