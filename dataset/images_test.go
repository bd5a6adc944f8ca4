package dataset

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Encode: %v", err)
	}
}

func TestLoadDir(t *testing.T) {
	root := t.TempDir()
	for _, class := range []string{"cat", "dog"} {
		if err := os.Mkdir(filepath.Join(root, class), 0700); err != nil {
			t.Fatalf("Mkdir: %v", err)
		}
	}

	writePNG(t, filepath.Join(root, "cat", "a.png"), 4, 4, color.RGBA{255, 0, 0, 255})
	writePNG(t, filepath.Join(root, "cat", "b.png"), 4, 4, color.RGBA{255, 0, 0, 255})
	writePNG(t, filepath.Join(root, "dog", "a.png"), 4, 4, color.RGBA{0, 0, 255, 255})

	set, classes, err := LoadDir(root, 2)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}

	if len(classes) != 2 || classes[0] != "cat" || classes[1] != "dog" {
		t.Fatalf("classes = %v, want [cat dog]", classes)
	}
	if set.Len() != 3 {
		t.Fatalf("loaded %d examples, want 3", set.Len())
	}
	if set.InputSize() != 3*4*4 {
		t.Fatalf("input size = %d, want 48", set.InputSize())
	}

	batches, err := set.Batches()
	if err != nil {
		t.Fatalf("Batches: %v", err)
	}

	for _, b := range batches {
		for i := range b.Inputs {
			in := b.Inputs[i]
			red, blue := in[0], in[2*4*4]

			switch b.Labels[i] {
			case 0: // cat: red
				if red < 0.99 || blue > 0.01 {
					t.Fatalf("cat example looks wrong: red %v, blue %v", red, blue)
				}
			case 1: // dog: blue
				if blue < 0.99 || red > 0.01 {
					t.Fatalf("dog example looks wrong: red %v, blue %v", red, blue)
				}
			default:
				t.Fatalf("unexpected label %d", b.Labels[i])
			}
		}
	}
}

func TestLoadDirRejectsMixedSizes(t *testing.T) {
	root := t.TempDir()
	for _, class := range []string{"a", "b"} {
		if err := os.Mkdir(filepath.Join(root, class), 0700); err != nil {
			t.Fatalf("Mkdir: %v", err)
		}
	}

	writePNG(t, filepath.Join(root, "a", "x.png"), 4, 4, color.White)
	writePNG(t, filepath.Join(root, "b", "y.png"), 8, 8, color.White)

	if _, _, err := LoadDir(root, 2); err == nil {
		t.Fatalf("mixed image sizes were accepted")
	}
}

func TestLoadDirNeedsTwoClasses(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "only"), 0700); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	writePNG(t, filepath.Join(root, "only", "x.png"), 4, 4, color.White)

	if _, _, err := LoadDir(root, 2); err == nil {
		t.Fatalf("single-class dataset was accepted")
	}
}
