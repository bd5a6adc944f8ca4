package dataset

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// LoadDir reads a class-per-folder image directory:
//
//	root/
//	  cat/  img0.png img1.png ...
//	  dog/  ...
//
// Every image must share the same dimensions. Pixels come out channel-major
// (all red values, then green, then blue), scaled to [0, 1], which matches the
// layout nn.Conv expects with InputDims(3, h, w). The class names, sorted,
// double as the label indices.
func LoadDir(root string, batchSize int) (*InMemory, []string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "Couldn't read dataset directory %s\n", root)
	}

	var classes []string
	for _, e := range entries {
		if e.IsDir() {
			classes = append(classes, e.Name())
		}
	}
	if len(classes) < 2 {
		return nil, nil, errors.Errorf("dataset needs at least 2 class folders; %s has %d", root, len(classes))
	}
	sort.Strings(classes)

	var inputs [][]float64
	var labels []int
	width, height := -1, -1

	for label, class := range classes {
		dir := filepath.Join(root, class)
		files, err := os.ReadDir(dir)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "Couldn't read class directory %s\n", dir)
		}

		for _, f := range files {
			if f.IsDir() || !isImageFile(f.Name()) {
				continue
			}

			path := filepath.Join(dir, f.Name())
			vs, w, h, err := decodeImage(path)
			if err != nil {
				return nil, nil, err
			}

			if width == -1 {
				width, height = w, h
			} else if w != width || h != height {
				return nil, nil, errors.Errorf("image %s is %dx%d; earlier images are %dx%d", path, w, h, width, height)
			}

			inputs = append(inputs, vs)
			labels = append(labels, label)
		}
	}

	set, err := FromSlices(inputs, labels, batchSize)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "Loaded no usable images from %s\n", root)
	}

	return set, classes, nil
}

// LoadImage decodes a single image into the same channel-major layout LoadDir
// produces, for classifying one file at a time.
func LoadImage(path string) ([]float64, int, int, error) {
	return decodeImage(path)
}

func isImageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}

func decodeImage(path string) ([]float64, int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, errors.Wrapf(err, "Couldn't open image %s\n", path)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, 0, 0, errors.Wrapf(err, "Couldn't decode image %s\n", path)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	vs := make([]float64, 3*h*w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()

			// RGBA returns 16-bit values
			vs[0*h*w+y*w+x] = float64(r) / 0xffff
			vs[1*h*w+y*w+x] = float64(g) / 0xffff
			vs[2*h*w+y*w+x] = float64(b) / 0xffff
		}
	}

	return vs, w, h, nil
}
