// Package config reads run configuration from YAML.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config describes one training run end to end: where the data lives, the
// network shape, the optimizer, and the loop's stopping behavior. Zero values
// mean "feature off" for the optional sections.
type Config struct {
	// Name labels the run in the history database.
	Name string `yaml:"name"`

	Data     Data      `yaml:"data"`
	Model    ModelSpec `yaml:"model"`
	Opt      Opt       `yaml:"optimizer"`
	Cost     string    `yaml:"cost"`
	Training Training  `yaml:"training"`

	// CheckpointDir enables checkpointing when non-empty.
	CheckpointDir string `yaml:"checkpointDir"`

	// HistoryDB enables run recording when non-empty.
	HistoryDB string `yaml:"historyDB"`

	// Listen enables the live websocket feed when non-empty, e.g. ":8080".
	Listen string `yaml:"listen"`
}

type Data struct {
	// Dir is the class-per-folder image directory.
	Dir string `yaml:"dir"`

	BatchSize int `yaml:"batchSize"`

	// ValFraction is the share of examples held out for validation.
	ValFraction float64 `yaml:"valFraction"`

	// Seed drives the train/val split and per-pass shuffling.
	Seed int64 `yaml:"seed"`

	Augment Augment `yaml:"augment"`
}

type Augment struct {
	Flip  bool `yaml:"flip"`
	Shift int  `yaml:"shift"`
}

type ModelSpec struct {
	Image Image `yaml:"image"`

	Conv []ConvSpec `yaml:"conv"`

	// Pool is the max-pooling window applied after the conv stack; zero
	// disables pooling.
	Pool int `yaml:"pool"`

	// Hidden lists the sizes of the fully-connected layers between the conv
	// stack and the output layer.
	Hidden []int `yaml:"hidden"`

	Dropout float64 `yaml:"dropout"`

	Seed int64 `yaml:"seed"`
}

type Image struct {
	Channels int `yaml:"channels"`
	Height   int `yaml:"height"`
	Width    int `yaml:"width"`
}

type ConvSpec struct {
	Filters int `yaml:"filters"`
	Kernel  int `yaml:"kernel"`
}

type Opt struct {
	// Type names a registered optimizer, e.g. "sgd" or "adam". Empty picks
	// the registered default.
	Type string `yaml:"type"`

	LearningRate float64 `yaml:"learningRate"`
}

type Training struct {
	MaxEpochs int `yaml:"maxEpochs"`

	// Patience enables early stopping when >= 1.
	Patience int     `yaml:"patience"`
	MinDelta float64 `yaml:"minDelta"`

	Plateau Plateau `yaml:"plateau"`
}

type Plateau struct {
	// Factor enables plateau-based rate reduction when within (0, 1).
	Factor   float64 `yaml:"factor"`
	Patience int     `yaml:"patience"`
	MinDelta float64 `yaml:"minDelta"`
	MinRate  float64 `yaml:"minRate"`
}

// Default returns the configuration used when a field is left out of the
// file.
func Default() Config {
	return Config{
		Name: "run",
		Data: Data{
			BatchSize:   32,
			ValFraction: 0.2,
			Seed:        1,
		},
		Model: ModelSpec{
			Image: Image{Channels: 3, Height: 32, Width: 32},
			Seed:  1,
		},
		Opt:  Opt{LearningRate: 0.01},
		Cost: "cross-entropy",
		Training: Training{
			MaxEpochs: 20,
		},
	}
}

// Load reads and validates the YAML file at path, starting from Default.
// Unknown fields are an error, so typos do not silently become defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "Couldn't open config file %s\n", path)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, errors.Wrapf(err, "Couldn't parse config file %s\n", path)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "Invalid config file %s\n", path)
	}

	return cfg, nil
}

// Validate checks everything that can be checked without touching the
// filesystem or the registries.
func (c *Config) Validate() error {
	if c.Data.Dir == "" {
		return errors.Errorf("data.dir is required")
	} else if c.Data.BatchSize < 1 {
		return errors.Errorf("data.batchSize must be >= 1 (%d)", c.Data.BatchSize)
	} else if c.Data.ValFraction <= 0 || c.Data.ValFraction >= 1 {
		return errors.Errorf("data.valFraction must be within (0, 1) (%v)", c.Data.ValFraction)
	} else if c.Data.Augment.Shift < 0 {
		return errors.Errorf("data.augment.shift must be >= 0 (%d)", c.Data.Augment.Shift)
	}

	img := c.Model.Image
	if img.Channels < 1 || img.Height < 1 || img.Width < 1 {
		return errors.Errorf("model.image dimensions must all be >= 1 (%d, %d, %d)",
			img.Channels, img.Height, img.Width)
	}
	for i, cv := range c.Model.Conv {
		if cv.Filters < 1 {
			return errors.Errorf("model.conv[%d].filters must be >= 1 (%d)", i, cv.Filters)
		} else if cv.Kernel < 1 || cv.Kernel%2 == 0 {
			return errors.Errorf("model.conv[%d].kernel must be odd and >= 1 (%d)", i, cv.Kernel)
		}
	}
	if c.Model.Pool < 0 {
		return errors.Errorf("model.pool must be >= 0 (%d)", c.Model.Pool)
	}
	for i, n := range c.Model.Hidden {
		if n < 1 {
			return errors.Errorf("model.hidden[%d] must be >= 1 (%d)", i, n)
		}
	}
	if c.Model.Dropout < 0 || c.Model.Dropout >= 1 {
		return errors.Errorf("model.dropout must be within [0, 1) (%v)", c.Model.Dropout)
	}

	if c.Opt.LearningRate <= 0 {
		return errors.Errorf("optimizer.learningRate must be > 0 (%v)", c.Opt.LearningRate)
	}
	if c.Cost == "" {
		return errors.Errorf("cost is required")
	}

	tr := c.Training
	if tr.MaxEpochs < 0 {
		return errors.Errorf("training.maxEpochs must be >= 0 (%d)", tr.MaxEpochs)
	}
	if tr.Patience < 0 {
		return errors.Errorf("training.patience must be >= 0 (%d)", tr.Patience)
	} else if tr.MinDelta < 0 {
		return errors.Errorf("training.minDelta must be >= 0 (%v)", tr.MinDelta)
	}

	pl := tr.Plateau
	if pl.Factor != 0 {
		if pl.Factor < 0 || pl.Factor >= 1 {
			return errors.Errorf("training.plateau.factor must be within (0, 1) (%v)", pl.Factor)
		} else if pl.Patience < 1 {
			return errors.Errorf("training.plateau.patience must be >= 1 (%d)", pl.Patience)
		} else if pl.MinDelta < 0 {
			return errors.Errorf("training.plateau.minDelta must be >= 0 (%v)", pl.MinDelta)
		} else if pl.MinRate < 0 {
			return errors.Errorf("training.plateau.minRate must be >= 0 (%v)", pl.MinRate)
		}
	}

	return nil
}
