// Command classroom trains an image classifier from a YAML run configuration,
// records the run, and can evaluate or classify with the trained weights.
//
//	classroom train -config run.yaml
//	classroom train -config retrain.yaml -from best
//	classroom evaluate -config run.yaml -from best
//	classroom classify -config run.yaml -image cat.png
//	classroom runs -config run.yaml
//
// Passing -from continues from a saved checkpoint instead of fresh random
// weights; with a config that enables augmentation, that is the tutorial's
// second, augmented training pass.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"

	bs "github.com/sharnoff/classroom"
	"github.com/sharnoff/classroom/checkpoints"
	"github.com/sharnoff/classroom/config"
	_ "github.com/sharnoff/classroom/costfuncs"
	"github.com/sharnoff/classroom/dataset"
	"github.com/sharnoff/classroom/history"
	"github.com/sharnoff/classroom/nn"
	_ "github.com/sharnoff/classroom/optimizers"
	"github.com/sharnoff/classroom/telemetry"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: classroom <train|evaluate|classify|runs> [flags]")
		os.Exit(2)
	}

	cmd, args := os.Args[1], os.Args[2:]

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	klog.InitFlags(fs)
	cfgPath := fs.String("config", "run.yaml", "path to the run configuration")
	imgPath := fs.String("image", "", "image to classify (classify only)")
	from := fs.String("from", "", "checkpoint tag to start from (train) or to evaluate")

	// common overrides, so quick experiments don't need a config edit
	name := fs.String("name", "", "override the run name")
	epochs := fs.Int("epochs", -1, "override training.maxEpochs")
	rate := fs.Float64("lr", 0, "override optimizer.learningRate")
	fs.Parse(args)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		klog.Exitf("%v", err)
	}

	if *name != "" {
		cfg.Name = *name
	}
	if *epochs >= 0 {
		cfg.Training.MaxEpochs = *epochs
	}
	if *rate > 0 {
		cfg.Opt.LearningRate = *rate
	}

	switch cmd {
	case "train":
		err = train(cfg, *from)
	case "evaluate":
		err = evaluate(cfg, *from)
	case "classify":
		err = classify(cfg, *imgPath)
	case "runs":
		err = listRuns(cfg)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		os.Exit(2)
	}

	if err != nil {
		klog.Exitf("%v", err)
	}
}

func train(cfg config.Config, from string) error {
	data, classes, err := dataset.LoadDir(cfg.Data.Dir, cfg.Data.BatchSize)
	if err != nil {
		return err
	}
	klog.Infof("loaded %d examples across %d classes from %s", data.Len(), len(classes), cfg.Data.Dir)

	trainSet, valSet, err := data.Split(1-cfg.Data.ValFraction, cfg.Data.Seed)
	if err != nil {
		return err
	}
	trainSet.Shuffle(cfg.Data.Seed)

	var trainData bs.DataSupplier = trainSet
	if aug := cfg.Data.Augment; aug.Flip || aug.Shift > 0 {
		a := dataset.Augment(trainSet, cfg.Model.Image.Channels, cfg.Model.Image.Height, cfg.Model.Image.Width).
			Seed(cfg.Data.Seed)
		if aug.Flip {
			a.Flip()
		}
		if aug.Shift > 0 {
			a.Shift(aug.Shift)
		}
		trainData = a
	}

	net, err := buildNetwork(cfg.Model, len(classes))
	if err != nil {
		return err
	}
	klog.Infof("model has %d trainable values", net.Params().NumValues())

	if from != "" {
		if err := loadCheckpoint(cfg, from, net); err != nil {
			return err
		}
		klog.Infof("continuing from checkpoint %q", from)
	}

	opt, err := pickOptimizer(cfg.Opt)
	if err != nil {
		return err
	}
	cost, err := bs.CostFunctionFrom(cfg.Cost)
	if err != nil {
		return err
	}

	args := bs.TrainArgs{
		Model:     net,
		Opt:       opt,
		Cost:      cost,
		TrainData: trainData,
		ValData:   valSet,
		MaxEpochs: cfg.Training.MaxEpochs,
	}

	if cfg.Training.Patience >= 1 {
		if args.Stopper, err = bs.NewEarlyStopping(cfg.Training.Patience, cfg.Training.MinDelta); err != nil {
			return err
		}
	}
	if pl := cfg.Training.Plateau; pl.Factor != 0 {
		if args.Rate, err = bs.NewReduceOnPlateau(opt, pl.Factor, pl.Patience, pl.MinDelta, pl.MinRate); err != nil {
			return err
		}
	}
	if cfg.CheckpointDir != "" {
		if args.Checkpoints, err = checkpoints.New(cfg.CheckpointDir); err != nil {
			return err
		}
	}

	sinks := []bs.Sink{telemetry.NewConsole()}

	var run *history.Run
	if cfg.HistoryDB != "" {
		store, err := history.Open(cfg.HistoryDB)
		if err != nil {
			return err
		}
		defer store.Close()

		cfgText, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		if run, err = store.StartRun(cfg.Name, string(cfgText)); err != nil {
			return err
		}
		sinks = append(sinks, run)
	}

	if cfg.Listen != "" {
		b := telemetry.NewBroadcaster()
		defer b.Close()
		sinks = append(sinks, b)

		go func() {
			klog.Infof("live telemetry on ws://%s/live", cfg.Listen)
			mux := http.NewServeMux()
			mux.Handle("/live", b)
			if err := http.ListenAndServe(cfg.Listen, mux); err != nil {
				klog.Warningf("telemetry server: %v", err)
			}
		}()
	}

	args.Sink = telemetry.Multi(sinks...)

	res, err := bs.Train(args)
	if err != nil {
		return err
	}

	if res.Stopped {
		klog.Infof("stopped early after %d epochs", res.Epochs)
	}
	klog.Infof("best val loss %.4f, best val accuracy %.2f%%", res.BestLoss, 100*res.BestAccuracy)

	if run != nil {
		if err := run.Finish(res); err != nil {
			return err
		}
		klog.Infof("recorded run %s", run.ID())
	}

	return nil
}

// evaluate runs a forward-only pass of a saved checkpoint over the held-out
// validation split and prints the averaged metrics.
func evaluate(cfg config.Config, from string) error {
	if from == "" {
		from = "best"
	}

	data, classes, err := dataset.LoadDir(cfg.Data.Dir, cfg.Data.BatchSize)
	if err != nil {
		return err
	}

	// the same seed reproduces the training run's split, so this is the data
	// the checkpoint never trained on
	_, valSet, err := data.Split(1-cfg.Data.ValFraction, cfg.Data.Seed)
	if err != nil {
		return err
	}

	net, err := buildNetwork(cfg.Model, len(classes))
	if err != nil {
		return err
	}
	if err := loadCheckpoint(cfg, from, net); err != nil {
		return err
	}

	cost, err := bs.CostFunctionFrom(cfg.Cost)
	if err != nil {
		return err
	}

	m, err := bs.Validate(net, cost, valSet)
	if err != nil {
		return err
	}

	fmt.Printf("checkpoint %q: loss %.4f, accuracy %.2f%% over %d held-out examples\n",
		from, m.Loss, 100*m.Accuracy, valSet.Len())
	return nil
}

func classify(cfg config.Config, imgPath string) error {
	if imgPath == "" {
		return fmt.Errorf("classify needs -image")
	}

	_, classes, err := dataset.LoadDir(cfg.Data.Dir, cfg.Data.BatchSize)
	if err != nil {
		return err
	}

	net, err := buildNetwork(cfg.Model, len(classes))
	if err != nil {
		return err
	}
	if err := loadCheckpoint(cfg, "best", net); err != nil {
		return err
	}

	input, w, h, err := dataset.LoadImage(imgPath)
	if err != nil {
		return err
	}
	if w != cfg.Model.Image.Width || h != cfg.Model.Image.Height {
		return fmt.Errorf("image is %dx%d; the model expects %dx%d",
			w, h, cfg.Model.Image.Width, cfg.Model.Image.Height)
	}

	outs, err := net.Forward(input)
	if err != nil {
		return err
	}

	best := bs.Argmax(outs)
	fmt.Printf("%s: %s\n", imgPath, classes[best])
	for i, c := range classes {
		fmt.Printf("  %-12s %8.4f\n", c, outs[i])
	}

	return nil
}

func listRuns(cfg config.Config) error {
	if cfg.HistoryDB == "" {
		return fmt.Errorf("runs needs historyDB in the config")
	}

	store, err := history.Open(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Runs()
	if err != nil {
		return err
	}

	for _, r := range runs {
		fmt.Printf("%s  %-20s %s  epochs %-3d stopped %-5v val loss %.4f acc %.2f%%\n",
			r.ID, r.Name, r.StartedAt.Format("2006-01-02 15:04"),
			r.Epochs, r.Stopped, r.BestLoss, 100*r.BestAccuracy)
	}

	return nil
}

func loadCheckpoint(cfg config.Config, tag string, net *nn.Network) error {
	if cfg.CheckpointDir == "" {
		return fmt.Errorf("checkpointDir is not set in the config")
	}

	ckpt, err := checkpoints.New(cfg.CheckpointDir)
	if err != nil {
		return err
	}
	params, err := ckpt.Load(tag)
	if err != nil {
		return err
	}

	return net.SetParams(params)
}

func buildNetwork(spec config.ModelSpec, numClasses int) (*nn.Network, error) {
	img := spec.Image
	net := nn.New(img.Channels * img.Height * img.Width).Seed(spec.Seed)

	channels := img.Channels
	for _, cv := range spec.Conv {
		net.Add(nn.Conv(cv.Filters, cv.Kernel).InputDims(channels, img.Height, img.Width)).
			Add(nn.ReLU())
		channels = cv.Filters
	}

	if spec.Pool > 1 {
		net.Add(nn.MaxPool(spec.Pool).InputDims(channels, img.Height, img.Width))
	}

	for _, n := range spec.Hidden {
		net.Add(nn.Dense(n)).Add(nn.ReLU())
		if spec.Dropout > 0 {
			net.Add(nn.Dropout(spec.Dropout))
		}
	}
	net.Add(nn.Dense(numClasses))

	if err := net.Finalize(); err != nil {
		return nil, err
	}

	return net, nil
}

func pickOptimizer(spec config.Opt) (bs.Optimizer, error) {
	var opt bs.Optimizer
	var err error

	if spec.Type == "" {
		if opt = bs.DefaultOptimizer(); opt == nil {
			return nil, fmt.Errorf("no default optimizer registered")
		}
	} else if opt, err = bs.OptimizerFrom(spec.Type); err != nil {
		return nil, fmt.Errorf("unknown optimizer %q", spec.Type)
	}

	opt.SetLearningRate(spec.LearningRate)
	return opt, nil
}
