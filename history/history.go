// Package history records finished runs and their per-epoch metrics in a
// SQLite database, so results survive the process and can be compared across
// runs.
package history

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	bs "github.com/sharnoff/classroom"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	config        TEXT NOT NULL DEFAULT '',
	started_at    TEXT NOT NULL,
	epochs        INTEGER NOT NULL DEFAULT 0,
	stopped       INTEGER NOT NULL DEFAULT 0,
	best_loss     REAL,
	best_accuracy REAL
);

CREATE TABLE IF NOT EXISTS epochs (
	run_id         TEXT NOT NULL REFERENCES runs(id),
	epoch          INTEGER NOT NULL,
	train_loss     REAL NOT NULL,
	train_accuracy REAL NOT NULL,
	val_loss       REAL NOT NULL,
	val_accuracy   REAL NOT NULL,
	learning_rate  REAL NOT NULL,
	duration_ms    INTEGER NOT NULL,
	PRIMARY KEY (run_id, epoch)
);

CREATE TABLE IF NOT EXISTS rate_changes (
	run_id      TEXT NOT NULL REFERENCES runs(id),
	epoch       INTEGER NOT NULL,
	before_rate REAL NOT NULL,
	after_rate  REAL NOT NULL
);
`

// Store is a handle to one history database. It is safe for concurrent use to
// the extent database/sql is.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.Errorf("history database path is empty")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "Couldn't open history database %s\n", path)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "Couldn't initialize history database %s\n", path)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RunInfo is one row of the runs table.
type RunInfo struct {
	ID        string
	Name      string
	StartedAt time.Time

	Epochs       int
	Stopped      bool
	BestLoss     float64
	BestAccuracy float64
}

// Runs lists every recorded run, newest first.
func (s *Store) Runs() ([]RunInfo, error) {
	rows, err := s.db.Query(
		`SELECT id, name, started_at, epochs, stopped,
		        COALESCE(best_loss, 0), COALESCE(best_accuracy, 0)
		 FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, errors.Wrapf(err, "Couldn't list runs\n")
	}
	defer rows.Close()

	var infos []RunInfo
	for rows.Next() {
		var info RunInfo
		var started string
		if err := rows.Scan(&info.ID, &info.Name, &started, &info.Epochs,
			&info.Stopped, &info.BestLoss, &info.BestAccuracy); err != nil {
			return nil, errors.Wrapf(err, "Couldn't scan run row\n")
		}

		if info.StartedAt, err = time.Parse(time.RFC3339, started); err != nil {
			return nil, errors.Wrapf(err, "Run %s has a bad start time\n", info.ID)
		}

		infos = append(infos, info)
	}

	return infos, rows.Err()
}

// Epochs returns the recorded results of one run, in epoch order.
func (s *Store) Epochs(runID string) ([]bs.Result, error) {
	rows, err := s.db.Query(
		`SELECT epoch, train_loss, train_accuracy, val_loss, val_accuracy,
		        learning_rate, duration_ms
		 FROM epochs WHERE run_id = ? ORDER BY epoch`, runID)
	if err != nil {
		return nil, errors.Wrapf(err, "Couldn't query epochs of run %s\n", runID)
	}
	defer rows.Close()

	var results []bs.Result
	for rows.Next() {
		var r bs.Result
		var ms int64
		if err := rows.Scan(&r.Epoch, &r.Train.Loss, &r.Train.Accuracy,
			&r.Val.Loss, &r.Val.Accuracy, &r.LearningRate, &ms); err != nil {
			return nil, errors.Wrapf(err, "Couldn't scan epoch row\n")
		}

		r.Duration = time.Duration(ms) * time.Millisecond
		results = append(results, r)
	}

	return results, rows.Err()
}

// Config returns the configuration text recorded for a run.
func (s *Store) Config(runID string) (string, error) {
	var config string
	err := s.db.QueryRow(`SELECT config FROM runs WHERE id = ?`, runID).Scan(&config)
	if err != nil {
		return "", errors.Wrapf(err, "Couldn't read config of run %s\n", runID)
	}

	return config, nil
}

// Run is a single training run being recorded. It implements classroom.Sink;
// because Sink methods cannot return errors, the first write failure is kept
// and surfaced by Err and Finish.
type Run struct {
	store *Store
	id    string
	err   error
}

// StartRun inserts a new run row and returns its recorder. The id is a fresh
// UUID; config is the run's configuration (usually its YAML), stored verbatim
// so a recorded run can be reproduced later. It may be empty.
func (s *Store) StartRun(name, config string) (*Run, error) {
	id := uuid.NewString()

	_, err := s.db.Exec(`INSERT INTO runs (id, name, config, started_at) VALUES (?, ?, ?, ?)`,
		id, name, config, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return nil, errors.Wrapf(err, "Couldn't record new run %q\n", name)
	}

	return &Run{store: s, id: id}, nil
}

func (r *Run) ID() string {
	return r.id
}

// Err returns the first write failure, if any.
func (r *Run) Err() error {
	return r.err
}

// Batch implements classroom.Sink. Per-batch telemetry is far too chatty for
// a database, so it is discarded here; pair the Run with a console sink if
// batch progress should be visible.
func (r *Run) Batch(epoch, batch int, lossSum float64, size int) {}

// Epoch implements classroom.Sink.
func (r *Run) Epoch(res bs.Result) {
	if r.err != nil {
		return
	}

	_, err := r.store.db.Exec(
		`INSERT INTO epochs (run_id, epoch, train_loss, train_accuracy,
		                     val_loss, val_accuracy, learning_rate, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.id, res.Epoch, res.Train.Loss, res.Train.Accuracy,
		res.Val.Loss, res.Val.Accuracy, res.LearningRate,
		res.Duration.Milliseconds())
	if err != nil {
		r.err = errors.Wrapf(err, "Couldn't record epoch %d\n", res.Epoch)
	}
}

// RateChanged implements classroom.Sink.
func (r *Run) RateChanged(epoch int, before, after float64) {
	if r.err != nil {
		return
	}

	_, err := r.store.db.Exec(
		`INSERT INTO rate_changes (run_id, epoch, before_rate, after_rate)
		 VALUES (?, ?, ?, ?)`, r.id, epoch, before, after)
	if err != nil {
		r.err = errors.Wrapf(err, "Couldn't record rate change at epoch %d\n", epoch)
	}
}

// Finish writes the run's summary and returns any write failure from the run,
// including ones deferred from Epoch or RateChanged.
func (r *Run) Finish(res bs.TrainResult) error {
	if r.err != nil {
		return r.err
	}

	_, err := r.store.db.Exec(
		`UPDATE runs SET epochs = ?, stopped = ?, best_loss = ?, best_accuracy = ?
		 WHERE id = ?`,
		res.Epochs, res.Stopped, res.BestLoss, res.BestAccuracy, r.id)
	if err != nil {
		return errors.Wrapf(err, "Couldn't record run summary\n")
	}

	return nil
}
