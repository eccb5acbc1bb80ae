// Package journal persists the outcome of every script operation in a pebble
// database so that addresses and hashes survive the run that produced them.
package journal

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/NethermindEth/kipt/encoder"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const recordPrefix = 'r'

// Record is one operation outcome. Empty strings mean the operation did not
// produce the value.
type Record struct {
	RunID           string    `cbor:"1,keyasint" yaml:"run_id"`
	Seq             uint64    `cbor:"2,keyasint" yaml:"seq"`
	Time            time.Time `cbor:"3,keyasint" yaml:"time"`
	Script          string    `cbor:"4,keyasint" yaml:"script"`
	Kind            string    `cbor:"5,keyasint" yaml:"kind"`
	Name            string    `cbor:"6,keyasint" yaml:"name,omitempty"`
	TransactionHash string    `cbor:"7,keyasint" yaml:"tx_hash,omitempty"`
	ClassHash       string    `cbor:"8,keyasint" yaml:"class_hash,omitempty"`
	DeployedAddress string    `cbor:"9,keyasint" yaml:"deployed_address,omitempty"`
	Error           string    `cbor:"10,keyasint" yaml:"error,omitempty"`
}

type Journal struct {
	db *pebble.DB
}

// Open opens the journal in dir. A nil fs uses the OS filesystem and a nil
// logger pebble's default one.
func Open(dir string, fs vfs.FS, logger pebble.Logger) (*Journal, error) {
	opts := &pebble.Options{Logger: logger}
	if fs != nil {
		opts.FS = fs
	}
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "open journal %s", dir)
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// Run groups the records of one script execution.
type Run struct {
	journal *Journal
	id      uuid.UUID
	script  string
	started time.Time

	mu  sync.Mutex
	seq uint64
}

func (j *Journal) NewRun(script string) *Run {
	return &Run{
		journal: j,
		id:      uuid.New(),
		script:  script,
		started: time.Now(),
	}
}

func (r *Run) ID() string {
	return r.id.String()
}

// Record stores rec under the next sequence number of the run.
func (r *Run) Record(rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec.RunID = r.id.String()
	rec.Seq = r.seq
	rec.Script = r.script
	if rec.Time.IsZero() {
		rec.Time = time.Now()
	}

	value, err := encoder.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "encode journal record")
	}
	if err = r.journal.db.Set(r.key(rec.Seq), value, pebble.Sync); err != nil {
		return errors.Wrap(err, "write journal record")
	}
	r.seq++
	return nil
}

// Keys sort by run start time, then run id, then sequence.
func (r *Run) key(seq uint64) []byte {
	key := make([]byte, 0, 1+8+len(r.id)+8)
	key = append(key, recordPrefix)
	key = binary.BigEndian.AppendUint64(key, uint64(r.started.UnixNano()))
	key = append(key, r.id[:]...)
	return binary.BigEndian.AppendUint64(key, seq)
}

// List returns every record, oldest run first.
func (j *Journal) List() ([]Record, error) {
	iter, err := j.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{recordPrefix},
		UpperBound: []byte{recordPrefix + 1},
	})
	if err != nil {
		return nil, errors.Wrap(err, "iterate journal")
	}

	var records []Record
	for iter.First(); iter.Valid(); iter.Next() {
		var rec Record
		if err = encoder.Unmarshal(iter.Value(), &rec); err != nil {
			iter.Close()
			return nil, errors.Wrapf(err, "decode journal record %x", iter.Key())
		}
		records = append(records, rec)
	}
	if err = iter.Close(); err != nil {
		return nil, errors.Wrap(err, "iterate journal")
	}
	return records, nil
}
