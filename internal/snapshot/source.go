package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/stockguard/pkg/logger"
)

// Source loads a fresh snapshot.
type Source interface {
	Name() string
	Load(ctx context.Context) (*Snapshot, error)
}

// DirSource reads tables from <Dir>/<table>.csv or .xlsx. With Fallback set,
// missing tables are replaced by generated sample data.
type DirSource struct {
	Dir      string
	Fallback bool
	Seed     uint64
	Clock    func() time.Time
}

func NewDirSource(dir string, fallback bool) *DirSource {
	return &DirSource{Dir: dir, Fallback: fallback, Seed: 42, Clock: time.Now}
}

func (s *DirSource) Name() string { return "dir:" + s.Dir }

func (s *DirSource) Load(ctx context.Context) (*Snapshot, error) {
	tables, err := s.LoadTables(ctx)
	if err != nil {
		return nil, err
	}
	return Build(tables, s.Name(), s.now()), nil
}

func (s *DirSource) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}

// LoadTables reads every table from the directory.
func (s *DirSource) LoadTables(ctx context.Context) (Tables, error) {
	var tables Tables
	for _, name := range TableNames {
		if err := ctx.Err(); err != nil {
			return Tables{}, err
		}

		path, err := findTableFile(s.Dir, name)
		if err != nil {
			if errors.Is(err, errTableMissing) && s.Fallback {
				logger.Log.Warn().Str("table", name).Str("dir", s.Dir).Msg("snapshot: table not found, using sample data")
				sampleTable(s.Seed, s.now(), name, &tables)
				continue
			}
			return Tables{}, err
		}

		records, err := readRecords(path)
		if err != nil {
			return Tables{}, err
		}
		raw, err := newRawTable(name, records)
		if err != nil {
			return Tables{}, fmt.Errorf("%s: %w", path, err)
		}
		tables.assign(raw)
	}
	return tables, nil
}

// SampleSource serves the generated sample data set.
type SampleSource struct {
	Seed  uint64
	Clock func() time.Time
}

func (s *SampleSource) Name() string { return "sample" }

func (s *SampleSource) Load(ctx context.Context) (*Snapshot, error) {
	now := time.Now()
	if s.Clock != nil {
		now = s.Clock()
	}
	return Build(SampleTables(s.Seed, now), s.Name(), now), nil
}

// TableStore is a database holding snapshot tables.
type TableStore interface {
	LoadTables(ctx context.Context) (Tables, error)
}

// StoreSource loads snapshots from a TableStore.
type StoreSource struct {
	Store TableStore
	Label string
}

func (s *StoreSource) Name() string { return s.Label }

func (s *StoreSource) Load(ctx context.Context) (*Snapshot, error) {
	tables, err := s.Store.LoadTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tables from %s: %w", s.Label, err)
	}
	return Build(tables, s.Name(), time.Now()), nil
}

var (
	_ Source = (*DirSource)(nil)
	_ Source = (*SampleSource)(nil)
	_ Source = (*StoreSource)(nil)
)
