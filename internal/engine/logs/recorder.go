package logs

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"atlascon/internal/platform/models"
	"atlascon/internal/platform/storage"
)

var csvHeader = []string{"event", "status", "attempt", "time"}

// Recorder owns the per-connector delivery logs. Each log is one CSV
// object rewritten whole on every append, so appends to the same
// connector are serialized through a keyed mutex. Writers in other
// processes can still race; that limitation is accepted.
type Recorder struct {
	store storage.ObjectStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewRecorder(store storage.ObjectStore) *Recorder {
	return &Recorder{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

func Key(tenantID, connectorName string) string {
	return fmt.Sprintf("logs/%s/%s.csv", tenantID, connectorName)
}

// Init writes an empty (header-only) log for a newly created connector.
func (r *Recorder) Init(ctx context.Context, tenantID, connectorName string) error {
	return r.write(ctx, Key(tenantID, connectorName), nil)
}

// Append adds one entry to the connector's log. A missing log object is
// treated as an empty sequence, not an error.
func (r *Recorder) Append(ctx context.Context, tenantID, connectorName string, entry models.DeliveryLogEntry) error {
	lock := r.lockFor(tenantID, connectorName)
	lock.Lock()
	defer lock.Unlock()

	key := Key(tenantID, connectorName)
	entries, err := r.read(ctx, key)
	if err != nil {
		return err
	}
	entries = append(entries, entry)
	return r.write(ctx, key, entries)
}

func (r *Recorder) Read(ctx context.Context, tenantID, connectorName string) ([]models.DeliveryLogEntry, error) {
	return r.read(ctx, Key(tenantID, connectorName))
}

func (r *Recorder) Delete(ctx context.Context, tenantID, connectorName string) error {
	return r.store.Delete(ctx, Key(tenantID, connectorName))
}

// Move carries a connector's log over to a new name, used when a
// connector is renamed.
func (r *Recorder) Move(ctx context.Context, tenantID, oldName, newName string) error {
	entries, err := r.read(ctx, Key(tenantID, oldName))
	if err != nil {
		return err
	}
	if err := r.write(ctx, Key(tenantID, newName), entries); err != nil {
		return err
	}
	return r.store.Delete(ctx, Key(tenantID, oldName))
}

func (r *Recorder) lockFor(tenantID, connectorName string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := Key(tenantID, connectorName)
	lock, ok := r.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[key] = lock
	}
	return lock
}

func (r *Recorder) read(ctx context.Context, key string) ([]models.DeliveryLogEntry, error) {
	body, err := r.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decode(body)
}

func (r *Recorder) write(ctx context.Context, key string, entries []models.DeliveryLogEntry) error {
	return r.store.Put(ctx, key, encode(entries))
}

func encode(entries []models.DeliveryLogEntry) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write(csvHeader)
	for _, e := range entries {
		w.Write([]string{e.Event, string(e.Status), strconv.Itoa(e.Attempt), e.Time})
	}
	w.Flush()
	return buf.Bytes()
}

func decode(body []byte) ([]models.DeliveryLogEntry, error) {
	records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	if err != nil {
		return nil, err
	}

	var entries []models.DeliveryLogEntry
	for i, rec := range records {
		if i == 0 || len(rec) < 4 {
			// header row
			continue
		}
		attempt, _ := strconv.Atoi(rec[2])
		entries = append(entries, models.DeliveryLogEntry{
			Event:   rec[0],
			Status:  models.DeliveryStatus(rec[1]),
			Attempt: attempt,
			Time:    rec[3],
		})
	}
	return entries, nil
}
