package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

var (
	historyBucket = []byte("history")
	metaBucket    = []byte("metadata")

	lastRangeKey = []byte("last_range")
)

const defaultOpenTimeout = 1 * time.Second

type Store struct {
	db *bolt.DB
}

func NewStore(dbPath string, timeout time.Duration) (*Store, error) {
	if timeout <= 0 {
		timeout = defaultOpenTimeout
	}

	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{historyBucket, metaBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})

	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// historyKey orders entries by time: 8 bytes of big-endian unix nanos
// followed by the entry ID.
func historyKey(e *HistoryEntry) []byte {
	key := make([]byte, 8, 8+len(e.ID))
	binary.BigEndian.PutUint64(key, uint64(e.At.UnixNano()))
	return append(key, e.ID...)
}

// RecordCycle appends a fetch cycle outcome to the journal. A missing ID or
// timestamp is filled in.
func (s *Store) RecordCycle(entry *HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.At.IsZero() {
		entry.At = time.Now()
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(historyBucket)
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		return b.Put(historyKey(entry), data)
	})
}

// History returns journal entries newest first. A limit <= 0 returns all.
func (s *Store) History(limit int) ([]*HistoryEntry, error) {
	var entries []*HistoryEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(historyBucket).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var entry HistoryEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				continue
			}
			entries = append(entries, &entry)
			if limit > 0 && len(entries) >= limit {
				break
			}
		}
		return nil
	})
	return entries, err
}

// ClearHistory removes every journal entry.
func (s *Store) ClearHistory() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(historyBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(historyBucket)
		return err
	})
}

func (s *Store) SaveLastRange(start, end string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(&LastRange{Start: start, End: end, UpdatedAt: time.Now()})
		if err != nil {
			return err
		}
		return tx.Bucket(metaBucket).Put(lastRangeKey, data)
	})
}

// GetLastRange returns the last fetched range, or nil if none was saved.
func (s *Store) GetLastRange() (*LastRange, error) {
	var last *LastRange
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(metaBucket).Get(lastRangeKey)
		if data == nil {
			return nil
		}
		last = &LastRange{}
		return json.Unmarshal(data, last)
	})
	return last, err
}
