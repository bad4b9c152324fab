// Package integrity provides versioned, checksummed key-value persistence on
// top of a synchronous string-keyed backend. Values are wrapped in an
// envelope carrying a schema version tag, a write timestamp and a short
// checksum used to detect gross corruption. A value that cannot be parsed
// degrades to "absent" instead of failing the caller.
package integrity

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/gera-labs/contentcore/internal/metrics"
	"github.com/gera-labs/contentcore/pkg/logger"
)

const (
	// schemaVersion tags the envelope layout for forward migration.
	schemaVersion = "2.1"
	// checksumLen is the length of the base64 checksum prefix. Wire
	// format compatibility: do not change.
	checksumLen = 10
	// DefaultNamespace prefixes every storage key.
	DefaultNamespace = "_gs_v2"
)

// envelope is the persisted wire format. Field names and types are
// compatibility-relevant: {payload, checksum, v, ts}.
type envelope struct {
	Payload   json.RawMessage `json:"payload"`
	Checksum  string          `json:"checksum"`
	Version   string          `json:"v"`
	WrittenAt int64           `json:"ts"`
}

// Config configures a Store.
type Config struct {
	// Backend is the persistent store. Required.
	Backend Backend
	// Namespace prefixes every key; DefaultNamespace when empty.
	Namespace string
	// Logger receives write failures and corruption downgrades. A nop
	// logger is used when nil.
	Logger *logger.Logger
}

// Store wraps a Backend with envelope encoding and corruption isolation.
type Store struct {
	backend   Backend
	namespace string
	logger    *logger.Logger
	now       func() time.Time
}

// NewStore creates a Store over the given backend.
func NewStore(cfg Config) *Store {
	ns := cfg.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		backend:   cfg.Backend,
		namespace: ns,
		logger:    log,
		now:       time.Now,
	}
}

func (s *Store) storageKey(key string) string {
	return s.namespace + "_" + key
}

// checksum returns the fixed-length digest for a serialized payload. It is
// computed over the payload's bytes, not the Go string, so multi-byte
// characters cannot corrupt it.
func checksum(payload []byte) string {
	enc := base64.StdEncoding.EncodeToString(payload)
	if len(enc) > checksumLen {
		return enc[:checksumLen]
	}
	return enc
}

// SetItem serializes value, wraps it in an envelope and overwrites the key.
// It never returns an error: a failed write is logged and leaves any prior
// value untouched.
func (s *Store) SetItem(key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("storage write failed", "key", key, "error", err)
		metrics.RecordStoreWriteFailure()
		return
	}
	env := envelope{
		Payload:   payload,
		Checksum:  checksum(payload),
		Version:   schemaVersion,
		WrittenAt: s.now().UnixMilli(),
	}
	raw, err := json.Marshal(env)
	if err != nil {
		s.logger.Error("storage write failed", "key", key, "error", err)
		metrics.RecordStoreWriteFailure()
		return
	}
	if err := s.backend.Set(s.storageKey(key), string(raw)); err != nil {
		s.logger.Error("storage write failed", "key", key, "error", err)
		metrics.RecordStoreWriteFailure()
	}
}

// GetItem reads the key and decodes its payload into out. It reports whether
// a value was found. An enveloped value yields its payload; pre-envelope
// values decode as-is with no integrity guarantee; a value that cannot be
// decoded at all is cleared and reported absent.
func (s *Store) GetItem(key string, out any) bool {
	raw, ok, err := s.backend.Get(s.storageKey(key))
	if err != nil {
		s.logger.Warn("storage read failed", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}

	var probe struct {
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal([]byte(raw), &probe); err == nil && probe.Payload != nil {
		// Checksum is informational: legacy writers may disagree, so a
		// mismatch is logged, never rejected.
		var env envelope
		if err := json.Unmarshal([]byte(raw), &env); err == nil && env.Checksum != "" {
			if got := checksum(env.Payload); got != env.Checksum {
				s.logger.Debug("storage checksum mismatch", "key", key, "stored", env.Checksum, "computed", got)
			}
		}
		if err := json.Unmarshal(probe.Payload, out); err != nil {
			s.discardCorrupted(key, err)
			return false
		}
		return true
	}

	// Legacy or foreign value: return it as-is when it decodes.
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.discardCorrupted(key, err)
		return false
	}
	return true
}

// discardCorrupted clears an unreadable key. Corrupted collapses to absent;
// the log line is the only surviving signal.
func (s *Store) discardCorrupted(key string, cause error) {
	s.logger.Warn("discarding corrupted record", "key", key, "error", cause)
	metrics.RecordStoreCorruption()
	if err := s.backend.Delete(s.storageKey(key)); err != nil {
		s.logger.Warn("failed to clear corrupted record", "key", key, "error", err)
	}
}

// RemoveItem deletes the key unconditionally. Idempotent.
func (s *Store) RemoveItem(key string) {
	if err := s.backend.Delete(s.storageKey(key)); err != nil {
		s.logger.Warn("storage delete failed", "key", key, "error", err)
	}
}
