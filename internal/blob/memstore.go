package blob

import (
	"sync"

	"github.com/google/uuid"

	"github.com/example/yasconvert/internal/model"
)

// Store holds uploaded files in memory, keyed by generated id. All
// methods are safe for concurrent use; records live until deleted or
// the process exits.
type Store struct {
	mu      sync.RWMutex
	records map[string]*model.Blob
}

func NewStore() *Store {
	return &Store{records: make(map[string]*model.Blob)}
}

// Put stores a new upload and returns its generated id. There is no
// deduplication; identical payloads get distinct ids.
func (s *Store) Put(filename string, data []byte, mediaType string) string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[id] = &model.Blob{
		ID:        id,
		Filename:  filename,
		Data:      data,
		MediaType: mediaType,
		Status:    model.BlobUploaded,
	}
	return id
}

// Get returns a copy of the record. The byte slices are shared with
// the store and must be treated as read-only by callers.
func (s *Store) Get(id string) (model.Blob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return model.Blob{}, false
	}
	return *rec, true
}

// Delete removes the record and reports whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[id]
	delete(s.records, id)
	return ok
}

// Complete attaches conversion output to the record and marks it
// completed. A no-op if the record was deleted mid-job.
func (s *Store) Complete(id string, converted []byte, mediaType, downloadName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return
	}
	rec.Status = model.BlobCompleted
	rec.Converted = converted
	rec.ConvertedMediaType = mediaType
	rec.DownloadName = downloadName
}

// Fail marks the record errored, leaving any previously converted
// data in place.
func (s *Store) Fail(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[id]; ok {
		rec.Status = model.BlobError
	}
}
