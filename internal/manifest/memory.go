package manifest

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// Memory implements Store in process memory for tests and ephemeral runs.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]memObject
}

type memObject struct {
	data        []byte
	contentType string
	modified    time.Time
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string]memObject)}
}

// Driver implements Store.
func (s *Memory) Driver() Driver { return DriverMemory }

// Put implements Store.
func (s *Memory) Put(_ context.Context, key string, r io.Reader, opts PutOptions) (Info, error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return Info{}, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Info{}, err
	}
	obj := memObject{data: data, contentType: opts.ContentType, modified: time.Now().UTC()}
	s.mu.Lock()
	s.objects[k] = obj
	s.mu.Unlock()
	return memInfo(k, obj), nil
}

// Get implements Store.
func (s *Memory) Get(_ context.Context, key string) (Info, io.ReadCloser, error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return Info{}, nil, err
	}
	s.mu.RLock()
	obj, ok := s.objects[k]
	s.mu.RUnlock()
	if !ok {
		return Info{}, nil, fmt.Errorf("manifest %s not found", key)
	}
	return memInfo(k, obj), io.NopCloser(bytes.NewReader(obj.data)), nil
}

// List implements Store.
func (s *Memory) List(_ context.Context, prefix string) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Info, 0, len(s.objects))
	for key, obj := range s.objects {
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			continue
		}
		out = append(out, memInfo(key, obj))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func memInfo(key string, obj memObject) Info {
	sum := sha256.Sum256(obj.data)
	return Info{
		Key:          key,
		Size:         int64(len(obj.data)),
		ContentType:  obj.contentType,
		ETag:         hex.EncodeToString(sum[:]),
		LastModified: obj.modified,
	}
}
