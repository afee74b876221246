package manifest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Filesystem implements Store on the local filesystem. Keys map to relative
// paths under the root; a sidecar file (key + ".meta") keeps the content type.
type Filesystem struct {
	root string
}

// NewFilesystem returns a filesystem-backed store rooted at path, creating it
// if needed.
func NewFilesystem(root string) (*Filesystem, error) {
	if root == "" {
		root = "./manifestdata"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Filesystem{root: root}, nil
}

// Driver implements Store.
func (s *Filesystem) Driver() Driver { return DriverFilesystem }

// sanitizeKey forbids traversal and absolute keys so artifacts stay under root.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key contains '..'")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid absolute key")
	}
	clean := filepath.ToSlash(filepath.Clean(key))
	if strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid key traversal")
	}
	return clean, nil
}

func (s *Filesystem) pathFor(key string) (dataPath, metaPath string, err error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return "", "", err
	}
	dataPath = filepath.Join(s.root, k)
	metaPath = dataPath + ".meta"
	return
}

type metaFile struct {
	ContentType string `json:"content_type,omitempty"`
}

// Put implements Store.
func (s *Filesystem) Put(_ context.Context, key string, r io.Reader, opts PutOptions) (Info, error) {
	dataPath, metaPath, err := s.pathFor(key)
	if err != nil {
		return Info{}, err
	}
	if err := os.MkdirAll(filepath.Dir(dataPath), 0o755); err != nil {
		return Info{}, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Info{}, err
	}
	if err := os.WriteFile(dataPath, data, 0o644); err != nil { // #nosec G306 -- manifests are world-readable artifacts
		return Info{}, err
	}
	meta, err := json.Marshal(metaFile{ContentType: opts.ContentType})
	if err != nil {
		return Info{}, err
	}
	if err := os.WriteFile(metaPath, meta, 0o644); err != nil { // #nosec G306
		return Info{}, err
	}
	return s.info(key, dataPath, metaPath)
}

// Get implements Store.
func (s *Filesystem) Get(_ context.Context, key string) (Info, io.ReadCloser, error) {
	dataPath, metaPath, err := s.pathFor(key)
	if err != nil {
		return Info{}, nil, err
	}
	info, err := s.info(key, dataPath, metaPath)
	if err != nil {
		return Info{}, nil, err
	}
	f, err := os.Open(dataPath) // #nosec G304 -- path derives from a sanitized key
	if err != nil {
		return Info{}, nil, err
	}
	return info, f, nil
}

// List implements Store.
func (s *Filesystem) List(_ context.Context, prefix string) ([]Info, error) {
	var out []Info
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(path, ".meta") {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			return nil
		}
		info, err := s.info(key, path, path+".meta")
		if err != nil {
			return err
		}
		out = append(out, info)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *Filesystem) info(key, dataPath, metaPath string) (Info, error) {
	st, err := os.Stat(dataPath)
	if err != nil {
		return Info{}, err
	}
	data, err := os.ReadFile(dataPath) // #nosec G304 -- path derives from a sanitized key
	if err != nil {
		return Info{}, err
	}
	sum := sha256.Sum256(data)

	var meta metaFile
	if raw, err := os.ReadFile(metaPath); err == nil { // #nosec G304
		_ = json.Unmarshal(raw, &meta)
	} else if !errors.Is(err, os.ErrNotExist) {
		return Info{}, err
	}
	return Info{
		Key:          key,
		Size:         st.Size(),
		ContentType:  meta.ContentType,
		ETag:         hex.EncodeToString(sum[:]),
		LastModified: st.ModTime().UTC(),
	}, nil
}
