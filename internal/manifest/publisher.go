package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	manifestPrefix = "manifests/"
	// LatestKey always points at the most recently published manifest.
	LatestKey = manifestPrefix + "latest.json"

	contentTypeJSON = "application/json"
)

// Publisher writes resolved activation manifests to a Store: one immutable
// timestamped artifact per publish plus an overwritten latest pointer.
type Publisher struct {
	store Store
	now   func() time.Time
}

// NewPublisher constructs a publisher over the given store.
func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store, now: time.Now}
}

// Publish serialises v as indented JSON and writes the timestamped artifact
// and the latest pointer. It returns the info of the timestamped artifact.
func (p *Publisher) Publish(ctx context.Context, v any) (Info, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return Info{}, fmt.Errorf("encode manifest: %w", err)
	}
	key := fmt.Sprintf("%s%s.json", manifestPrefix, p.now().UTC().Format("20060102T150405.000000000Z"))
	info, err := p.store.Put(ctx, key, bytes.NewReader(data), PutOptions{ContentType: contentTypeJSON})
	if err != nil {
		return Info{}, fmt.Errorf("publish manifest: %w", err)
	}
	if _, err := p.store.Put(ctx, LatestKey, bytes.NewReader(data), PutOptions{ContentType: contentTypeJSON}); err != nil {
		return Info{}, fmt.Errorf("publish latest manifest: %w", err)
	}
	return info, nil
}

// History lists previously published manifests, newest last by key order.
func (p *Publisher) History(ctx context.Context) ([]Info, error) {
	infos, err := p.store.List(ctx, manifestPrefix)
	if err != nil {
		return nil, err
	}
	out := infos[:0]
	for _, info := range infos {
		if info.Key == LatestKey {
			continue
		}
		out = append(out, info)
	}
	return out, nil
}
