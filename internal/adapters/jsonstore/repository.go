package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/domain"
	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/port"
)

// FavoritesRepository persists favorites as a JSON array of records in a
// single file, preserving insertion order. Every mutation is a full
// load-mutate-replace cycle: the new content is written to a unique temp file
// and atomically renamed over the prior one, so a crash mid-write never
// corrupts existing data. There is no cross-process coordination beyond the
// atomic replace; concurrent writers race and the last one wins.
type FavoritesRepository struct {
	path   string
	logger port.LoggerPort

	// mu serializes in-process mutations so the load-mutate-replace cycle
	// stays well formed; it is not a cross-process lock.
	mu sync.Mutex
}

func NewFavoritesRepository(path string, logger port.LoggerPort) *FavoritesRepository {
	return &FavoritesRepository{
		path:   path,
		logger: logger.WithFields(port.Fields{"component": "FavoritesRepository"}),
	}
}

// load reads the full favorites document. A missing or unreadable file
// yields an empty list so a corrupt store degrades to "no favorites" rather
// than failing every request.
func (r *FavoritesRepository) load() []domain.Item {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			r.logger.Warn("Failed to read favorites file, treating as empty", port.Fields{
				"path":  r.path,
				"error": err.Error(),
			})
		}
		return nil
	}

	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	var records []domain.Item
	if err := dec.Decode(&records); err != nil {
		r.logger.Warn("Favorites file is not valid JSON, treating as empty", port.Fields{
			"path":  r.path,
			"error": err.Error(),
		})
		return nil
	}
	return records
}

func (r *FavoritesRepository) save(records []domain.Item) error {
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal favorites: %w", err)
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp favorites file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp favorites file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp favorites file: %w", err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace favorites file: %w", err)
	}
	return nil
}

func (r *FavoritesRepository) Get(ctx context.Context, id string) (domain.Item, bool, error) {
	for _, rec := range r.load() {
		if rec.ID() == id {
			return rec, true, nil
		}
	}
	return nil, false, nil
}

func (r *FavoritesRepository) List(ctx context.Context) ([]domain.Item, error) {
	records := r.load()
	if records == nil {
		records = []domain.Item{}
	}
	return records, nil
}

func (r *FavoritesRepository) Put(ctx context.Context, id string, record domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := r.load()
	replaced := false
	for i, rec := range records {
		if rec.ID() == id {
			records[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, record)
	}
	return r.save(records)
}

func (r *FavoritesRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := r.load()
	filtered := records[:0]
	for _, rec := range records {
		if rec.ID() != id {
			filtered = append(filtered, rec)
		}
	}
	return r.save(filtered)
}

func (r *FavoritesRepository) SetTags(ctx context.Context, id string, tags []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := r.load()
	for i, rec := range records {
		if rec.ID() == id {
			updated := make(domain.Item, len(rec))
			for k, v := range rec {
				updated[k] = v
			}
			asAny := make([]any, len(tags))
			for j, t := range tags {
				asAny[j] = t
			}
			updated["tags"] = asAny
			records[i] = updated
			return r.save(records)
		}
	}
	return domain.ErrNotFound
}
