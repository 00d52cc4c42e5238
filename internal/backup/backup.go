// Package backup persists complete snapshots of remote documents before
// destructive pushes, and can replay them back. A backup is a
// timestamped directory of one JSON file per document plus a manifest;
// the directory name is the backup handle.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rimtours/toursync/internal/outline"
)

// Snapshot is one document frozen at backup time.
type Snapshot struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Text             string    `json:"text"`
	ParentDocumentID string    `json:"parent_document_id,omitempty"`
	SavedAt          time.Time `json:"saved_at"`
}

// ManifestEntry locates one snapshot file inside a backup.
type ManifestEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	File  string `json:"file"`
}

// Manifest describes a whole backup.
type Manifest struct {
	Handle    string          `json:"handle"`
	Created   time.Time       `json:"created"`
	Count     int             `json:"count"`
	Documents []ManifestEntry `json:"documents"`
}

// Create writes a snapshot of every document under root and returns the
// manifest. The handle embeds the creation timestamp.
func Create(root string, docs []outline.Document, now time.Time) (*Manifest, error) {
	w := NewWriter(root, now)
	for _, doc := range docs {
		if err := w.Add(doc); err != nil {
			return nil, err
		}
	}
	if w.m == nil {
		// Nothing to snapshot: still record an empty, restorable backup.
		handle := "outline_" + now.Format("20060102_150405")
		dir := filepath.Join(root, handle)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating backup dir %s: %w", dir, err)
		}
		w.m = &Manifest{Handle: handle, Created: now}
		data, err := json.MarshalIndent(w.m, "", "  ")
		if err != nil {
			return nil, err
		}
		if err := writeFileAtomic(filepath.Join(dir, "manifest.json"), data, 0644); err != nil {
			return nil, fmt.Errorf("writing manifest: %w", err)
		}
	}
	return w.m, nil
}

// Load reads a backup's manifest and all of its snapshots.
func Load(root, handle string) (*Manifest, []Snapshot, error) {
	dir := filepath.Join(root, handle)
	data, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	if err != nil {
		return nil, nil, fmt.Errorf("reading manifest for backup %q: %w", handle, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, nil, fmt.Errorf("decoding manifest for backup %q: %w", handle, err)
	}

	snaps := make([]Snapshot, 0, len(m.Documents))
	for _, entry := range m.Documents {
		raw, err := os.ReadFile(filepath.Join(dir, entry.File))
		if err != nil {
			return nil, nil, fmt.Errorf("reading snapshot %s: %w", entry.File, err)
		}
		var snap Snapshot
		if err := json.Unmarshal(raw, &snap); err != nil {
			return nil, nil, fmt.Errorf("decoding snapshot %s: %w", entry.File, err)
		}
		snaps = append(snaps, snap)
	}
	return &m, snaps, nil
}

// DocumentWriter is the slice of the document store Restore needs.
type DocumentWriter interface {
	Update(ctx context.Context, id, title, text string) (*outline.Document, error)
}

// Restore replays every snapshot's title and body back to the document
// store. It returns the number of documents restored; the first remote
// failure aborts the restore.
func Restore(ctx context.Context, root, handle string, w DocumentWriter) (int, error) {
	_, snaps, err := Load(root, handle)
	if err != nil {
		return 0, err
	}
	restored := 0
	for _, snap := range snaps {
		if _, err := w.Update(ctx, snap.ID, snap.Title, snap.Text); err != nil {
			return restored, fmt.Errorf("restoring document %s: %w", snap.ID, err)
		}
		restored++
	}
	return restored, nil
}
