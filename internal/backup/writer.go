package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rimtours/toursync/internal/outline"
)

// Writer accumulates snapshots into one backup as documents are about
// to be overwritten. The backup directory is created lazily on the
// first Add, so a run that overwrites nothing leaves no empty backups
// behind. The manifest is rewritten atomically after every snapshot, so
// the backup is restorable even if the run dies halfway.
type Writer struct {
	root string
	now  time.Time
	dir  string
	m    *Manifest
}

// NewWriter prepares a backup rooted at root, stamped with now.
func NewWriter(root string, now time.Time) *Writer {
	return &Writer{root: root, now: now}
}

// Handle returns the backup handle, or "" when nothing was snapshotted.
func (w *Writer) Handle() string {
	if w.m == nil {
		return ""
	}
	return w.m.Handle
}

// Add snapshots one document. It must be called before the document is
// overwritten; an error here means the overwrite must not proceed.
func (w *Writer) Add(doc outline.Document) error {
	if w.m == nil {
		handle := "outline_" + w.now.Format("20060102_150405")
		w.dir = filepath.Join(w.root, handle)
		if err := os.MkdirAll(w.dir, 0755); err != nil {
			return fmt.Errorf("creating backup dir %s: %w", w.dir, err)
		}
		w.m = &Manifest{Handle: handle, Created: w.now}
	}

	snap := Snapshot{
		ID:               doc.ID,
		Title:            doc.Title,
		Text:             doc.Text,
		ParentDocumentID: doc.ParentDocumentID,
		SavedAt:          w.now,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	file := doc.ID + ".json"
	if err := writeFileAtomic(filepath.Join(w.dir, file), data, 0644); err != nil {
		return fmt.Errorf("writing snapshot for %s: %w", doc.ID, err)
	}

	w.m.Documents = append(w.m.Documents, ManifestEntry{ID: doc.ID, Title: doc.Title, File: file})
	w.m.Count = len(w.m.Documents)
	manifest, err := json.MarshalIndent(w.m, "", "  ")
	if err != nil {
		return err
	}
	if err := writeFileAtomic(filepath.Join(w.dir, "manifest.json"), manifest, 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}
