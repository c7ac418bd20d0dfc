package archive

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/shade/pkg/errors"
	"github.com/arthur-debert/shade/pkg/logging"
	"github.com/arthur-debert/shade/pkg/tracker"
	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog"
)

// Claimer decides whether an entry may be written at its final path. See
// tracker.Duplicates.
type Claimer interface {
	Add(original, final string) (bool, error)
}

// Unchecked claims every path. It suits rewriting an archive whose paths
// were already checked.
var Unchecked Claimer = unchecked{}

type unchecked struct{}

func (unchecked) Add(string, string) (bool, error) { return true, nil }

// Writer writes entries in the order they are added.
type Writer struct {
	zw      *zip.Writer
	claims  Claimer
	written int
	logger  zerolog.Logger

	// set when writing to a file
	file  *os.File
	dest  string
	stage *stage
}

// NewWriter writes an archive to w. A nil claims uses a fresh
// tracker.Duplicates without parallel roots.
func NewWriter(w io.Writer, claims Claimer) *Writer {
	if claims == nil {
		claims = tracker.NewDuplicates(nil)
	}
	return &Writer{
		zw:     zip.NewWriter(w),
		claims: claims,
		logger: logging.GetLogger("archive.writer"),
	}
}

// Create starts an archive that will replace dest on Commit. The data is
// staged in a temporary file in dest's directory.
func Create(dest string, claims Claimer) (*Writer, error) {
	dir := filepath.Dir(dest)
	f, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrArchiveWrite, "cannot create output in %s", dir).
			WithDetail("path", dest)
	}
	w := NewWriter(f, claims)
	st, err := newStage(dir, w.logger)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, err
	}
	w.file = f
	w.dest = dest
	w.stage = st
	return w, nil
}

// Add writes e. original is the name the entry had in the input archive,
// used for duplicate reporting. Repeated directory entries are skipped.
func (w *Writer) Add(original string, e *Entry) error {
	ok, err := w.claims.Add(original, e.Name)
	if err != nil {
		return err
	}
	if !ok {
		w.logger.Debug().Str("entry", e.Name).Msg("Skipping repeated directory entry")
		return nil
	}

	header := &zip.FileHeader{Name: e.Name, Method: zip.Deflate}
	if e.IsDir() {
		header.Method = zip.Store
	}
	if !e.Time.IsZero() {
		header.Modified = e.Time
	} else {
		header.Modified = time.Unix(0, 0).UTC()
	}

	fw, err := w.zw.CreateHeader(header)
	if err != nil {
		return errors.Wrapf(err, errors.ErrArchiveWrite, "cannot add entry %s", e.Name).
			WithDetail("entry", e.Name)
	}
	if len(e.Data) > 0 {
		if _, err := fw.Write(e.Data); err != nil {
			return errors.Wrapf(err, errors.ErrArchiveWrite, "cannot write entry %s", e.Name).
				WithDetail("entry", e.Name)
		}
	}
	w.written++
	return nil
}

// Written returns the number of entries written so far.
func (w *Writer) Written() int { return w.written }

// Close finishes the zip stream. For file-backed writers use Commit or
// Abort instead.
func (w *Writer) Close() error {
	if err := w.zw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrArchiveWrite, "cannot finish archive")
	}
	return nil
}

// Commit finishes the archive and moves it to its destination.
func (w *Writer) Commit() error {
	if w.file == nil {
		return w.Close()
	}
	if err := w.Close(); err != nil {
		w.Abort()
		return err
	}
	tmp := w.file.Name()
	if err := w.file.Close(); err != nil {
		w.Abort()
		return errors.Wrap(err, errors.ErrArchiveWrite, "cannot close output").
			WithDetail("path", w.dest)
	}
	if err := w.stage.publish(context.Background(), tmp, w.dest); err != nil {
		w.Abort()
		return err
	}
	w.logger.Debug().Str("path", w.dest).Int("entries", w.written).Msg("Wrote archive")
	return nil
}

// Abort discards a file-backed archive. It is safe to call after Commit.
func (w *Writer) Abort() {
	if w.file == nil {
		return
	}
	tmp := w.file.Name()
	_ = w.file.Close()
	if err := w.stage.discard(context.Background(), tmp); err != nil {
		w.logger.Warn().Err(err).Str("path", tmp).Msg("Cannot remove temporary archive")
	}
}

// Write writes entries to dest in order, replacing dest only if every entry
// was written.
func Write(dest string, entries []*Entry, claims Claimer) error {
	w, err := Create(dest, claims)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := w.Add(e.Name, e); err != nil {
			w.Abort()
			return err
		}
	}
	return w.Commit()
}
