package archive

import (
	"bytes"
	"io"
	"os"

	"github.com/arthur-debert/shade/pkg/errors"
	"github.com/arthur-debert/shade/pkg/logging"
	"github.com/klauspost/compress/zip"
)

// Read loads every entry of the archive at path.
func Read(path string) ([]*Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrArchiveRead, "cannot open archive %s", path).
			WithDetail("path", path)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrArchiveRead, "cannot stat archive %s", path).
			WithDetail("path", path)
	}

	entries, err := ReadFrom(f, info.Size())
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrArchiveRead, "%s", path).
			WithDetail("path", path)
	}
	return entries, nil
}

// ReadBytes loads every entry of an in-memory archive.
func ReadBytes(data []byte) ([]*Entry, error) {
	return ReadFrom(bytes.NewReader(data), int64(len(data)))
}

// ReadFrom loads every entry of the archive in r.
func ReadFrom(r io.ReaderAt, size int64) ([]*Entry, error) {
	logger := logging.GetLogger("archive.reader")

	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrArchiveRead, "not a zip archive")
	}

	entries := make([]*Entry, 0, len(zr.File))
	for _, f := range zr.File {
		data, err := readFile(f)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrArchiveRead, "cannot read entry %s", f.Name).
				WithDetail("entry", f.Name)
		}
		entries = append(entries, &Entry{
			Name: f.Name,
			Data: data,
			Time: f.Modified,
		})
	}

	logger.Debug().Int("entries", len(entries)).Msg("Read archive")
	return entries, nil
}

func readFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}
