package rest

import (
	"bytes"
	"errors"
	"io"
)

// xlsx workbooks are zip archives
var zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}

var errNotWorkbook = errors.New("invalid file signature: not an .xlsx workbook")

// validateWorkbook checks the zip signature and rewinds the file.
func validateWorkbook(file io.ReadSeeker) error {
	head := make([]byte, len(zipMagic))
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if !bytes.Equal(head[:n], zipMagic) {
		return errNotWorkbook
	}
	return nil
}
