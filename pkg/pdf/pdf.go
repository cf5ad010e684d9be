// Package pdf merges PDF documents and sniffs uploaded content.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const (
	MimePDF = "application/pdf"
	MimeZIP = "application/zip"
)

var ErrNoDocuments = errors.New("no pdf documents to merge")

func init() {
	// pdfcpu would otherwise create a config dir under the user's home
	api.DisableConfigDir()
}

func configuration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Merge concatenates docs in order into a single PDF.
func Merge(docs [][]byte) ([]byte, error) {
	switch len(docs) {
	case 0:
		return nil, ErrNoDocuments
	case 1:
		if _, err := PageCount(docs[0]); err != nil {
			return nil, err
		}
		return docs[0], nil
	}

	readers := make([]io.ReadSeeker, 0, len(docs))
	for _, doc := range docs {
		readers = append(readers, bytes.NewReader(doc))
	}

	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, configuration()); err != nil {
		return nil, fmt.Errorf("merge %d documents: %w", len(docs), err)
	}
	return out.Bytes(), nil
}

func PageCount(doc []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(doc), configuration())
	if err != nil {
		return 0, fmt.Errorf("read pdf: %w", err)
	}
	return n, nil
}

// IsPDF reports whether data starts like a PDF document.
func IsPDF(data []byte) bool {
	return mimetype.Detect(data).Is(MimePDF)
}

// IsZIP requires both a .zip name and zip content.
func IsZIP(filename string, data []byte) bool {
	if !strings.EqualFold(filepath.Ext(filename), ".zip") {
		return false
	}
	return detectedAs(data, MimeZIP)
}

// IsCSV requires a .csv name and textual content.
func IsCSV(filename string, data []byte) bool {
	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		return false
	}
	return detectedAs(data, "text/plain")
}

func detectedAs(data []byte, want string) bool {
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if m.Is(want) {
			return true
		}
	}
	return false
}
