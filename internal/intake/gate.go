// Package intake turns a file upload into the signal that shows the clinical
// record. The uploaded bytes are never read: a file name ending in .pdf is all
// the gate checks.
package intake

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// AcceptedExtension is the only file extension the gate lets through.
const AcceptedExtension = ".pdf"

var (
	// ErrNoFile means nothing was uploaded. It produces no trigger and no
	// visible output.
	ErrNoFile = errors.New("no file supplied")
	// ErrNotPDF means the upload does not carry a .pdf name.
	ErrNotPDF = errors.New("only PDF files are accepted")
	// ErrTooLarge means the upload exceeds the configured size limit.
	ErrTooLarge = errors.New("file too large")
)

// Upload describes a supplied file. Size is the declared size in bytes, or a
// negative value when unknown.
type Upload struct {
	Filename string
	Size     int64
}

// Trigger is raised for every accepted upload.
type Trigger struct {
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	ReceivedAt time.Time `json:"received_at"`
}

// Gate accepts uploads by name and size.
type Gate struct {
	maxFileSize int64
	now         func() time.Time
}

// NewGate creates a gate that rejects uploads larger than maxFileSize. A
// maxFileSize of zero or less disables the size check.
func NewGate(maxFileSize int64) *Gate {
	return &Gate{
		maxFileSize: maxFileSize,
		now:         time.Now,
	}
}

// Accept returns a Trigger when upload is a supplied file with a .pdf name.
// Empty or non-PDF content still triggers.
func (g *Gate) Accept(upload *Upload) (Trigger, error) {
	if upload == nil || strings.TrimSpace(upload.Filename) == "" {
		return Trigger{}, ErrNoFile
	}

	name := filepath.Base(upload.Filename)
	if !HasPDFExtension(name) {
		return Trigger{}, fmt.Errorf("%w: %s", ErrNotPDF, name)
	}

	if g.maxFileSize > 0 && upload.Size > g.maxFileSize {
		return Trigger{}, fmt.Errorf("%w: %d bytes (max: %d bytes)", ErrTooLarge, upload.Size, g.maxFileSize)
	}

	return Trigger{
		Filename:   name,
		Size:       upload.Size,
		ReceivedAt: g.now(),
	}, nil
}

// MaxFileSize returns the configured upload limit in bytes.
func (g *Gate) MaxFileSize() int64 {
	return g.maxFileSize
}

// HasPDFExtension reports whether name ends in .pdf, ignoring case.
func HasPDFExtension(name string) bool {
	return strings.EqualFold(filepath.Ext(name), AcceptedExtension)
}
