// Package resume checks a resume file locally before it is uploaded.
package resume

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

// MaxSize is the largest accepted upload.
const MaxSize = 5 << 20

var (
	ErrUnsupportedType = errors.New("resume must be a PDF, DOC or DOCX file")
	ErrTooLarge        = fmt.Errorf("resume is larger than %d MiB", MaxSize>>20)
	ErrEmpty           = errors.New("resume file is empty")
	ErrNoText          = errors.New("resume has no extractable text; upload a text-based document rather than a scan")
	ErrUnreadable      = errors.New("resume could not be read")
)

var allowedExt = map[string]bool{".pdf": true, ".doc": true, ".docx": true}

// Info describes a file that passed the check.
type Info struct {
	Name  string
	Size  int64
	MIME  string
	Pages int    // PDF only
	Text  string // extracted text; empty for legacy .doc
}

// Words returns the number of whitespace-separated words in the text.
func (i *Info) Words() int { return len(strings.Fields(i.Text)) }

// CheckFile stats and reads path and runs Check on it.
func CheckFile(path string) (*Info, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !allowedExt[ext] {
		return nil, ErrUnsupportedType
	}
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat resume: %w", err)
	}
	if st.Size() > MaxSize {
		return nil, ErrTooLarge
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read resume: %w", err)
	}
	return Check(filepath.Base(path), data)
}

// Check validates an in-memory resume named name.
func Check(name string, data []byte) (*Info, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExt[ext] {
		return nil, ErrUnsupportedType
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if len(data) > MaxSize {
		return nil, ErrTooLarge
	}

	mt := mimetype.Detect(data)
	info := &Info{Name: name, Size: int64(len(data)), MIME: mt.String()}

	var err error
	switch {
	case mt.Is("application/pdf"):
		info.Pages, info.Text, err = pdfText(data)
	case mt.Is("application/vnd.openxmlformats-officedocument.wordprocessingml.document"),
		mt.Is("application/zip") && ext == ".docx":
		info.Text, err = docxText(data)
	case mt.Is("application/msword"), mt.Is("application/x-ole-storage"):
		// Legacy Word binaries are passed through; the server extracts them.
		return info, nil
	default:
		return nil, fmt.Errorf("%w (detected %s)", ErrUnsupportedType, mt.String())
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if strings.TrimSpace(info.Text) == "" {
		return nil, ErrNoText
	}
	return info, nil
}

func pdfText(data []byte) (pages int, text string, err error) {
	// The pdf package panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, "", err
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return 0, "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return 0, "", err
	}
	return r.NumPage(), buf.String(), nil
}

func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()
		return paragraphs(rc)
	}
	return "", errors.New("word/document.xml not found")
}

// paragraphs returns the character data of a WordprocessingML body with
// one line per paragraph.
func paragraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var b strings.Builder
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.EndElement:
			if (t.Name.Local == "p" || t.Name.Local == "br") && b.Len() > 0 {
				b.WriteByte('\n')
			}
		}
	}
	return strings.TrimSpace(b.String()), nil
}
