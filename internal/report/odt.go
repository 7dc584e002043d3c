package report

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	odtMimeType     = "application/vnd.oasis.opendocument.text"
	defaultFileMode = os.FileMode(0o644)

	manifestXML = `<?xml version="1.0" encoding="UTF-8"?>
<manifest:manifest xmlns:manifest="urn:oasis:names:tc:opendocument:xmlns:manifest:1.0" manifest:version="1.2">
 <manifest:file-entry manifest:full-path="/" manifest:version="1.2" manifest:media-type="application/vnd.oasis.opendocument.text"/>
 <manifest:file-entry manifest:full-path="content.xml" manifest:media-type="text/xml"/>
</manifest:manifest>
`

	contentHead = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-content xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0" office:version="1.2">
<office:body>
<office:text>
`
	contentTail = `</office:text>
</office:body>
</office:document-content>
`
)

// ODTWriter renders orders as an OpenDocument Text file.
type ODTWriter struct{}

var _ Streamer = ODTWriter{}

func (ODTWriter) ContentType() string { return odtMimeType }

// Paragraphs is the document body, one entry per paragraph. Empty strings are
// blank separator paragraphs.
func Paragraphs(orders []OrderView) []string {
	out := []string{Title, ""}
	for _, o := range orders {
		out = append(out,
			"Order: "+o.OrderNumber,
			"Customer: "+o.CustomerName,
			fmt.Sprintf("Amount: %s | Status: %s", money(o.TotalAmount), o.Status),
		)
		for _, l := range o.Lines {
			out = append(out, lineText(l))
		}
		out = append(out, "")
	}
	return out
}

// Generate writes the document next to path first and renames it into place,
// so a failed export leaves any previous file untouched.
func (w ODTWriter) Generate(path string, orders []OrderView) error {
	if path == "" {
		path = DefaultPath
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*.odt")
	if err != nil {
		return fmt.Errorf("report: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	// CreateTemp makes the file 0600; keep the mode of the file being replaced
	mode := defaultFileMode
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("report: chmod temp file: %w", err)
	}

	if err := w.Write(tmp, orders); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("report: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("report: move into place: %w", err)
	}
	return nil
}

// Write streams the zipped document to out.
func (ODTWriter) Write(out io.Writer, orders []OrderView) error {
	zw := zip.NewWriter(out)

	// mimetype must be the first entry and stored uncompressed
	mt, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return fmt.Errorf("report: write mimetype: %w", err)
	}
	if _, err := io.WriteString(mt, odtMimeType); err != nil {
		return fmt.Errorf("report: write mimetype: %w", err)
	}

	if err := writeEntry(zw, "META-INF/manifest.xml", []byte(manifestXML)); err != nil {
		return err
	}

	content, err := contentXML(Paragraphs(orders))
	if err != nil {
		return err
	}
	if err := writeEntry(zw, "content.xml", content); err != nil {
		return err
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("report: finish archive: %w", err)
	}
	return nil
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("report: create %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("report: write %s: %w", name, err)
	}
	return nil
}

func contentXML(paragraphs []string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(contentHead)
	for _, p := range paragraphs {
		if p == "" {
			buf.WriteString("<text:p/>\n")
			continue
		}
		buf.WriteString("<text:p>")
		if err := xml.EscapeText(&buf, []byte(p)); err != nil {
			return nil, fmt.Errorf("report: escape paragraph: %w", err)
		}
		buf.WriteString("</text:p>\n")
	}
	buf.WriteString(contentTail)
	return buf.Bytes(), nil
}
