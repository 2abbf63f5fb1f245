// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// scoreEntryName is the document name used inside written .mxl containers.
const scoreEntryName = "score.xml"

// container mirrors META-INF/container.xml inside an .mxl archive.
// The first rootfile points at the MusicXML document.
type container struct {
	XMLName   xml.Name `xml:"container"`
	RootFiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

// ReadFile loads a score from path. Files ending in .mxl are treated
// as compressed containers; anything else is parsed as plain MusicXML.
func ReadFile(path string) (*Score, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading score %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".mxl") {
		data, err = extractMXL(data)
		if err != nil {
			return nil, fmt.Errorf("unpacking %s: %w", path, err)
		}
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// extractMXL returns the MusicXML document from an .mxl ZIP archive,
// located via META-INF/container.xml. Archives without a container
// fall back to the first top-level .xml or .musicxml entry.
func extractMXL(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening mxl archive: %w", err)
	}

	entryName := rootfilePath(zr)
	if entryName == "" {
		for _, f := range zr.File {
			name := f.Name
			if strings.HasPrefix(name, "META-INF/") {
				continue
			}
			ext := strings.ToLower(filepath.Ext(name))
			if ext == ".xml" || ext == ".musicxml" {
				entryName = name
				break
			}
		}
	}
	if entryName == "" {
		return nil, fmt.Errorf("no MusicXML document found in archive")
	}

	return readZipEntry(zr, entryName)
}

func rootfilePath(zr *zip.Reader) string {
	data, err := readZipEntry(zr, "META-INF/container.xml")
	if err != nil {
		return ""
	}
	var c container
	if err := xml.Unmarshal(data, &c); err != nil || len(c.RootFiles) == 0 {
		return ""
	}
	return c.RootFiles[0].FullPath
}

func readZipEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("entry %s not found", name)
}

// MXLBytes serializes the score as a compressed .mxl container.
func (s *Score) MXLBytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	meta, err := zw.Create("META-INF/container.xml")
	if err != nil {
		return nil, fmt.Errorf("creating container entry: %w", err)
	}
	containerXML := xmlDecl +
		"<container><rootfiles><rootfile full-path=\"" + scoreEntryName + "\"/></rootfiles></container>\n"
	if _, err := meta.Write([]byte(containerXML)); err != nil {
		return nil, fmt.Errorf("writing container entry: %w", err)
	}

	doc, err := zw.Create(scoreEntryName)
	if err != nil {
		return nil, fmt.Errorf("creating score entry: %w", err)
	}
	if _, err := doc.Write(s.XML()); err != nil {
		return nil, fmt.Errorf("writing score entry: %w", err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing mxl archive: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteMXL writes the score to path as a compressed .mxl container.
func (s *Score) WriteMXL(path string) error {
	data, err := s.MXLBytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
