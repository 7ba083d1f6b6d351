// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package textsource

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"statement-scan/internal/document"
)

// ScanProvenance holds the capture metadata of a scanned statement image.
// Audit trails need to record which device scanned a statement and when,
// independent of the file's modification time.
type ScanProvenance struct {
	CaptureTime string
	Device      string
	Software    string
	Tags        map[string]string
}

// provenanceWalker collects every EXIF tag present in the scan.
type provenanceWalker struct {
	tags map[string]string
}

func (w *provenanceWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	if tag != nil {
		w.tags[string(name)] = tag.String()
	}
	return nil
}

// ReadScanProvenance extracts capture metadata from a scanned statement
// image. Images without EXIF data return an error; callers treat that as
// absent provenance, not as a pipeline failure.
func ReadScanProvenance(path string) (*ScanProvenance, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("error opening scan: %w", err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("no EXIF data found: %w", err)
	}

	walker := &provenanceWalker{tags: make(map[string]string)}
	if err := x.Walk(walker); err != nil {
		return nil, fmt.Errorf("error reading EXIF tags: %w", err)
	}

	p := &ScanProvenance{Tags: walker.tags}
	p.CaptureTime = firstTag(walker.tags, string(exif.DateTimeOriginal), string(exif.DateTime), string(exif.DateTimeDigitized))
	p.Software = trimTag(walker.tags[string(exif.Software)])

	deviceMake := trimTag(walker.tags[string(exif.Make)])
	deviceModel := trimTag(walker.tags[string(exif.Model)])
	switch {
	case deviceMake != "" && deviceModel != "":
		p.Device = deviceMake + " " + deviceModel
	case deviceModel != "":
		p.Device = deviceModel
	default:
		p.Device = deviceMake
	}

	return p, nil
}

// Annotate attaches the provenance to a document's metadata.
func (p *ScanProvenance) Annotate(doc *document.Document) {
	if p == nil || doc == nil {
		return
	}
	if p.CaptureTime != "" {
		doc.SetMetadata("scan_capture_time", p.CaptureTime)
	}
	if p.Device != "" {
		doc.SetMetadata("scan_device", p.Device)
	}
	if p.Software != "" {
		doc.SetMetadata("scan_software", p.Software)
	}
}

func firstTag(tags map[string]string, names ...string) string {
	for _, name := range names {
		if v := trimTag(tags[name]); v != "" {
			return v
		}
	}
	return ""
}

// trimTag strips the quotes goexif keeps around ASCII tag values.
func trimTag(v string) string {
	return strings.TrimSpace(strings.Trim(v, `"`))
}
