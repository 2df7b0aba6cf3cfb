// Package linkedin extracts connection records from LinkedIn data
// exports: the Connections.csv file, either uploaded directly or inside
// the export ZIP.
package linkedin

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/bondery/bondery/internal/entities"
	"github.com/bondery/bondery/internal/importers"
)

// connectedOnLayout is the timestamp format LinkedIn uses in the
// Connected On column.
const connectedOnLayout = "02 Jan 2006"

// Reader locates and parses the LinkedIn connections export.
type Reader struct {
	maxBytes int64
}

// NewReader creates a reader enforcing the given upload size ceiling.
func NewReader(maxBytes int64) *Reader {
	return &Reader{maxBytes: maxBytes}
}

// Extract parses the uploaded files into raw connection records,
// deduplicated by normalized handle in encounter order.
func (r *Reader) Extract(files []importers.UploadedFile) ([]importers.RawConnectionRecord, error) {
	if len(files) == 0 {
		return nil, &importers.InvalidArchiveError{Reason: "no files uploaded"}
	}
	if r.maxBytes > 0 && importers.TotalSize(files) > r.maxBytes {
		return nil, &importers.PayloadTooLargeError{LimitBytes: r.maxBytes}
	}

	var records []importers.RawConnectionRecord
	seen := map[string]bool{}
	found := false

	for _, file := range files {
		contents, err := connectionsCSV(file)
		if err != nil {
			return nil, err
		}
		if contents == nil {
			continue
		}
		found = true

		parsed, err := parseConnectionsCSV(bytes.NewReader(contents))
		if err != nil {
			return nil, err
		}
		for _, record := range parsed {
			key := importers.NormalizeHandle(record.Handle)
			if key != "" && seen[key] {
				continue
			}
			if key != "" {
				seen[key] = true
			}
			records = append(records, record)
		}
	}

	if !found {
		return nil, &importers.InvalidArchiveError{Reason: "no Connections.csv found in the upload"}
	}
	return records, nil
}

// connectionsCSV returns the raw Connections.csv contents carried by the
// file, or nil when the file is unrelated to the connections export.
func connectionsCSV(file importers.UploadedFile) ([]byte, error) {
	name := strings.ToLower(file.Name)
	switch {
	case strings.HasSuffix(name, ".zip"):
		reader, err := zip.NewReader(bytes.NewReader(file.Data), int64(len(file.Data)))
		if err != nil {
			return nil, &importers.UnsupportedFormatError{Reason: "could not open ZIP archive"}
		}
		for _, entry := range reader.File {
			if strings.EqualFold(entryBase(entry.Name), "connections.csv") {
				rc, err := entry.Open()
				if err != nil {
					return nil, &importers.UnsupportedFormatError{Reason: "could not read Connections.csv from ZIP"}
				}
				defer rc.Close()
				return io.ReadAll(rc)
			}
		}
		return nil, nil
	case strings.HasSuffix(name, ".csv"):
		return file.Data, nil
	default:
		return nil, nil
	}
}

func entryBase(name string) string {
	if idx := strings.LastIndexAny(name, "/\\"); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

// parseConnectionsCSV reads the export CSV. LinkedIn prepends a "Notes:"
// preamble and a blank line before the header row, so the reader scans
// forward until it sees the First Name column.
func parseConnectionsCSV(r io.Reader) ([]importers.RawConnectionRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	header, err := findHeader(reader)
	if err != nil {
		return nil, err
	}

	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"first name", "last name", "url"} {
		if _, ok := headerIndex[required]; !ok {
			return nil, &importers.UnsupportedFormatError{Reason: "missing required column: " + required}
		}
	}

	var records []importers.RawConnectionRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Keep malformed rows visible in the preview rather than
			// aborting the whole parse.
			records = append(records, importers.RawConnectionRecord{
				Platform: entities.PlatformLinkedIn,
			})
			continue
		}

		record := importers.RawConnectionRecord{
			Platform:   entities.PlatformLinkedIn,
			FirstName:  columnValue(row, headerIndex, "first name"),
			LastName:   columnValue(row, headerIndex, "last name"),
			ProfileURL: columnValue(row, headerIndex, "url"),
			Company:    columnValue(row, headerIndex, "company"),
			Position:   columnValue(row, headerIndex, "position"),
		}
		record.Handle = HandleFromProfileURL(record.ProfileURL)

		if raw := columnValue(row, headerIndex, "connected on"); raw != "" {
			record.ConnectedOnRaw = raw
			if at, err := time.Parse(connectedOnLayout, raw); err == nil {
				record.ConnectedAt = &at
			}
		}

		// Skip fully empty rows (trailing newlines in the export)
		if record.FirstName == "" && record.LastName == "" && record.Handle == "" {
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

// findHeader skips the notes preamble and returns the header row.
func findHeader(reader *csv.Reader) ([]string, error) {
	for i := 0; i < 10; i++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			continue
		}
		for _, cell := range row {
			if strings.EqualFold(strings.TrimSpace(cell), "first name") {
				return row, nil
			}
		}
	}
	return nil, &importers.UnsupportedFormatError{Reason: "no header row found in Connections.csv"}
}

func columnValue(row []string, headerIndex map[string]int, column string) string {
	if idx, ok := headerIndex[column]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// HandleFromProfileURL extracts the public identifier from a LinkedIn
// profile URL such as https://www.linkedin.com/in/janedoe.
func HandleFromProfileURL(profileURL string) string {
	if profileURL == "" {
		return ""
	}
	parsed, err := url.Parse(profileURL)
	if err != nil {
		return ""
	}
	path := strings.Trim(parsed.Path, "/")
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if part == "in" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	// Bare handles appear in older exports
	if len(parts) == 1 && parsed.Host == "" {
		return parts[0]
	}
	return ""
}
