package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"sort"

	"github.com/phrazzld/taskdeck/internal/domain"
)

// document is the decoded file. Keys that are not four-digit years are kept
// as they are so that a rewrite does not lose them.
type document map[string]any

// location points at one record inside a document.
type location struct {
	year     string
	rawMonth string
	bucket   domain.Bucket
	index    int
	record   map[string]any
}

// decodeDocument parses raw file content. Anything that is not a single JSON
// object yields an empty document; the bool reports whether the content was
// usable.
func decodeDocument(raw []byte) (document, bool) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return document{}, false
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc document
	if err := dec.Decode(&doc); err != nil || doc == nil {
		return document{}, false
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return document{}, false
	}
	return doc, true
}

// encode renders the document with two-space indentation and a trailing newline.
func (d document) encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any(d)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// walk visits every object record under a valid year and month in bucket
// order. Returning false from fn stops the walk.
func (d document) walk(fn func(loc location) bool) {
	years := make([]string, 0, len(d))
	for year := range d {
		if domain.IsValidYear(year) {
			years = append(years, year)
		}
	}
	sort.Strings(years)

	for _, year := range years {
		months, ok := d[year].(map[string]any)
		if !ok {
			continue
		}

		type monthKey struct{ raw, normalized string }
		keys := make([]monthKey, 0, len(months))
		for raw := range months {
			if m, ok := domain.NormalizeMonth(raw); ok {
				keys = append(keys, monthKey{raw: raw, normalized: m})
			}
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].normalized != keys[j].normalized {
				return keys[i].normalized < keys[j].normalized
			}
			return keys[i].raw < keys[j].raw
		})

		for _, key := range keys {
			records, ok := months[key.raw].([]any)
			if !ok {
				continue
			}
			for i, item := range records {
				record, ok := item.(map[string]any)
				if !ok {
					continue
				}
				loc := location{
					year:     year,
					rawMonth: key.raw,
					bucket:   domain.Bucket{Year: year, Month: key.normalized},
					index:    i,
					record:   record,
				}
				if !fn(loc) {
					return
				}
			}
		}
	}
}

// find returns the location of the record with the given id.
func (d document) find(id string) (location, bool) {
	var (
		found location
		ok    bool
	)
	d.walk(func(loc location) bool {
		if domain.Text(loc.record["id"]) == id {
			found, ok = loc, true
			return false
		}
		return true
	})
	return found, ok
}

// tasks normalizes every listable record.
func (d document) tasks(today string) []domain.Task {
	var out []domain.Task
	d.walk(func(loc location) bool {
		t := domain.NormalizeRecord(domain.Payload(loc.record), loc.bucket, today)
		if t.Listable() {
			out = append(out, t)
		}
		return true
	})
	return out
}

// append adds record to the bucket, creating the year and month as needed.
func (d document) append(bucket domain.Bucket, record map[string]any) {
	months, ok := d[bucket.Year].(map[string]any)
	if !ok {
		months = map[string]any{}
		d[bucket.Year] = months
	}

	records, _ := months[bucket.Month].([]any)
	months[bucket.Month] = append(records, record)
}

// remove deletes the record at loc and drops the month and year if they
// became empty.
func (d document) remove(loc location) {
	months, ok := d[loc.year].(map[string]any)
	if !ok {
		return
	}
	records, ok := months[loc.rawMonth].([]any)
	if !ok || loc.index >= len(records) {
		return
	}

	records = append(records[:loc.index], records[loc.index+1:]...)
	if len(records) == 0 {
		delete(months, loc.rawMonth)
	} else {
		months[loc.rawMonth] = records
	}

	if len(months) == 0 {
		delete(d, loc.year)
	}
}

// replace swaps the record at loc in place.
func (d document) replace(loc location, record map[string]any) {
	months := d[loc.year].(map[string]any)
	records := months[loc.rawMonth].([]any)
	records[loc.index] = record
}

// recordFromTask renders t as a stored record on top of base, so keys the
// application does not know about survive an update. The legacy title and
// description keys mirror content and comments.
func recordFromTask(t domain.Task, base map[string]any) map[string]any {
	record := make(map[string]any, len(base)+11)
	for k, v := range base {
		record[k] = v
	}

	record["id"] = t.ID
	record["content"] = t.Content
	record["title"] = t.Content
	record["projectName"] = t.ProjectName
	record["comments"] = t.Comments
	record["description"] = t.Comments
	record["status"] = string(t.Status)
	record["dueDate"] = nullable(t.DueDate)
	record["priority"] = t.Priority
	record["createdAt"] = t.CreatedAt
	record["updatedAt"] = nullable(t.UpdatedAt)

	return record
}

// keepStoredCreatedAt restores the stored createdAt value when it is not a
// valid date, so reading a record never rewrites its creation date.
func keepStoredCreatedAt(record, stored map[string]any) {
	raw, present := stored["createdAt"]
	if _, ok := domain.NormalizeISODate(domain.Payload(stored).Get("createdAt")); ok {
		return
	}
	if present {
		record["createdAt"] = raw
	} else {
		delete(record, "createdAt")
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
