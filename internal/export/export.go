// Package export writes the normalized task document in a portable format.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/phrazzld/taskdeck/internal/domain"
	"gopkg.in/yaml.v3"
)

// Format names an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml in any case.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", name)
	}
}

// Record is one exported task.
type Record struct {
	ID          string  `json:"id"          yaml:"id"`
	Content     string  `json:"content"     yaml:"content"`
	ProjectName string  `json:"projectName" yaml:"projectName"`
	Comments    string  `json:"comments"    yaml:"comments"`
	Status      string  `json:"status"      yaml:"status"`
	DueDate     *string `json:"dueDate"     yaml:"dueDate"`
	Priority    int     `json:"priority"    yaml:"priority"`
	CreatedAt   string  `json:"createdAt"   yaml:"createdAt"`
	UpdatedAt   *string `json:"updatedAt"   yaml:"updatedAt"`
}

// Document maps year to month to the tasks filed there.
type Document map[string]map[string][]Record

// Build groups tasks into a Document. Tasks keep their relative order within
// a bucket.
func Build(tasks []domain.Task) Document {
	doc := make(Document)
	for _, t := range tasks {
		if !t.Listable() {
			continue
		}
		months, ok := doc[t.Bucket.Year]
		if !ok {
			months = make(map[string][]Record)
			doc[t.Bucket.Year] = months
		}
		months[t.Bucket.Month] = append(months[t.Bucket.Month], newRecord(t))
	}
	return doc
}

func newRecord(t domain.Task) Record {
	return Record{
		ID:          t.ID,
		Content:     t.Content,
		ProjectName: t.ProjectName,
		Comments:    t.Comments,
		Status:      string(t.Status),
		DueDate:     optional(t.DueDate),
		Priority:    t.Priority,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   optional(t.UpdatedAt),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Write encodes the document for tasks to w. Map keys come out sorted in
// both formats.
func Write(w io.Writer, tasks []domain.Task, format Format) error {
	doc := Build(tasks)

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}
