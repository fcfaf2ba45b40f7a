package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-task-catalog/task"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

func validateOutput(format string) error {
	switch format {
	case outputText, outputJSON, outputYAML:
		return nil
	}
	return fmt.Errorf("invalid --output %q (want text, json or yaml)", format)
}

// writeStructured renders payload as JSON or YAML. YAML goes through the
// JSON form so both formats share the json field names.
func writeStructured(w io.Writer, format string, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	if format == outputJSON {
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}

func writeTask(w io.Writer, format string, info task.Info) error {
	if format != outputText {
		return writeStructured(w, format, info)
	}
	return writeTaskDetail(w, info)
}

func writeList(w io.Writer, format string, result task.ListResult) error {
	if format != outputText {
		return writeStructured(w, format, result)
	}

	for _, info := range result.Tasks {
		if _, err := fmt.Fprintln(w, formatTaskLine(info)); err != nil {
			return err
		}
	}
	if p := result.Pagination; p != nil {
		_, err := fmt.Fprintf(w, "page %d/%d (%d tasks)\n", p.Page, p.TotalPages, p.Total)
		return err
	}
	return nil
}

func formatTaskLine(info task.Info) string {
	return fmt.Sprintf("#%d [%s] %s/%s - %s", info.ID, info.Kind, info.Status, info.Priority, info.Title)
}

func writeTaskDetail(w io.Writer, info task.Info) error {
	lines := []string{
		fmt.Sprintf("id: %d", info.ID),
		fmt.Sprintf("kind: %s", info.Kind),
		fmt.Sprintf("title: %s", info.Title),
		fmt.Sprintf("status: %s", info.Status),
		fmt.Sprintf("priority: %s", info.Priority),
		fmt.Sprintf("created_at: %s", formatTime(info.CreatedAt)),
		fmt.Sprintf("updated_at: %s", formatTime(info.UpdatedAt)),
	}

	if info.Description != nil {
		lines = append(lines, fmt.Sprintf("description: %s", *info.Description))
	}
	if info.Deadline != nil {
		lines = append(lines, fmt.Sprintf("deadline: %s", formatTime(*info.Deadline)))
	}
	if info.AssigneeID != nil {
		lines = append(lines, fmt.Sprintf("assignee_id: %d", *info.AssigneeID))
	}
	if info.ParentID != nil {
		lines = append(lines, fmt.Sprintf("parent_id: %d", *info.ParentID))
	}
	if len(info.Labels) > 0 {
		lines = append(lines, fmt.Sprintf("labels: %s", strings.Join(info.Labels, ", ")))
	}
	if info.Assignee != nil {
		lines = append(lines, fmt.Sprintf("assignee: %s", *info.Assignee))
	}
	if info.Severity != nil {
		lines = append(lines, fmt.Sprintf("severity: %s", *info.Severity))
	}
	if info.Environment != nil {
		lines = append(lines, fmt.Sprintf("environment: %s", *info.Environment))
	}
	if info.StepsToReproduce != nil {
		lines = append(lines, fmt.Sprintf("steps_to_reproduce: %s", *info.StepsToReproduce))
	}
	if info.StoryPoints != nil {
		lines = append(lines, fmt.Sprintf("story_points: %d", *info.StoryPoints))
	}
	if info.EpicLink != nil {
		lines = append(lines, fmt.Sprintf("epic_link: %s", *info.EpicLink))
	}
	if len(info.ChildrenIDs) > 0 {
		ids := make([]string, len(info.ChildrenIDs))
		for i, id := range info.ChildrenIDs {
			ids[i] = fmt.Sprintf("%d", id)
		}
		lines = append(lines, fmt.Sprintf("children_ids: %s", strings.Join(ids, ", ")))
	}
	if info.Color != nil {
		lines = append(lines, fmt.Sprintf("color: %s", *info.Color))
	}

	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// formatCLIError expands validation errors into one line per field.
func formatCLIError(err error) []string {
	var verr *task.ValidationError
	if errors.As(err, &verr) {
		lines := []string{"error: " + task.ErrValidation.Error()}
		for _, field := range verr.FieldNames() {
			lines = append(lines, fmt.Sprintf("  %s: %s", field, verr.Fields[field]))
		}
		return lines
	}

	return []string{"error: " + err.Error()}
}
