// internal/domain/homework/homework.go
package homework

import (
	"encoding/json"
	"fmt"
)

// Status is the review state of a submission as reported by the API.
type Status string

const (
	StatusReviewing Status = "reviewing"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// Payload keys used by the homework_statuses endpoint.
const (
	KeyHomeworks    = "homeworks"
	KeyCurrentDate  = "current_date"
	KeyHomeworkName = "homework_name"
	KeyStatus       = "status"
)

var verdicts = map[Status]string{
	StatusApproved:  "The work has been reviewed: the reviewer liked everything. Hooray!",
	StatusReviewing: "The work has been taken for review by the reviewer.",
	StatusRejected:  "The work has been reviewed: the reviewer has comments.",
}

// Verdict returns the user-facing sentence for status.
func Verdict(status Status) (string, bool) {
	v, ok := verdicts[status]
	return v, ok
}

// WorkItem is one submission record returned by the API.
type WorkItem struct {
	Name   string
	Status Status
}

// ExtractLatest returns the most recent submission from a decoded API payload.
// The API lists submissions newest first, so the latest one is at index 0.
func ExtractLatest(payload any) (map[string]any, error) {
	response, ok := payload.(map[string]any)
	if !ok {
		return nil, &ShapeError{Reason: fmt.Sprintf("expected an object, got %T", payload)}
	}
	raw, ok := response[KeyHomeworks]
	if !ok {
		return nil, &ShapeError{Reason: "homeworks key is missing"}
	}
	homeworks, ok := raw.([]any)
	if !ok {
		return nil, &ShapeError{Reason: fmt.Sprintf("homeworks is not a list, got %T", raw)}
	}
	if len(homeworks) == 0 {
		return nil, &ShapeError{Reason: "homeworks list is empty"}
	}
	latest, ok := homeworks[0].(map[string]any)
	if !ok {
		return nil, &ShapeError{Reason: fmt.Sprintf("homework is not an object, got %T", homeworks[0])}
	}
	return latest, nil
}

// Parse turns a raw work item into a WorkItem with a known status.
func Parse(item map[string]any) (WorkItem, error) {
	name, ok := item[KeyHomeworkName]
	if !ok {
		return WorkItem{}, &MissingFieldError{Field: KeyHomeworkName}
	}
	status, ok := item[KeyStatus]
	if !ok {
		return WorkItem{}, &MissingFieldError{Field: KeyStatus}
	}

	wi := WorkItem{Name: fmt.Sprint(name), Status: Status(fmt.Sprint(status))}
	if _, known := verdicts[wi.Status]; !known {
		return WorkItem{}, &UnknownStatusError{Status: string(wi.Status)}
	}
	return wi, nil
}

// Describe renders the status change message for a raw work item.
func Describe(item map[string]any) (string, error) {
	wi, err := Parse(item)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Changed review status for \"%s\". %s", wi.Name, verdicts[wi.Status]), nil
}

// CurrentDate reads the server timestamp that becomes the next checkpoint.
func CurrentDate(payload any) (int64, bool) {
	response, ok := payload.(map[string]any)
	if !ok {
		return 0, false
	}
	switch v := response[KeyCurrentDate].(type) {
	case json.Number:
		ts, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return ts, true
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}
