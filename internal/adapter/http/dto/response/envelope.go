package response

import (
	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase"
	"studioflow/pkg"
)

// Envelope wraps every successful response body.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

func Message(msg string) Envelope {
	return Envelope{Success: true, Message: msg}
}

type NotificationList struct {
	Notifications []entities.Notification `json:"notifications"`
	UnreadCount   int                     `json:"unreadCount"`
}

type MarkAllRead struct {
	Marked int `json:"marked"`
}

// AllocationExceeded is the detail block of a timesheet rejected for exceeding the budget.
type AllocationExceeded struct {
	ExceedsAllocation bool    `json:"exceedsAllocation"`
	ExceededBy        float64 `json:"exceededBy"`
	Budget            float64 `json:"budget"`
	HoursLogged       float64 `json:"hoursLogged"`
	Requested         float64 `json:"requested"`
}

func FromAllocationExceeded(e *usecase.AllocationExceededError) AllocationExceeded {
	return AllocationExceeded{
		ExceedsAllocation: true,
		ExceededBy:        e.ExceededBy,
		Budget:            e.Budget,
		HoursLogged:       e.Logged,
		Requested:         e.Requested,
	}
}

// AllocationExceededError is the body of a rejected timesheet. The overshoot is repeated at the
// top level next to the usual error fields.
type AllocationExceededError struct {
	pkg.HTTPError
	ExceedsAllocation bool    `json:"exceedsAllocation"`
	ExceededBy        float64 `json:"exceededBy"`
}

// ErrorBody renders appErr, flattening the allocation overshoot when present.
func ErrorBody(appErr *pkg.AppError) any {
	body := appErr.ToHTTPError()
	if d, ok := appErr.Details.(AllocationExceeded); ok {
		return AllocationExceededError{HTTPError: body, ExceedsAllocation: d.ExceedsAllocation, ExceededBy: d.ExceededBy}
	}
	return body
}

// PartialUpload lists the files that reached storage before an upload failed.
type PartialUpload struct {
	Failed string                `json:"failed"`
	Stored []entities.StoredFile `json:"stored"`
}

func FromPartialUpload(e *usecase.PartialUploadError) PartialUpload {
	stored := e.Stored
	if stored == nil {
		stored = []entities.StoredFile{}
	}
	return PartialUpload{Failed: e.Failed, Stored: stored}
}
