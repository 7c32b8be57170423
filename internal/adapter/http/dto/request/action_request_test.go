package request

import (
	"encoding/json"
	"testing"
)

func TestActionRequestPayload(t *testing.T) {
	tests := []struct {
		name string
		data json.RawMessage
		want string
	}{
		{name: "missing", data: nil, want: "{}"},
		{name: "null", data: json.RawMessage("null"), want: "{}"},
		{name: "blank", data: json.RawMessage("  "), want: "{}"},
		{name: "object", data: json.RawMessage(`{"hours":2}`), want: `{"hours":2}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ActionRequest{Action: "x", Data: tc.data}.Payload()
			if string(got) != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestListQueryTrimmed(t *testing.T) {
	q := ListQuery{ID: " p-1 ", Status: "won ", ProjectID: "\tproj"}.Trimmed()
	if q.ID != "p-1" || q.Status != "won" || q.ProjectID != "proj" {
		t.Fatalf("unexpected trimmed query: %+v", q)
	}
}
