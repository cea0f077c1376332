package queue

import (
	"reflect"
	"testing"
)

func TestEvent_RoundTripThroughStreamValues(t *testing.T) {
	event := NewCaptureCreatedEvent("cap-1", "spot-1", "user-1")

	values, err := event.ToMap()
	if err != nil {
		t.Fatalf("ToMap failed: %v", err)
	}
	if values["type"] != EventCaptureCreated {
		t.Errorf("expected type field %q, got %v", EventCaptureCreated, values["type"])
	}

	parsed, err := ParseEvent(values)
	if err != nil {
		t.Fatalf("ParseEvent failed: %v", err)
	}
	if parsed != event {
		t.Errorf("got %+v, want %+v", parsed, event)
	}
}

func TestParseEvent_MissingData(t *testing.T) {
	if _, err := ParseEvent(map[string]interface{}{"type": EventUserFollowed}); err == nil {
		t.Error("expected error for missing data field")
	}
	if _, err := ParseEvent(map[string]interface{}{"data": "{not json"}); err == nil {
		t.Error("expected error for malformed payload")
	}
}

func TestEvent_AffectedUsers(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  []string
	}{
		{"capture", NewCaptureCreatedEvent("c", "s", "owner"), []string{"owner"}},
		{"follow", NewUserFollowedEvent("a", "b"), []string{"a", "b"}},
		{"unfollow", NewUserUnfollowedEvent("a", "b"), []string{"a", "b"}},
		{"unknown", Event{Type: "other"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.AffectedUsers(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AffectedUsers() = %v, want %v", got, tt.want)
			}
		})
	}
}
