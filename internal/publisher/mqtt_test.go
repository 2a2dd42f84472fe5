package publisher

import "testing"

func TestTopicSegment(t *testing.T) {
	tests := []struct {
		name string
		id   int64
		want string
	}{
		{"Truck A", 501, "truck_a"},
		{"frota/01", 7, "frota_01"},
		{"bad+topic#chars", 7, "bad_topic_chars"},
		{"", 501, "vehicle_501"},
		{"   ", 9, "vehicle_9"},
	}

	for _, tt := range tests {
		if got := topicSegment(tt.name, tt.id); got != tt.want {
			t.Errorf("topicSegment(%q, %d) = %q, want %q", tt.name, tt.id, got, tt.want)
		}
	}
}
