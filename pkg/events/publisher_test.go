package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestMemoryPublisherRecordsEvents(t *testing.T) {
	p := &MemoryPublisher{}
	ctx := context.Background()
	if err := p.Publish(ctx, TypeCoursePublished, CoursePublished{CourseID: "c1", Category: "go"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := p.Publish(ctx, TypeLectureRemoved, LectureRemoved{CourseID: "c1", LectureID: "l1"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	got := p.Events()
	if len(got) != 2 || got[0].Type != TypeCoursePublished || got[1].Type != TypeLectureRemoved {
		t.Fatalf("unexpected events: %+v", got)
	}
	if got[0].ID == "" || got[0].ID == got[1].ID || got[0].OccurredAt.IsZero() {
		t.Fatalf("events need unique ids and timestamps: %+v", got)
	}

	p.Err = errors.New("broker down")
	if err := p.Publish(ctx, TypeCoursePublished, nil); err == nil {
		t.Fatalf("expected configured error")
	}
}

func TestEventEnvelopeJSON(t *testing.T) {
	evt := newEvent(TypeCoursePublished, CoursePublished{CourseID: "c1", CreatedBy: "u1", Category: "go", Price: 9.5})
	raw, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded struct {
		Type string         `json:"type"`
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Type != TypeCoursePublished || decoded.Data["courseId"] != "c1" || decoded.Data["price"] != 9.5 {
		t.Fatalf("unexpected envelope: %s", raw)
	}
}

func TestNewAMQPPublisherRequiresURL(t *testing.T) {
	if _, err := NewAMQPPublisher(" ", ""); err == nil {
		t.Fatalf("expected missing url to fail")
	}
}
