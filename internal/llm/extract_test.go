package llm

import (
	"errors"
	"testing"
)

func TestExtractAppointments_BareJSON(t *testing.T) {
	content := `{"appointments": [{"title": "dentist"}, {"title": "standup"}]}`

	items, err := ExtractAppointments(content)
	if err != nil {
		t.Fatalf("ExtractAppointments failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
}

func TestExtractAppointments_FencedBlock(t *testing.T) {
	content := "```json\n{\"appointments\": [{\"title\": \"dentist\"}]}\n```"

	items, err := ExtractAppointments(content)
	if err != nil {
		t.Fatalf("ExtractAppointments failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
}

func TestExtractAppointments_ProseBeforeFence(t *testing.T) {
	content := "Sure! ```json\n{\"appointments\": []}\n```"

	items, err := ExtractAppointments(content)
	if err != nil {
		t.Fatalf("ExtractAppointments failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected 0 items, got %d", len(items))
	}
}

func TestExtractAppointments_FenceWithoutLanguageTag(t *testing.T) {
	content := "```\n{\"appointments\": []}\n```"

	items, err := ExtractAppointments(content)
	if err != nil {
		t.Fatalf("ExtractAppointments failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected 0 items, got %d", len(items))
	}
}

func TestExtractAppointments_ObjectBuriedInProse(t *testing.T) {
	content := `Here are the appointments I found:

{"appointments": [{"title": "checkup"}]}

Let me know if you need anything else.`

	items, err := ExtractAppointments(content)
	if err != nil {
		t.Fatalf("ExtractAppointments failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
}

func TestExtractAppointments_EmptyArray(t *testing.T) {
	items, err := ExtractAppointments(`{"appointments": []}`)
	if err != nil {
		t.Fatalf("ExtractAppointments failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected 0 items, got %d", len(items))
	}
}

func TestExtractAppointments_NoJSONAtAll(t *testing.T) {
	_, err := ExtractAppointments("I could not find any appointments in that text.")
	var uerr *UnparseableError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UnparseableError, got %v", err)
	}
	if uerr.Error() == "" {
		t.Error("UnparseableError has no message")
	}
}

func TestExtractAppointments_BrokenJSON(t *testing.T) {
	_, err := ExtractAppointments(`{"appointments": [{"title": }`)
	var uerr *UnparseableError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UnparseableError, got %v", err)
	}
}

func TestExtractAppointments_MalformedItemsSurviveDecode(t *testing.T) {
	// One item is not even an object. Extraction must still return both raw
	// entries; decoding degrades per item instead of failing the batch.
	content := `{"appointments": [{"title": "dentist"}, "garbage"]}`

	items, err := ExtractAppointments(content)
	if err != nil {
		t.Fatalf("ExtractAppointments failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 raw items, got %d", len(items))
	}

	first := DecodeRawAppointment(items[0])
	if first.Title != "dentist" {
		t.Errorf("first item title = %q, want dentist", first.Title)
	}

	second := DecodeRawAppointment(items[1])
	if second.Title != "" {
		t.Errorf("malformed item should decode to zero value, got title %q", second.Title)
	}
}
