package contract

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func validRecord() LogRecord {
	return LogRecord{
		ServiceName:       "nex-web-backend",
		ServiceType:       ServiceNexWebBackend,
		ServiceVersion:    "1.2.3",
		ServiceInstanceID: "web-backend-001",
		Level:             LevelInfo,
		Message:           "request handled",
		Environment:       "dev",
	}
}

// contextOfSize builds a JSON object whose encoding is exactly n bytes.
func contextOfSize(t *testing.T, n int) json.RawMessage {
	t.Helper()
	// {"pad":"..."} carries 10 bytes of framing around the padding.
	const framing = len(`{"pad":""}`)
	if n < framing {
		t.Fatalf("size %d too small", n)
	}
	raw := []byte(`{"pad":"` + strings.Repeat("x", n-framing) + `"}`)
	if len(raw) != n {
		t.Fatalf("built context of %d bytes, want %d", len(raw), n)
	}
	return raw
}

func TestValidateRequiredFields(t *testing.T) {
	cases := []struct {
		field  string
		mutate func(*LogRecord)
	}{
		{"service_name", func(r *LogRecord) { r.ServiceName = "" }},
		{"service_type", func(r *LogRecord) { r.ServiceType = "mystery" }},
		{"service_version", func(r *LogRecord) { r.ServiceVersion = "" }},
		{"service_instance_id", func(r *LogRecord) { r.ServiceInstanceID = "" }},
		{"level", func(r *LogRecord) { r.Level = "LOUD" }},
		{"message", func(r *LogRecord) { r.Message = "" }},
		{"environment", func(r *LogRecord) { r.Environment = "" }},
	}
	for _, tc := range cases {
		rec := validRecord()
		tc.mutate(&rec)
		err := rec.Validate()
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.field, err)
		}
		if ve.Field != tc.field {
			t.Fatalf("expected violation on %s, got %s", tc.field, ve.Field)
		}
	}
}

func TestContextSizeBoundary(t *testing.T) {
	rec := validRecord()
	rec.Context = contextOfSize(t, MaxContextBytes)
	if err := rec.Validate(); err != nil {
		t.Fatalf("context of exactly %d bytes must pass: %v", MaxContextBytes, err)
	}

	rec.Context = contextOfSize(t, MaxContextBytes+1)
	err := rec.Validate()
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "context" {
		t.Fatalf("oversized context not rejected: %v", err)
	}
}

func TestContextMustBeObject(t *testing.T) {
	rec := validRecord()
	rec.Context = json.RawMessage(`[1,2,3]`)
	if err := rec.Validate(); err == nil {
		t.Fatalf("array context accepted")
	}
	rec.Context = json.RawMessage(`{"broken`)
	if err := rec.Validate(); err == nil {
		t.Fatalf("malformed context accepted")
	}
	rec.Context = json.RawMessage(`null`)
	if err := rec.Validate(); err != nil {
		t.Fatalf("null context rejected: %v", err)
	}
}

func TestNormalizeTimestamp(t *testing.T) {
	rec := validRecord()
	rec.Normalize()
	if rec.Timestamp.IsZero() {
		t.Fatalf("zero timestamp not defaulted")
	}
	if rec.Timestamp.Location() != time.UTC {
		t.Fatalf("timestamp not UTC")
	}

	est := time.FixedZone("EST", -5*3600)
	rec.Timestamp = time.Date(2024, 6, 1, 10, 0, 0, 0, est)
	rec.Normalize()
	if rec.Timestamp.Hour() != 15 || rec.Timestamp.Location() != time.UTC {
		t.Fatalf("timestamp not converted to UTC: %v", rec.Timestamp)
	}
}

func TestBatchSizeBoundary(t *testing.T) {
	mkBatch := func(n int) LogBatch {
		b := LogBatch{
			BatchID:           "batch-1",
			ServiceName:       "nex-web-backend",
			ServiceType:       ServiceNexWebBackend,
			ServiceVersion:    "1.2.3",
			ServiceInstanceID: "web-backend-001",
		}
		for i := 0; i < n; i++ {
			b.Logs = append(b.Logs, validRecord())
		}
		return b
	}

	full := mkBatch(MaxBatchRecords)
	if err := full.Validate(); err != nil {
		t.Fatalf("batch of exactly %d records must pass: %v", MaxBatchRecords, err)
	}

	over := mkBatch(MaxBatchRecords + 1)
	if err := over.Validate(); err == nil {
		t.Fatalf("batch of %d records accepted", MaxBatchRecords+1)
	}

	empty := mkBatch(0)
	if err := empty.Validate(); err == nil {
		t.Fatalf("empty batch accepted")
	}
}

func TestBatchRejectsInvalidRecord(t *testing.T) {
	b := LogBatch{
		BatchID:           "batch-2",
		ServiceName:       "nex-web-backend",
		ServiceType:       ServiceNexWebBackend,
		ServiceVersion:    "1.2.3",
		ServiceInstanceID: "web-backend-001",
		Logs:              []LogRecord{validRecord(), validRecord()},
	}
	b.Logs[1].Message = ""
	if err := b.Validate(); err == nil {
		t.Fatalf("batch with invalid record accepted")
	}
}

func TestSerializedSizeAndSummary(t *testing.T) {
	rec := validRecord()
	size := rec.SerializedSize()
	if size <= 0 {
		t.Fatalf("serialized size = %d", size)
	}
	b, _ := json.Marshal(&rec)
	if size != len(b) {
		t.Fatalf("size %d != marshaled length %d", size, len(b))
	}
	if !bytes.Contains([]byte(rec.Summary()), []byte("nex-web-backend")) {
		t.Fatalf("summary missing service: %q", rec.Summary())
	}
}
