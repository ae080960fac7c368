package contract

import (
	"encoding/json"
	"time"

	"github.com/valyala/fastjson"
)

// MaxContextBytes bounds the serialized size of a record's structured
// context. Exactly MaxContextBytes is accepted; one byte more is rejected.
const MaxContextBytes = 10 * 1024

var contextParsers fastjson.ParserPool

// LogRecord is a single standardized log entry.
type LogRecord struct {
	// Service identification.
	ServiceName       string      `json:"service_name"`
	ServiceType       ServiceType `json:"service_type"`
	ServiceVersion    string      `json:"service_version"`
	ServiceInstanceID string      `json:"service_instance_id"`

	// Log body.
	Timestamp time.Time `json:"timestamp"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`

	// Origin detail.
	LoggerName string `json:"logger_name,omitempty"`
	ThreadName string `json:"thread_name,omitempty"`

	// Structured data. Context stays raw; it is validated, not interpreted.
	Context json.RawMessage `json:"context,omitempty"`
	Tags    []string        `json:"tags,omitempty"`

	// Exception descriptor.
	ExceptionType    string `json:"exception_type,omitempty"`
	ExceptionMessage string `json:"exception_message,omitempty"`
	StackTrace       string `json:"stack_trace,omitempty"`

	// Performance metadata.
	ExecutionTimeMs *float64 `json:"execution_time_ms,omitempty"`
	MemoryUsageMb   *float64 `json:"memory_usage_mb,omitempty"`

	// Request correlation.
	RequestID  string `json:"request_id,omitempty"`
	UserID     string `json:"user_id,omitempty"`
	Endpoint   string `json:"endpoint,omitempty"`
	HTTPMethod string `json:"http_method,omitempty"`
	StatusCode *int   `json:"status_code,omitempty"`

	// Environment.
	Environment string `json:"environment"`
	Host        string `json:"host,omitempty"`
	IPAddress   string `json:"ip_address,omitempty"`
}

// Normalize fills derivable fields: a zero timestamp becomes the current UTC
// time, a non-zero one is converted to UTC.
func (r *LogRecord) Normalize() {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
		return
	}
	r.Timestamp = r.Timestamp.UTC()
}

// Validate checks the record against the contract. The returned error is a
// *ValidationError describing the first violation found.
func (r *LogRecord) Validate() error {
	if r.ServiceName == "" {
		return invalid("service_name", "required")
	}
	if !r.ServiceType.Valid() {
		return invalid("service_type", "unknown service type %q", string(r.ServiceType))
	}
	if r.ServiceVersion == "" {
		return invalid("service_version", "required")
	}
	if r.ServiceInstanceID == "" {
		return invalid("service_instance_id", "required")
	}
	if !r.Level.Valid() {
		return invalid("level", "unknown level %q", string(r.Level))
	}
	if r.Message == "" {
		return invalid("message", "required")
	}
	if r.Environment == "" {
		return invalid("environment", "required")
	}
	return r.validateContext()
}

func (r *LogRecord) validateContext() error {
	if len(r.Context) == 0 {
		return nil
	}
	if len(r.Context) > MaxContextBytes {
		return invalid("context", "too large: %d bytes (max %d)", len(r.Context), MaxContextBytes)
	}
	p := contextParsers.Get()
	defer contextParsers.Put(p)
	v, err := p.ParseBytes(r.Context)
	if err != nil {
		return invalid("context", "not valid JSON: %v", err)
	}
	if t := v.Type(); t != fastjson.TypeObject && t != fastjson.TypeNull {
		return invalid("context", "must be a JSON object, got %s", t)
	}
	return nil
}

// SerializedSize returns the size in bytes of the record's JSON encoding,
// the unit the metrics aggregator accounts in.
func (r *LogRecord) SerializedSize() int {
	b, err := json.Marshal(r)
	if err != nil {
		return 0
	}
	return len(b)
}

// Summary returns a one-line digest for operator-facing logs.
func (r *LogRecord) Summary() string {
	return "[" + string(r.Level) + "] " + r.ServiceName + ": " + r.Message
}
