package model

// Severity classifies how confident a detector is that a finding is a real defect.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Finding kinds. The vocabulary is shared with the fixture suite, so fixture
// expectations can name the kind they intend to trip.
const (
	KindIntegerOverflow = "integer_overflow"
	KindFloatEquality   = "float_equality"
	KindFileHandle      = "file_handle"
	KindSocketHandle    = "socket_handle"
	KindProcessHandle   = "process_handle"
	KindTickerHandle    = "ticker_handle"
	KindContextCancel   = "context_cancel"
)

// Kinds lists every kind a built-in detector can report.
var Kinds = []string{
	KindIntegerOverflow,
	KindFloatEquality,
	KindFileHandle,
	KindSocketHandle,
	KindProcessHandle,
	KindTickerHandle,
	KindContextCancel,
}

// Finding is a single defect reported at a source position.
type Finding struct {
	Path     string   `json:"path"`
	Line     int      `json:"line"`
	Col      int      `json:"col"`
	Kind     string   `json:"kind"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Detector string   `json:"detector"`
}
