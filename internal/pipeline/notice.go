package pipeline

import "go.uber.org/zap"

// Stage operation names used in notices and log entries.
const (
	OpCheckImpls      = "check-impls"
	OpRenderHeader    = "render-header"
	OpRenderImpl      = "render-impl"
	OpDecorateImpls   = "decorate-impls"
	OpDecorateSummary = "decorate-summary"
)

// Notice describes a non-fatal condition met by a stage.
type Notice struct {
	Op      string // stage that raised it
	Target  string // selector or node id that was looked up
	Message string
}

// Recorder collects notices for one render and mirrors them to a logger.
// A Recorder belongs to a single render and is not safe for concurrent use.
type Recorder struct {
	logger  *zap.Logger
	notices []Notice
}

// NewRecorder creates a Recorder. A nil logger discards log output.
func NewRecorder(logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{logger: logger}
}

// Warn records a notice and logs it at warn level.
func (r *Recorder) Warn(op, target, message string) {
	r.notices = append(r.notices, Notice{Op: op, Target: target, Message: message})
	r.logger.Warn(message, zap.String("op", op), zap.String("target", target))
}

// Notices returns the notices recorded so far.
func (r *Recorder) Notices() []Notice {
	return r.notices
}
