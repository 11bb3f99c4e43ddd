package hub

import (
	"log/slog"
	"time"
)

// DefaultPDFWarnBytes is the upload size above which a PDF triggers a warning.
const DefaultPDFWarnBytes = 5 * 1024 * 1024

// DefaultEventBuffer is the capacity of the change event channel.
const DefaultEventBuffer = 64

type options struct {
	logger       *slog.Logger
	renderer     Renderer
	notifier     Notifier
	editor       Editor
	newID        func() string
	now          func() time.Time
	pdfWarnBytes int64
	eventBuffer  int
}

// Option configures a Hub.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		logger:       slog.New(slog.DiscardHandler),
		renderer:     nopRenderer{},
		notifier:     autoNotifier{},
		editor:       &MemoryEditor{},
		now:          time.Now,
		pdfWarnBytes: DefaultPDFWarnBytes,
		eventBuffer:  DefaultEventBuffer,
	}
}

// WithLogger sets the logger for the hub and its repositories.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRenderer sets the presentation hook called after each mutation.
func WithRenderer(r Renderer) Option {
	return func(o *options) {
		if r != nil {
			o.renderer = r
		}
	}
}

// WithNotifier sets the notice and confirmation collaborator.
// By default notices are dropped and every confirmation is accepted.
func WithNotifier(n Notifier) Option {
	return func(o *options) {
		if n != nil {
			o.notifier = n
		}
	}
}

// WithEditor sets the editing surface for the active note.
func WithEditor(e Editor) Option {
	return func(o *options) {
		if e != nil {
			o.editor = e
		}
	}
}

// WithIDGenerator replaces the uuid generator for new entities.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		o.newID = fn
	}
}

// WithClock replaces time.Now, used for note creation times.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithPDFWarnBytes sets the PDF size warning threshold. Zero or less keeps
// the default.
func WithPDFWarnBytes(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.pdfWarnBytes = n
		}
	}
}

// WithEventBuffer sets the capacity of the Events channel.
func WithEventBuffer(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.eventBuffer = size
		}
	}
}
