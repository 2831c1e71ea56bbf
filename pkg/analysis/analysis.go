package analysis

import (
	"io"
	"log/slog"

	"github.com/edp1096/toy-circuit/internal/consts"
	"github.com/edp1096/toy-circuit/pkg/circuit"
	"github.com/edp1096/toy-circuit/pkg/device"
	"github.com/edp1096/toy-circuit/pkg/matrix"
)

type Analysis interface {
	Setup(ckt *circuit.Circuit) error
	Execute() error
	GetResults() map[string][]float64
}

type Options struct {
	Params         device.Params
	Backend        matrix.Backend
	ShortThreshold float64 // |I| above this is reported as ErrOverCurrent
	Logger         *slog.Logger
}

type Option func(*Options)

func DefaultOptions() Options {
	return Options{
		Params:         device.DefaultParams(),
		Backend:        matrix.BackendDense,
		ShortThreshold: consts.SHORT_THRESHOLD,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func WithParams(p device.Params) Option {
	return func(o *Options) { o.Params = p }
}

func WithBackend(b matrix.Backend) Option {
	return func(o *Options) { o.Backend = b }
}

func WithShortThreshold(amps float64) Option {
	return func(o *Options) { o.ShortThreshold = amps }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

func NewOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type BaseAnalysis struct {
	Circuit *circuit.Circuit
	opts    Options
	results map[string][]float64 // key: variable name, value: result per point
}

func NewBaseAnalysis(opts ...Option) *BaseAnalysis {
	return &BaseAnalysis{
		opts:    NewOptions(opts...),
		results: make(map[string][]float64),
	}
}

func (a *BaseAnalysis) Options() Options {
	return a.opts
}

func (a *BaseAnalysis) store(name string, value float64) {
	a.results[name] = append(a.results[name], value)
}

func (a *BaseAnalysis) GetResults() map[string][]float64 {
	return a.results
}
