package merge

import (
	"github.com/agentstation/skaffolder/pkg/errors"
	"github.com/agentstation/skaffolder/pkg/inference"
	"github.com/agentstation/skaffolder/pkg/mismatch"
	"github.com/agentstation/skaffolder/pkg/pins"
)

// options configures a merger.
type options struct {
	inferrer *inference.Inferrer
	detector *mismatch.Detector
	pins     pins.Pins
	tracking bool
}

func defaultOptions() *options {
	return &options{
		inferrer: inference.New(),
		detector: mismatch.New(),
		tracking: true,
	}
}

// Option is a function that configures a Merger.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns merger options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithInferrer sets the description inferrer.
func WithInferrer(inferrer *inference.Inferrer) Option {
	return func(o *options) error {
		if inferrer == nil {
			return &errors.ValidationError{
				Field:   "inferrer",
				Message: "cannot be nil",
			}
		}
		o.inferrer = inferrer
		return nil
	}
}

// WithDetector sets the name mismatch detector.
func WithDetector(detector *mismatch.Detector) Option {
	return func(o *options) error {
		if detector == nil {
			return &errors.ValidationError{
				Field:   "detector",
				Message: "cannot be nil",
			}
		}
		o.detector = detector
		return nil
	}
}

// WithPins keeps definition fields matching the given pins.
func WithPins(p pins.Pins) Option {
	return func(o *options) error {
		for _, pin := range p {
			if pin.Path == "" {
				return &errors.ValidationError{
					Field:   "pins",
					Value:   pin,
					Message: "pin path cannot be empty",
				}
			}
		}
		o.pins = append(o.pins, p...)
		return nil
	}
}

// WithProvenance enables field-level tracking on the result.
func WithProvenance(enabled bool) Option {
	return func(o *options) error {
		o.tracking = enabled
		return nil
	}
}
