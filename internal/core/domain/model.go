package domain

import "fmt"

// Size is a target canvas in pixels.
type Size struct {
	Width  int
	Height int
}

// DefaultSize is the canvas used when no size is configured.
var DefaultSize = Size{Width: 1024, Height: 1024}

func (s Size) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSize, s)
	}

	return nil
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Job describes one resize from an input image to an output file.
type Job struct {
	InputPath  string
	OutputPath string
	Size       Size
}

func (j Job) Validate() error {
	if j.InputPath == "" || j.OutputPath == "" {
		return ErrEmptyPath
	}

	return j.Size.Validate()
}

type Stage string

const (
	StageValidate  Stage = "validate"
	StageLoad      Stage = "load"
	StageTransform Stage = "transform"
	StageEncode    Stage = "encode"
)

// Result is the outcome of a Job. Err is nil on success, otherwise it is a *ProcessingError.
type Result struct {
	Job    Job
	Width  int
	Height int
	Engine string
	Err    error
}

func (r Result) OK() bool {
	return r.Err == nil
}
