// Package classifier runs the fish classification model as a one-shot process.
//
// The model is a script invoked as
//
//	<python> <script> image <image path> <confidence threshold>
//	<python> <script> <features as JSON array>
//
// which prints one JSON document to stdout.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	xe "github.com/fishmap/fishmap/pkg/errors"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/semaphore"
)

var (
	// the process does not finish in time.
	ErrTimeout = errors.New("model timeout")

	// the process exits with failure, or reports an error.
	ErrModelFailed = errors.New("model prediction failed")

	// the process writes something other than JSON.
	ErrMalformedOutput = errors.New("model output is not JSON")
)

// Result of a classification.
//
// Fields other than Raw are decoded from the output on a best-effort basis.
type Result struct {
	Status         string          `json:"status"`
	PredictedClass string          `json:"predicted_class"`
	Confidence     float64         `json:"confidence"`
	TopPredictions json.RawMessage `json:"top_predictions,omitempty"`
	Boxes          json.RawMessage `json:"boxes,omitempty"`

	// Raw is the output of the model as it is.
	Raw json.RawMessage `json:"-"`
}

// FailedError is ErrModelFailed with what the model said.
type FailedError struct {
	ExitCode int
	Stderr   string
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("%s (exit code %d): %s", ErrModelFailed, e.ExitCode, e.Stderr)
}

func (e *FailedError) Unwrap() error {
	return ErrModelFailed
}

type Classifier interface {
	// ClassifyImage classifies the fish in the image file.
	//
	// # Args
	//
	// - ctx: context. Waiting for a free slot is cancelled with this.
	//
	// - imagePath: path to the image file
	//
	// - confThreshold: detections less confident than this are dropped by the model.
	//
	// # Returns
	//
	// - Result
	//
	// - error: ErrTimeout, ErrModelFailed (as *FailedError), ErrMalformedOutput or context errors.
	ClassifyImage(ctx context.Context, imagePath string, confThreshold float64) (Result, error)

	// ClassifyFeatures classifies a fish described by tabular features.
	//
	// Errors are same as ClassifyImage.
	ClassifyFeatures(ctx context.Context, features []float64) (Result, error)
}

type Config struct {
	// Python interpreter
	Python string

	// Path to the model script
	Script string

	// Deadline of each run
	Timeout time.Duration

	// Max number of processes running at once
	MaxConcurrent int
}

type processClassifier struct {
	conf   Config
	slots  *semaphore.Weighted
	logger echo.Logger
}

func New(conf Config, logger echo.Logger) Classifier {
	if conf.MaxConcurrent <= 0 {
		conf.MaxConcurrent = 1
	}
	return &processClassifier{
		conf:   conf,
		slots:  semaphore.NewWeighted(int64(conf.MaxConcurrent)),
		logger: logger,
	}
}

func (p *processClassifier) ClassifyImage(ctx context.Context, imagePath string, confThreshold float64) (Result, error) {
	return p.run(ctx, "image", imagePath, strconv.FormatFloat(confThreshold, 'f', -1, 64))
}

func (p *processClassifier) ClassifyFeatures(ctx context.Context, features []float64) (Result, error) {
	arg, err := json.Marshal(features)
	if err != nil {
		return Result{}, xe.Wrap(err)
	}
	return p.run(ctx, string(arg))
}

func (p *processClassifier) run(ctx context.Context, args ...string) (Result, error) {
	if err := p.slots.Acquire(ctx, 1); err != nil {
		return Result{}, err
	}
	defer p.slots.Release(1)

	tctx, cancel := context.WithTimeout(ctx, p.conf.Timeout)
	defer cancel()

	cmd := exec.CommandContext(tctx, p.conf.Python, append([]string{p.conf.Script}, args...)...)
	cmd.WaitDelay = time.Second
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	begin := time.Now()
	err := cmd.Run()
	p.logger.Debugf("classifier: %s exited in %s", cmd.String(), time.Since(begin))

	if errors.Is(tctx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return Result{}, fmt.Errorf("%w: killed after %s", ErrTimeout, p.conf.Timeout)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	errMsg := strings.TrimSpace(stderr.String())
	if errMsg != "" {
		p.logger.Warnf("classifier stderr: %s", errMsg)
	}
	if err != nil {
		exitErr := new(exec.ExitError)
		if !errors.As(err, &exitErr) {
			return Result{}, xe.Wrap(err)
		}
		return Result{}, &FailedError{ExitCode: exitErr.ExitCode(), Stderr: errMsg}
	}
	if reportsError(errMsg) {
		return Result{}, &FailedError{ExitCode: 0, Stderr: errMsg}
	}

	return Decode(stdout.Bytes())
}

// reportsError tells the stderr output is an error rather than a warning or progress.
func reportsError(stderr string) bool {
	if strings.Contains(stderr, "Traceback") {
		return true
	}
	l := strings.ToLower(stderr)
	return strings.Contains(l, "error") || strings.Contains(l, "exception")
}

// Decode parses the model output.
//
// The output should be a JSON document. Fields of unexpected types are left empty.
func Decode(output []byte) (Result, error) {
	raw := bytes.TrimSpace(output)
	if !json.Valid(raw) {
		return Result{}, fmt.Errorf("%w: %q", ErrMalformedOutput, truncate(string(raw), 200))
	}

	var r Result
	if err := json.Unmarshal(raw, &r); err != nil {
		if terr := new(json.UnmarshalTypeError); !errors.As(err, &terr) {
			return Result{}, fmt.Errorf("%w: %w", ErrMalformedOutput, err)
		}
	}
	r.Raw = json.RawMessage(raw)
	return r, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
