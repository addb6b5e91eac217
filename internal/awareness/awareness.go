// Package awareness composes the three detectors — input waiting, output
// pattern, environment context — into a single timestamped awareness state.
// It is the one entry point callers use to ask "what is this terminal doing
// right now".
package awareness

import (
	"github.com/timvw/termsense/internal/detect"
	"github.com/timvw/termsense/internal/envctx"
	"github.com/timvw/termsense/internal/model"
	"github.com/timvw/termsense/internal/output"
	"github.com/timvw/termsense/internal/screen"
)

// Aggregator produces TerminalAwarenessState from a screen buffer.
// Stateless: every call re-reads the buffer, so staleness is bounded only
// by how often the caller asks.
type Aggregator struct {
	detector   *detect.Detector
	recognizer *output.Recognizer
	analyzer   *envctx.Analyzer
}

// New builds an aggregator over the given accessor.
func New(acc screen.Accessor) *Aggregator {
	ext := screen.NewExtractor(acc)
	return &Aggregator{
		detector:   detect.NewDetector(ext),
		recognizer: output.NewRecognizer(ext),
		analyzer:   envctx.NewAnalyzer(ext),
	}
}

// State runs the three detectors independently and stamps the result.
func (a *Aggregator) State() model.TerminalAwarenessState {
	return model.TerminalAwarenessState{
		Input:     a.detector.Detect(),
		Output:    a.recognizer.Recognize(),
		Context:   a.analyzer.Analyze(),
		Timestamp: model.Now(),
	}
}
