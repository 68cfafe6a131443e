package pipeline

import "fmt"

// Stage names one pipeline phase. The value is what job statuses display.
type Stage string

const (
	StageDownload   Stage = "downloading"
	StageConvert    Stage = "converting"
	StageCheckModel Stage = "checking-model"
	StageTranscribe Stage = "transcribing"
)

// Stages lists the pipeline in execution order.
var Stages = []Stage{StageDownload, StageConvert, StageCheckModel, StageTranscribe}

// PercentUnknown marks a stage that reports no percentage.
const PercentUnknown = -1

// ProgressEvent reports that a job is in Stage at Percent (0..100 or
// PercentUnknown).
type ProgressEvent struct {
	Stage   Stage
	Percent int
}

// Status renders the event as a job status, e.g. "downloading 45%" or
// "checking-model".
func (e ProgressEvent) Status() string {
	if e.Percent < 0 {
		return string(e.Stage)
	}
	return fmt.Sprintf("%s %d%%", e.Stage, e.Percent)
}
