package session

import "clipdeck/api"

// Step is one of the four workflow stages.
type Step int

const (
	StepUpload   Step = 1
	StepAnalyze  Step = 2
	StepReview   Step = 3
	StepDownload Step = 4
)

// Valid reports whether s is a real workflow step.
func (s Step) Valid() bool { return s >= StepUpload && s <= StepDownload }

// Workflow tracks the current step, the busy flags guarding duplicate
// submissions, and the advanced-options toggle.
//
// Direct navigation only ever moves backward (or to the download step once
// the task is completed). Forward progression happens exclusively through
// Advance, driven by a successful async action.
type Workflow struct {
	current      Step
	analyzing    bool
	splitting    bool
	showAdvanced bool
}

// NewWorkflow starts at the upload step.
func NewWorkflow() *Workflow {
	return &Workflow{current: StepUpload}
}

// Current returns the active step.
func (w *Workflow) Current() Step { return w.current }

// CanNavigate reports whether a direct jump to the given step is permitted:
// backward or same is always allowed; the download step is reachable out of
// order only when the task has completed.
func (w *Workflow) CanNavigate(to Step, status api.TaskStatus) bool {
	if !to.Valid() {
		return false
	}
	if to <= w.current {
		return true
	}
	return to == StepDownload && status == api.StatusCompleted
}

// NavigateTo applies a direct jump if permitted. Rejected jumps are a
// no-op, not an error.
func (w *Workflow) NavigateTo(to Step, status api.TaskStatus) bool {
	if !w.CanNavigate(to, status) {
		return false
	}
	w.current = to
	return true
}

// Advance moves forward to the given step after a successful async action.
// Backward moves are ignored so a late-resolving response can never regress
// the user's position.
func (w *Workflow) Advance(to Step) {
	if to.Valid() && to > w.current {
		w.current = to
	}
}

// BeginAnalyze sets the analyzing flag. Returns false if any busy flag is
// already set, in which case the submission must not be issued.
func (w *Workflow) BeginAnalyze() bool {
	if w.analyzing || w.splitting {
		return false
	}
	w.analyzing = true
	return true
}

// EndAnalyze clears the analyzing flag. Callers run it on every exit path,
// success or failure.
func (w *Workflow) EndAnalyze() { w.analyzing = false }

// BeginSplit sets the splitting flag. Returns false if any busy flag is
// already set.
func (w *Workflow) BeginSplit() bool {
	if w.analyzing || w.splitting {
		return false
	}
	w.splitting = true
	return true
}

// EndSplit clears the splitting flag.
func (w *Workflow) EndSplit() { w.splitting = false }

// Analyzing reports whether an analyze call is in flight.
func (w *Workflow) Analyzing() bool { return w.analyzing }

// Splitting reports whether a split call is in flight.
func (w *Workflow) Splitting() bool { return w.splitting }

// Busy reports whether any submission is in flight.
func (w *Workflow) Busy() bool { return w.analyzing || w.splitting }

// ToggleAdvanced flips advanced-options visibility.
func (w *Workflow) ToggleAdvanced() { w.showAdvanced = !w.showAdvanced }

// AdvancedVisible reports whether advanced options are shown.
func (w *Workflow) AdvancedVisible() bool { return w.showAdvanced }

// Reset returns to the upload step and clears all flags.
func (w *Workflow) Reset() {
	w.current = StepUpload
	w.analyzing = false
	w.splitting = false
	w.showAdvanced = false
}
