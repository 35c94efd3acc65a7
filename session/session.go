package session

import "clipdeck/api"

// Session is the single shared state container for one console run. It owns
// the current task, the segment and output-file lists, both selection sets,
// and the workflow machine. Consumers receive only the slices they need;
// all mutation goes through explicit methods.
type Session struct {
	workflow *Workflow

	task     *api.Task
	segments []api.Segment
	files    []api.OutputFile

	segmentSel *Selection[api.Segment]
	fileSel    *Selection[api.OutputFile]
}

// New creates an empty session at the upload step.
func New() *Session {
	return &Session{
		workflow:   NewWorkflow(),
		segmentSel: NewSelection[api.Segment](),
		fileSel:    NewSelection[api.OutputFile](),
	}
}

// Workflow returns the step machine.
func (s *Session) Workflow() *Workflow { return s.workflow }

// Task returns the current task, or nil when none is active.
func (s *Session) Task() *api.Task { return s.task }

// Segments returns the transcript segment list for the current task.
func (s *Session) Segments() []api.Segment { return s.segments }

// Files returns the output file list for the current task.
func (s *Session) Files() []api.OutputFile { return s.files }

// SegmentSelection returns the set of segments marked for the next split.
func (s *Session) SegmentSelection() *Selection[api.Segment] { return s.segmentSel }

// FileSelection returns the set of output files marked for batch download.
func (s *Session) FileSelection() *Selection[api.OutputFile] { return s.fileSel }

// Status returns the current task status, or "" when no task is active.
func (s *Session) Status() api.TaskStatus {
	if s.task == nil {
		return ""
	}
	return s.task.Status
}

// SetTask replaces the current task wholesale. The last write wins; there
// is no merging of fields. nil clears the task.
func (s *Session) SetTask(task *api.Task) {
	s.task = task
}

// StepFor maps a server-reported status to the workflow step it implies at
// load or refresh time. Statuses with no mapping (processing, splitting,
// failed) report false so a mid-flight refresh never regresses the step.
func StepFor(status api.TaskStatus) (Step, bool) {
	switch status {
	case api.StatusUploaded:
		return StepAnalyze, true
	case api.StatusAnalyzed:
		return StepReview, true
	case api.StatusCompleted:
		return StepDownload, true
	}
	return 0, false
}

// ApplyRefresh installs a refreshed task record and advances the workflow
// step when the status implies one further along. Callers pass the record
// from whichever response resolved last, regardless of issue order.
func (s *Session) ApplyRefresh(task *api.Task) {
	s.SetTask(task)
	if task == nil {
		return
	}
	if step, ok := StepFor(task.Status); ok {
		s.workflow.Advance(step)
	}
}

// ApplyUpload creates the task for a successful upload and moves to the
// analyze step.
func (s *Session) ApplyUpload(resp *api.UploadResponse) {
	s.SetTask(&api.Task{
		ID:       resp.TaskID,
		Filename: resp.Filename,
		SizeMB:   resp.SizeMB,
		Status:   api.StatusUploaded,
	})
	s.workflow.Advance(StepAnalyze)
}

// ApplyAnalysis replaces the segment list wholesale, prunes stale segment
// selections, updates the task status, and moves to the review step.
func (s *Session) ApplyAnalysis(segments []api.Segment, status api.TaskStatus) {
	s.segments = segments

	present := make(map[string]bool, len(segments))
	for _, seg := range segments {
		present[seg.ID] = true
	}
	s.segmentSel.Prune(func(id string) bool { return present[id] })

	if s.task != nil {
		if status != "" {
			s.task.Status = status
		} else {
			s.task.Status = api.StatusAnalyzed
		}
		s.task.LastSuccessfulStep = "analyze"
		s.task.FailedAtStep = ""
	}
	s.workflow.Advance(StepReview)
}

// MarkAnalyzeFailed records a failed analysis without touching segments or
// the current step, so the UI can offer a retry from where the user stands.
func (s *Session) MarkAnalyzeFailed() {
	if s.task == nil {
		return
	}
	s.task.Status = api.StatusFailed
	s.task.FailedAtStep = "analyze"
	s.task.LastSuccessfulStep = "uploaded"
}

// SplitTargets resolves the segment IDs for the next split request. An
// empty selection means "all segments": the fallback is resolved here, on
// the client, so the server never receives an empty list.
func (s *Session) SplitTargets() []string {
	if s.segmentSel.Len() > 0 {
		return s.segmentSel.IDs()
	}
	ids := make([]string, 0, len(s.segments))
	for _, seg := range s.segments {
		ids = append(ids, seg.ID)
	}
	return ids
}

// ApplySplit replaces the output file list wholesale, prunes stale file
// selections, updates the task status, and moves to the download step.
func (s *Session) ApplySplit(files []api.OutputFile, status api.TaskStatus) {
	s.files = files

	present := make(map[string]bool, len(files))
	for _, f := range files {
		present[f.ID] = true
	}
	s.fileSel.Prune(func(id string) bool { return present[id] })

	if s.task != nil {
		if status != "" {
			s.task.Status = status
		} else {
			s.task.Status = api.StatusCompleted
		}
		s.task.LastSuccessfulStep = "split"
		s.task.FailedAtStep = ""
	}
	s.workflow.Advance(StepDownload)
}

// MarkSplitFailed records a failed split; selections and files are left
// exactly as they were.
func (s *Session) MarkSplitFailed() {
	if s.task == nil {
		return
	}
	s.task.Status = api.StatusFailed
	s.task.FailedAtStep = "split"
	s.task.LastSuccessfulStep = "analyze"
}

// DownloadTargets resolves the files for the next batch download: the
// selected files, or every file when the selection is empty.
func (s *Session) DownloadTargets() []api.OutputFile {
	if s.fileSel.Len() > 0 {
		return s.fileSel.Items()
	}
	out := make([]api.OutputFile, len(s.files))
	copy(out, s.files)
	return out
}

// Reset clears the task, both lists, both selections, and returns the
// workflow to the upload step. Used after a successful cleanup or an
// explicit restart.
func (s *Session) Reset() {
	s.task = nil
	s.segments = nil
	s.files = nil
	s.segmentSel.Clear()
	s.fileSel.Clear()
	s.workflow.Reset()
}
