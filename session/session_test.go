package session

import (
	"testing"

	"clipdeck/api"
)

func TestApplyUpload(t *testing.T) {
	s := New()
	s.ApplyUpload(&api.UploadResponse{TaskID: "task-1", Filename: "ep.mp3", SizeMB: 3.5})

	task := s.Task()
	if task == nil || task.ID != "task-1" {
		t.Fatalf("expected task-1, got %+v", task)
	}
	if task.Status != api.StatusUploaded {
		t.Errorf("expected uploaded status, got %q", task.Status)
	}
	if s.Workflow().Current() != StepAnalyze {
		t.Errorf("expected step 2 after upload, got %d", s.Workflow().Current())
	}
}

func TestApplyAnalysisReplacesAndPrunes(t *testing.T) {
	s := New()
	s.ApplyUpload(&api.UploadResponse{TaskID: "task-1"})
	s.ApplyAnalysis([]api.Segment{seg("a"), seg("b"), seg("c")}, api.StatusAnalyzed)

	s.SegmentSelection().Select(seg("a"))
	s.SegmentSelection().Select(seg("c"))

	// Re-run analysis; "c" is gone from the new list.
	s.ApplyAnalysis([]api.Segment{seg("a"), seg("b"), seg("d")}, api.StatusAnalyzed)

	if len(s.Segments()) != 3 {
		t.Errorf("expected 3 segments, got %d", len(s.Segments()))
	}
	if s.SegmentSelection().IsSelected("c") {
		t.Error("stale selection c should have been pruned")
	}
	if !s.SegmentSelection().IsSelected("a") {
		t.Error("selection a should survive the replacement")
	}
	if s.Workflow().Current() != StepReview {
		t.Errorf("expected step 3, got %d", s.Workflow().Current())
	}
}

func TestMarkAnalyzeFailed(t *testing.T) {
	s := New()
	s.ApplyUpload(&api.UploadResponse{TaskID: "task-1"})
	before := s.Segments()

	s.MarkAnalyzeFailed()

	task := s.Task()
	if task.Status != api.StatusFailed {
		t.Errorf("expected failed status, got %q", task.Status)
	}
	if task.FailedAtStep != "analyze" || task.LastSuccessfulStep != "uploaded" {
		t.Errorf("expected failure metadata, got %+v", task)
	}
	if len(s.Segments()) != len(before) {
		t.Error("segments must be unchanged by a failed analysis")
	}
	if s.Workflow().Current() != StepAnalyze {
		t.Errorf("step must not advance on failure, got %d", s.Workflow().Current())
	}
}

func TestSplitTargetsEmptySelectionMeansAll(t *testing.T) {
	s := New()
	s.ApplyUpload(&api.UploadResponse{TaskID: "task-1"})
	s.ApplyAnalysis([]api.Segment{seg("a"), seg("b"), seg("c")}, api.StatusAnalyzed)

	targets := s.SplitTargets()
	if len(targets) != 3 {
		t.Fatalf("empty selection should target all segments, got %v", targets)
	}
	want := []string{"a", "b", "c"}
	for i, id := range want {
		if targets[i] != id {
			t.Errorf("expected %v, got %v", want, targets)
			break
		}
	}

	s.SegmentSelection().Select(seg("b"))
	targets = s.SplitTargets()
	if len(targets) != 1 || targets[0] != "b" {
		t.Errorf("expected [b], got %v", targets)
	}
}

func TestApplySplit(t *testing.T) {
	s := New()
	s.ApplyUpload(&api.UploadResponse{TaskID: "task-1"})
	s.ApplyAnalysis([]api.Segment{seg("a")}, api.StatusAnalyzed)

	files := []api.OutputFile{
		{ID: "f1", Name: "part-1.mp3"},
		{ID: "f2", Name: "part-2.mp3"},
	}
	s.ApplySplit(files, api.StatusCompleted)

	if len(s.Files()) != 2 {
		t.Errorf("expected 2 files, got %d", len(s.Files()))
	}
	if s.Task().Status != api.StatusCompleted {
		t.Errorf("expected completed, got %q", s.Task().Status)
	}
	if s.Workflow().Current() != StepDownload {
		t.Errorf("expected step 4, got %d", s.Workflow().Current())
	}

	// A second split replaces the list and prunes the file selection.
	s.FileSelection().Select(files[0])
	s.ApplySplit([]api.OutputFile{{ID: "f3", Name: "part-3.mp3"}}, api.StatusCompleted)
	if len(s.Files()) != 1 {
		t.Errorf("expected replacement, got %d files", len(s.Files()))
	}
	if s.FileSelection().Len() != 0 {
		t.Error("stale file selection should have been pruned")
	}
}

func TestMarkSplitFailedLeavesSelection(t *testing.T) {
	s := New()
	s.ApplyUpload(&api.UploadResponse{TaskID: "task-1"})
	s.ApplyAnalysis([]api.Segment{seg("a"), seg("b")}, api.StatusAnalyzed)
	s.SegmentSelection().Select(seg("a"))

	s.MarkSplitFailed()

	if !s.SegmentSelection().IsSelected("a") {
		t.Error("a failed split must not clear the segment selection")
	}
	if s.Task().FailedAtStep != "split" {
		t.Errorf("expected failedAtStep split, got %q", s.Task().FailedAtStep)
	}
	if s.Workflow().Current() != StepReview {
		t.Errorf("step must not advance on failure, got %d", s.Workflow().Current())
	}
}

func TestDownloadTargets(t *testing.T) {
	s := New()
	files := []api.OutputFile{{ID: "f1"}, {ID: "f2"}, {ID: "f3"}}
	s.ApplySplit(files, api.StatusCompleted)

	if got := s.DownloadTargets(); len(got) != 3 {
		t.Errorf("empty selection should target all files, got %d", len(got))
	}

	s.FileSelection().Select(files[1])
	got := s.DownloadTargets()
	if len(got) != 1 || got[0].ID != "f2" {
		t.Errorf("expected [f2], got %v", got)
	}
}

func TestStepFor(t *testing.T) {
	tests := []struct {
		status api.TaskStatus
		step   Step
		ok     bool
	}{
		{api.StatusUploaded, StepAnalyze, true},
		{api.StatusAnalyzed, StepReview, true},
		{api.StatusCompleted, StepDownload, true},
		{api.StatusProcessing, 0, false},
		{api.StatusSplitting, 0, false},
		{api.StatusFailed, 0, false},
	}
	for _, tt := range tests {
		step, ok := StepFor(tt.status)
		if step != tt.step || ok != tt.ok {
			t.Errorf("StepFor(%q) = (%d, %v), want (%d, %v)", tt.status, step, ok, tt.step, tt.ok)
		}
	}
}

func TestApplyRefreshDoesNotRegressStep(t *testing.T) {
	s := New()
	s.ApplyUpload(&api.UploadResponse{TaskID: "task-1"})
	s.ApplyAnalysis([]api.Segment{seg("a")}, api.StatusAnalyzed)

	// A processing status received mid-flight leaves the step alone.
	s.ApplyRefresh(&api.Task{ID: "task-1", Status: api.StatusProcessing, Progress: 70})
	if s.Workflow().Current() != StepReview {
		t.Errorf("processing refresh must not move the step, got %d", s.Workflow().Current())
	}

	// An uploaded status maps to step 2, behind the current step: no regression.
	s.ApplyRefresh(&api.Task{ID: "task-1", Status: api.StatusUploaded})
	if s.Workflow().Current() != StepReview {
		t.Errorf("refresh must never regress the step, got %d", s.Workflow().Current())
	}
}

func TestRefreshRaceLastWriteWins(t *testing.T) {
	s := New()
	s.ApplyUpload(&api.UploadResponse{TaskID: "task-1"})

	// Two refreshes issued in order; the first-issued response resolves
	// last. State equals whichever resolved last, regardless of issue order.
	first := &api.Task{ID: "task-1", Status: api.StatusProcessing, Progress: 30}
	second := &api.Task{ID: "task-1", Status: api.StatusProcessing, Progress: 80}

	s.ApplyRefresh(second) // second-issued resolves first
	s.ApplyRefresh(first)  // first-issued resolves last

	if s.Task().Progress != 30 {
		t.Errorf("expected last-resolving response to win, got progress %d", s.Task().Progress)
	}
}

func TestResetClearsEverything(t *testing.T) {
	s := New()
	s.ApplyUpload(&api.UploadResponse{TaskID: "task-1"})
	s.ApplyAnalysis([]api.Segment{seg("a"), seg("b")}, api.StatusAnalyzed)
	s.SegmentSelection().Select(seg("a"))
	s.ApplySplit([]api.OutputFile{{ID: "f1"}}, api.StatusCompleted)
	s.FileSelection().Select(api.OutputFile{ID: "f1"})

	s.Reset()

	if s.Task() != nil {
		t.Error("expected no task after reset")
	}
	if len(s.Segments()) != 0 || len(s.Files()) != 0 {
		t.Error("expected empty lists after reset")
	}
	if s.SegmentSelection().Len() != 0 || s.FileSelection().Len() != 0 {
		t.Error("expected empty selections after reset")
	}
	if s.Workflow().Current() != StepUpload {
		t.Errorf("expected step 1 after reset, got %d", s.Workflow().Current())
	}
}
