package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"clipdeck/api"
	"clipdeck/config"
	"clipdeck/session"
)

// Service is the slice of the API client the workflow needs. Tests
// substitute a fake.
type Service interface {
	Upload(ctx context.Context, path string) (*api.UploadResponse, error)
	TaskStatus(ctx context.Context, taskID string) (*api.Task, error)
	Analyze(ctx context.Context, req *api.AnalyzeRequest) (*api.AnalyzeResponse, error)
	Split(ctx context.Context, req *api.SplitRequest) (*api.SplitResponse, error)
	Cleanup(ctx context.Context, taskID string) (*api.CleanupResponse, error)
	Download(ctx context.Context, file api.OutputFile, dir string) (string, error)
}

// WorkflowModel is the Bubble Tea model for the four-step clip workflow:
// upload, analyze, review segments, download.
type WorkflowModel struct {
	svc  Service
	cfg  config.Settings
	sess *session.Session

	// UI components
	filepicker  filepicker.Model
	spinner     spinner.Model
	progress    progress.Model
	filterInput textinput.Model

	poller *session.Poller

	// List state
	segmentCursor int
	fileCursor    int
	filtering     bool
	filter        string

	// Advanced analysis settings
	advancedCursor int

	// Download results
	downloadedPaths []string
	downloading     bool
	cleaning        bool

	errorMessage string
	width        int
	height       int
	quitting     bool
	backToMenu   bool

	ctx    context.Context
	cancel context.CancelFunc
}

// uploadResultMsg is sent when the upload call returns
type uploadResultMsg struct {
	resp *api.UploadResponse
	err  error
}

// analyzeResultMsg is sent when the analyze call returns
type analyzeResultMsg struct {
	resp *api.AnalyzeResponse
	err  error
}

// splitResultMsg is sent when the split call returns
type splitResultMsg struct {
	resp *api.SplitResponse
	err  error
}

// refreshResultMsg carries one poll result from the status poller
type refreshResultMsg session.RefreshResult

// pollerStoppedMsg is sent when the poller channel closes
type pollerStoppedMsg struct{}

// downloadResultMsg is sent when a batch download finishes
type downloadResultMsg struct {
	paths []string
	err   error
}

// cleanupResultMsg is sent when the cleanup call returns
type cleanupResultMsg struct {
	resp *api.CleanupResponse
	err  error
}

// fileSelectedMsg is sent when a media file is picked for upload
type fileSelectedMsg string

var stepNames = []string{"Upload", "Analyze", "Segments", "Download"}

// NewWorkflowModel creates the workflow model.
func NewWorkflowModel(svc Service, cfg config.Settings) WorkflowModel {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".mp3", ".m4a", ".wav", ".flac", ".ogg", ".mp4", ".mkv", ".mov", ".avi", ".webm"}
	fp.ShowHidden = false
	fp.ShowSize = true
	fp.Height = 12

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorBrand)

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
	)

	fi := textinput.New()
	fi.Placeholder = "filter segments..."
	fi.CharLimit = 64
	fi.Width = 40

	ctx, cancel := context.WithCancel(context.Background())

	return WorkflowModel{
		svc:         svc,
		cfg:         cfg,
		sess:        session.New(),
		filepicker:  fp,
		spinner:     s,
		progress:    p,
		filterInput: fi,
		width:       80,
		height:      24,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Init initializes the model
func (m WorkflowModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.filepicker.Init(),
	)
}

// Update handles messages
func (m WorkflowModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = m.width - 20
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case fileSelectedMsg:
		m.errorMessage = ""
		return m, m.uploadFile(string(msg))

	case uploadResultMsg:
		if msg.err != nil {
			m.errorMessage = classifyError(msg.err)
			return m, nil
		}
		m.sess.ApplyUpload(msg.resp)
		return m, nil

	case analyzeResultMsg:
		// Busy flag is released on every outcome, success or failure.
		m.sess.Workflow().EndAnalyze()
		m.stopPolling()
		if msg.err != nil {
			m.errorMessage = classifyError(msg.err)
			if !api.IsTransport(msg.err) {
				m.sess.MarkAnalyzeFailed()
			}
			return m, nil
		}
		m.errorMessage = ""
		m.sess.ApplyAnalysis(msg.resp.Segments, msg.resp.TaskStatus)
		m.segmentCursor = 0
		return m, nil

	case splitResultMsg:
		m.sess.Workflow().EndSplit()
		m.stopPolling()
		if msg.err != nil {
			m.errorMessage = classifyError(msg.err)
			if !api.IsTransport(msg.err) {
				m.sess.MarkSplitFailed()
			}
			return m, nil
		}
		m.errorMessage = ""
		m.sess.ApplySplit(msg.resp.Files, msg.resp.TaskStatus)
		m.fileCursor = 0
		return m, nil

	case refreshResultMsg:
		if msg.Err == nil && msg.Task != nil {
			m.sess.ApplyRefresh(msg.Task)
			if msg.Task.Status.Terminal() && !m.sess.Workflow().Busy() {
				m.stopPolling()
				return m, nil
			}
		}
		if m.poller == nil {
			return m, nil
		}
		return m, tea.Batch(
			waitForRefresh(m.poller.Updates()),
			m.progress.SetPercent(m.taskProgress()),
		)

	case pollerStoppedMsg:
		return m, nil

	case downloadResultMsg:
		m.downloading = false
		if msg.err != nil {
			m.errorMessage = classifyError(msg.err)
			m.downloadedPaths = msg.paths
			return m, nil
		}
		m.errorMessage = ""
		m.downloadedPaths = msg.paths
		return m, nil

	case cleanupResultMsg:
		m.cleaning = false
		if msg.err != nil {
			m.errorMessage = classifyError(msg.err)
			return m, nil
		}
		// Server state is gone; start over with a fresh local session.
		m.stopPolling()
		m.sess.Reset()
		m.errorMessage = ""
		m.downloadedPaths = nil
		m.segmentCursor = 0
		m.fileCursor = 0
		m.filter = ""
		m.filterInput.SetValue("")
		return m, m.filepicker.Init()
	}

	// The file picker owns all other messages during the upload step.
	if m.step() == session.StepUpload {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)
		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			return m, func() tea.Msg { return fileSelectedMsg(path) }
		}
		return m, cmd
	}

	return m, nil
}

func (m WorkflowModel) step() session.Step {
	return m.sess.Workflow().Current()
}

// handleKey routes keyboard input
func (m WorkflowModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Filter input swallows keys while active.
	if m.filtering {
		switch msg.String() {
		case "enter", "esc":
			m.filtering = false
			m.filterInput.Blur()
			if msg.String() == "esc" {
				m.filter = ""
				m.filterInput.SetValue("")
			}
			return m, nil
		default:
			var cmd tea.Cmd
			m.filterInput, cmd = m.filterInput.Update(msg)
			m.filter = m.filterInput.Value()
			m.segmentCursor = 0
			return m, cmd
		}
	}

	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		m.cancel()
		m.stopPolling()
		return m, tea.Quit

	case "q", "esc":
		if m.sess.Workflow().Busy() || m.downloading || m.cleaning {
			return m, nil
		}
		m.backToMenu = true
		m.cancel()
		m.stopPolling()
		return m, tea.Quit

	case "1", "2", "3", "4":
		to := session.Step(int(msg.Runes[0] - '0'))
		if m.sess.Workflow().NavigateTo(to, m.sess.Status()) {
			m.errorMessage = ""
			if to == session.StepUpload {
				return m, m.filepicker.Init()
			}
		}
		return m, nil

	case "r":
		// Manual refresh, any step with a task.
		if m.sess.Task() != nil {
			return m, m.refreshOnce()
		}
		return m, nil
	}

	switch m.step() {
	case session.StepUpload:
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)
		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			return m, func() tea.Msg { return fileSelectedMsg(path) }
		}
		return m, cmd

	case session.StepAnalyze:
		return m.handleAnalyzeKey(msg)

	case session.StepReview:
		return m.handleReviewKey(msg)

	case session.StepDownload:
		return m.handleDownloadKey(msg)
	}

	return m, nil
}

func (m WorkflowModel) handleAnalyzeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	wf := m.sess.Workflow()

	switch msg.String() {
	case "a":
		wf.ToggleAdvanced()
	case "up", "k":
		if wf.AdvancedVisible() && m.advancedCursor > 0 {
			m.advancedCursor--
		}
	case "down", "j":
		if wf.AdvancedVisible() && m.advancedCursor < 2 {
			m.advancedCursor++
		}
	case "left", "h":
		m.adjustAnalysisSetting(-1)
	case "right", "l":
		m.adjustAnalysisSetting(1)
	case "enter":
		if m.sess.Task() == nil || !wf.BeginAnalyze() {
			return m, nil
		}
		m.errorMessage = ""
		return m, tea.Batch(m.analyze(), m.startPolling())
	}
	return m, nil
}

func (m *WorkflowModel) adjustAnalysisSetting(dir int) {
	if !m.sess.Workflow().AdvancedVisible() {
		return
	}
	switch m.advancedCursor {
	case 0:
		v := m.cfg.Segments.MinLength + float64(dir)*5
		if v >= 0 && v < m.cfg.Segments.MaxLength {
			m.cfg.Segments.MinLength = v
		}
	case 1:
		v := m.cfg.Segments.MaxLength + float64(dir)*5
		if v > m.cfg.Segments.MinLength {
			m.cfg.Segments.MaxLength = v
		}
	case 2:
		m.cfg.Segments.PreserveSentences = !m.cfg.Segments.PreserveSentences
	}
}

func (m WorkflowModel) handleReviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	segments := m.visibleSegments()

	switch msg.String() {
	case "up", "k":
		if m.segmentCursor > 0 {
			m.segmentCursor--
		}
	case "down", "j":
		if m.segmentCursor < len(segments)-1 {
			m.segmentCursor++
		}
	case " ":
		if m.segmentCursor < len(segments) {
			m.sess.SegmentSelection().Toggle(segments[m.segmentCursor])
		}
	case "A":
		m.sess.SegmentSelection().SelectAll(segments)
	case "n":
		m.sess.SegmentSelection().Clear()
	case "/":
		m.filtering = true
		m.filterInput.Focus()
		return m, textinput.Blink
	case "enter":
		if !m.sess.Workflow().BeginSplit() {
			return m, nil
		}
		m.errorMessage = ""
		return m, tea.Batch(m.split(), m.startPolling())
	}
	return m, nil
}

func (m WorkflowModel) handleDownloadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	files := m.sess.Files()

	switch msg.String() {
	case "up", "k":
		if m.fileCursor > 0 {
			m.fileCursor--
		}
	case "down", "j":
		if m.fileCursor < len(files)-1 {
			m.fileCursor++
		}
	case " ":
		if m.fileCursor < len(files) {
			m.sess.FileSelection().Toggle(files[m.fileCursor])
		}
	case "A":
		m.sess.FileSelection().SelectAll(files)
	case "n":
		m.sess.FileSelection().Clear()
	case "d", "enter":
		if m.downloading || len(files) == 0 {
			return m, nil
		}
		m.downloading = true
		m.errorMessage = ""
		return m, m.download(m.sess.DownloadTargets())
	case "x":
		if m.cleaning || m.sess.Task() == nil {
			return m, nil
		}
		m.cleaning = true
		return m, m.cleanup()
	}
	return m, nil
}

// visibleSegments applies the text filter. Selection and split always
// operate on the full list; the filter only narrows what the cursor
// walks.
func (m WorkflowModel) visibleSegments() []api.Segment {
	all := m.sess.Segments()
	if m.filter == "" {
		return all
	}
	needle := strings.ToLower(m.filter)
	var out []api.Segment
	for _, seg := range all {
		if strings.Contains(strings.ToLower(seg.Text), needle) {
			out = append(out, seg)
		}
	}
	return out
}

func (m WorkflowModel) taskProgress() float64 {
	task := m.sess.Task()
	if task == nil {
		return 0
	}
	return float64(task.Progress) / 100
}

// Commands

func (m WorkflowModel) uploadFile(path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, 30*time.Minute)
		defer cancel()
		resp, err := m.svc.Upload(ctx, path)
		return uploadResultMsg{resp: resp, err: err}
	}
}

func (m WorkflowModel) analyze() tea.Cmd {
	req := &api.AnalyzeRequest{
		TaskID:            m.sess.Task().ID,
		MinSegmentLength:  m.cfg.Segments.MinLength,
		MaxSegmentLength:  m.cfg.Segments.MaxLength,
		PreserveSentences: m.cfg.Segments.PreserveSentences,
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, 30*time.Minute)
		defer cancel()
		resp, err := m.svc.Analyze(ctx, req)
		return analyzeResultMsg{resp: resp, err: err}
	}
}

func (m WorkflowModel) split() tea.Cmd {
	req := &api.SplitRequest{
		TaskID:        m.sess.Task().ID,
		Segments:      m.sess.SplitTargets(),
		OutputFormat:  m.cfg.Output.Format,
		OutputQuality: m.cfg.Output.Quality,
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, 30*time.Minute)
		defer cancel()
		resp, err := m.svc.Split(ctx, req)
		return splitResultMsg{resp: resp, err: err}
	}
}

func (m WorkflowModel) download(files []api.OutputFile) tea.Cmd {
	dir := m.cfg.Output.Dir
	return func() tea.Msg {
		var paths []string
		for _, f := range files {
			path, err := m.svc.Download(m.ctx, f, dir)
			if err != nil {
				return downloadResultMsg{paths: paths, err: err}
			}
			paths = append(paths, path)
		}
		return downloadResultMsg{paths: paths}
	}
}

func (m WorkflowModel) cleanup() tea.Cmd {
	taskID := m.sess.Task().ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, time.Minute)
		defer cancel()
		resp, err := m.svc.Cleanup(ctx, taskID)
		return cleanupResultMsg{resp: resp, err: err}
	}
}

func (m WorkflowModel) refreshOnce() tea.Cmd {
	taskID := m.sess.Task().ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, 30*time.Second)
		defer cancel()
		task, err := m.svc.TaskStatus(ctx, taskID)
		return refreshResultMsg(session.RefreshResult{Task: task, Err: err})
	}
}

// startPolling begins periodic status refreshes and returns the command
// that forwards poll results into the program.
func (m *WorkflowModel) startPolling() tea.Cmd {
	if m.poller != nil {
		return waitForRefresh(m.poller.Updates())
	}
	taskID := m.sess.Task().ID
	interval := time.Duration(m.cfg.Server.PollInterval) * time.Second
	m.poller = session.NewPoller(interval)
	m.poller.Start(func(ctx context.Context) (*api.Task, error) {
		return m.svc.TaskStatus(ctx, taskID)
	})
	return waitForRefresh(m.poller.Updates())
}

func (m *WorkflowModel) stopPolling() {
	if m.poller != nil {
		m.poller.Stop()
		m.poller = nil
	}
}

// waitForRefresh bridges the poller channel into the Bubble Tea loop.
func waitForRefresh(ch <-chan session.RefreshResult) tea.Cmd {
	return func() tea.Msg {
		res, ok := <-ch
		if !ok {
			return pollerStoppedMsg{}
		}
		return refreshResultMsg(res)
	}
}

// classifyError turns API errors into actionable messages.
func classifyError(err error) string {
	if be, ok := api.AsBalanceError(err); ok {
		return fmt.Sprintf("Insufficient balance: have %.2f, need %.2f. Top up and retry.", be.Current, be.Required)
	}
	if api.IsInvalidTask(err) {
		return fmt.Sprintf("Request rejected: %v", err)
	}
	if api.IsTransport(err) {
		return fmt.Sprintf("Connection problem: %v. Press enter to retry.", err)
	}
	return err.Error()
}

// View renders the UI
func (m WorkflowModel) View() string {
	if m.quitting {
		return MutedStyle.Render("Goodbye!\n")
	}

	var b strings.Builder
	b.WriteString(GetHeader())
	b.WriteString("\n")
	b.WriteString(m.renderStepBar())
	b.WriteString("\n")

	switch m.step() {
	case session.StepUpload:
		b.WriteString(m.renderUpload())
	case session.StepAnalyze:
		b.WriteString(m.renderAnalyze())
	case session.StepReview:
		b.WriteString(m.renderReview())
	case session.StepDownload:
		b.WriteString(m.renderDownload())
	}

	if m.errorMessage != "" {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render("! " + m.errorMessage))
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m WorkflowModel) renderStepBar() string {
	current := m.step()
	status := m.sess.Status()

	var parts []string
	for i, name := range stepNames {
		step := session.Step(i + 1)
		var style lipgloss.Style
		var icon string

		switch {
		case step == current:
			icon = "[>]"
			style = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
		case step < current:
			icon = "[x]"
			style = lipgloss.NewStyle().Foreground(ColorSuccess)
		case m.sess.Workflow().CanNavigate(step, status):
			icon = "[ ]"
			style = lipgloss.NewStyle().Foreground(ColorSubtle)
		default:
			icon = "[ ]"
			style = lipgloss.NewStyle().Foreground(ColorMuted)
		}

		parts = append(parts, style.Render(fmt.Sprintf("%s %d.%s", icon, i+1, name)))
		if i < len(stepNames)-1 {
			parts = append(parts, lipgloss.NewStyle().Foreground(ColorBorder).Render("---"))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (m WorkflowModel) renderUpload() string {
	title := TitleStyle.Render("Select a media file to upload")
	desc := MutedStyle.Render("Audio: mp3, m4a, wav, flac, ogg | Video: mp4, mkv, mov, avi, webm (max 2 GB)")
	return BoxStyle.Render(title + "\n" + desc + "\n\n" + m.filepicker.View())
}

func (m WorkflowModel) renderAnalyze() string {
	task := m.sess.Task()
	if task == nil {
		return BoxStyle.Render(MutedStyle.Render("No task. Go back to step 1 and upload a file."))
	}

	title := TitleStyle.Render("Analyze " + task.Filename)
	info := fmt.Sprintf("Size: %.1f MB    Status: %s", task.SizeMB, StatusBadge(task.Status))
	if task.EstimatedCost != nil {
		info += fmt.Sprintf("    Est. cost: %.2f", *task.EstimatedCost)
	}

	var body strings.Builder
	body.WriteString(title + "\n" + BodyStyle.Render(info) + "\n")

	if m.sess.Workflow().Analyzing() || task.Status == api.StatusProcessing {
		body.WriteString("\n" + m.spinner.View() + " " + BodyStyle.Render("Transcribing and detecting segments..."))
		body.WriteString("\n\n" + m.progress.View())
	} else {
		body.WriteString("\n" + m.renderAnalysisSettings())
		body.WriteString("\n" + MutedStyle.Render("Press enter to start the analysis."))
	}

	return BoxStyle.Render(body.String())
}

func (m WorkflowModel) renderAnalysisSettings() string {
	wf := m.sess.Workflow()
	if !wf.AdvancedVisible() {
		return MutedStyle.Render(fmt.Sprintf("Segments: %.0f-%.0fs, preserve sentences: %v  (a: advanced)",
			m.cfg.Segments.MinLength, m.cfg.Segments.MaxLength, m.cfg.Segments.PreserveSentences))
	}

	rows := []string{
		fmt.Sprintf("Min segment length: %.0fs", m.cfg.Segments.MinLength),
		fmt.Sprintf("Max segment length: %.0fs", m.cfg.Segments.MaxLength),
		fmt.Sprintf("Preserve sentences: %v", m.cfg.Segments.PreserveSentences),
	}

	var out strings.Builder
	out.WriteString(SubtitleStyle.Render("Advanced settings") + "\n")
	for i, row := range rows {
		cursor := "  "
		style := BodyStyle
		if i == m.advancedCursor {
			cursor = "> "
			style = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
		}
		out.WriteString(style.Render(cursor+row) + "\n")
	}
	out.WriteString(MutedStyle.Render("h/l adjust, a: hide"))
	return out.String()
}

func (m WorkflowModel) renderReview() string {
	segments := m.visibleSegments()
	sel := m.sess.SegmentSelection()

	title := TitleStyle.Render(fmt.Sprintf("Segments (%d found, %d selected)", len(m.sess.Segments()), sel.Len()))

	var body strings.Builder
	body.WriteString(title + "\n")

	if m.sess.Workflow().Splitting() || m.sess.Status() == api.StatusSplitting {
		body.WriteString("\n" + m.spinner.View() + " " + BodyStyle.Render("Splitting media..."))
		body.WriteString("\n\n" + m.progress.View())
		return BoxStyle.Render(body.String())
	}

	if m.filtering || m.filter != "" {
		body.WriteString(m.filterInput.View() + "\n")
	}

	if len(segments) == 0 {
		body.WriteString(MutedStyle.Render("No segments match."))
	}

	for i, seg := range segments {
		cursor := "  "
		style := BodyStyle
		if i == m.segmentCursor {
			cursor = "> "
			style = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
		}
		checkbox := "[ ]"
		if sel.IsSelected(seg.ID) {
			checkbox = "[x]"
		}
		line := fmt.Sprintf("%s%s %s-%s  %s", cursor, checkbox,
			formatTimestamp(seg.Start), formatTimestamp(seg.End), truncate(seg.Text, 60))
		body.WriteString(style.Render(line) + "\n")
	}

	hint := "Empty selection splits everything."
	if sel.Len() > 0 {
		hint = fmt.Sprintf("Splitting %d selected segment(s).", sel.Len())
	}
	body.WriteString("\n" + MutedStyle.Render(hint))

	return BoxStyle.Render(body.String())
}

func (m WorkflowModel) renderDownload() string {
	files := m.sess.Files()
	sel := m.sess.FileSelection()

	title := SuccessStyle.Render(fmt.Sprintf("Output files (%d)", len(files)))

	var body strings.Builder
	body.WriteString(title + "\n")

	if m.downloading {
		body.WriteString("\n" + m.spinner.View() + " " + BodyStyle.Render("Downloading..."))
		return BoxStyle.Render(body.String())
	}
	if m.cleaning {
		body.WriteString("\n" + m.spinner.View() + " " + BodyStyle.Render("Cleaning up server files..."))
		return BoxStyle.Render(body.String())
	}

	for i, f := range files {
		cursor := "  "
		style := BodyStyle
		if i == m.fileCursor {
			cursor = "> "
			style = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
		}
		checkbox := "[ ]"
		if sel.IsSelected(f.ID) {
			checkbox = "[x]"
		}
		body.WriteString(style.Render(fmt.Sprintf("%s%s %s  %s", cursor, checkbox, f.Name, f.SizeLabel)) + "\n")
	}

	if len(m.downloadedPaths) > 0 {
		body.WriteString("\n" + SuccessStyle.Render(fmt.Sprintf("Downloaded %d file(s) to %s", len(m.downloadedPaths), m.cfg.Output.Dir)))
	}

	return BoxStyle.Render(body.String())
}

func (m WorkflowModel) renderHelp() string {
	switch m.step() {
	case session.StepUpload:
		return KeyHelp("j/k", "Navigate", "enter", "Upload", "q", "Menu")
	case session.StepAnalyze:
		return KeyHelp("enter", "Analyze", "a", "Advanced", "r", "Refresh", "1", "Back", "q", "Menu")
	case session.StepReview:
		return KeyHelp("space", "Toggle", "A", "All", "n", "None", "/", "Filter", "enter", "Split", "q", "Menu")
	case session.StepDownload:
		return KeyHelp("space", "Toggle", "d", "Download", "x", "Cleanup", "q", "Menu")
	}
	return ""
}

func formatTimestamp(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second))
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", mins, secs)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// Getter methods for external access
func (m WorkflowModel) IsQuitting() bool          { return m.quitting }
func (m WorkflowModel) BackToMenu() bool          { return m.backToMenu }
func (m WorkflowModel) Session() *session.Session { return m.sess }
func (m WorkflowModel) ErrorMessage() string      { return m.errorMessage }

// RunWorkflowUI runs the clip workflow and reports whether the outer
// menu should be shown again.
func RunWorkflowUI(svc Service, cfg config.Settings) (continueApp bool, err error) {
	model := NewWorkflowModel(svc, cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m := finalModel.(WorkflowModel)
	return m.BackToMenu(), nil
}
