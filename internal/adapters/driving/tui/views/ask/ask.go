// Package ask provides the question and answer view for the TUI.
package ask

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/argonaut/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/argonaut/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/argonaut/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/argonaut/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/argonaut/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/argonaut/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driving"
)

// ConfigFunc resolves the language model configuration for each question.
type ConfigFunc func() (domain.LLMConfig, error)

// View represents the ask view with question input, answer, sources and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	list      *list.HitList
	statusbar *status.Bar

	answerService driving.AnswerService
	llmConfig     ConfigFunc
	ctx           context.Context

	index    *domain.IndexHandle
	question string
	answer   string

	width      int
	height     int
	ready      bool
	thinking   bool
	err        error
	focusInput bool // true = typing a question, false = reading the answer
}

// NewView creates a new ask view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	answerService driving.AnswerService,
	llmConfig ConfigFunc,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	if llmConfig == nil {
		llmConfig = func() (domain.LLMConfig, error) { return domain.LLMConfig{}, nil }
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewQuestionInput(s),
		list:          list.NewHitList(s),
		statusbar:     status.NewBar(s, km),
		answerService: answerService,
		llmConfig:     llmConfig,
		ctx:           context.Background(),
		width:         80,
		height:        24,
		focusInput:    true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// SetIndex selects the index questions are answered from and clears the last answer.
func (v *View) SetIndex(handle domain.IndexHandle) {
	v.index = &handle
	v.statusbar.SetIndex(handle.Source)
	v.Reset()
}

// Index returns the selected index, or nil if none.
func (v *View) Index() *domain.IndexHandle {
	return v.index
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerCompleted:
		v.handleAnswerCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	// Ignore keys while a question is in flight
	if v.thinking {
		return v, nil
	}

	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			return v, v.submit()
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	if key.Matches(msg, v.keymap.NewQuestion) {
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	}
	v.list, _ = v.list.Update(msg)
	return v, nil
}

func (v *View) submit() tea.Cmd {
	question := v.input.Question()
	if question == "" {
		return nil
	}
	if v.index == nil {
		v.setError(ErrNoIndex)
		return nil
	}

	v.err = nil
	v.thinking = true
	v.question = question
	v.focusInput = false
	v.input.Blur()
	v.statusbar.Thinking()

	return v.ask(*v.index, question)
}

// ask runs the answer pipeline off the update loop.
func (v *View) ask(handle domain.IndexHandle, question string) tea.Cmd {
	ctx := v.ctx
	service := v.answerService
	resolve := v.llmConfig
	return func() tea.Msg {
		if service == nil {
			return messages.AnswerCompleted{Question: question, Err: ErrNoAnswerService}
		}
		cfg, err := resolve()
		if err != nil {
			return messages.AnswerCompleted{Question: question, Err: err}
		}
		answer, err := service.AnswerWithSources(ctx, handle, question, cfg)
		return messages.AnswerCompleted{Question: question, Answer: answer, Err: err}
	}
}

func (v *View) handleAnswerCompleted(msg messages.AnswerCompleted) {
	v.thinking = false
	if msg.Err != nil {
		v.setError(msg.Err)
		v.focusInput = true
		v.input.Focus()
		return
	}

	v.err = nil
	v.question = msg.Question
	v.answer = ""
	var sources []domain.SearchHit
	if msg.Answer != nil {
		v.answer = msg.Answer.Text
		sources = msg.Answer.Sources
	}
	v.list.SetHits(sources)
	v.statusbar.Answered(len(sources))
}

func (v *View) setError(err error) {
	v.err = err
	v.thinking = false
	v.statusbar.Failed(err)
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 12)
	sections = append(sections, v.styles.Title.Render("Argonaut"))
	if v.index != nil {
		sections = append(sections, v.styles.Subtitle.Render(v.index.Source))
	} else {
		sections = append(sections, v.styles.Muted.Render("No index selected"))
	}
	sections = append(sections, "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if v.question != "" && !v.focusInput {
		sections = append(sections, v.styles.Question.Render(v.question), "")
	}
	if v.thinking {
		sections = append(sections, v.styles.Muted.Render("Thinking..."), "")
	} else if v.answer != "" {
		sections = append(sections, v.styles.Answer.Width(v.width-4).Render(v.answer), "", v.list.View())
	}

	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height/2)
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Question returns the last submitted question.
func (v *View) Question() string {
	return v.question
}

// SetQuestion fills the question input.
func (v *View) SetQuestion(question string) {
	v.input.SetValue(question)
}

// Answer returns the last generated answer.
func (v *View) Answer() string {
	return v.answer
}

// Sources returns the chunks behind the last answer.
func (v *View) Sources() []domain.SearchHit {
	return v.list.Hits()
}

// Thinking reports whether a question is in flight.
func (v *View) Thinking() bool {
	return v.thinking
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Reset returns the view to input mode with no answer.
func (v *View) Reset() {
	v.focusInput = true
	v.thinking = false
	v.input.Focus()
	v.input.SetValue("")
	v.question = ""
	v.answer = ""
	v.list.SetHits(nil)
	v.err = nil
	v.statusbar.Clear()
}
