package prompt

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/colorprofile"

	"github.com/raphi011/mrb/internal/task"
	"github.com/raphi011/mrb/internal/ui/styles"
)

// Answer is the outcome of a yes/no question.
type Answer int

const (
	Unanswered Answer = iota
	Yes
	No
	Cancelled
)

// Accepted reports whether the user said yes.
func (a Answer) Accepted() bool {
	return a == Yes
}

type questionModel struct {
	question string
	answer   Answer
}

func (m questionModel) Init() tea.Cmd {
	return nil
}

func (m questionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.answer = Yes
	case "n", "N", "enter":
		m.answer = No
	case "ctrl+c", "q", "esc":
		m.answer = Cancelled
	default:
		return m, nil
	}
	return m, tea.Quit
}

func (m questionModel) View() tea.View {
	if m.answer != Unanswered {
		return tea.NewView("")
	}
	return tea.NewView(fmt.Sprintf("%s %s ", m.question, styles.MutedStyle.Render("[y/N]")))
}

// Confirm asks question on stderr. Enter answers no.
func Confirm(ctx context.Context, question string) (Answer, error) {
	p := tea.NewProgram(questionModel{question: question},
		tea.WithContext(ctx),
		tea.WithOutput(os.Stderr),
		tea.WithColorProfile(colorprofile.Detect(os.Stderr, os.Environ())),
		tea.WithoutSignalHandler(),
	)
	final, err := p.Run()
	if err != nil {
		return Unanswered, err
	}
	return final.(questionModel).answer, nil
}

// Asker adapts Confirm to a title and a multi-line message. The running
// task's indicator is suspended while the question is on screen.
func Asker(ctx context.Context, title, message string) (bool, error) {
	var answer Answer
	err := task.ProgressFromContext(ctx).Suspend(func() error {
		fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render(title))
		fmt.Fprintln(os.Stderr, message)
		var err error
		answer, err = Confirm(ctx, "Continue?")
		return err
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", title, err)
	}
	return answer.Accepted(), nil
}
