package cmd

import (
	"errors"
	"io"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// prompter reads interactive answers. Tests swap in a scripted one.
type prompter interface {
	Line(message, help string) (string, error)
	Confirm(message string) (bool, error)
}

var prompts prompter = surveyPrompter{}

type surveyPrompter struct{}

func (surveyPrompter) Line(message, help string) (string, error) {
	var answer string
	prompt := &survey.Input{
		Message: message,
		Help:    help,
	}
	err := survey.AskOne(prompt, &answer)
	return answer, err
}

func (surveyPrompter) Confirm(message string) (bool, error) {
	var confirmed bool
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	err := survey.AskOne(prompt, &confirmed)
	return confirmed, err
}

// isInterrupt reports whether the user pressed Ctrl-C or Ctrl-D at a prompt
func isInterrupt(err error) bool {
	return errors.Is(err, terminal.InterruptErr) || errors.Is(err, io.EOF)
}
