package templategen

import "github.com/AlecAivazis/survey/v2"

// Prompter asks the user interactively.
type Prompter interface {
	Select(message string, options []string) (string, error)
	Input(message string) (string, error)
}

type surveyPrompter struct{}

// NewPrompter ...
func NewPrompter() Prompter {
	return surveyPrompter{}
}

func (surveyPrompter) Select(message string, options []string) (string, error) {
	prompt := &survey.Select{
		Message: message,
		Options: options,
	}

	var selected string
	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}
	return selected, nil
}

func (surveyPrompter) Input(message string) (string, error) {
	prompt := &survey.Input{
		Message: message,
	}

	var answer string
	if err := survey.AskOne(prompt, &answer); err != nil {
		return "", err
	}
	return answer, nil
}
