package migrate

// SkipOption is appended to every env file selection
const SkipOption = "Skip"

// Prompter is the operator-facing side of a run. Confirm and Select block
// until the operator answers.
type Prompter interface {
	Confirm(title, description string) (bool, error)
	Select(title string, options []string) (string, error)
	Info(msg string)
	Warn(msg string)
	Success(msg string)
	Show(title, content string)
}
