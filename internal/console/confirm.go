package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/openclaw/clawmon/internal/gate"
)

// confirmInstall runs the blocking security confirmation. It lists every
// warning verbatim and then asks. On the deterrent path the user must type
// the full phrase; a bare enter always cancels.
func (c *Console) confirmInstall(decision gate.Decision) (bool, error) {
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Printf("\n%s %s\n\n", red("Security review required:"), decision.Reason)
	for _, w := range decision.Warnings {
		fmt.Printf("  %s %s\n", red("!"), w)
	}
	fmt.Println()

	prompt := yellow("Install anyway? Type 'yes' to proceed [no]: ")
	expected := "yes"
	if decision.Deterrent {
		fmt.Printf("%s\n\n", red("The AI analysis flagged these changes as DANGEROUS."))
		prompt = red("Type 'install anyway' to override, anything else cancels: ")
		expected = "install anyway"
	}

	answer, err := c.readLine(prompt)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(answer), expected), nil
}

// readLine asks one question on the console's readline instance.
func (c *Console) readLine(prompt string) (string, error) {
	c.rl.SetPrompt(prompt)
	defer c.rl.SetPrompt(color.New(color.FgCyan).SprintFunc()("clawmon> "))

	line, err := c.rl.Readline()
	if err != nil {
		if err == readline.ErrInterrupt || err == io.EOF {
			return "", nil
		}
		return "", err
	}
	return line, nil
}
