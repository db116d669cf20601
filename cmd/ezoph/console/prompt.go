package console

import (
	"strings"

	"github.com/chzyer/readline"
)

// Yes is the answer YesOrNo returns when the operator confirms.
const Yes = "y"

// YesOrNo asks for confirmation. Empty input and anything that is not
// a "y" count as no.
func YesOrNo(question string) (string, error) {
	rl, err := readline.New(question + " [N/y]:")
	if err != nil {
		return "", err
	}
	answer, err := rl.Readline()
	if err != nil {
		return "", err
	}
	if strings.ToLower(strings.TrimSpace(answer)) == Yes {
		return Yes, nil
	}
	return "n", nil
}
