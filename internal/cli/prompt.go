package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"copilot/internal/core"
)

// cancelInput aborts the current flow and returns to the menu.
const cancelInput = "c"

// prompter wraps the input stream with the line-oriented ask helpers the menu
// flows share. Every prompt accepts "c" to cancel the flow.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func (p *prompter) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *prompter) println(args ...any) {
	fmt.Fprintln(p.out, args...)
}

// readLine reads one trimmed line. ok is false on EOF.
func (p *prompter) readLine() (string, bool) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}

// readLineWithPrompt prints a prompt and reads one trimmed line.
func (p *prompter) readLineWithPrompt(prompt string) (string, bool) {
	p.printf("%s", prompt)
	return p.readLine()
}

// askString prompts until a non-empty answer arrives. Returns ok=false when
// the user cancels or input ends.
func (p *prompter) askString(label string) (string, bool) {
	for {
		p.printf("%s (or 'c' to cancel): ", label)
		line, ok := p.readLine()
		if !ok {
			return "", false
		}
		if strings.EqualFold(line, cancelInput) {
			p.println("Operation cancelled.")
			return "", false
		}
		if line != "" {
			return line, true
		}
		p.println("Input cannot be empty.")
	}
}

// askOptionalString prompts once and accepts an empty answer.
func (p *prompter) askOptionalString(label string) (string, bool) {
	p.printf("%s (optional, 'c' to cancel): ", label)
	line, ok := p.readLine()
	if !ok {
		return "", false
	}
	if strings.EqualFold(line, cancelInput) {
		p.println("Operation cancelled.")
		return "", false
	}
	return line, true
}

// askAmount prompts until a positive decimal amount arrives.
func (p *prompter) askAmount(label string) (decimal.Decimal, bool) {
	for {
		p.printf("%s (or 'c' to cancel): ", label)
		line, ok := p.readLine()
		if !ok {
			return decimal.Decimal{}, false
		}
		if strings.EqualFold(line, cancelInput) {
			p.println("Operation cancelled.")
			return decimal.Decimal{}, false
		}
		amount, err := decimal.NewFromString(line)
		if err != nil || !amount.IsPositive() {
			p.println("Please enter a positive number.")
			continue
		}
		return amount, true
	}
}

// askTags walks the standard tag selection: a numbered list, comma-separated
// picks, and a custom-tag escape hatch.
func (p *prompter) askTags() ([]string, bool) {
	p.println("\n--- Select Standard Tags ---")
	tags := core.StandardTags()
	for i, tag := range tags {
		p.printf("  [%d] %s\n", i+1, tag)
	}
	p.printf("  [%d] Other (Specify Custom)\n", len(tags)+1)

	p.printf("Enter tag numbers, comma-separated (optional, 'c' to cancel): ")
	line, ok := p.readLine()
	if !ok {
		return nil, false
	}
	if strings.EqualFold(line, cancelInput) {
		p.println("Operation cancelled.")
		return nil, false
	}
	if line == "" {
		return nil, true
	}

	var selected []string
	for _, part := range strings.Split(line, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch {
		case n >= 1 && n <= len(tags):
			selected = append(selected, tags[n-1])
		case n == len(tags)+1:
			name, ok := p.askString("  -> Please specify your custom tag")
			if !ok {
				return nil, false
			}
			if custom := core.CustomTag(name); custom != "" {
				selected = append(selected, custom)
			}
		default:
			p.printf("Warning: Tag number %d is out of range.\n", n)
		}
	}
	return core.NormalizeTags(selected), true
}

// askConfirmDelete requires the literal word DELETE before destructive
// operations proceed.
func (p *prompter) askConfirmDelete(warning string) bool {
	p.printf("%s Type DELETE to confirm: ", warning)
	line, ok := p.readLine()
	return ok && line == "DELETE"
}
