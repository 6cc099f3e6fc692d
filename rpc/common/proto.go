package common

import (
	"errors"
	"fmt"
	"strings"
)

// GoodbyeMessage is the payload of the final frame sent after an exit command
const GoodbyeMessage = "Exiting. Goodbye!"

var (
	// ErrEmptyCommand is returned for a blank command line, which ends a session
	ErrEmptyCommand = errors.New("empty command")
	// ErrUnknownVerb is returned for a command with an unsupported verb
	ErrUnknownVerb = errors.New("unknown verb")
	// ErrMissingArgument is returned when a verb lacks a required argument
	ErrMissingArgument = errors.New("missing argument")
	// ErrUnexpectedArgument is returned for arguments given to a verb that takes none
	ErrUnexpectedArgument = errors.New("unexpected argument")
)

// --------------------------------------------------------------------------
// Verbs
// --------------------------------------------------------------------------

// Verb selects the handler of a command
type Verb int

const (
	VerbUnknown Verb = iota
	VerbMkdir
	VerbCd
	VerbRm
	VerbUl
	VerbDl
	VerbWordCount
	VerbWordSort
	VerbSearch
	VerbSplit
	VerbExit
)

// verbNames maps every verb to its wire keyword
var verbNames = map[Verb]string{
	VerbMkdir:     "mkdir",
	VerbCd:        "cd",
	VerbRm:        "rm",
	VerbUl:        "ul",
	VerbDl:        "dl",
	VerbWordCount: "wordcount",
	VerbWordSort:  "wordsort",
	VerbSearch:    "search",
	VerbSplit:     "split",
	VerbExit:      "exit",
}

// verbArgs is the number of required arguments per verb
var verbArgs = map[Verb]int{
	VerbMkdir:     1,
	VerbCd:        1,
	VerbRm:        1,
	VerbUl:        1,
	VerbDl:        1,
	VerbWordCount: 1,
	VerbWordSort:  1,
	VerbSearch:    2,
	VerbSplit:     2,
	VerbExit:      0,
}

func (v Verb) String() string {
	if name, ok := verbNames[v]; ok {
		return name
	}
	return "unknown"
}

// Verbs returns all known verbs in protocol order
func Verbs() []Verb {
	verbs := make([]Verb, 0, len(verbNames))
	for v := VerbMkdir; v <= VerbExit; v++ {
		verbs = append(verbs, v)
	}
	return verbs
}

// ParseVerb converts a wire keyword to a verb
func ParseVerb(s string) (Verb, error) {
	for v, name := range verbNames {
		if name == s {
			return v, nil
		}
	}
	return VerbUnknown, fmt.Errorf("%w: %q", ErrUnknownVerb, s)
}

// --------------------------------------------------------------------------
// Command Structure
// --------------------------------------------------------------------------

// Command is one parsed command line `<verb> <args>`
type Command struct {
	Verb Verb
	// Args holds the arguments in order
	Args []string
}

// NewCommand creates a command from a verb and its arguments
func NewCommand(verb Verb, args ...string) Command {
	return Command{Verb: verb, Args: args}
}

// ParseCommand parses a command line.
// Verbs taking one argument use the rest of the line (trimmed) as that argument, so
// names may contain spaces. Verbs taking two arguments split the rest on whitespace
// and ignore surplus fields.
// A blank line yields ErrEmptyCommand, an unknown verb ErrUnknownVerb, a verb
// without its required arguments ErrMissingArgument and arguments to exit
// ErrUnexpectedArgument.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{}, ErrEmptyCommand
	}

	keyword, rest, _ := strings.Cut(line, " ")
	verb, err := ParseVerb(keyword)
	if err != nil {
		return Command{}, err
	}
	rest = strings.TrimSpace(rest)

	cmd := Command{Verb: verb}
	switch verbArgs[verb] {
	case 0:
		// only the bare verb is accepted, `exit now` is not an exit
		if rest != "" {
			cmd.Args = strings.Fields(rest)
		}
	case 1:
		if rest != "" {
			cmd.Args = []string{rest}
		}
	default:
		cmd.Args = strings.Fields(rest)
	}

	if err := cmd.Validate(); err != nil {
		return Command{}, err
	}
	return cmd, nil
}

// Validate checks that the command carries all required arguments
func (c Command) Validate() error {
	want, ok := verbArgs[c.Verb]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownVerb, c.Verb)
	}
	if want == 0 && len(c.Args) > 0 {
		return fmt.Errorf("%w: %s takes no arguments, got %q", ErrUnexpectedArgument, c.Verb, c.Args)
	}
	if len(c.Args) < want {
		return fmt.Errorf("%w: %s requires %d argument(s), got %d", ErrMissingArgument, c.Verb, want, len(c.Args))
	}
	for _, arg := range c.Args[:want] {
		if strings.TrimSpace(arg) == "" {
			return fmt.Errorf("%w: %s has a blank argument", ErrMissingArgument, c.Verb)
		}
		// multi argument verbs are split on whitespace by the receiver
		if want > 1 && strings.ContainsAny(arg, " \t\r\n") {
			return fmt.Errorf("%w: %s argument %q must not contain whitespace", ErrMissingArgument, c.Verb, arg)
		}
	}
	return nil
}

// Arg returns the i-th argument or an empty string
func (c Command) Arg(i int) string {
	if i < len(c.Args) {
		return c.Args[i]
	}
	return ""
}

// String renders the command as a wire line
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Verb.String()
	}
	return c.Verb.String() + " " + strings.Join(c.Args, " ")
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// SplitList parses a comma separated list argument such as `w1,w2,w3`
func SplitList(arg string) []string {
	parts := strings.Split(arg, ",")
	list := make([]string, 0, len(parts))
	for _, part := range parts {
		list = append(list, strings.TrimSpace(part))
	}
	return list
}

// JoinList renders a list argument
func JoinList(list []string) string {
	return strings.Join(list, ",")
}
