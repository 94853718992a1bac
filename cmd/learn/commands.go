package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/codeadapt/learn-gateway/internal/session"
)

type cmdName string

const (
	cmdNone     cmdName = ""
	cmdHelp     cmdName = "help"
	cmdShow     cmdName = "show"
	cmdOpen     cmdName = "open"
	cmdSelect   cmdName = "select"
	cmdAnswer   cmdName = "answer"
	cmdSubmit   cmdName = "submit"
	cmdRetry    cmdName = "retry"
	cmdNext     cmdName = "next"
	cmdPrev     cmdName = "prev"
	cmdProgress cmdName = "progress"
	cmdQuit     cmdName = "quit"
)

const helpText = `Commands:
  show                     redraw the current topic
  open <topic>             jump to a topic (direct link, never locked)
  select <topic>           pick a topic from the sidebar
  answer <question> <n>    pick option n (1-based) or the option text
  submit                   score the attempt
  retry wrong|full         replay missed questions or restart the quiz
  next, prev               move between topics
  progress <topic>         show the stored unlock record
  quit
`

var aliases = map[string]cmdName{
	"h": cmdHelp, "?": cmdHelp,
	"s": cmdShow, "ls": cmdShow,
	"a": cmdAnswer,
	"n": cmdNext, "p": cmdPrev,
	"q": cmdQuit, "exit": cmdQuit,
}

type command struct {
	name cmdName
	id   int
	arg  string
}

var errUsage = errors.New("unknown command, type 'help'")

func parseCommand(line string) (command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}, nil
	}
	name := cmdName(strings.ToLower(fields[0]))
	if alias, ok := aliases[string(name)]; ok {
		name = alias
	}
	args := fields[1:]

	switch name {
	case cmdHelp, cmdShow, cmdSubmit, cmdNext, cmdPrev, cmdQuit:
		return command{name: name}, nil

	case cmdOpen, cmdSelect, cmdProgress:
		if len(args) != 1 {
			return command{}, fmt.Errorf("usage: %s <topic id>", name)
		}
		id, err := positive(args[0])
		if err != nil {
			return command{}, err
		}
		return command{name: name, id: id}, nil

	case cmdAnswer:
		if len(args) < 2 {
			return command{}, fmt.Errorf("usage: answer <question id> <option>")
		}
		id, err := positive(args[0])
		if err != nil {
			return command{}, err
		}
		return command{name: name, id: id, arg: strings.Join(args[1:], " ")}, nil

	case cmdRetry:
		mode := "full"
		if len(args) > 0 {
			mode = strings.ToLower(args[0])
		}
		if mode != "wrong" && mode != "full" {
			return command{}, fmt.Errorf("usage: retry wrong|full")
		}
		return command{name: name, arg: mode}, nil
	}
	return command{}, errUsage
}

func positive(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%q is not a valid id", s)
	}
	return n, nil
}

// resolveOption maps a 1-based option number to its text. Anything else is
// taken as the option text itself.
func resolveOption(v session.View, questionID int, arg string) (string, error) {
	if v.Quiz == nil {
		return "", session.ErrQuizNotReady
	}
	for _, q := range v.Quiz.Questions {
		if q.ID != questionID {
			continue
		}
		if n, err := strconv.Atoi(arg); err == nil {
			if n < 1 || n > len(q.Options) {
				return "", fmt.Errorf("question %d has options 1-%d", questionID, len(q.Options))
			}
			return q.Options[n-1].Text, nil
		}
		return arg, nil
	}
	return arg, nil
}
