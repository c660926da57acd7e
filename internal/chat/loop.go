package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/agent"
	"github.com/rs/zerolog/log"
)

//go:generate mockgen -destination=mocks/mock_answerer.go -package=mocks github.com/povarna/generative-ai-agents/pdf-rag/internal/chat Answerer

const (
	Banner         = "Chatbot iniciado! Digite 'sair' para encerrar."
	GoodbyeMessage = "Encerrando o chat. Até logo!"

	questionLabel = "PERGUNTA: "
	answerLabel   = "RESPOSTA: "
)

var exitCommands = map[string]struct{}{
	"sair": {},
	"exit": {},
	"quit": {},
}

type State int

const (
	StateAwaitingInput State = iota
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateAwaitingInput:
		return "AWAITING_INPUT"
	case StateTerminated:
		return "TERMINATED"
	default:
		return "UNKNOWN"
	}
}

type Answerer interface {
	Ask(ctx context.Context, question string) (*agent.Answer, error)
}

// Loop is the interactive question/answer session. It keeps no history between turns.
type Loop struct {
	answerer Answerer
	in       io.Reader
	out      io.Writer
	state    State

	questionColor *color.Color
	answerColor   *color.Color
}

func NewLoop(answerer Answerer, in io.Reader, out io.Writer) *Loop {
	return &Loop{
		answerer:      answerer,
		in:            in,
		out:           out,
		state:         StateAwaitingInput,
		questionColor: color.New(color.FgCyan, color.Bold),
		answerColor:   color.New(color.FgGreen, color.Bold),
	}
}

func (l *Loop) State() State {
	return l.state
}

// IsExitCommand reports whether input is one of the exit words, ignoring case and surrounding space
func IsExitCommand(input string) bool {
	_, ok := exitCommands[strings.ToLower(strings.TrimSpace(input))]
	return ok
}

// Run reads questions until an exit word, end of input or ctx cancellation.
// An answer error ends the loop and is returned.
func (l *Loop) Run(ctx context.Context) error {
	defer func() { l.state = StateTerminated }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(l.out, Banner)
	fmt.Fprintln(l.out, strings.Repeat("=", 50))

	lines := l.readLines(ctx)

	for {
		fmt.Fprint(l.out, "\n")
		l.questionColor.Fprint(l.out, questionLabel)

		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			fmt.Fprintln(l.out)
			log.Info().Msg("Chat interrupted")
			return nil
		case line, ok = <-lines:
		}

		if !ok {
			fmt.Fprintln(l.out)
			return nil
		}

		question := strings.TrimSpace(line)
		if question == "" {
			continue
		}

		if IsExitCommand(question) {
			fmt.Fprintln(l.out, GoodbyeMessage)
			return nil
		}

		answer, err := l.answerer.Ask(ctx, question)
		if err != nil {
			return fmt.Errorf("failed to answer question: %w", err)
		}

		fmt.Fprint(l.out, "\n")
		l.answerColor.Fprint(l.out, answerLabel)
		fmt.Fprintln(l.out, answer.Content)
	}
}

// readLines feeds stdin lines to a channel so Run can also watch ctx
func (l *Loop) readLines(ctx context.Context) <-chan string {
	lines := make(chan string)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(l.in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			log.Warn().Err(err).Msg("Failed to read input")
		}
	}()

	return lines
}
