// Package cli handles cmd line input for DBG and testing the engine features in real-time.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/bastiangx/symserve/pkg/spell"
)

var (
	termStyle = lipgloss.NewStyle().Bold(true)
	metaStyle = lipgloss.NewStyle().Faint(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// InputHandler processes user input from stdin against a live engine.
// A bare word runs a Top lookup; prefixed commands reach the other queries.
type InputHandler struct {
	engine       *spell.Engine
	suggestLimit int
	maxInput     int
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(engine *spell.Engine, limit, maxInput int) *InputHandler {
	return &InputHandler{
		engine:       engine,
		suggestLimit: limit,
		maxInput:     maxInput,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin, and passes the
// trimmed input to handleInput(). Loop terminates on stdin error.
func (h *InputHandler) Start() error {
	log.Print("symserve CLI")
	log.Print("word | :closest w | :all w | :prefix p | :fix w | :compound phrase | :seg text  (Ctrl+C exits)")
	reader := bufio.NewReader(os.Stdin)

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
}

// handleInput dispatches a single line to the matching engine query and
// prints the result through the log.
func (h *InputHandler) handleInput(line string) {
	if h.maxInput > 0 && len(line) > h.maxInput {
		log.Errorf("Input too long: %d bytes", len(line))
		return
	}

	command, arg := "", line
	if strings.HasPrefix(line, ":") {
		parts := strings.SplitN(line, " ", 2)
		if len(parts) < 2 {
			log.Errorf("Command %s needs an argument", parts[0])
			return
		}
		command, arg = parts[0], strings.TrimSpace(parts[1])
	}

	start := time.Now()
	switch command {
	case "":
		h.printSuggestions(h.engine.Lookup(arg, spell.DefaultLookupOptions(spell.VerbosityTop)), start)
	case ":closest":
		h.printSuggestions(h.engine.Lookup(arg, spell.DefaultLookupOptions(spell.VerbosityClosest)), start)
	case ":all":
		h.printSuggestions(h.engine.Lookup(arg, spell.DefaultLookupOptions(spell.VerbosityAll)), start)
	case ":prefix":
		h.printSuggestions(h.engine.PrefixLookup(arg, h.suggestLimit), start)
	case ":fix":
		correction, ok := h.engine.AutoCorrection(arg)
		if !ok {
			log.Print(warnStyle.Render("no correction"))
			return
		}
		log.Print(fmt.Sprintf("%s %s", termStyle.Render(correction.Term),
			metaStyle.Render(fmt.Sprintf("confidence %.2f  %v", correction.Confidence, time.Since(start)))))
	case ":compound":
		item := h.engine.LookupCompound(arg, spell.CompoundOptions{MaxEditDistance: -1})
		log.Print(fmt.Sprintf("%s %s", termStyle.Render(item.Term),
			metaStyle.Render(fmt.Sprintf("distance %d  %v", item.Distance, time.Since(start)))))
	case ":seg":
		composition := h.engine.Segment(arg, spell.DefaultSegmentOptions())
		log.Print(fmt.Sprintf("%s %s", termStyle.Render(composition.Corrected),
			metaStyle.Render(fmt.Sprintf("(%s)  distance %d  logp %.1f  %v",
				composition.Segmented, composition.Distance, composition.LogProb, time.Since(start)))))
	default:
		log.Errorf("Unknown command: %s", command)
	}
}

func (h *InputHandler) printSuggestions(items []spell.SuggestItem, start time.Time) {
	if len(items) == 0 {
		log.Print(warnStyle.Render("no suggestions"))
		return
	}
	if len(items) > h.suggestLimit {
		items = items[:h.suggestLimit]
	}
	for i, item := range items {
		log.Print(fmt.Sprintf("%2d. %s %s", i+1, termStyle.Render(item.Term),
			metaStyle.Render(fmt.Sprintf("d=%d f=%d", item.Distance, item.Count))))
	}
	log.Print(metaStyle.Render(time.Since(start).String()))
}
