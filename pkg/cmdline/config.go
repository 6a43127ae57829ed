package cmdline

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Gaelan/fish-shell/pkg/cli"
	"github.com/Gaelan/fish-shell/pkg/getopt"
)

// Action is what a call of the builtin does.
type Action int

// Possible values of Action.
const (
	// Print the selected extent.
	ActionPrint Action = iota
	// Splice the operands into the selected extent.
	ActionSplice
	// Queue input functions.
	ActionFunction
	// Print the text of the active selection.
	ActionSelection
	// Print or set the cursor position.
	ActionCursor
	// Print the line number of the cursor.
	ActionLine
	// Report whether history search is active.
	ActionSearchMode
	// Report whether the pager is active.
	ActionPagingMode
	// Print usage.
	ActionHelp
)

var actionNames = [...]string{
	ActionPrint:      "print",
	ActionSplice:     "splice",
	ActionFunction:   "function",
	ActionSelection:  "selection",
	ActionCursor:     "cursor",
	ActionLine:       "line",
	ActionSearchMode: "search-mode",
	ActionPagingMode: "paging-mode",
	ActionHelp:       "help",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// Config is the validated form of the arguments of one call of the builtin.
type Config struct {
	Action      Action
	Selection   SelectionMode
	Splice      SpliceMode
	CutAtCursor bool
	Tokenize    bool
	// Text to work on instead of the live command line, from --input.
	Input *string
	// Non-option arguments.
	Operands []string

	// Input functions to queue, for ActionFunction.
	Functions []cli.InputFunction
	// New cursor position, for ActionCursor. Valid only when SetCursor is
	// true.
	Cursor    int
	SetCursor bool
}

// Errors wrapped by UsageError.
var (
	ErrCombo               = errors.New("invalid combination of options")
	ErrMissingArgument     = errors.New("expected argument")
	ErrTooManyArguments    = errors.New("too many arguments")
	ErrNotANumber          = errors.New("argument is not a number")
	ErrUnknownFunction     = errors.New("unknown input function")
	ErrCursorOutsideExtent = errors.New("cursor is not within the selected extent")
)

// UsageError is returned for arguments that the builtin rejects. It unwraps
// to one of the Err* sentinels, and for unknown options also to the error
// from getopt.
type UsageError struct {
	Err    error
	Detail string
}

func (e *UsageError) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + e.Detail
}

func (e *UsageError) Unwrap() error { return e.Err }

func usageError(err error, format string, args ...any) *UsageError {
	return &UsageError{Err: err, Detail: fmt.Sprintf(format, args...)}
}

var (
	appendOpt      = &getopt.OptionSpec{Short: 'a', Long: "append"}
	insertOpt      = &getopt.OptionSpec{Short: 'i', Long: "insert"}
	replaceOpt     = &getopt.OptionSpec{Short: 'r', Long: "replace"}
	jobOpt         = &getopt.OptionSpec{Short: 'j', Long: "current-job"}
	processOpt     = &getopt.OptionSpec{Short: 'p', Long: "current-process"}
	tokenOpt       = &getopt.OptionSpec{Short: 't', Long: "current-token"}
	bufferOpt      = &getopt.OptionSpec{Short: 'b', Long: "current-buffer"}
	cutAtCursorOpt = &getopt.OptionSpec{Short: 'c', Long: "cut-at-cursor"}
	functionOpt    = &getopt.OptionSpec{Short: 'f', Long: "function"}
	tokenizeOpt    = &getopt.OptionSpec{Short: 'o', Long: "tokenize"}
	helpOpt        = &getopt.OptionSpec{Short: 'h', Long: "help"}
	inputOpt       = &getopt.OptionSpec{Short: 'I', Long: "input", Arity: getopt.RequiredArgument}
	cursorOpt      = &getopt.OptionSpec{Short: 'C', Long: "cursor"}
	lineOpt        = &getopt.OptionSpec{Short: 'L', Long: "line"}
	searchModeOpt  = &getopt.OptionSpec{Short: 'S', Long: "search-mode"}
	selectionOpt   = &getopt.OptionSpec{Short: 's', Long: "selection"}
	pagingModeOpt  = &getopt.OptionSpec{Short: 'P', Long: "paging-mode"}
)

var optionSpecs = []*getopt.OptionSpec{
	appendOpt, insertOpt, replaceOpt,
	jobOpt, processOpt, tokenOpt, bufferOpt,
	cutAtCursorOpt, functionOpt, tokenizeOpt, helpOpt, inputOpt,
	cursorOpt, lineOpt, searchModeOpt, selectionOpt, pagingModeOpt,
}

// ParseArgs parses and validates the arguments of the builtin, not including
// the command name. Every error it returns is a *UsageError.
func ParseArgs(args []string) (Config, error) {
	opts, operands, err := getopt.Parse(args, optionSpecs, getopt.GNU)
	if err != nil {
		return Config{}, &UsageError{Err: err}
	}

	cfg := Config{Operands: operands}
	var (
		spliceSet, selectionSet                           bool
		function, cursor, line, search, paging, selection bool
	)
	for _, opt := range opts {
		switch opt.Spec {
		case appendOpt:
			cfg.Splice, spliceSet = Append, true
		case insertOpt:
			cfg.Splice, spliceSet = Insert, true
		case replaceOpt:
			cfg.Splice, spliceSet = Replace, true
		case jobOpt:
			cfg.Selection, selectionSet = Job, true
		case processOpt:
			cfg.Selection, selectionSet = Process, true
		case tokenOpt:
			cfg.Selection, selectionSet = Token, true
		case bufferOpt:
			cfg.Selection, selectionSet = Whole, true
		case cutAtCursorOpt:
			cfg.CutAtCursor = true
		case functionOpt:
			function = true
		case tokenizeOpt:
			cfg.Tokenize = true
		case helpOpt:
			cfg.Action = ActionHelp
			return cfg, nil
		case inputOpt:
			input := opt.Argument
			cfg.Input = &input
		case cursorOpt:
			cursor = true
		case lineOpt:
			line = true
		case searchModeOpt:
			search = true
		case selectionOpt:
			selection = true
		case pagingModeOpt:
			paging = true
		}
	}

	query := cursor || line || search || paging
	if function {
		if spliceSet || selectionSet || cfg.CutAtCursor || cfg.Tokenize || query || selection {
			return Config{}, &UsageError{Err: ErrCombo}
		}
		if len(operands) == 0 {
			return Config{}, &UsageError{Err: ErrMissingArgument}
		}
		for _, name := range operands {
			fn, ok := cli.LookupInputFunction(name)
			if !ok {
				return Config{}, usageError(ErrUnknownFunction, "%q", name)
			}
			cfg.Functions = append(cfg.Functions, fn)
		}
		cfg.Action = ActionFunction
		return cfg, nil
	}

	if selection {
		cfg.Action = ActionSelection
		return cfg, nil
	}

	if query && len(operands) > 1 {
		return Config{}, &UsageError{Err: ErrTooManyArguments}
	}
	if (selectionSet || cfg.Tokenize || cfg.CutAtCursor) && query {
		return Config{}, &UsageError{Err: ErrCombo}
	}
	if (cfg.Tokenize || cfg.CutAtCursor) && len(operands) > 0 {
		return Config{}, usageError(ErrCombo,
			"--cut-at-cursor and --tokenize can not be used when setting the commandline")
	}
	if spliceSet && len(operands) == 0 {
		return Config{}, usageError(ErrCombo,
			"insertion mode switches can not be used when not in insertion mode")
	}

	switch {
	case cursor:
		cfg.Action = ActionCursor
		if len(operands) == 1 {
			n, err := strconv.Atoi(operands[0])
			if err != nil {
				return Config{}, usageError(ErrNotANumber, "%q", operands[0])
			}
			cfg.Cursor, cfg.SetCursor = n, true
		}
	case line:
		cfg.Action = ActionLine
	case search:
		cfg.Action = ActionSearchMode
	case paging:
		cfg.Action = ActionPagingMode
	case len(operands) == 0:
		cfg.Action = ActionPrint
	default:
		cfg.Action = ActionSplice
	}
	return cfg, nil
}
