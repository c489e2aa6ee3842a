// pre_processor.go implements the WGSL shader pre-processor. It scans shader
// source code for # directives, resolves conditional blocks against the active
// shader definition set, and collects the #define declarations so that variant
// keys can include definitions introduced by the source itself.
//
// Supported directives, each on its own line:
//   - #define NAME    adds NAME to the active definition set and is removed
//     from the output
//   - #ifdef NAME     keeps the enclosed block only when NAME is defined
//   - #ifndef NAME    keeps the enclosed block only when NAME is not defined
//   - #else           inverts the innermost conditional
//   - #endif          closes the innermost conditional
//
// Conditionals nest. Directive lines never appear in the processed output.
package shader

import (
	"fmt"
	"strings"
)

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// defines accumulates the #define names encountered in active regions
	// during a Process call. Reset at the start of each Process invocation.
	defines []string
}

// PreProcessor processes raw WGSL shader source code containing # directives,
// resolving conditional compilation blocks against a caller-provided definition
// set while collecting the #define declarations found in the source.
type PreProcessor interface {
	// Process takes raw WGSL shader source code and pre-processes it by resolving
	// # directives. Conditional blocks are kept or dropped according to the union
	// of the provided definitions and any #define declarations encountered in
	// active regions. Directive lines are removed from the output.
	//
	// The defines list is reset at the start of each call and can be retrieved
	// via Defines() after Process returns.
	//
	// Parameters:
	//   - source: the raw WGSL shader source code containing directives to be processed
	//   - defs: the definition names active for this variant
	//
	// Returns:
	//   - string: the processed WGSL shader source code with directives resolved
	//   - error: an error if any directive is malformed or unbalanced
	Process(source string, defs ...string) (string, error)

	// Defines returns the list of #define names collected during the most recent
	// call to Process, in source-order. Returns nil if Process has not been called.
	//
	// Returns:
	//   - []string: the defines collected during the last Process call
	Defines() []string
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a new PreProcessor.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{}
}

// conditionalFrame tracks one open #ifdef/#ifndef block during processing.
type conditionalFrame struct {
	// active reports whether this block's branch condition held.
	active bool

	// parentActive reports whether all enclosing blocks were active when
	// this block opened. A block inside a dropped branch stays dropped even
	// when its own condition holds.
	parentActive bool

	// seenElse reports whether this block has already hit its #else.
	seenElse bool
}

func (p *preProcessor) Process(source string, defs ...string) (string, error) {
	p.defines = p.defines[:0]

	defined := make(map[string]bool, len(defs))
	for _, d := range defs {
		defined[d] = true
	}

	var stack []conditionalFrame
	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	// active reports whether the current line sits inside only-kept branches.
	active := func() bool {
		for _, frame := range stack {
			if !frame.active || !frame.parentActive {
				return false
			}
		}
		return true
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") {
			if active() {
				out = append(out, line)
			}
			continue
		}

		directive, arg, _ := strings.Cut(trimmed, " ")
		arg = strings.TrimSpace(arg)

		switch directive {
		case "#define":
			if arg == "" {
				return "", fmt.Errorf("line %d: #define requires a name", i+1)
			}
			if active() {
				defined[arg] = true
				p.defines = append(p.defines, arg)
			}
		case "#ifdef":
			if arg == "" {
				return "", fmt.Errorf("line %d: #ifdef requires a name", i+1)
			}
			stack = append(stack, conditionalFrame{active: defined[arg], parentActive: active()})
		case "#ifndef":
			if arg == "" {
				return "", fmt.Errorf("line %d: #ifndef requires a name", i+1)
			}
			stack = append(stack, conditionalFrame{active: !defined[arg], parentActive: active()})
		case "#else":
			if len(stack) == 0 {
				return "", fmt.Errorf("line %d: #else without matching #ifdef", i+1)
			}
			frame := &stack[len(stack)-1]
			if frame.seenElse {
				return "", fmt.Errorf("line %d: duplicate #else", i+1)
			}
			frame.seenElse = true
			frame.active = !frame.active
		case "#endif":
			if len(stack) == 0 {
				return "", fmt.Errorf("line %d: #endif without matching #ifdef", i+1)
			}
			stack = stack[:len(stack)-1]
		default:
			return "", fmt.Errorf("line %d: unknown directive %q", i+1, directive)
		}
	}

	if len(stack) > 0 {
		return "", fmt.Errorf("unterminated conditional: %d block(s) still open at end of source", len(stack))
	}

	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Defines() []string {
	return p.defines
}
