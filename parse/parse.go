// Package parse translates Redcode source text into a warrior image: a
// sequence of redcode.Instruction plus a start offset, per spec.md §4.2.
//
// The reader is a hand-written two-pass recursive-descent scan, in the
// style of github.com/rcornwell/S370's emu/assemble package: a run of
// small skipSpace/getName/getNumber-shaped helpers rather than a
// generated lexer, since no parser-combinator or lexer-generator library
// appears anywhere in the retrieved corpus.
package parse

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"corewar/redcode"
)

// Category names the kind of failure a ParseError reports.
type Category string

const (
	UnknownMnemonic Category = "unknown_mnemonic"
	BadOperand      Category = "bad_operand"
	UnresolvedLabel Category = "unresolved_label"
	DuplicateLabel  Category = "duplicate_label"
	ExpressionOverflow Category = "expression_overflow"
	MalformedPseudoOp  Category = "malformed_pseudo_op"
)

// ParseError reports a single source line that failed to parse, per
// spec.md §7.
type ParseError struct {
	Line     int
	Category Category
	Message  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Category, e.Message)
}

// Image is the result of a successful parse: the instruction sequence
// ready to be loaded into a core, and the start offset pseudo-ops may
// override.
type Image struct {
	Instructions []redcode.Instruction
	StartOffset  int
}

// rawLine is a source line stripped of comments and surrounding space,
// tagged with its 1-based line number and the label (if any) that
// preceded its content.
type rawLine struct {
	lineNo int
	label  string
	body   string // remaining text after the label, empty for a label-only line
}

// Parse reads Redcode source text and produces an Image, or the first
// ParseError encountered. It runs in two passes, as spec.md §4.2
// prescribes: first collecting every label's instruction index, then emitting
// instructions with labels resolved to signed offsets.
func Parse(source string) (Image, error) {
	lines, err := tokenizeLines(source)
	if err != nil {
		return Image{}, err
	}

	labels := map[string]int{} // label -> index into instruction lines
	instrLines := make([]rawLine, 0, len(lines))
	startLabel := ""
	startValue := -1
	haveEnd := false
	pendingLabel := "" // a label-only line, carried forward onto the next instruction

	for _, rl := range lines {
		if pendingLabel != "" && rl.label == "" {
			rl.label = pendingLabel
		}
		pendingLabel = ""

		word, rest := getName(rl.body)
		upper := strings.ToUpper(word)

		switch upper {
		case "":
			// label-only line: associate with the next instruction below.
			pendingLabel = rl.label
			continue
		case "ORG":
			lbl, val, perr := parseOrgEndArg(rest, rl.lineNo)
			if perr != nil {
				return Image{}, perr
			}
			startLabel, startValue = lbl, val
			continue
		case "END":
			haveEnd = true
			rest = strings.TrimSpace(rest)
			if rest != "" {
				lbl, val, perr := parseOrgEndArg(rest, rl.lineNo)
				if perr != nil {
					return Image{}, perr
				}
				startLabel, startValue = lbl, val
			}
			continue
		}

		if rl.label != "" {
			if _, dup := labels[rl.label]; dup {
				return Image{}, &ParseError{Line: rl.lineNo, Category: DuplicateLabel, Message: rl.label}
			}
			labels[rl.label] = len(instrLines)
		}
		instrLines = append(instrLines, rl)

		if haveEnd {
			break
		}
	}

	instructions := make([]redcode.Instruction, len(instrLines))
	for i, rl := range instrLines {
		ins, perr := parseInstruction(rl, i, labels)
		if perr != nil {
			return Image{}, perr
		}
		instructions[i] = ins
	}

	offset := 0
	switch {
	case startLabel != "":
		idx, ok := labels[startLabel]
		if !ok {
			return Image{}, &ParseError{Line: 0, Category: UnresolvedLabel, Message: startLabel}
		}
		offset = idx
	case startValue >= 0:
		offset = startValue
	}

	return Image{Instructions: instructions, StartOffset: offset}, nil
}

// parseOrgEndArg parses the shared "label-or-int" argument of ORG/END.
func parseOrgEndArg(rest string, lineNo int) (label string, value int, err *ParseError) {
	word, _ := getName(rest)
	if word == "" {
		return "", -1, &ParseError{Line: lineNo, Category: MalformedPseudoOp, Message: "missing argument"}
	}
	if n, convErr := strconv.Atoi(word); convErr == nil {
		return "", n, nil
	}
	return word, -1, nil
}

// tokenizeLines splits source into rawLines: comments and blank lines are
// dropped, and a leading label (an identifier not itself a recognised
// mnemonic or pseudo-op, appearing before the opcode with no intervening
// separator) is split off.
func tokenizeLines(source string) ([]rawLine, *ParseError) {
	var out []rawLine
	for i, text := range strings.Split(source, "\n") {
		lineNo := i + 1
		if idx := strings.IndexByte(text, ';'); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimRight(text, " \t\r")
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			continue
		}

		label, body := splitLabel(text)
		out = append(out, rawLine{lineNo: lineNo, label: label, body: body})
	}
	return out, nil
}

// splitLabel recognises a leading identifier as a label when the line
// does not start with whitespace: Redcode labels sit in column 1, the
// opcode is indented. If the first word is itself a known mnemonic or
// pseudo-op, it is never treated as a label.
func splitLabel(text string) (label, body string) {
	if text == "" || unicode.IsSpace(rune(text[0])) {
		return "", strings.TrimSpace(text)
	}
	word, rest := getName(text)
	upper := strings.ToUpper(word)
	if upper == "ORG" || upper == "END" {
		return "", text
	}
	opName, _, _ := splitDotted(upper)
	if _, ok := redcode.OpcodeByName(opName); ok {
		return "", text
	}
	return word, strings.TrimSpace(rest)
}

// parseInstruction parses one instruction line's body into a redcode.Instruction, at
// instruction index idx (0-based, matching the label table).
func parseInstruction(rl rawLine, idx int, labels map[string]int) (redcode.Instruction, *ParseError) {
	body := rl.body
	opTok, rest := getName(body)
	opName, modName, stepName := splitDotted(opTok)

	op, ok := redcode.OpcodeByName(strings.ToUpper(opName))
	if !ok {
		return redcode.Instruction{}, &ParseError{Line: rl.lineNo, Category: UnknownMnemonic, Message: opName}
	}

	step := redcode.StepD
	if stepName != "" {
		s, ok := redcode.SteppingByName(strings.ToUpper(stepName))
		if !ok {
			return redcode.Instruction{}, &ParseError{Line: rl.lineNo, Category: BadOperand, Message: "bad stepping " + stepName}
		}
		step = s
	}

	aText, bText, hasB := splitOperands(rest)
	aText = strings.TrimSpace(aText)
	if aText == "" {
		return redcode.Instruction{}, &ParseError{Line: rl.lineNo, Category: BadOperand, Message: "missing A-operand"}
	}
	a, perr := parseOperand(aText, rl.lineNo, idx, labels)
	if perr != nil {
		return redcode.Instruction{}, perr
	}

	var b redcode.Operand
	if hasB {
		bText = strings.TrimSpace(bText)
		if bText == "" {
			return redcode.Instruction{}, &ParseError{Line: rl.lineNo, Category: BadOperand, Message: "missing B-operand"}
		}
		b, perr = parseOperand(bText, rl.lineNo, idx, labels)
		if perr != nil {
			return redcode.Instruction{}, perr
		}
	} else {
		b = redcode.Operand{Mode: redcode.Direct, Value: 0}
	}

	mod := redcode.DefaultModifier(op, a.Mode)
	if modName != "" {
		m, ok := redcode.ModifierByName(strings.ToUpper(modName))
		if !ok {
			return redcode.Instruction{}, &ParseError{Line: rl.lineNo, Category: BadOperand, Message: "bad modifier " + modName}
		}
		mod = m
	}

	return redcode.Instruction{
		Op: op, Mod: mod, Step: step, A: a, B: b,
		Line: rl.lineNo, Label: rl.label,
	}, nil
}

// splitDotted splits "OPCODE[.MODIFIER][.STEP]" into its up-to-three
// dot-separated parts.
func splitDotted(tok string) (op, mod, step string) {
	parts := strings.Split(tok, ".")
	op = parts[0]
	if len(parts) > 1 {
		mod = parts[1]
	}
	if len(parts) > 2 {
		step = parts[2]
	}
	return
}

// splitOperands splits the operand text on the first top-level comma.
func splitOperands(rest string) (a, b string, hasB bool) {
	rest = strings.TrimSpace(rest)
	if idx := strings.IndexByte(rest, ','); idx >= 0 {
		return rest[:idx], rest[idx+1:], true
	}
	return rest, "", false
}

// parseOperand reads an addressing-mode prefix (defaulting to direct when
// no mode character is written) followed by an expression:
// an integer literal, a label, or label+N / label-N.
func parseOperand(text string, lineNo, idx int, labels map[string]int) (redcode.Operand, *ParseError) {
	mode := redcode.Direct
	switch text[0] {
	case '#', '$', '@', '<', '>':
		mode = redcode.Mode(text[0])
		text = text[1:]
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return redcode.Operand{}, &ParseError{Line: lineNo, Category: BadOperand, Message: "empty operand"}
	}

	value, perr := evalExpr(text, lineNo, idx, labels)
	if perr != nil {
		return redcode.Operand{}, perr
	}
	return redcode.Operand{Mode: mode, Value: value}, nil
}

// evalExpr evaluates "N", "label", "label+N" or "label-N" into a signed
// offset. A label resolves to the signed offset from the current
// instruction's line index to the labelled line, per spec.md §4.2.
func evalExpr(text string, lineNo, idx int, labels map[string]int) (int, *ParseError) {
	sign := 1
	rest := text
	splitAt := -1
	for i := 1; i < len(rest); i++ { // i=1: never split on a leading sign
		if rest[i] == '+' || rest[i] == '-' {
			splitAt = i
			break
		}
	}
	var head, tail string
	if splitAt >= 0 {
		head, tail = rest[:splitAt], rest[splitAt:]
	} else {
		head = rest
	}

	base, perr := evalAtom(head, lineNo, idx, labels)
	if perr != nil {
		return 0, perr
	}
	if tail == "" {
		return base, nil
	}
	if tail[0] == '-' {
		sign = -1
	}
	n, err := strconv.Atoi(tail[1:])
	if err != nil {
		return 0, &ParseError{Line: lineNo, Category: BadOperand, Message: "malformed expression " + text}
	}
	return base + sign*n, nil
}

func evalAtom(head string, lineNo, idx int, labels map[string]int) (int, *ParseError) {
	if n, err := strconv.Atoi(head); err == nil {
		return n, nil
	}
	target, ok := labels[head]
	if !ok {
		return 0, &ParseError{Line: lineNo, Category: UnresolvedLabel, Message: head}
	}
	return target - idx, nil
}

// getName returns the next whitespace-delimited token and the remainder
// of str, mirroring the skipSpace/getName helper pair used by
// github.com/rcornwell/S370's assembler.
func getName(str string) (string, string) {
	str = skipSpace(str)
	for i, r := range str {
		if unicode.IsSpace(r) {
			return str[:i], str[i+1:]
		}
	}
	return str, ""
}

func skipSpace(str string) string {
	return strings.TrimLeft(str, " \t")
}
