package include

import "io"

// EmptyLine is the only form of line that Normalize treats as empty
const EmptyLine = "\n"

// Normalize returns the lines with every run of empty lines reduced to a
// single empty line. All other lines are returned unchanged and in order.
func Normalize(lines []string) []string {
	out := make([]string, 0, len(lines))
	prevEmpty := false
	for _, line := range lines {
		empty := line == EmptyLine
		if empty && prevEmpty {
			continue
		}
		prevEmpty = empty
		out = append(out, line)
	}
	return out
}

// Write normalizes the lines and writes them to w. No line terminators are
// added, each line is written exactly as it is held.
func Write(w io.Writer, lines []string) error {
	for _, line := range Normalize(lines) {
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}
