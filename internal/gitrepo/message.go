package gitrepo

import (
	"os"
	"strings"
)

// DefaultCommentChar starts lines git drops from commit messages.
const DefaultCommentChar = "#"

const scissors = "------------------------ >8 ------------------------"

// ReadMessageFile reads a commit message file as handed to the commit-msg
// hook and applies CleanMessage.
func ReadMessageFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return CleanMessage(string(data), DefaultCommentChar), nil
}

// CleanMessage mirrors git's "strip" cleanup: it drops everything from the
// scissors line on, drops comment lines, trims trailing whitespace, collapses
// runs of blank lines and strips leading and trailing blank lines.
func CleanMessage(raw, commentChar string) string {
	if commentChar == "" {
		commentChar = DefaultCommentChar
	}
	var out []string
	blank := false
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		if strings.HasPrefix(line, commentChar) {
			if strings.TrimSpace(strings.TrimPrefix(line, commentChar)) == scissors {
				break
			}
			continue
		}
		line = strings.TrimRight(line, " \t")
		if line == "" {
			blank = len(out) > 0
			continue
		}
		if blank {
			out = append(out, "")
			blank = false
		}
		out = append(out, line)
	}
	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "\n") + "\n"
}
