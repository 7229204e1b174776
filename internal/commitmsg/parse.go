// Package commitmsg parses commit messages of the form "[CU-abc123] Message"
// and checks them against the task-reference rules.
package commitmsg

import (
	"strings"
)

const (
	taskIDsSeparator = ","
	lineSeparator    = "\n"
)

// Message is the parsed form of a raw commit message.
type Message struct {
	Header  string
	Footer  string
	TaskIDs []string
}

// Parse extracts header, footer and task IDs from the first non-empty line of raw.
// It never fails: text without a non-empty line yields an empty Message.
func Parse(raw string) Message {
	line := firstLine(raw)
	if line == "" {
		return Message{}
	}

	header, footer := splitLine(line)
	return Message{
		Header:  header,
		Footer:  footer,
		TaskIDs: taskIDs(header),
	}
}

// firstLine returns the first line of raw that is not the empty string, after
// dropping the carriage return of CRLF endings. A line holding only spaces or
// tabs counts as non-empty; a lone "\r" line counts as empty.
func firstLine(raw string) string {
	for _, line := range strings.Split(raw, lineSeparator) {
		line = strings.TrimSuffix(line, "\r")
		if line != "" {
			return line
		}
	}
	return ""
}

// splitLine splits line at its first whitespace-delimited token.
func splitLine(line string) (header, footer string) {
	rest := strings.TrimLeft(line, " \t")
	end := strings.IndexAny(rest, " \t")
	if end < 0 {
		return rest, ""
	}
	return rest[:end], strings.TrimSpace(rest[end:])
}

func taskIDs(header string) []string {
	header = strings.TrimPrefix(header, "[")
	header = strings.TrimSuffix(header, "]")

	var ids []string
	for _, id := range strings.Split(header, taskIDsSeparator) {
		if i := strings.LastIndex(id, "/"); i >= 0 {
			id = id[i+1:]
		}
		id = strings.TrimSpace(id)
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
