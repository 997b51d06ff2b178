package protocol

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ServerStatus is the decoded result of one getstatus query.
type ServerStatus struct {
	Keys    map[string]string `json:"keys"`
	Players []Player          `json:"players"`
}

// Player is one entry of the status player list.
type Player struct {
	Name      string `json:"name"`
	CleanName string `json:"clean_name"`
}

// decodeStatus parses a raw getstatus reply. The reply is treated as
// newline-separated text: a framing line, the info string, one line per
// player, and a trailer. Invalid UTF-8 is replaced, never rejected.
func decodeStatus(data []byte) (*ServerStatus, error) {
	text := strings.ToValidUTF8(string(data), string(utf8.RuneError))

	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return nil, &DecodeError{
			Stage:  StageResponse,
			Reason: fmt.Sprintf("expected at least 2 lines, got %d", len(lines)),
		}
	}

	keys, err := parseInfoString(lines[1])
	if err != nil {
		return nil, err
	}

	status := &ServerStatus{Keys: keys, Players: []Player{}}
	for i := 2; i < len(lines)-1; i++ {
		if lines[i] == "" {
			continue
		}
		name, err := parsePlayerName(lines[i])
		if err != nil {
			return nil, err
		}
		status.Players = append(status.Players, Player{
			Name:      name,
			CleanName: SanitizeName(name),
		})
	}

	return status, nil
}

// parseInfoString walks the backslash-delimited info string pairwise
// into a map. A malformed line fails outright rather than silently
// misaligning key/value pairs.
func parseInfoString(line string) (map[string]string, error) {
	if !strings.HasPrefix(line, "\\") {
		return nil, &DecodeError{Stage: StageInfo, Reason: "missing leading delimiter"}
	}

	tokens := strings.Split(line[1:], "\\")
	if len(tokens)%2 != 0 {
		return nil, &DecodeError{
			Stage:  StageInfo,
			Reason: fmt.Sprintf("odd token count %d", len(tokens)),
		}
	}

	keys := make(map[string]string, len(tokens)/2)
	for i := 0; i < len(tokens); i += 2 {
		keys[tokens[i]] = tokens[i+1]
	}

	return keys, nil
}

// parsePlayerName extracts the display name from a player line: the
// contents of the last quoted span. Score and ping tokens around it
// are ignored.
func parsePlayerName(line string) (string, error) {
	end := strings.LastIndexByte(line, '"')
	if end < 0 {
		return "", &DecodeError{
			Stage:  StagePlayer,
			Reason: fmt.Sprintf("missing quoted name in %q", line),
		}
	}

	start := strings.LastIndexByte(line[:end], '"')
	if start < 0 {
		return "", &DecodeError{
			Stage:  StagePlayer,
			Reason: fmt.Sprintf("unpaired quote in %q", line),
		}
	}

	name := line[start+1 : end]
	if name == "" {
		return "", &DecodeError{Stage: StagePlayer, Reason: "empty player name"}
	}

	return name, nil
}
