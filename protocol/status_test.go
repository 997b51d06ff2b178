package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStatus(t *testing.T) {
	raw := []byte("statusResponse\n\\sv_hostname\\MyServer\\g_gametype\\0\n\"0\" \"^1Alice\"\n\"5\" \"^2Bob^^Cool\"\n\n")

	status, err := decodeStatus(raw)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"sv_hostname": "MyServer",
		"g_gametype":  "0",
	}, status.Keys)

	require.Len(t, status.Players, 2)
	assert.Equal(t, Player{Name: "^1Alice", CleanName: "Alice"}, status.Players[0])
	assert.Equal(t, Player{Name: "^2Bob^^Cool", CleanName: "Bob^Cool"}, status.Players[1])
}

func TestDecodeStatus_UnquotedScorePing(t *testing.T) {
	// ioquake3 servers emit "score ping" unquoted before the name.
	raw := []byte("statusResponse\n\\mapname\\q3dm17\n12 48 \"^4Grunt\"\n0 999 \"Sarge\"\n")

	status, err := decodeStatus(raw)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"mapname": "q3dm17"}, status.Keys)
	require.Len(t, status.Players, 2)
	assert.Equal(t, Player{Name: "^4Grunt", CleanName: "Grunt"}, status.Players[0])
	assert.Equal(t, Player{Name: "Sarge", CleanName: "Sarge"}, status.Players[1])
}

func TestDecodeStatus_NoPlayers(t *testing.T) {
	raw := []byte("statusResponse\n\\sv_hostname\\Empty\\sv_maxclients\\16\n")

	status, err := decodeStatus(raw)
	require.NoError(t, err)

	assert.Equal(t, "Empty", status.Keys["sv_hostname"])
	assert.Empty(t, status.Players)
}

func TestDecodeStatus_InvalidUTF8(t *testing.T) {
	raw := []byte("statusResponse\n\\sv_hostname\\Caf\xe9\n3 20 \"Bad\xffName\"\n")

	status, err := decodeStatus(raw)
	require.NoError(t, err)

	assert.Equal(t, "Caf�", status.Keys["sv_hostname"])
	require.Len(t, status.Players, 1)
	assert.Equal(t, "Bad�Name", status.Players[0].Name)
}

func TestDecodeStatus_Errors(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		stage string
	}{
		{"single line", "statusResponse", StageResponse},
		{"empty reply", "", StageResponse},
		{"missing info delimiter", "statusResponse\nsv_hostname\\MyServer\n", StageInfo},
		{"odd info tokens", "statusResponse\n\\sv_hostname\\MyServer\\orphan\n", StageInfo},
		{"player line without quotes", "statusResponse\n\\k\\v\n12 48 noquotes\n\n", StagePlayer},
		{"player line single quote", "statusResponse\n\\k\\v\n12 48 \"unterminated\n\n", StagePlayer},
		{"empty player name", "statusResponse\n\\k\\v\n12 48 \"\"\n\n", StagePlayer},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := decodeStatus([]byte(test.raw))
			var decodeErr *DecodeError
			require.ErrorAs(t, err, &decodeErr)
			assert.Equal(t, test.stage, decodeErr.Stage)
		})
	}
}

func TestParseInfoString(t *testing.T) {
	keys, err := parseInfoString("\\sv_hostname\\My Server\\g_needpass\\0\\version\\ioq3 1.36")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"sv_hostname": "My Server",
		"g_needpass":  "0",
		"version":     "ioq3 1.36",
	}, keys)
}

func TestParsePlayerName_CleanShorterOrEqual(t *testing.T) {
	lines := []string{
		"0 10 \"^1Red^2Green^3Blue\"",
		"0 10 \"plain\"",
		"0 10 \"^^escaped\"",
	}

	for _, line := range lines {
		name, err := parsePlayerName(line)
		require.NoError(t, err)
		assert.NotEmpty(t, name)
		assert.LessOrEqual(t, len(SanitizeName(name)), len(name))
	}
}
