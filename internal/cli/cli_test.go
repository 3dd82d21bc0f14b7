package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func schemasDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join("..", "..", "testdata", "schemas")
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Skip("testdata/schemas directory not found")
	}
	return dir
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "sszkit", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"compile", "validate", "encode", "decode", "root", "registry"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestCompileValidSchemas(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewCompileCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{schemasDir(t)})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "✓ Compiled 3 type(s)")
	assert.Contains(t, output, "Checkpoint (40 byte(s))")
	assert.Contains(t, output, "[slot _epoch]")
	assert.Contains(t, output, "Block (dynamic)")
}

func TestCompileValidSchemasJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewCompileCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{schemasDir(t)})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestCompileOutputToFile(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "descriptors.json")

	buf := &bytes.Buffer{}
	cmd := NewCompileCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{schemasDir(t), "--output", outputFile})

	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)

	var result CompilationResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Len(t, result.Types, 3)
}

func TestCompileNonExistentDirectory(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewCompileCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"/nonexistent/directory/path"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E005")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "not found")
}

func TestCompileEmptyDirectory(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewCompileCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{t.TempDir()})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E003")
}

func TestValidateValidSchemas(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{schemasDir(t)})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "✓ 3 type(s) valid")
}

func TestValidateBadSchemaExitsWithFailure(t *testing.T) {
	dir := t.TempDir()
	bad := `package schema

record: Bad: {
	fields: [
		{name: "a", codec: "uint8"},
		{name: "a", codec: "uint8"},
	]
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.cue"), []byte(bad), 0644))

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "✗ Validation failed")
	assert.Contains(t, buf.String(), "S100")
}

func writeValuesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "values.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const checkpointValues = `epoch: 5
root: "0x0000000000000000000000000000000000000000000000000000000000000001"
`

// 40 bytes: uint64(5) little-endian, then the 32-byte root.
const checkpointHex = "0x0500000000000000" +
	"0000000000000000000000000000000000000000000000000000000000000001"

func TestEncodeCheckpoint(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewEncodeCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{schemasDir(t), "Checkpoint", writeValuesFile(t, checkpointValues)})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, checkpointHex, strings.TrimSpace(buf.String()))
}

func TestEncodeJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewEncodeCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{schemasDir(t), "Checkpoint", writeValuesFile(t, checkpointValues)})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)

	data := resp.Data.(map[string]any)
	assert.Equal(t, checkpointHex, data["encoded"])
	assert.Equal(t, float64(40), data["length"])
}

func TestEncodeUnknownType(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewEncodeCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{schemasDir(t), "Nope", writeValuesFile(t, checkpointValues)})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E101")
}

func TestEncodeMissingField(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewEncodeCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{schemasDir(t), "Checkpoint", writeValuesFile(t, "epoch: 5\n")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E103")
	assert.Contains(t, buf.String(), "root")
}

func TestDecodeCheckpoint(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewDecodeCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{schemasDir(t), "Checkpoint", checkpointHex})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "epoch: 5")
	assert.Contains(t, buf.String(), "root: \"0x00000000")
}

func TestDecodeRejectsTruncatedInput(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewDecodeCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{schemasDir(t), "Checkpoint", "0x0500"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "decoding failed")
}

func TestDecodeRejectsBadHex(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewDecodeCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{schemasDir(t), "Checkpoint", "0xzz"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRootHashFromValuesAndHexAgree(t *testing.T) {
	fromValues := &bytes.Buffer{}
	cmd := NewRootHashCommand(&RootOptions{Format: "text"})
	cmd.SetOut(fromValues)
	cmd.SetArgs([]string{schemasDir(t), "Checkpoint", writeValuesFile(t, checkpointValues)})
	require.NoError(t, cmd.Execute())

	fromHex := &bytes.Buffer{}
	cmd = NewRootHashCommand(&RootOptions{Format: "text"})
	cmd.SetOut(fromHex)
	cmd.SetArgs([]string{schemasDir(t), "Checkpoint", checkpointHex})
	require.NoError(t, cmd.Execute())

	root := strings.TrimSpace(fromValues.String())
	assert.True(t, strings.HasPrefix(root, "0x"))
	assert.Len(t, root, 66)
	assert.Equal(t, root, strings.TrimSpace(fromHex.String()))
}

func TestEncodeDecodeDynamicRoundTrip(t *testing.T) {
	values := `slot: 9
body: "0xdeadbeef"
votes: []
`
	encBuf := &bytes.Buffer{}
	cmd := NewEncodeCommand(&RootOptions{Format: "json"})
	cmd.SetOut(encBuf)
	cmd.SetArgs([]string{schemasDir(t), "Block", writeValuesFile(t, values)})
	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(encBuf.Bytes(), &resp))
	encoded := resp.Data.(map[string]any)["encoded"].(string)

	decBuf := &bytes.Buffer{}
	cmd = NewDecodeCommand(&RootOptions{Format: "text"})
	cmd.SetOut(decBuf)
	cmd.SetArgs([]string{schemasDir(t), "Block", encoded})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, decBuf.String(), "slot: 9")
	assert.Contains(t, decBuf.String(), "body: \"0xdeadbeef\"")
}

func TestRegistryRegisterAndList(t *testing.T) {
	db := filepath.Join(t.TempDir(), "reg.db")
	rootOpts := &RootOptions{Format: "text"}
	opts := &RegistryOptions{RootOptions: rootOpts, DBPath: db}

	buf := &bytes.Buffer{}
	cmd := newRegistryRegisterCommand(opts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{schemasDir(t)})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "✓ Registered 3 type(s), 3 new")

	// Re-registering the unchanged schemas creates nothing.
	buf.Reset()
	cmd = newRegistryRegisterCommand(opts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{schemasDir(t)})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "✓ Registered 3 type(s), 0 new")

	buf.Reset()
	cmd = newRegistryListCommand(opts)
	cmd.SetOut(buf)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Checkpoint")
	assert.Contains(t, buf.String(), "Block")
}

func TestRegistryShow(t *testing.T) {
	db := filepath.Join(t.TempDir(), "reg.db")
	opts := &RegistryOptions{RootOptions: &RootOptions{Format: "text"}, DBPath: db}

	cmd := newRegistryRegisterCommand(opts)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{schemasDir(t)})
	require.NoError(t, cmd.Execute())

	buf := &bytes.Buffer{}
	cmd = newRegistryShowCommand(opts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"Checkpoint"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, buf.String(), "name:     Checkpoint")
	assert.Contains(t, buf.String(), "Checkpoint record{")
}

func TestRegistryShowMissing(t *testing.T) {
	db := filepath.Join(t.TempDir(), "reg.db")
	opts := &RegistryOptions{RootOptions: &RootOptions{Format: "text"}, DBPath: db}

	buf := &bytes.Buffer{}
	cmd := newRegistryShowCommand(opts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"Nope"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestOutputFormatterJSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, f.Error("E001", "boom", nil))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E001", resp.Error.Code)
	assert.Equal(t, "boom", resp.Error.Message)
}

func TestVerboseLogGoesToErrWriter(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut, Verbose: true}

	f.VerboseLog("checking %d", 3)
	assert.Empty(t, out.String())
	assert.Equal(t, "checking 3\n", errOut.String())
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "x")))
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
}
