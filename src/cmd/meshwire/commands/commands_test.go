package commands

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mosaicnetworks/meshwire/src/config"
	"github.com/mosaicnetworks/meshwire/src/inspect"
	"github.com/mosaicnetworks/meshwire/src/version"
	"github.com/sirupsen/logrus"
)

func run(t *testing.T, args ...string) (*CLIConfig, string, error) {
	c := NewDefaultCLIConfig()
	c.Meshwire = *config.NewTestConfig(t, logrus.DebugLevel)

	dir := t.TempDir()
	args = append(args, "--datadir", dir)

	return runWith(t, c, args...)
}

func runWith(t *testing.T, c *CLIConfig, args ...string) (*CLIConfig, string, error) {
	rootCmd := NewRootCmd(c)

	var out bytes.Buffer
	rootCmd.SetOutput(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return c, out.String(), err
}

// sameDocument compares two JSON documents member by member, ignoring
// member order and a trailing newline.
func sameDocument(t *testing.T, expected, got string) {
	t.Helper()

	var e, g map[string]interface{}
	if err := json.Unmarshal([]byte(expected), &e); err != nil {
		t.Fatalf("expected %q: %v", expected, err)
	}
	if err := json.Unmarshal([]byte(got), &g); err != nil {
		t.Fatalf("output %q: %v", got, err)
	}
	if !reflect.DeepEqual(e, g) {
		t.Fatalf("output should be %s, not %s", expected, got)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Fatalf("output %q should end with a newline", got)
	}
}

func TestVersionCmd(t *testing.T) {
	_, out, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if out != version.Version+"\n" {
		t.Fatalf("output should be %q, not %q", version.Version+"\n", out)
	}
}

func TestEncodeSingle(t *testing.T) {
	_, out, err := run(t, "encode", "single", "--from", "1", "--dest", "2", "--msg", "hi")
	if err != nil {
		t.Fatal(err)
	}

	sameDocument(t, `{"type":9,"dest":2,"from":1,"msg":"hi"}`, out)
}

func TestEncodeTimeSync(t *testing.T) {
	_, out, err := run(t, "encode", "timesync", "--from", "1", "--dest", "2", "--stage", "1", "--t0", "5", "--t1", "6")
	if err != nil {
		t.Fatal(err)
	}

	// t1 is not carried at stage 1
	sameDocument(t, `{"type":4,"dest":2,"from":1,"msg":{"type":1,"t0":5}}`, out)

	if _, _, err := run(t, "encode", "timedelay", "--stage", "9"); err == nil {
		t.Fatal("stage 9 should be rejected")
	}
}

func TestEncodeNodeSync(t *testing.T) {
	_, out, err := run(t, "encode", "nodesync",
		"--from", "1", "--dest", "4",
		"--child", `{"nodeId":2,"knownNodes":[3]}`,
		"--child", `{"nodeId":5,"root":true}`)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out, `"type":5`) ||
		!strings.Contains(out, `"knownNodes":[2,3,5]`) ||
		!strings.Contains(out, `"containsRoot":true`) {
		t.Fatalf("unexpected output %s", out)
	}

	_, out, err = run(t, "encode", "nodesync", "--reply", "--from", "1", "--dest", "4")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"type":6`) {
		t.Fatalf("unexpected output %s", out)
	}

	_, _, err = run(t, "encode", "nodesync",
		"--from", "1",
		"--child", `{"nodeId":2,"knownNodes":[3]}`,
		"--child", `{"nodeId":3}`)
	if err == nil {
		t.Fatal("duplicate ids should be rejected")
	}
}

func TestDecode(t *testing.T) {
	doc := `{"type":8,"dest":0,"from":1,"msg":"all"}`

	_, out, err := run(t, "decode", doc)
	if err != nil {
		t.Fatal(err)
	}
	sameDocument(t, doc, out)

	if _, _, err := run(t, "decode", doc+doc); err == nil {
		t.Fatal("two documents in one argument should fail")
	}

	if _, _, err := run(t, "decode", `{"type":7,"dest":1,"from":2}`); err == nil {
		t.Fatal("decoding a Control packet should fail")
	}
	if _, _, err := run(t, "decode", `not json`); err == nil {
		t.Fatal("decoding garbage should fail")
	}
}

func TestDecodeMaxDoc(t *testing.T) {
	_, _, err := run(t, "decode", "--max-doc", "8", `{"type":8,"from":1,"msg":"all"}`)
	if err == nil {
		t.Fatal("document over max-doc should be rejected")
	}
}

func TestInspectFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stream.ndjson")

	stream := `{"type":9,"dest":1,"from":2,"msg":"hi"}
{"type":9,"dest":3,"from":2,"msg":"relay"}
garbage
`
	if err := ioutil.WriteFile(path, []byte(stream), 0644); err != nil {
		t.Fatal(err)
	}

	_, out, err := run(t, "inspect", "--node-id", "1", "--no-service", path)
	if err != nil {
		t.Fatal(err)
	}

	var sum inspect.Summary
	if err := json.Unmarshal([]byte(out), &sum); err != nil {
		t.Fatal(err)
	}
	if sum.Packets != 2 || sum.Handled != 1 || sum.Forwarded != 1 || sum.Malformed != 1 {
		t.Fatalf("unexpected summary %+v", sum)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()

	file := `{"node-id": 7, "pretty": true, "max-doc": 1024}`
	if err := ioutil.WriteFile(filepath.Join(dir, "meshwire.json"), []byte(file), 0644); err != nil {
		t.Fatal(err)
	}

	c := NewDefaultCLIConfig()
	c.Meshwire = *config.NewTestConfig(t, logrus.DebugLevel)

	c, _, err := runWith(t, c, "version", "--datadir", dir)
	if err != nil {
		t.Fatal(err)
	}

	if c.Meshwire.NodeID != 7 {
		t.Errorf("NodeID should be 7, not %d", c.Meshwire.NodeID)
	}
	if !c.Meshwire.Pretty {
		t.Errorf("Pretty should be true")
	}
	if c.Meshwire.MaxDocumentSize != 1024 {
		t.Errorf("MaxDocumentSize should be 1024, not %d", c.Meshwire.MaxDocumentSize)
	}

	// flags win over the file
	c = NewDefaultCLIConfig()
	c.Meshwire = *config.NewTestConfig(t, logrus.DebugLevel)

	c, _, err = runWith(t, c, "version", "--datadir", dir, "--node-id", "9")
	if err != nil {
		t.Fatal(err)
	}
	if c.Meshwire.NodeID != 9 {
		t.Errorf("NodeID should be 9, not %d", c.Meshwire.NodeID)
	}
}
