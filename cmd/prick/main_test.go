package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"prick/internal/catalog"
	"prick/internal/fingerprint"
	"prick/internal/scan"
	"prick/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	catalog    string
	media      string
	lib        *testsupport.Library
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("PRICK_LOG_LEVEL", "error")

	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "prick.toml"),
		catalog:    filepath.Join(base, "data", "catalog.db"),
		media:      filepath.Join(base, "media"),
		lib:        testsupport.NewLibrary(),
	}
	content := fmt.Sprintf("[paths]\ncatalog_path = %q\nlog_dir = \"\"\n\n[scan]\nworkers = 2\n", env.catalog)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	original := sourceFactory
	sourceFactory = func(string) (scan.SourceFactory, error) {
		return env.lib.Factory(), nil
	}
	t.Cleanup(func() { sourceFactory = original })
	return env
}

func (env *cliTestEnv) addMedia(t *testing.T, name string, streams int, packets ...fingerprint.Packet) string {
	t.Helper()
	path := filepath.Join(env.media, name)
	testsupport.WriteFile(t, path, 64)
	env.lib.Add(path, streams, packets...)
	return path
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

var hashLine = regexp.MustCompile(`^[0-9a-f]{64}  (.+)$`)

func TestVersionSkipsConfig(t *testing.T) {
	out, _, err := runCLI(t, []string{"version"}, "/does/not/exist.toml")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	requireContains(t, out, "fingerprint scheme v1")
}

func TestConfigInitShowValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	target := filepath.Join(env.baseDir, "generated", "config.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected config init to refuse overwriting")
	}

	out, _, err = runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, env.catalog)
	requireContains(t, out, "progress_interval_bytes")

	out, _, err = runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestHashPrintsFingerprints(t *testing.T) {
	env := setupCLITestEnv(t)
	a := env.addMedia(t, "a.mkv", 2, testsupport.Packet(0, "AAAA"), testsupport.Packet(1, "BB"))
	b := env.addMedia(t, "b.mp4", 2, testsupport.Packet(1, "BB"), testsupport.Packet(0, "AAAA"))

	out, _, err := runCLI(t, []string{"hash", a, b}, env.configPath)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two lines, got %q", out)
	}
	for i, want := range []string{a, b} {
		m := hashLine.FindStringSubmatch(lines[i])
		if m == nil || m[1] != want {
			t.Fatalf("line %d malformed: %q", i, lines[i])
		}
	}
	if lines[0][:64] != lines[1][:64] {
		t.Fatal("interleaving must not change the fingerprint")
	}

	out, _, err = runCLI(t, []string{"hash", "--streams", a}, env.configPath)
	if err != nil {
		t.Fatalf("hash --streams: %v", err)
	}
	requireContains(t, out, "  stream 0  ")
	requireContains(t, out, "  stream 1  ")
}

func TestHashJSONAndFailures(t *testing.T) {
	env := setupCLITestEnv(t)
	good := env.addMedia(t, "good.ivf", 1, testsupport.Packet(0, "frame"))
	missing := filepath.Join(env.media, "missing.ivf")

	out, _, err := runCLI(t, []string{"hash", "--json", "--algorithm", "blake3", good, missing}, env.configPath)
	if err == nil {
		t.Fatal("expected error when a file cannot be fingerprinted")
	}
	var results []hashOutput
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode json: %v (%q)", err, out)
	}
	if len(results) != 2 {
		t.Fatalf("expected two results, got %+v", results)
	}
	if results[0].Algorithm != "blake3" || len(results[0].Fingerprint) != 64 || len(results[0].Streams) != 1 {
		t.Fatalf("unexpected good result %+v", results[0])
	}
	if results[1].Error == "" || results[1].Fingerprint != "" {
		t.Fatalf("unexpected failed result %+v", results[1])
	}

	_, stderr, err := runCLI(t, []string{"hash", missing}, env.configPath)
	if err == nil {
		t.Fatal("expected error")
	}
	requireContains(t, stderr, "missing.ivf")

	if _, _, err := runCLI(t, []string{"hash", "--algorithm", "md5", good}, env.configPath); err == nil {
		t.Fatal("expected error for unknown algorithm")
	}
}

func TestScanDupesListVerifyPrune(t *testing.T) {
	env := setupCLITestEnv(t)
	packets := []fingerprint.Packet{testsupport.Packet(0, "video"), testsupport.Packet(1, "audio")}
	orig := env.addMedia(t, "orig.mkv", 2, packets...)
	copyPath := env.addMedia(t, "backup/copy.mkv", 2, packets...)
	other := env.addMedia(t, "other.mkv", 1, testsupport.Packet(0, "unique"))

	out, _, err := runCLI(t, []string{"scan", env.media}, env.configPath)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "Files:   3")
	requireContains(t, out, "Hashed:  3")

	out, _, err = runCLI(t, []string{"scan", "--json", env.media}, env.configPath)
	if err != nil {
		t.Fatalf("scan --json: %v", err)
	}
	var summary scanSummaryJSON
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode scan json: %v", err)
	}
	if summary.Skipped != 3 {
		t.Fatalf("expected unchanged files skipped, got %+v", summary)
	}

	out, _, err = runCLI(t, []string{"dupes"}, env.configPath)
	if err != nil {
		t.Fatalf("dupes: %v", err)
	}
	requireContains(t, out, orig)
	requireContains(t, out, copyPath)
	if strings.Contains(out, other) {
		t.Fatalf("unique file listed as duplicate: %q", out)
	}

	out, _, err = runCLI(t, []string{"dupes", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("dupes --json: %v", err)
	}
	var groups []dupeGroupJSON
	if err := json.Unmarshal([]byte(out), &groups); err != nil {
		t.Fatalf("decode dupes json: %v", err)
	}
	if len(groups) != 1 || len(groups[0].Paths) != 2 || groups[0].Sizes[0] != 64 {
		t.Fatalf("unexpected groups %+v", groups)
	}

	out, _, err = runCLI(t, []string{"list"}, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, other)
	requireContains(t, out, "3 entries")

	out, _, err = runCLI(t, []string{"list", "--json", "--fingerprint", strings.ToUpper(groups[0].Fingerprint)}, env.configPath)
	if err != nil {
		t.Fatalf("list --fingerprint: %v", err)
	}
	var matches []catalog.Entry
	if err := json.Unmarshal([]byte(out), &matches); err != nil {
		t.Fatalf("decode list json: %v", err)
	}
	if len(matches) != 2 || matches[0].Path != copyPath || matches[1].Path != orig {
		t.Fatalf("unexpected fingerprint matches %+v", matches)
	}

	out, _, err = runCLI(t, []string{"verify"}, env.configPath)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	requireContains(t, out, "3 verified, 0 failed")

	env.lib.Add(other, 1, testsupport.Packet(0, "tampered"))
	out, _, err = runCLI(t, []string{"verify", other, orig}, env.configPath)
	if err == nil {
		t.Fatal("expected verify to fail after tampering")
	}
	requireContains(t, out, "[FAIL]")
	requireContains(t, out, "fingerprint changed")

	out, _, err = runCLI(t, []string{"verify", "--quiet", env.media}, env.configPath)
	if err == nil {
		t.Fatal("expected verify of the media directory to fail after tampering")
	}
	requireContains(t, out, "3 verified, 1 failed")

	if err := os.Remove(copyPath); err != nil {
		t.Fatalf("remove: %v", err)
	}
	out, _, err = runCLI(t, []string{"prune", "--dry-run"}, env.configPath)
	if err != nil {
		t.Fatalf("prune --dry-run: %v", err)
	}
	requireContains(t, out, "Would remove "+copyPath)

	out, _, err = runCLI(t, []string{"prune"}, env.configPath)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	requireContains(t, out, "Removed 1 entry")

	out, _, err = runCLI(t, []string{"dupes"}, env.configPath)
	if err != nil {
		t.Fatalf("dupes after prune: %v", err)
	}
	requireContains(t, out, "No duplicates found")
}

func TestListEmptyCatalog(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"list"}, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "Catalog is empty")

	out, _, err = runCLI(t, []string{"list", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("list --json: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Fatalf("expected empty JSON array, got %q", out)
	}
}

func TestRenderVerification(t *testing.T) {
	line := renderVerification(scan.Verification{
		Path:              "/m/a.mkv",
		Status:            scan.VerifyMismatch,
		Expected:          strings.Repeat("a", 64),
		Actual:            strings.Repeat("b", 64),
		MismatchedStreams: []int{0, 2},
	}, false)
	requireContains(t, line, "[FAIL]")
	requireContains(t, line, "streams 0,2")

	colored := renderVerification(scan.Verification{Path: "/m/b.mkv", Status: scan.VerifyMatch}, true)
	if !strings.HasPrefix(colored, ansiGreen) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("expected green status line, got %q", colored)
	}
}

func TestGroupedIntUsesSeparators(t *testing.T) {
	if got := groupedInt(1234567); got != "1,234,567" {
		t.Fatalf("groupedInt = %q", got)
	}
	if got := shortHex(strings.Repeat("f", 64)); len([]rune(got)) != 17 {
		t.Fatalf("shortHex = %q", got)
	}
}

func TestStatusReportsChecks(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "[OK]")
	requireContains(t, out, "Catalog lock")
	requireContains(t, out, "not created yet")
	if _, err := os.Stat(env.catalog); !os.IsNotExist(err) {
		t.Fatalf("status must not create the catalog: %v", err)
	}

	if _, _, err := runCLI(t, []string{"list"}, env.configPath); err != nil {
		t.Fatalf("list: %v", err)
	}
	out, _, err = runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status after list: %v", err)
	}
	requireContains(t, out, "0 entries")
}
