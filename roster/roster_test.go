package roster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tacklezone/matchcore/engine"
)

func TestBuiltinProducesElevenPlayersPerSide(t *testing.T) {
	def := Builtin("home")
	total := 0
	for _, e := range def.Entries {
		total += e.Count
	}
	if total != 11 {
		t.Fatalf("expected a builtin roster of 11 players, got %d", total)
	}
}

func TestLoadYAMLRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.yaml")
	content := `
name: Testers
race: human
entries:
  - name: Lineman
    count: 2
    ma: 6
    st: 3
    ag: 3
    av: 8
  - name: Blitzer
    count: 1
    ma: 7
    st: 3
    ag: 3
    av: 8
    skills: [block, dodge]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	def, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.Name != "Testers" || def.Race != "human" {
		t.Fatalf("unexpected roster header: %+v", def)
	}
	if len(def.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(def.Entries))
	}
	blitzer := def.Entries[1]
	if blitzer.Count != 1 || blitzer.MA != 7 {
		t.Fatalf("unexpected blitzer entry: %+v", blitzer)
	}
	if len(blitzer.Skills) != 2 {
		t.Fatalf("expected 2 skills to resolve from aliases, got %d: %+v", len(blitzer.Skills), blitzer.Skills)
	}
	hasBlock, hasDodge := false, false
	for _, sk := range blitzer.Skills {
		if sk == engine.Block {
			hasBlock = true
		}
		if sk == engine.Dodge {
			hasDodge = true
		}
	}
	if !hasBlock || !hasDodge {
		t.Fatalf("expected block and dodge to resolve via skillAliases, got %+v", blitzer.Skills)
	}
}

func TestLoadJSONRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.json")
	content := `{"name":"Testers","race":"orc","entries":[{"name":"Lineman","count":3,"ma":5,"st":4,"ag":2,"av":9}]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	def, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.Race != "orc" || len(def.Entries) != 1 || def.Entries[0].Count != 3 {
		t.Fatalf("unexpected roster: %+v", def)
	}
}

func TestLoadUnsupportedExtensionErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.txt")
	if err := os.WriteFile(path, []byte("irrelevant"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected an error for an unsupported file extension")
	}
}

func TestLoadUnknownSkillNameIsSilentlyDropped(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.yaml")
	content := `
name: Testers
race: human
entries:
  - name: Lineman
    count: 1
    ma: 6
    st: 3
    ag: 3
    av: 8
    skills: [block, not_a_real_skill]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	def, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(def.Entries[0].Skills) != 1 {
		t.Fatalf("expected the unknown skill name to be dropped, kept %d skills", len(def.Entries[0].Skills))
	}
}
