// Package roster loads team roster definitions (spec.md §6's "In": name,
// list of positional entries {name, count, MA, ST, AG, AV, skills[],
// race?}) from YAML or JSON files, the way niceyeti-tabular's TrainingConfig
// loader sniffs a config file's extension before decoding it.
package roster

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tacklezone/matchcore/engine"
)

// Entry mirrors engine.RosterEntry with string skill names for
// human-editable files; Load converts these into engine.Skill values.
type Entry struct {
	Name   string   `yaml:"name" json:"name"`
	Count  int      `yaml:"count" json:"count"`
	MA     int      `yaml:"ma" json:"ma"`
	ST     int      `yaml:"st" json:"st"`
	AG     int      `yaml:"ag" json:"ag"`
	AV     int      `yaml:"av" json:"av"`
	Skills []string `yaml:"skills" json:"skills"`
}

// Def is the on-disk roster document shape.
type Def struct {
	Name    string  `yaml:"name" json:"name"`
	Race    string  `yaml:"race" json:"race"`
	Entries []Entry `yaml:"entries" json:"entries"`
}

var skillAliases = buildSkillAliases()

func buildSkillAliases() map[string]engine.Skill {
	// Mirrors engine/serialize.go's skillNames table but lives here so
	// roster files can use the same snake_case vocabulary without roster
	// importing engine's unexported table.
	names := map[string]engine.Skill{
		"block": engine.Block, "dodge": engine.Dodge, "tackle": engine.Tackle,
		"wrestle": engine.Wrestle, "guard": engine.Guard, "mighty_blow": engine.MightyBlow,
		"claw": engine.Claw, "piling_on": engine.PilingOn, "juggernaut": engine.Juggernaut,
		"stand_firm": engine.StandFirm, "side_step": engine.SideStep, "grab": engine.Grab,
		"frenzy": engine.Frenzy, "fend": engine.Fend, "strip_ball": engine.StripBall,
		"sure_hands": engine.SureHands, "big_hand": engine.BigHand, "no_hands": engine.NoHands,
		"stunty": engine.Stunty, "two_heads": engine.TwoHeads, "titchy": engine.Titchy,
		"sprint": engine.Sprint, "sure_feet": engine.SureFeet, "leap": engine.Leap,
		"diving_tackle": engine.DivingTackle, "shadowing": engine.Shadowing,
		"tentacles": engine.Tentacles, "pro": engine.ProSkill, "loner": engine.Loner,
		"dirty_player": engine.DirtyPlayer, "sneaky_git": engine.SneakyGit,
		"regeneration": engine.Regeneration, "apothecary": engine.ApothecaryTeam,
		"safe_throw": engine.SafeThrow, "nerves_of_steel": engine.NervesOfSteel,
		"strong_arm": engine.StrongArm, "accurate": engine.Accurate, "pass": engine.Pass,
		"catch": engine.Catch, "kick": engine.Kick, "cheering_fans": engine.CheeringFans,
		"brilliant_coaching": engine.BrilliantCoaching, "bone_head": engine.BoneHead,
		"really_stupid": engine.ReallyStupid, "wild_animal": engine.WildAnimal,
		"take_root": engine.TakeRoot, "bloodlust": engine.Bloodlust,
		"secret_weapon": engine.SecretWeapon, "foul_appearance": engine.FoulAppearance,
		"stab": engine.Stab, "chainsaw": engine.Chainsaw, "throw_teammate": engine.ThrowTeammate,
		"always_hungry": engine.AlwaysHungry, "ball_and_chain": engine.BallAndChain,
		"hypnotic_gaze": engine.HypnoticGaze, "decay": engine.Decay, "stakes": engine.Stakes,
	}
	return names
}

// Load reads a roster from path, sniffing .yaml/.yml vs .json by extension.
func Load(path string) (engine.RosterDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.RosterDef{}, fmt.Errorf("roster: read %s: %w", path, err)
	}

	var def Def
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &def); err != nil {
			return engine.RosterDef{}, fmt.Errorf("roster: parse yaml %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &def); err != nil {
			return engine.RosterDef{}, fmt.Errorf("roster: parse json %s: %w", path, err)
		}
	default:
		return engine.RosterDef{}, fmt.Errorf("roster: unsupported extension %q", ext)
	}

	return toRosterDef(def), nil
}

func toRosterDef(def Def) engine.RosterDef {
	out := engine.RosterDef{Name: def.Name, Race: def.Race}
	for _, e := range def.Entries {
		var skills []engine.Skill
		for _, name := range e.Skills {
			if sk, ok := skillAliases[name]; ok {
				skills = append(skills, sk)
			}
		}
		out.Entries = append(out.Entries, engine.RosterEntry{
			Name: e.Name, Count: e.Count, MA: e.MA, ST: e.ST, AG: e.AG, AV: e.AV,
			Skills: skills, Race: def.Race,
		})
	}
	return out
}

// Builtin returns a small, dependency-free roster usable as the harness's
// default when no --home-roster/--away-roster file is supplied: eight
// generic linemen plus one each of a blocker, a runner, and a thrower,
// eleven players in all.
func Builtin(name string) engine.RosterDef {
	return engine.RosterDef{
		Name: name,
		Race: "human",
		Entries: []engine.RosterEntry{
			{Name: "Lineman", Count: 8, MA: 6, ST: 3, AG: 3, AV: 8},
			{Name: "Blitzer", Count: 1, MA: 7, ST: 3, AG: 3, AV: 8, Skills: []engine.Skill{engine.Block}},
			{Name: "Catcher", Count: 1, MA: 8, ST: 2, AG: 4, AV: 7, Skills: []engine.Skill{engine.Catch}},
			{Name: "Thrower", Count: 1, MA: 6, ST: 3, AG: 4, AV: 8, Skills: []engine.Skill{engine.Pass}},
		},
	}
}
