package engine

import "github.com/bits-and-blooms/bitset"

// Skill is a member of the closed skill enumeration spec.md's Design Notes
// require in place of free-form strings. Membership tests are O(1) via a
// bitset rather than a string-set scan.
type Skill uint

const (
	Block Skill = iota
	Dodge
	Tackle
	Wrestle
	Guard
	MightyBlow
	Claw
	PilingOn
	Juggernaut
	StandFirm
	SideStep
	Grab
	Frenzy
	Fend
	StripBall
	SureHands
	BigHand
	NoHands
	Stunty
	TwoHeads
	Titchy
	Sprint
	SureFeet
	Leap
	DivingTackle
	Shadowing
	Tentacles
	ProSkill
	Loner
	DirtyPlayer
	SneakyGit
	Regeneration
	ApothecaryTeam
	SafeThrow
	NervesOfSteel
	StrongArm
	Accurate
	Pass
	Catch
	Kick
	CheeringFans
	BrilliantCoaching
	BoneHead
	ReallyStupid
	WildAnimal
	TakeRoot
	Bloodlust
	SecretWeapon
	FoulAppearance
	Stab
	Chainsaw
	ThrowTeammate
	AlwaysHungry
	BallAndChain
	HypnoticGaze
	Decay
	Stakes

	skillCount
)

// SkillSet is a fixed-width bitset over the Skill enumeration, appended to
// but never removed from for the lifetime of a match (spec.md §3's
// append-only invariant).
type SkillSet struct {
	bits *bitset.BitSet
}

// NewSkillSet builds an empty set sized for the full enumeration.
func NewSkillSet() SkillSet {
	return SkillSet{bits: bitset.New(uint(skillCount))}
}

// Has reports skill membership in O(1).
func (s SkillSet) Has(sk Skill) bool {
	if s.bits == nil {
		return false
	}
	return s.bits.Test(uint(sk))
}

// With returns a copy of s with sk added, preserving value semantics for
// the caller's original set.
func (s SkillSet) With(sk Skill) SkillSet {
	var next *bitset.BitSet
	if s.bits == nil {
		next = bitset.New(uint(skillCount))
	} else {
		next = s.bits.Clone()
	}
	next.Set(uint(sk))
	return SkillSet{bits: next}
}

// Clone deep-copies the underlying bitset.
func (s SkillSet) Clone() SkillSet {
	if s.bits == nil {
		return NewSkillSet()
	}
	return SkillSet{bits: s.bits.Clone()}
}

// BigGuySkill reports whether sk is one of the pre-action-check skills
// spec.md §4.9 names (Bone-head, Really Stupid, Wild Animal, Take Root,
// Bloodlust).
func BigGuySkill(sk Skill) bool {
	switch sk {
	case BoneHead, ReallyStupid, WildAnimal, TakeRoot, Bloodlust:
		return true
	default:
		return false
	}
}
