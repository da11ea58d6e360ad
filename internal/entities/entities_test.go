package entities

import (
	"testing"

	"github.com/vovakirdan/gridworld/internal/core"
	"github.com/vovakirdan/gridworld/internal/registry"
	"github.com/vovakirdan/gridworld/internal/world"
)

// swimmer is a mortal that may cross water.
type swimmer struct {
	world.Base
	dead bool
}

func (s *swimmer) Traits() world.Traits { return world.Traits{Swims: true} }
func (s *swimmer) Kill(*world.State)     { s.dead = true }

func put(t *testing.T, g *world.Grid[world.Entity], c world.Coord, e world.Entity) {
	t.Helper()
	if err := g.Set(c, e); err != nil {
		t.Fatalf("Set(%v) failed: %v", c, err)
	}
}

func at(t *testing.T, s *world.State, c world.Coord) world.Entity {
	t.Helper()
	e, _, err := s.Objects.Lookup(c)
	if err != nil {
		t.Fatalf("Lookup(%v) failed: %v", c, err)
	}
	return e
}

func TestAgentStarves(t *testing.T) {
	s := world.NewState(3, 3, &Field{}, 1)
	a, err := NewAgent(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	put(t, s.Objects, world.C(1, 1), a)

	sig, err := a.Act(s, world.C(1, 1))
	if err != nil {
		t.Fatalf("Act() failed: %v", err)
	}
	if sig != world.Terminate {
		t.Errorf("Act() = %v, expected Terminate", sig)
	}
	if s.Reward != DeathPenalty {
		t.Errorf("Reward = %v, expected %v", s.Reward, DeathPenalty)
	}
	if a.Alive() {
		t.Error("agent should be dead")
	}
	if at(t, s, world.C(1, 1)) != a {
		t.Error("a starving agent should not move")
	}
}

func TestAgentWandersAndTracksFocus(t *testing.T) {
	s := world.NewState(3, 3, &Field{}, 42)
	a, err := NewAgent(3, 0)
	if err != nil {
		t.Fatal(err)
	}
	put(t, s.Objects, world.C(1, 1), a)
	s.Focus = world.C(1, 1)

	sig, err := a.Act(s, world.C(1, 1))
	if err != nil || sig != world.Continue {
		t.Fatalf("Act() = %v, %v; expected Continue, nil", sig, err)
	}
	if s.Objects.Len() != 1 {
		t.Fatalf("Objects.Len() = %d, expected 1", s.Objects.Len())
	}
	for c, e := range s.Objects.All() {
		if e != a {
			t.Fatalf("unexpected occupant at %v", c)
		}
		if c.Manhattan(world.C(1, 1)) != 1 {
			t.Errorf("agent moved to %v, expected a neighbor of (1,1)", c)
		}
		if s.Focus != c {
			t.Errorf("Focus = %v, expected %v", s.Focus, c)
		}
	}
	if a.Energy != 3 {
		t.Errorf("Energy = %d, expected 3 with zero metabolism", a.Energy)
	}
}

func TestMonsterKillsAgent(t *testing.T) {
	s := world.NewState(4, 1, nil, 1)
	m, err := NewMonster(1)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := NewAgent(3, 0)
	put(t, s.Objects, world.C(0, 0), m)
	put(t, s.Objects, world.C(1, 0), a)
	s.Focus = world.C(1, 0)

	if _, err := m.Act(s, world.C(0, 0)); err != nil {
		t.Fatalf("Act() failed: %v", err)
	}
	if a.Alive() {
		t.Error("agent should have been killed")
	}
	if !s.Terminal {
		t.Error("killing the agent should end the episode")
	}
	if s.Reward != DeathPenalty {
		t.Errorf("Reward = %v, expected %v", s.Reward, DeathPenalty)
	}
	if at(t, s, world.C(0, 0)) != m || at(t, s, world.C(1, 0)) != a {
		t.Error("neither entity should have moved")
	}
}

func TestMonsterChasesAlongLongerAxis(t *testing.T) {
	tests := []struct {
		name     string
		focus    world.Coord
		expected world.Coord
	}{
		{"horizontal", world.C(4, 3), world.C(3, 2)},
		{"vertical", world.C(2, 0), world.C(2, 1)},
		{"tie prefers vertical", world.C(4, 4), world.C(2, 3)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := world.NewState(5, 5, nil, 1)
			m, _ := NewMonster(1)
			put(t, s.Objects, world.C(2, 2), m)
			s.Focus = tc.focus

			if _, err := m.Act(s, world.C(2, 2)); err != nil {
				t.Fatalf("Act() failed: %v", err)
			}
			if at(t, s, tc.expected) != m {
				t.Errorf("monster should be at %v", tc.expected)
			}
		})
	}
}

func TestAgentDrowns(t *testing.T) {
	s := world.NewState(3, 1, nil, 1)
	a, _ := NewAgent(3, 0)
	put(t, s.Objects, world.C(0, 0), a)
	put(t, s.Tiles, world.C(1, 0), &Water{})

	if s.Move(world.C(0, 0), world.C(2, 0)) {
		t.Error("agent should not cross water")
	}
	if a.Alive() || !s.Terminal {
		t.Error("agent should have drowned and ended the episode")
	}
	if s.Reward != DeathPenalty {
		t.Errorf("Reward = %v, expected %v", s.Reward, DeathPenalty)
	}
	if at(t, s, world.C(0, 0)) != a {
		t.Error("drowned agent stays where it was")
	}
}

func TestSwimmerCrossesWater(t *testing.T) {
	s := world.NewState(3, 1, nil, 1)
	sw := &swimmer{}
	put(t, s.Objects, world.C(0, 0), sw)
	put(t, s.Tiles, world.C(1, 0), &Water{})

	if !s.Move(world.C(0, 0), world.C(2, 0)) {
		t.Error("swimmer should cross water")
	}
	if sw.dead || s.Reward != 0 {
		t.Error("swimmer should be unharmed")
	}
}

func TestFieldKeepsWildOut(t *testing.T) {
	s := world.NewState(2, 2, &Field{}, 1)
	m, _ := NewMonster(0)
	a, _ := NewAgent(3, 0)
	put(t, s.Objects, world.C(0, 0), m)
	put(t, s.Objects, world.C(0, 1), a)

	if s.Move(world.C(0, 0), world.C(1, 0)) {
		t.Error("monster should not enter a field")
	}
	if !s.Move(world.C(0, 1), world.C(1, 1)) {
		t.Error("agent should cross a field")
	}
}

func TestKitKatRewardsForagers(t *testing.T) {
	s := world.NewState(3, 1, nil, 1)
	a, _ := NewAgent(3, 0)
	put(t, s.Objects, world.C(0, 0), a)
	put(t, s.Objects, world.C(2, 0), &KitKat{Deliciousness: 100})

	if !s.Move(world.C(0, 0), world.C(2, 0)) {
		t.Fatal("agent should reach the kitkat")
	}
	if s.Reward != 100 {
		t.Errorf("Reward = %v, expected 100", s.Reward)
	}
	if at(t, s, world.C(2, 0)) != a || s.Objects.Len() != 1 {
		t.Error("the kitkat should have been eaten")
	}
}

func TestKitKatIgnoresNonForagers(t *testing.T) {
	s := world.NewState(2, 1, nil, 1)
	m, _ := NewMonster(0)
	put(t, s.Objects, world.C(0, 0), m)
	put(t, s.Objects, world.C(1, 0), &KitKat{Deliciousness: 100})

	if !s.Move(world.C(0, 0), world.C(1, 0)) {
		t.Fatal("monster should be able to step on the kitkat")
	}
	if s.Reward != 0 {
		t.Errorf("Reward = %v, expected 0", s.Reward)
	}
}

func TestWallAndForest(t *testing.T) {
	s := world.NewState(3, 1, nil, 1)
	a, _ := NewAgent(3, 0)
	put(t, s.Objects, world.C(0, 0), a)
	put(t, s.Tiles, world.C(1, 0), &Forest{})
	put(t, s.Tiles, world.C(2, 0), &Wall{})

	if s.Move(world.C(0, 0), world.C(2, 0)) {
		t.Error("wall should block")
	}
	if !s.Move(world.C(0, 0), world.C(1, 0)) {
		t.Error("forest should be passable")
	}
}

func TestAgentGlyph(t *testing.T) {
	a, _ := NewAgent(3, 0)

	tests := []struct {
		energy int
		r      rune
		color  core.Color
	}{
		{3, '@', core.ColorBrightGreen},
		{2, '@', core.ColorYellow},
		{1, '@', core.ColorOrange},
		{0, 'x', core.ColorRed},
	}
	for _, tc := range tests {
		a.Energy = tc.energy
		g := a.Glyph()
		if g.Rune != tc.r || g.Color != tc.color {
			t.Errorf("Glyph() at energy %d = %v, expected %q/%v", tc.energy, g, tc.r, tc.color)
		}
	}
}

func TestRegisteredKinds(t *testing.T) {
	for _, kind := range []string{"agent", "monster", "kitkat", "water", "forest", "field", "wall"} {
		if !registry.Exists(kind) {
			t.Errorf("kind %q not registered", kind)
		}
	}

	e, err := registry.Create("agent", registry.Params{"energy": 5, "metabolism": 0.2})
	if err != nil {
		t.Fatalf("Create(agent) failed: %v", err)
	}
	a := e.(*Agent)
	if a.Energy != 5 || a.MaxEnergy != 5 || a.Metabolism != 0.2 {
		t.Errorf("agent = %+v, expected energy 5 metabolism 0.2", a)
	}

	if _, err := registry.Create("agent", registry.Params{"metabolism": 2}); err == nil {
		t.Error("metabolism out of range should fail")
	}
	if _, err := registry.Create("monster", registry.Params{"intelligence": -1}); err == nil {
		t.Error("intelligence out of range should fail")
	}

	e, err = registry.Create("kitkat", nil)
	if err != nil {
		t.Fatalf("Create(kitkat) failed: %v", err)
	}
	if k := e.(*KitKat); k.Deliciousness != DefaultDeliciousness {
		t.Errorf("Deliciousness = %v, expected %v", k.Deliciousness, DefaultDeliciousness)
	}
}
