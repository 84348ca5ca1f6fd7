package geometry

import "testing"

func TestDistanceChebyshev(t *testing.T) {
	cases := []struct {
		a, b Position
		want int
	}{
		{Position{0, 0}, Position{0, 0}, 0},
		{Position{0, 0}, Position{3, 0}, 3},
		{Position{0, 0}, Position{0, 4}, 4},
		{Position{0, 0}, Position{3, 4}, 4},
		{Position{5, 5}, Position{6, 6}, 1},
	}
	for _, c := range cases {
		if got := Distance(c.a, c.b); got != c.want {
			t.Fatalf("Distance(%v, %v) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestIsAdjacentDiagonal(t *testing.T) {
	center := Position{10, 7}
	for _, n := range Adjacent(center) {
		if !IsAdjacent(center, n) {
			t.Fatalf("%v should be adjacent to %v", n, center)
		}
	}
	if IsAdjacent(center, center) {
		t.Fatal("a cell is not adjacent to itself")
	}
	if IsAdjacent(center, Position{12, 7}) {
		t.Fatal("two cells apart should not be adjacent")
	}
}

func TestAdjacentClampsAtEdges(t *testing.T) {
	corner := Position{0, 0}
	neighbours := Adjacent(corner)
	if len(neighbours) != 3 {
		t.Fatalf("corner cell should have 3 on-pitch neighbours, got %d", len(neighbours))
	}
	for _, n := range neighbours {
		if !IsOnPitch(n) {
			t.Fatalf("neighbour %v of corner must be on pitch", n)
		}
	}
}

func TestIsEndzonePerSide(t *testing.T) {
	if !IsEndzone(Position{PitchWidth - 1, 7}, Home) {
		t.Fatal("home endzone is the far column")
	}
	if IsEndzone(Position{0, 7}, Home) {
		t.Fatal("home must not score in its own endzone")
	}
	if !IsEndzone(Position{0, 7}, Away) {
		t.Fatal("away endzone is column 0")
	}
}

func TestIsWideZoneBands(t *testing.T) {
	if !IsWideZone(Position{10, 0}) || !IsWideZone(Position{10, 3}) {
		t.Fatal("rows 0-3 are wide zone")
	}
	if !IsWideZone(Position{10, 11}) || !IsWideZone(Position{10, 14}) {
		t.Fatal("rows 11-14 are wide zone")
	}
	if IsWideZone(Position{10, 7}) {
		t.Fatal("row 7 is not wide zone")
	}
}

func TestScatterDirectionOrder(t *testing.T) {
	origin := Position{10, 7}
	want := map[int]Position{
		1: {11, 6}, // NE
		2: {11, 7}, // E
		3: {11, 8}, // SE
		4: {10, 8}, // S
		5: {9, 8},  // SW
		6: {9, 7},  // W
		7: {9, 6},  // NW
		8: {10, 6}, // N
	}
	for roll, expect := range want {
		if got := Scatter(origin, roll); got != expect {
			t.Fatalf("Scatter(roll=%d) = %v, want %v", roll, got, expect)
		}
	}
}

func TestLessRowMajorOrder(t *testing.T) {
	if !Less(Position{5, 1}, Position{0, 2}) {
		t.Fatal("earlier row must sort first regardless of column")
	}
	if !Less(Position{1, 3}, Position{2, 3}) {
		t.Fatal("same row breaks tie on column")
	}
}

func TestNearestSidelineCellClamps(t *testing.T) {
	got := NearestSidelineCell(Position{-2, 20})
	want := Position{0, PitchHeight - 1}
	if got != want {
		t.Fatalf("NearestSidelineCell = %v, want %v", got, want)
	}
}
