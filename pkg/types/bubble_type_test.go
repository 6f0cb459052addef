package types

import "testing"

func TestBubbleType_NextFormsStrictChain(t *testing.T) {
	visited := map[BubbleType]bool{}
	current := BubbleTiny
	steps := 0
	for {
		if visited[current] {
			t.Fatalf("cycle detected at %v", current)
		}
		visited[current] = true
		next, ok := current.Next()
		if !ok {
			break
		}
		if next != current+1 {
			t.Errorf("%v.Next(): got %v, want %v", current, next, current+1)
		}
		current = next
		steps++
	}

	if current != BubbleUltraBig {
		t.Errorf("chain should end at UltraBig, ended at %v", current)
	}
	if steps != 8 {
		t.Errorf("chain length: got %d steps, want 8", steps)
	}
}

func TestBubbleType_Launchable(t *testing.T) {
	tests := []struct {
		bubble BubbleType
		want   bool
	}{
		{BubbleTiny, true},
		{BubbleSmall, true},
		{BubbleMedium, true},
		{BubbleLarge, true},
		{BubbleHuge, true},
		{BubbleGiant, false},
		{BubbleMega, false},
		{BubbleSuperBig, false},
		{BubbleUltraBig, false},
		{BubbleUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.bubble.String(), func(t *testing.T) {
			if got := tt.bubble.IsLaunchable(); got != tt.want {
				t.Errorf("IsLaunchable(): got %v, want %v", got, tt.want)
			}
		})
	}

	if got := len(LaunchableBubbleTypes()); got != 5 {
		t.Errorf("launchable count: got %d, want 5", got)
	}
}

func TestBubbleType_InvalidHasNoSuccessor(t *testing.T) {
	for _, b := range []BubbleType{BubbleUnknown, BubbleUltraBig, BubbleType(42)} {
		if _, ok := b.Next(); ok {
			t.Errorf("%d should not have a successor", int(b))
		}
	}
}

func TestParseBubbleType_RoundTripsNames(t *testing.T) {
	for _, b := range AllBubbleTypes() {
		parsed, ok := ParseBubbleType(b.String())
		if !ok || parsed != b {
			t.Errorf("ParseBubbleType(%q): got %v/%v", b.String(), parsed, ok)
		}
	}
	if _, ok := ParseBubbleType("Gigantic"); ok {
		t.Error("unknown names must not parse")
	}
}
