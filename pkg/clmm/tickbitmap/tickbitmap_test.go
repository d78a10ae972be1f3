package tickbitmap

import "testing"

type memStore map[int16][4]uint64

func (m memStore) Word(wordPos int16) [4]uint64 {
	return m[wordPos]
}

func (m memStore) SetWord(wordPos int16, word [4]uint64) {
	m[wordPos] = word
}

func newMemStore() memStore {
	return make(memStore)
}

func TestFlipTickTogglesBit(t *testing.T) {
	store := newMemStore()
	const spacing = 60

	FlipTick(store, 120, spacing)
	_, bitPos := Position(120 / spacing)
	word := store.Word(0)
	limb, bit := bitPos/64, bitPos%64
	if word[limb]&(1<<bit) == 0 {
		t.Fatal("expected bit to be set after first flip")
	}

	FlipTick(store, 120, spacing)
	word = store.Word(0)
	if word[limb]&(1<<bit) != 0 {
		t.Fatal("expected bit to be cleared after second flip")
	}
}

func TestFlipTickRejectsMisalignedTick(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for tick not aligned to spacing")
		}
	}()
	FlipTick(newMemStore(), 121, 60)
}

func TestNextInitializedTickWithinOneWordLTEFindsSelf(t *testing.T) {
	store := newMemStore()
	const spacing = 1
	FlipTick(store, 100, spacing)

	next, init := NextInitializedTickWithinOneWord(store, 100, spacing, true)
	if !init || next != 100 {
		t.Errorf("got (%d, %v), want (100, true)", next, init)
	}
}

func TestNextInitializedTickWithinOneWordLTESearchesLeft(t *testing.T) {
	store := newMemStore()
	const spacing = 1
	FlipTick(store, 50, spacing)

	next, init := NextInitializedTickWithinOneWord(store, 100, spacing, true)
	if !init || next != 50 {
		t.Errorf("got (%d, %v), want (50, true)", next, init)
	}
}

func TestNextInitializedTickWithinOneWordGTESearchesRight(t *testing.T) {
	store := newMemStore()
	const spacing = 1
	FlipTick(store, 150, spacing)

	next, init := NextInitializedTickWithinOneWord(store, 100, spacing, false)
	if !init || next != 150 {
		t.Errorf("got (%d, %v), want (150, true)", next, init)
	}
}

func TestNextInitializedTickWithinOneWordNotFoundStaysInWord(t *testing.T) {
	store := newMemStore()
	const spacing = 1

	next, init := NextInitializedTickWithinOneWord(store, 10, spacing, true)
	if init {
		t.Fatal("expected nothing initialized in an empty word")
	}
	wordPos, _ := Position(10 / spacing)
	if next != int32(wordPos)*256*spacing {
		t.Errorf("boundary tick %d not at word floor", next)
	}
}

func TestNextInitializedTickWithinOneWordGTENotFoundReturnsWordCeiling(t *testing.T) {
	store := newMemStore()
	const spacing = 1

	next, init := NextInitializedTickWithinOneWord(store, 10, spacing, false)
	if init {
		t.Fatal("expected nothing initialized in an empty word")
	}
	wordPos, _ := Position(10/spacing + 1)
	want := (int32(wordPos)*256 + 255) * spacing
	if next != want {
		t.Errorf("got %d, want %d", next, want)
	}
}
