package markers

import "testing"

func TestTokenize_SingleField(t *testing.T) {
	input := "<!-- FIELD:description -->\nA great ride.\n<!-- /FIELD:description -->\n"
	blocks := Tokenize(input)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0].Kind != KindField || blocks[0].Name != "description" {
		t.Fatalf("unexpected block: %+v", blocks[0])
	}
	if blocks[0].Body != "A great ride." {
		t.Fatalf("unexpected body: %q", blocks[0].Body)
	}
}

func TestTokenize_Unterminated_Dropped(t *testing.T) {
	input := "<!-- FIELD:description -->\nsome text\n"
	blocks := Tokenize(input)
	if len(blocks) != 0 {
		t.Fatalf("expected 0 blocks for unterminated marker, got %d", len(blocks))
	}
}

func TestTokenize_MismatchedClose_Dropped(t *testing.T) {
	input := "<!-- FIELD:description -->\ntext\n<!-- /FIELD:terrain -->\n"
	blocks := Tokenize(input)
	if len(blocks) != 0 {
		t.Fatalf("expected 0 blocks for mismatched close, got %d", len(blocks))
	}
}

func TestTokenize_OpenInsideOpen_KeepsLatest(t *testing.T) {
	input := "<!-- FIELD:terrain -->\nlost\n<!-- FIELD:altitude -->\n6000ft\n<!-- /FIELD:altitude -->\n"
	blocks := Tokenize(input)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0].Name != "altitude" || blocks[0].Body != "6000ft" {
		t.Fatalf("unexpected block: %+v", blocks[0])
	}
}

func TestTokenize_DayBlock(t *testing.T) {
	input := "<!-- ITINERARY_DAY:3 -->\n**Miles:** 20\n<!-- /ITINERARY_DAY:3 -->\n"
	blocks := Tokenize(input)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0].Kind != KindDay || blocks[0].Day != 3 {
		t.Fatalf("unexpected block: %+v", blocks[0])
	}
}

func TestTokenize_DayZero_Ignored(t *testing.T) {
	input := "<!-- ITINERARY_DAY:0 -->\ntext\n<!-- /ITINERARY_DAY:0 -->\n"
	blocks := Tokenize(input)
	if len(blocks) != 0 {
		t.Fatalf("day numbers must be positive, got %d blocks", len(blocks))
	}
}

func TestTokenize_SystemSection(t *testing.T) {
	input := "<!-- ARCTIC_SYNC:pricing -->\n- **Per Person:** $125\n<!-- /ARCTIC_SYNC -->\n"
	blocks := Tokenize(input)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0].Kind != KindSystem || blocks[0].Name != "pricing" {
		t.Fatalf("unexpected block: %+v", blocks[0])
	}
}

func TestTokenize_InterleavedKinds(t *testing.T) {
	input := "prose\n" +
		"<!-- FIELD:terrain -->\nSlickrock\n<!-- /FIELD:terrain -->\n" +
		"more prose\n" +
		"<!-- ITINERARY_DAY:1 -->\nDay one.\n<!-- /ITINERARY_DAY:1 -->\n" +
		"<!-- ARCTIC_SYNC:details -->\n| a | b |\n<!-- /ARCTIC_SYNC -->\n"
	blocks := Tokenize(input)
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
	if blocks[0].Kind != KindField || blocks[1].Kind != KindDay || blocks[2].Kind != KindSystem {
		t.Fatalf("unexpected kinds: %+v", blocks)
	}
}

func TestTokenize_ExtraWhitespaceInMarker(t *testing.T) {
	input := "<!--  FIELD:description  -->\nvalue\n<!-- /FIELD:description -->\n"
	blocks := Tokenize(input)
	if len(blocks) != 1 {
		t.Fatalf("expected whitespace-tolerant match, got %d blocks", len(blocks))
	}
}

func TestTokenize_EmptyAndGarbageInput(t *testing.T) {
	for _, input := range []string{"", "\n\n", "no markers here", "<!-- FIELD: -->", "<!-- /ARCTIC_SYNC -->"} {
		if blocks := Tokenize(input); len(blocks) != 0 {
			t.Fatalf("input %q: expected 0 blocks, got %d", input, len(blocks))
		}
	}
}

func TestHasMarkers(t *testing.T) {
	if HasMarkers("just some legacy prose") {
		t.Fatal("plain prose should not count as marked")
	}
	if !HasMarkers("<!-- TOURSYNC:v2 -->\nanything") {
		t.Fatal("version marker should count as marked")
	}
	if !HasMarkers("<!-- FIELD:terrain -->\nx\n<!-- /FIELD:terrain -->") {
		t.Fatal("well-formed field block should count as marked")
	}
	if HasMarkers("<!-- FIELD:terrain -->\nunterminated") {
		t.Fatal("unterminated field block alone should not count as marked")
	}
}
