package catalog

import (
	"strings"
	"testing"

	"github.com/codequest-gg/gameserver/internal/runner"
	"github.com/codequest-gg/gameserver/internal/sandbox"
)

const shippedCatalogPath = "../../catalog/challenges.json"

func TestLoadShippedCatalog(t *testing.T) {
	c, err := LoadFile(shippedCatalogPath)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if c.Len() == 0 {
		t.Fatal("expected a non-empty catalog")
	}

	challenge, ok := c.Get("sum-two-numbers")
	if !ok {
		t.Fatal("expected sum-two-numbers to exist")
	}
	if len(challenge.TestCases) != 3 {
		t.Fatalf("expected 3 test cases, got %d", len(challenge.TestCases))
	}
	if challenge.MaxScore != 150 {
		t.Fatalf("expected max score 150, got %d", challenge.MaxScore)
	}
}

func TestGetUnknownID(t *testing.T) {
	c, err := LoadFile(shippedCatalogPath)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if _, ok := c.Get("nonexistent-id"); ok {
		t.Fatal("expected lookup miss for unknown id")
	}
}

func TestLoadRejectsInvalidCatalogs(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"duplicate ids", `[
			{"id":"a","title":"A","difficulty":"beginner","starter_code":"function f() {}","solution":"function f() { return 1 }","max_score":10,"test_cases":[{"id":"t1","input":[],"expected_output":1}]},
			{"id":"a","title":"A2","difficulty":"beginner","starter_code":"function f() {}","solution":"function f() { return 1 }","max_score":10,"test_cases":[{"id":"t1","input":[],"expected_output":1}]}
		]`},
		{"no test cases", `[
			{"id":"a","title":"A","difficulty":"beginner","starter_code":"function f() {}","solution":"function f() { return 1 }","max_score":10,"test_cases":[]}
		]`},
		{"unknown difficulty", `[
			{"id":"a","title":"A","difficulty":"impossible","starter_code":"function f() {}","solution":"function f() { return 1 }","max_score":10,"test_cases":[{"id":"t1","input":[],"expected_output":1}]}
		]`},
		{"zero max score", `[
			{"id":"a","title":"A","difficulty":"beginner","starter_code":"function f() {}","solution":"function f() { return 1 }","max_score":0,"test_cases":[{"id":"t1","input":[],"expected_output":1}]}
		]`},
		{"duplicate case ids", `[
			{"id":"a","title":"A","difficulty":"beginner","starter_code":"function f() {}","solution":"function f() { return 1 }","max_score":10,"test_cases":[{"id":"t1","input":[],"expected_output":1},{"id":"t1","input":[],"expected_output":2}]}
		]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(tc.doc)); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestAvailableForGatesByLevel(t *testing.T) {
	c, err := LoadFile(shippedCatalogPath)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	for _, challenge := range c.AvailableFor(1) {
		if challenge.Difficulty != "beginner" {
			t.Fatalf("level 1 player offered %q challenge %q", challenge.Difficulty, challenge.ID)
		}
	}

	if got, want := len(c.AvailableFor(5)), c.Len(); got != want {
		t.Fatalf("level 5 player should see all %d challenges, got %d", want, got)
	}

	if got := len(c.AvailableFor(3)); got <= len(c.AvailableFor(1)) {
		t.Fatalf("level 3 should unlock more than level 1, got %d", got)
	}
}

// Every reference solution must pass its own test cases.
func TestReferenceSolutionsPassAllCases(t *testing.T) {
	c, err := LoadFile(shippedCatalogPath)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	r := runner.New(sandbox.New(0))
	for _, challenge := range c.List() {
		results, err := r.Run(challenge, challenge.Solution)
		if err != nil {
			t.Fatalf("%s: Run: %v", challenge.ID, err)
		}
		if len(results) != len(challenge.TestCases) {
			t.Fatalf("%s: expected %d results, got %d", challenge.ID, len(challenge.TestCases), len(results))
		}
		for i, result := range results {
			if !result.Passed {
				t.Fatalf("%s case %d (%s) failed: %q", challenge.ID, i, result.TestCaseID, result.Error)
			}
		}
	}
}
