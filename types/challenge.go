package types

// Difficulty tiers a challenge can be authored at.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// DifficultyRank maps a difficulty tier to the minimum player level
// required to attempt challenges of that tier.
var DifficultyRank = map[string]int{
	DifficultyBeginner:     1,
	DifficultyIntermediate: 3,
	DifficultyAdvanced:     5,
}

// Challenge represents a single coding problem in the catalog.
// Challenges are authored once and read-only for the lifetime of the
// process.
type Challenge struct {
	// ID is the unique slug identifying the challenge (e.g. "sum-two-numbers").
	ID string `json:"id" db:"id"`

	// Title is the human-readable name of the challenge.
	Title string `json:"title" db:"title"`

	// Description is a one-line summary shown in the catalog listing.
	Description string `json:"description" db:"description"`

	// Difficulty is the tier of the challenge: one of "beginner",
	// "intermediate" or "advanced".
	Difficulty string `json:"difficulty" db:"difficulty"`

	// Category is a free-form tag used for filtering (e.g. "functions",
	// "arrays", "algorithms").
	Category string `json:"category" db:"category"`

	// Instructions contains the full problem statement presented to the
	// player, including the required function name.
	Instructions string `json:"instructions" db:"instructions"`

	// StarterCode is the source text a fresh session is seeded with.
	StarterCode string `json:"starter_code" db:"starter_code"`

	// Solution is the reference solution. It must pass every test case
	// and is never exposed through the API.
	Solution string `json:"solution,omitempty" db:"solution"`

	// TestCases is the ordered list of cases a submission is evaluated
	// against. Results preserve this order.
	TestCases []TestCase `json:"test_cases" db:"test_cases"`

	// Hints are revealed to the player strictly in declaration order.
	Hints []string `json:"hints,omitempty" db:"hints"`

	// MaxScore is the score awarded for a perfect, hint-free submission.
	MaxScore int `json:"max_score" db:"max_score"`

	// TimeLimit is the wall-clock budget for the whole attempt in
	// seconds. Zero means the challenge is untimed.
	TimeLimit int `json:"time_limit,omitempty" db:"time_limit"`
}

// TestCase represents a single input/expected-output pair used to
// evaluate a submission.
type TestCase struct {
	// ID is the identifier of the test case, unique within its challenge.
	ID string `json:"id" db:"id"`

	// Input is the ordered argument list passed positionally to the
	// submitted function. Values are arbitrary JSON shapes.
	Input []any `json:"input" db:"input"`

	// ExpectedOutput is the value a correct solution returns, compared
	// by deep value equality.
	ExpectedOutput any `json:"expected_output" db:"expected_output"`

	// Description is the human-readable label shown next to the result.
	Description string `json:"description" db:"description"`

	// IsHidden marks cases whose expected and actual values are
	// suppressed from player-facing results. Hidden cases still count
	// toward pass/fail.
	IsHidden bool `json:"is_hidden,omitempty" db:"is_hidden"`
}

// MinLevel returns the player level required to attempt the challenge.
// Unknown difficulty tiers gate at level 1.
func (c Challenge) MinLevel() int {
	if rank, ok := DifficultyRank[c.Difficulty]; ok {
		return rank
	}
	return 1
}
