package marias

// Contract is the declared objective of a round (the bid ladder outcome)
type Contract string

// contracts
const (
	ContractGame         Contract = "GAME"
	ContractSeven        Contract = "SEVEN"
	ContractHundred      Contract = "HUNDRED"
	ContractHundredSeven Contract = "HUNDRED_SEVEN"
	ContractMisere       Contract = "MISERE"
	ContractSlam         Contract = "SLAM"
	ContractTwoSevens    Contract = "TWO_SEVENS"
)

// Goal is the card-play objective of a contract
type Goal int

// goals
const (
	// GoalNone means only the seven requirement decides the contract
	GoalNone Goal = iota
	// GoalPoints requires the declarer to take strictly more than half of the points
	GoalPoints
	// GoalHundred requires the declarer to take at least 100 points
	GoalHundred
	// GoalNoTricks requires the declarer to take no trick at all
	GoalNoTricks
	// GoalAllTricks requires the declarer to take every trick
	GoalAllTricks
)

// ContractSpec describes how a contract is played and scored
type ContractSpec struct {
	Name          string `json:"name" yaml:"name"`
	BaseValue     int    `json:"baseValue" yaml:"baseValue"`
	RequiresTrump bool   `json:"requiresTrump" yaml:"requiresTrump"`
	Goal          Goal   `json:"goal" yaml:"goal"`
	// Sevens is the number of final tricks the declarer must win, the last one with the trump seven
	Sevens int `json:"sevens" yaml:"sevens"`
	// ForbidAceTenDiscard forbids discarding an Ace or a Ten to the talon
	ForbidAceTenDiscard bool `json:"forbidAceTenDiscard" yaml:"forbidAceTenDiscard"`
}

// Options are the rules a game is played with
type Options struct {
	// TwoPhaseDeal is used when a deal action does not say which mode to use
	TwoPhaseDeal bool
	// PreviewCards is how many cards the chooser sees before deciding on trump
	PreviewCards int
	// Contracts is the contract table
	Contracts map[Contract]ContractSpec
	// Ladder orders contracts from weakest to strongest for bidding. The first entry is the base contract.
	Ladder []Contract
	// MarriagePoints is the bonus for a declared marriage, doubled in the trump suit
	MarriagePoints int
	// ScoreMarriages adds declared marriages to the round points
	ScoreMarriages bool
}

// DefaultContracts returns the default contract table
func DefaultContracts() map[Contract]ContractSpec {
	return map[Contract]ContractSpec{
		ContractGame:         {Name: "Game", BaseValue: 1, RequiresTrump: true, Goal: GoalPoints, ForbidAceTenDiscard: true},
		ContractSeven:        {Name: "Seven", BaseValue: 2, RequiresTrump: true, Goal: GoalNone, Sevens: 1, ForbidAceTenDiscard: true},
		ContractHundred:      {Name: "Hundred", BaseValue: 4, RequiresTrump: true, Goal: GoalHundred, ForbidAceTenDiscard: true},
		ContractHundredSeven: {Name: "Hundred-Seven", BaseValue: 6, RequiresTrump: true, Goal: GoalHundred, Sevens: 1, ForbidAceTenDiscard: true},
		ContractMisere:       {Name: "Misere", BaseValue: 5, RequiresTrump: false, Goal: GoalNoTricks},
		ContractSlam:         {Name: "Slam", BaseValue: 6, RequiresTrump: false, Goal: GoalAllTricks},
		ContractTwoSevens:    {Name: "Two Sevens", BaseValue: 8, RequiresTrump: true, Goal: GoalNone, Sevens: 2, ForbidAceTenDiscard: true},
	}
}

// DefaultLadder returns the default bidding order, weakest first
func DefaultLadder() []Contract {
	return []Contract{
		ContractGame,
		ContractSeven,
		ContractHundred,
		ContractHundredSeven,
		ContractMisere,
		ContractSlam,
		ContractTwoSevens,
	}
}

// DefaultOptions returns the default rules
func DefaultOptions() Options {
	return Options{
		TwoPhaseDeal:   true,
		PreviewCards:   7,
		Contracts:      DefaultContracts(),
		Ladder:         DefaultLadder(),
		MarriagePoints: 20,
		ScoreMarriages: true,
	}
}

// BaseContract returns the weakest contract of the ladder
func (o Options) BaseContract() Contract {
	if len(o.Ladder) == 0 {
		return ContractGame
	}

	return o.Ladder[0]
}

// Rank returns the position of the contract on the ladder
// The second value is false if the contract cannot be bid
func (o Options) Rank(c Contract) (int, bool) {
	for i, contract := range o.Ladder {
		if contract == c {
			return i, true
		}
	}

	return -1, false
}

// Outranks returns true if a is strictly stronger than b on the ladder
// Any biddable contract outranks the empty contract
func (o Options) Outranks(a, b Contract) bool {
	ra, ok := o.Rank(a)
	if !ok {
		return false
	}

	if b == "" {
		return true
	}

	rb, ok := o.Rank(b)
	if !ok {
		return true
	}

	return ra > rb
}

// Contract returns the rules of a contract
func (o Options) Contract(c Contract) (ContractSpec, bool) {
	spec, ok := o.Contracts[c]
	return spec, ok
}
