package domain

// Snapshot is everything the projection core reads for one workspace.
// A nil collection or profile means it has not been loaded yet; Salary is
// nil when no schedule is configured, which is a valid state.
type Snapshot struct {
	Transactions []*Transaction
	Expenses     []*ExpenseDefinition
	Goals        []*SavingsGoal
	Salary       *SalarySchedule
	Profile      *FinancialProfile
}

// Ready reports whether every required part of the snapshot has been loaded
func (s *Snapshot) Ready() bool {
	return s != nil &&
		s.Transactions != nil &&
		s.Expenses != nil &&
		s.Goals != nil &&
		s.Profile != nil
}
