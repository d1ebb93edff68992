package session

import "sort"

// Assignment is a variable to re-export with a value.
type Assignment struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// RestorePlan is the work needed to undo every tracked change.
type RestorePlan struct {
	Unset   []string
	Restore []Assignment
}

// Empty reports whether the plan has nothing to do.
func (p RestorePlan) Empty() bool {
	return len(p.Unset) == 0 && len(p.Restore) == 0
}

// PlanRestore derives a restore plan from the ledger. Both lists are sorted
// by name.
func PlanRestore(s *Session) RestorePlan {
	var plan RestorePlan
	for name, c := range s.Tracked {
		switch {
		case c.Kind == KindSet && c.Previous == nil:
			plan.Unset = append(plan.Unset, name)
		case c.Previous != nil:
			plan.Restore = append(plan.Restore, Assignment{Name: name, Value: *c.Previous})
		}
	}
	sort.Strings(plan.Unset)
	sort.Slice(plan.Restore, func(i, j int) bool { return plan.Restore[i].Name < plan.Restore[j].Name })
	return plan
}
