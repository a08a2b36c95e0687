package session

import (
	"github.com/kingrea/league-pool/internal/champion"
)

// View is an immutable snapshot of everything the UI renders.
type View struct {
	State State
	Role  champion.Role

	// Partition lists are nil unless State is StateReady.
	Available []champion.Candidate
	Included  []champion.Candidate
	Excluded  []champion.Candidate

	IncludeChoice champion.Candidate
	ExcludeChoice champion.Candidate
	CanInclude    bool
	CanExclude    bool
	CanQuery      bool

	Suggestions []Suggestion
	Err         error
}

// SectionsVisible reports whether the pickers, lists and query action are shown.
func (v View) SectionsVisible() bool {
	return v.State == StateReady
}

// PickerOptions lists a picker's options: the placeholder, then Available.
func (v View) PickerOptions() []champion.Candidate {
	if !v.SectionsVisible() {
		return nil
	}
	out := make([]champion.Candidate, 0, len(v.Available)+1)
	out = append(out, champion.NoSelection)
	out = append(out, v.Available...)
	return out
}

// View snapshots the session.
func (s *Session) View() View {
	v := View{
		State:       s.state,
		Role:        s.role,
		Suggestions: s.Suggestions(),
		Err:         s.lastErr,
	}
	if s.state != StateReady {
		return v
	}
	v.Available = s.store.Available()
	v.Included = s.store.Included()
	v.Excluded = s.store.Excluded()
	v.IncludeChoice = s.choices[PickerInclude]
	v.ExcludeChoice = s.choices[PickerExclude]
	v.CanInclude = s.CanCommit(PickerInclude)
	v.CanExclude = s.CanCommit(PickerExclude)
	v.CanQuery = true
	return v
}
