package advisory

import "context"

// StaticAdvisor returns a canned answer. Used in tests.
type StaticAdvisor struct {
	Answer string
	Err    error

	LastBriefing string
	LastQuestion string
}

var _ Advisor = (*StaticAdvisor)(nil)

func (a *StaticAdvisor) Advise(_ context.Context, briefing, question string) (string, error) {
	a.LastBriefing = briefing
	a.LastQuestion = question
	if a.Err != nil {
		return "", a.Err
	}
	return a.Answer, nil
}
