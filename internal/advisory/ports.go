// Package advisory produces short operational briefings for the farm by
// combining recent ledger activity with upcoming field work.
package advisory

import "context"

// Advisor answers a question given a pre-built farm briefing as context.
type Advisor interface {
	Advise(ctx context.Context, briefing, question string) (string, error)
}
