package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes a scenario and compares its rule listing
// against testdata/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Golden files are the source of truth for the completed rule systems
// of the conformance presentations; a diff means the completion
// behavior changed.
func RunWithGolden(t *testing.T, scenario *Scenario) *Result {
	t.Helper()

	res, err := Run(scenario)
	if err != nil {
		t.Fatalf("scenario %s: %v", scenario.Name, err)
	}

	g := goldie.New(t)
	g.Assert(t, scenario.Name, []byte(res.RuleListing()))
	return res
}
