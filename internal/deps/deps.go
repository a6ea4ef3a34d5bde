package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external binary subsync relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a single requirement.
type Status struct {
	Requirement
	Available bool
	Detail    string
}

// Check resolves the requirement's command on PATH.
func (r Requirement) Check() Status {
	status := Status{Requirement: r}
	status.Command = strings.TrimSpace(r.Command)
	status.Description = strings.TrimSpace(r.Description)

	if status.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	if _, err := exec.LookPath(status.Command); err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", status.Command)
		return status
	}
	status.Available = true
	return status
}

// CheckBinaries evaluates every requirement in order.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		results = append(results, req.Check())
	}
	return results
}
