package report

import (
	"fmt"
	"io"
	"strings"

	"jsonoracle/internal/oracle"

	"github.com/olekukonko/tablewriter"
)

const maxDetailWidth = 72

// Render writes a verdict as a table followed by its status, the backends
// grouped by outcome and any faulted backends.
func Render(w io.Writer, v oracle.Verdict) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Backend", "Outcome", "Native", "Detail"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	for _, e := range v.Entries {
		result := e.Outcome.String()
		var code, detail string
		if e.Native != nil {
			code = e.Native.Code
			detail = e.Native.Detail
		}
		if e.Faulted() {
			result = "FAULT"
			detail = e.Fault
		}
		table.Append([]string{e.Backend, result, code, clip(detail)})
	}
	table.Render()
	fmt.Fprintf(w, "status: %s  agreement: %v  acceptance split: %v\n", v.Status(), v.Agreement, v.AcceptanceSplit())
	fmt.Fprintf(w, "groups: %s\n", groupLine(v))
	if faults := v.Faults(); len(faults) > 0 {
		fmt.Fprintf(w, "faults: %s\n", strings.Join(faults, ","))
	}
	fmt.Fprintf(w, "signature: %s\n", v.Signature())
}

// groupLine lists outcome groups in taxonomy order, backends in registration
// order within each group.
func groupLine(v oracle.Verdict) string {
	groups := v.Groups()
	parts := make([]string, 0, len(groups))
	for _, o := range v.Outcomes() {
		parts = append(parts, fmt.Sprintf("%s[%s]", o, strings.Join(groups[o], ",")))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

func clip(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxDetailWidth {
		return s
	}
	return s[:maxDetailWidth-3] + "..."
}
