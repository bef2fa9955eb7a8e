package sqlfrag

import (
	"strings"

	"github.com/Skryldev/jobly/apperr"
)

// BuildSet turns a partial-update payload into the body of a SET clause.
//
//	BuildSet(NewPayload(Assignment{"name", "Acme"}, Assignment{"numEmployees", 50}), companyColumns)
//	// SQL:  "name"=$1, "num_employees"=$2
//	// Args: ["Acme", 50]
//
// Fields are bound in payload order, each resolved through m. The builder
// does not filter fields: excluding immutable ones is the caller's job.
// An empty payload fails with a validation error since "SET" with nothing
// after it is not valid SQL.
func BuildSet(p *Payload, m ColumnMap) (Fragment, error) {
	if p.Len() == 0 {
		return Fragment{}, apperr.Validation("no data supplied")
	}

	cols := make([]string, 0, p.Len())
	args := make([]any, 0, p.Len())
	for i, a := range p.entries {
		cols = append(cols, QuoteIdent(m.Resolve(a.Field))+"="+Placeholder(i+1))
		args = append(args, a.Value)
	}

	return Fragment{SQL: strings.Join(cols, ", "), Args: args}, nil
}
