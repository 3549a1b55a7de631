package doctor

import (
	"context"
	"fmt"
)

// DatabaseCheck verifies that the history database can be opened and pinged.
type DatabaseCheck struct {
	path string
	ping func(ctx context.Context) error
}

// NewDatabaseCheck creates a new database check. ping should open (or
// reuse) the database and verify connectivity.
func NewDatabaseCheck(path string, ping func(ctx context.Context) error) *DatabaseCheck {
	return &DatabaseCheck{path: path, ping: ping}
}

func (c *DatabaseCheck) Name() string {
	return "Database"
}

func (c *DatabaseCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if err := c.ping(ctx); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  c.path,
			Status: StatusFail,
			Detail: fmt.Sprintf("unreachable: %v", err),
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:  c.path,
		Status: StatusPass,
	})
	return result
}
