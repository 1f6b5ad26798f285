package util

import "fmt"

// YearLabel renders the relative year name used in projection tables and
// charts: year 1 becomes "t+1".
func YearLabel(year int) string {
	return fmt.Sprintf("t+%d", year)
}
