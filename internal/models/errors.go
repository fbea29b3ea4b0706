package models

import "fmt"

// UnknownResourceError indicates a resource name that is not in the catalog
type UnknownResourceError struct {
	Name       string
	Suggestion string // closest known name, empty if none is close
}

func (e *UnknownResourceError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown resource: %s (did you mean %s?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown resource: %s", e.Name)
}

// CatalogError describes an inconsistency in resource reference data
type CatalogError struct {
	Resource string
	Problem  string
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("resource %s: %s", e.Resource, e.Problem)
}
