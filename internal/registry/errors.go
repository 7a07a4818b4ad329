package registry

import "fmt"

// UnknownComponentError indicates a lookup for a name the catalog does
// not carry. Distinct from compatibility failures: it is raised during
// configuration resolution, before validation runs.
type UnknownComponentError struct {
	Kind Kind
	Name string
}

func (e *UnknownComponentError) Error() string {
	return fmt.Sprintf("unknown %s: %q", e.Kind, e.Name)
}

// CatalogError indicates the embedded catalog itself is malformed. This
// is a build defect, not a user error.
type CatalogError struct {
	Detail string
	Err    error
}

func (e *CatalogError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("component catalog: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("component catalog: %s", e.Detail)
}

func (e *CatalogError) Unwrap() error { return e.Err }
