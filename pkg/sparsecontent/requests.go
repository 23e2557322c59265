package sparsecontent

// UpdatePropertiesRequest applies a batch of property changes to the node at
// Path. Properties with an empty ParentPath inherit Path.
type UpdatePropertiesRequest struct {
	Path       string
	Properties []RequestProperty
}

// DeleteAuthorizableRequest deletes one or more authorizables. When ApplyTo
// is non-empty, Path is ignored and every listed authorizable path is
// deleted; otherwise the single authorizable at Path is deleted.
type DeleteAuthorizableRequest struct {
	Path    string
	ApplyTo []string
}

// Targets returns the effective list of authorizable paths to delete.
func (r DeleteAuthorizableRequest) Targets() []string {
	if len(r.ApplyTo) > 0 {
		return r.ApplyTo
	}
	return []string{r.Path}
}
