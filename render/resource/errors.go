package resource

import "fmt"

// MissingResourceError reports that a named resource referenced during bind
// group construction or attachment resolution is not registered, or no longer
// tracks a live GPU object.
type MissingResourceError struct {
	// Name is the resource name that failed to resolve.
	Name string
}

func (e MissingResourceError) Error() string {
	return fmt.Sprintf("resource: no resource registered under name %q", e.Name)
}

// MissingOffsetError reports that a dynamic uniform binding has no recorded
// byte offset for the entity being drawn. The entity was never staged into the
// shared buffer the binding resolves to.
type MissingOffsetError struct {
	// Entity is the draw entity the offset was requested for.
	Entity EntityID

	// Resource is the name of the dynamic uniform resource.
	Resource string
}

func (e MissingOffsetError) Error() string {
	return fmt.Sprintf("resource: dynamic uniform %q has no offset for entity %d", e.Resource, e.Entity)
}
