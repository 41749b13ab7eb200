package jsonapi

// ResourceBuilder builds Resource values.
type ResourceBuilder struct {
	resource Resource
}

// NewResource starts a resource of the given type and ID.
func NewResource(resourceType, id string) *ResourceBuilder {
	return &ResourceBuilder{resource: Resource{Type: resourceType, ID: id}}
}

// Attributes sets the attribute payload.
func (b *ResourceBuilder) Attributes(v any) *ResourceBuilder {
	b.resource.Attributes = v
	return b
}

// BelongsTo adds a to-one relationship. An empty relID adds nothing.
func (b *ResourceBuilder) BelongsTo(name, relType, relID, related string) *ResourceBuilder {
	if relID == "" {
		return b
	}
	if b.resource.Relationships == nil {
		b.resource.Relationships = make(map[string]Relationship)
	}
	rel := Relationship{Data: ResourceIdentifier{Type: relType, ID: relID}}
	if related != "" {
		rel.Links = &Links{Related: related}
	}
	b.resource.Relationships[name] = rel
	return b
}

// Link sets the self link.
func (b *ResourceBuilder) Link(self string) *ResourceBuilder {
	b.resource.Links = &ResourceLinks{Self: self}
	return b
}

// Build returns the resource.
func (b *ResourceBuilder) Build() Resource {
	return b.resource
}

// Identifier returns the linkage of the resource being built.
func (b *ResourceBuilder) Identifier() ResourceIdentifier {
	return ResourceIdentifier{Type: b.resource.Type, ID: b.resource.ID}
}
