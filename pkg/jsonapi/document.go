package jsonapi

// DocumentBuilder builds Document values.
type DocumentBuilder struct {
	doc Document
}

// NewDocument starts an empty document.
func NewDocument() *DocumentBuilder {
	return &DocumentBuilder{}
}

// Resource sets a single resource as primary data.
func (b *DocumentBuilder) Resource(r Resource) *DocumentBuilder {
	b.doc.Data = r
	b.doc.Errors = nil
	return b
}

// Collection sets a list of resources as primary data. A nil slice is
// written as an empty array.
func (b *DocumentBuilder) Collection(resources []Resource) *DocumentBuilder {
	if resources == nil {
		resources = []Resource{}
	}
	b.doc.Data = resources
	b.doc.Errors = nil
	return b
}

// Errors replaces the primary data with errors.
func (b *DocumentBuilder) Errors(errs ...Error) *DocumentBuilder {
	b.doc.Errors = errs
	b.doc.Data = nil
	return b
}

// Meta adds a metadata entry.
func (b *DocumentBuilder) Meta(key string, value any) *DocumentBuilder {
	if b.doc.Meta == nil {
		b.doc.Meta = make(Meta)
	}
	b.doc.Meta[key] = value
	return b
}

// Pagination adds page metadata and links.
func (b *DocumentBuilder) Pagination(p *Pagination) *DocumentBuilder {
	if p == nil {
		return b
	}
	for k, v := range p.Meta() {
		b.Meta(k, v)
	}
	b.doc.Links = p.Links()
	return b
}

// Self sets the top-level self link.
func (b *DocumentBuilder) Self(url string) *DocumentBuilder {
	if b.doc.Links == nil {
		b.doc.Links = &Links{}
	}
	b.doc.Links.Self = url
	return b
}

// JSONAPI adds the version object.
func (b *DocumentBuilder) JSONAPI() *DocumentBuilder {
	b.doc.JSONAPI = &JSONAPI{Version: Version}
	return b
}

// Build returns the document.
func (b *DocumentBuilder) Build() Document {
	return b.doc
}

// NewSingleResourceDocument wraps one resource.
func NewSingleResourceDocument(r Resource) Document {
	return NewDocument().Resource(r).Build()
}

// NewCollectionDocument wraps a page of resources.
func NewCollectionDocument(resources []Resource, p *Pagination) Document {
	return NewDocument().Collection(resources).Pagination(p).Build()
}

// NewErrorDocument wraps errors.
func NewErrorDocument(errs ...Error) Document {
	return NewDocument().Errors(errs...).Build()
}
