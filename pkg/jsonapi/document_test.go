package jsonapi

import (
	"encoding/json"
	"testing"
)

type account struct {
	Name string `json:"name"`
}

func TestNewResource(t *testing.T) {
	r := NewResource("transfers", "tr-1").
		Attributes(account{Name: "x"}).
		BelongsTo("customer", "customers", "c-1", "/customers/c-1").
		BelongsTo("counterparty", "accounts", "", "").
		Link("/transfers/tr-1").
		Build()

	if r.Type != "transfers" || r.ID != "tr-1" {
		t.Errorf("identity = %s/%s, want transfers/tr-1", r.Type, r.ID)
	}
	if len(r.Relationships) != 1 {
		t.Fatalf("relationships = %d, want 1", len(r.Relationships))
	}
	rel := r.Relationships["customer"]
	if rel.Data.ID != "c-1" || rel.Links.Related != "/customers/c-1" {
		t.Errorf("customer relationship = %+v", rel)
	}
	if r.Links.Self != "/transfers/tr-1" {
		t.Errorf("self = %q", r.Links.Self)
	}
}

func TestIdentifier(t *testing.T) {
	id := NewResource("customers", "c-1").Identifier()
	if id != (ResourceIdentifier{Type: "customers", ID: "c-1"}) {
		t.Errorf("Identifier() = %+v", id)
	}
}

func TestDocumentBuilder_ErrorsReplaceData(t *testing.T) {
	doc := NewDocument().
		Resource(Resource{Type: "customers", ID: "1"}).
		Errors(ErrBadRequest("bad")).
		Build()

	if doc.Data != nil {
		t.Errorf("Data = %v, want nil", doc.Data)
	}
	if len(doc.Errors) != 1 {
		t.Errorf("Errors = %d, want 1", len(doc.Errors))
	}
}

func TestDocumentBuilder_EmptyCollection(t *testing.T) {
	doc := NewCollectionDocument(nil, nil)

	body, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(body) != `{"data":[]}` {
		t.Errorf("body = %s, want {\"data\":[]}", body)
	}
}

func TestDocumentBuilder_Pagination(t *testing.T) {
	p := NewPagination(2, 0, 2, "/customers")
	doc := NewDocument().Collection([]Resource{{}, {}}).Pagination(p).JSONAPI().Build()

	if doc.Meta["limit"] != 2 || doc.Meta["count"] != 2 {
		t.Errorf("Meta = %v", doc.Meta)
	}
	if doc.Links == nil || doc.Links.Next == "" {
		t.Errorf("Links = %+v, want a next link", doc.Links)
	}
	if doc.JSONAPI.Version != Version {
		t.Errorf("JSONAPI.Version = %q, want %q", doc.JSONAPI.Version, Version)
	}
}

func TestDocumentBuilder_Self(t *testing.T) {
	doc := NewDocument().Self("/customers/1").Meta("k", "v").Build()
	if doc.Links.Self != "/customers/1" {
		t.Errorf("Self = %q", doc.Links.Self)
	}
	if doc.Meta["k"] != "v" {
		t.Errorf("Meta = %v", doc.Meta)
	}
}
