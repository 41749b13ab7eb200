package jsonapi

import (
	"encoding/json"
	"net/http"
	"strings"
)

// WriteDocument writes doc with the JSON:API content type.
func WriteDocument(w http.ResponseWriter, status int, doc Document) {
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(doc)
}

// WriteResource writes a single resource.
func WriteResource(w http.ResponseWriter, status int, r Resource) {
	WriteDocument(w, status, NewSingleResourceDocument(r))
}

// WriteCollection writes a page of resources.
func WriteCollection(w http.ResponseWriter, resources []Resource, p *Pagination) {
	WriteDocument(w, http.StatusOK, NewCollectionDocument(resources, p))
}

// WriteCreated writes a 201 with a Location header.
func WriteCreated(w http.ResponseWriter, r Resource, location string) {
	if location != "" {
		w.Header().Set("Location", location)
	}
	WriteResource(w, http.StatusCreated, r)
}

// WriteError writes errs. The status is taken from the first error, and
// 500 is used when errs is empty or the status is not numeric.
func WriteError(w http.ResponseWriter, errs ...Error) {
	if len(errs) == 0 {
		errs = []Error{ErrInternal()}
	}
	status := errs[0].StatusCode()
	if status == 0 {
		status = http.StatusInternalServerError
	}
	WriteDocument(w, status, NewErrorDocument(errs...))
}

// WriteBadRequest writes a 400.
func WriteBadRequest(w http.ResponseWriter, detail string) {
	WriteError(w, ErrBadRequest(detail))
}

// WriteNotFound writes a 404 for a resource.
func WriteNotFound(w http.ResponseWriter, resourceType, id string) {
	WriteError(w, ErrNotFoundWithID(resourceType, id))
}

// WriteMethodNotAllowed writes a 405 with an Allow header.
func WriteMethodNotAllowed(w http.ResponseWriter, method string, allowed []string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	WriteError(w, ErrMethodNotAllowed(method))
}

// WriteInternalError writes a 500.
func WriteInternalError(w http.ResponseWriter) {
	WriteError(w, ErrInternal())
}
