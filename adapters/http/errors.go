package http

import (
	"errors"
	"net/http"

	"github.com/artpar/primitives/app"
	"github.com/artpar/primitives/domain/primitive"
	"github.com/artpar/primitives/pkg/jsonapi"
	"github.com/artpar/primitives/ports"
)

// ErrorDocument is the body of every error response.
type ErrorDocument struct {
	Errors []jsonapi.Error `json:"errors"`
}

// writeError maps err to a JSON:API error response.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, resource, id string, err error) {
	var (
		body  *bodyError
		media *mediaTypeError
		param *jsonapi.ParamError
	)
	switch {
	case errors.As(err, &media):
		jsonapi.WriteError(w, jsonapi.ErrUnsupportedMediaType(media.contentType))
	case errors.As(err, &body):
		jsonapi.WriteBadRequest(w, body.Error())
	case errors.As(err, &param):
		jsonapi.WriteError(w, jsonapi.ErrInvalidParameter(param.Param, param.Reason))
	case errors.Is(err, primitive.ErrRejected), errors.Is(err, app.ErrUnknownCustomer):
		jsonapi.WriteError(w, h.rejections(err)...)
	case errors.Is(err, ports.ErrNotFound):
		jsonapi.WriteNotFound(w, resource, id)
	case errors.Is(err, ports.ErrAlreadyExists):
		jsonapi.WriteError(w, jsonapi.ErrConflict("The "+resource+" already exists"))
	default:
		h.logger.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		jsonapi.WriteInternalError(w)
	}
}

// rejections turns every field error in err into a 422 error object.
func (h *Handler) rejections(err error) []jsonapi.Error {
	var out []jsonapi.Error
	for _, fe := range app.FieldErrors(err) {
		var re *primitive.RejectionError
		if !errors.As(fe.Err, &re) {
			out = append(out, jsonapi.ErrRejected(fe.Field, "", fe.Err.Error()))
			continue
		}
		if h.metrics != nil {
			h.metrics.ObserveRejection(re)
		}
		out = append(out, jsonapi.ErrRejected(fe.Field, re.Primitive, re.Reason))
	}
	return out
}
