package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-kit/kit/endpoint"

	"github.com/farescout/flight-scraper-service/internal/pkg/exception"
)

// DecodeRequestFunc extracts a typed request from the HTTP request.
type DecodeRequestFunc func(ctx context.Context, r *http.Request) (interface{}, error)

// EncodeResponseFunc writes the endpoint response to the client.
type EncodeResponseFunc func(ctx context.Context, w http.ResponseWriter, response interface{}) error

// DecodeRequest decodes the JSON body into T and runs its Bind validation.
func DecodeRequest[T any](_ context.Context, r *http.Request) (interface{}, error) {
	req := new(T)

	binder, ok := any(req).(render.Binder)
	if !ok {
		return nil, errors.New("request type does not implement render.Binder")
	}

	if err := render.Bind(r, binder); err != nil {
		var appErr exception.ApplicationError
		if errors.As(err, &appErr) {
			return nil, err
		}

		return nil, exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    "malformed request body",
			Cause:      err,
		}
	}

	return req, nil
}

// MakeHandlerFunc chains decode, endpoint, and encode into one handler.
func MakeHandlerFunc(ep endpoint.Endpoint, dec DecodeRequestFunc, enc EncodeResponseFunc) http.HandlerFunc {
	return func(respWriter http.ResponseWriter, req *http.Request) {
		ctx := req.Context()

		request, err := dec(ctx, req)
		if err != nil {
			ErrorResponse(ctx, err, respWriter)

			return
		}

		response, err := ep(ctx, request)
		if err != nil {
			ErrorResponse(ctx, err, respWriter)

			return
		}

		if err := enc(ctx, respWriter, response); err != nil {
			ErrorResponse(ctx, err, respWriter)
		}
	}
}
