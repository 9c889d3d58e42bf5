package service

import (
	"net/http"

	"github.com/farescout/flight-scraper-service/internal/pkg/exception"
)

var ErrEmptyBatch = exception.ApplicationError{
	Message:    "batch contains no route combinations",
	StatusCode: http.StatusBadRequest,
}
