package endpoints

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-kit/kit/endpoint"

	"github.com/farescout/flight-scraper-service/internal/app/dto"
)

type ScraperService interface {
	ScrapeFlight(ctx context.Context, req dto.SearchRequest) (dto.FlightResult, error)
	ScrapeRoutes(ctx context.Context, req dto.RoutesRequest) (dto.BatchResult, error)
	ScrapeDateGrid(ctx context.Context, req dto.DateGridRequest) (dto.BatchResult, error)
}

type ScraperEndpoint struct {
	ScrapeFlight   endpoint.Endpoint
	ScrapeRoutes   endpoint.Endpoint
	ScrapeDateGrid endpoint.Endpoint
}

type Endpoints struct {
	ScraperEndpoint ScraperEndpoint
}

func MakeScraperEndpoint(service ScraperService) ScraperEndpoint {
	return ScraperEndpoint{
		ScrapeFlight:   makeScrapeFlightEndpoint(service),
		ScrapeRoutes:   makeScrapeRoutesEndpoint(service),
		ScrapeDateGrid: makeScrapeDateGridEndpoint(service),
	}
}

func makeScrapeFlightEndpoint(service ScraperService) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*dto.SearchRequest)
		if !ok || request == nil {
			return nil, errors.New("invalid type")
		}

		result, err := service.ScrapeFlight(ctx, *request)
		if err != nil {
			return nil, fmt.Errorf("scraper service: %w", err)
		}

		return result, nil
	}
}

func makeScrapeRoutesEndpoint(service ScraperService) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*dto.RoutesRequest)
		if !ok || request == nil {
			return nil, errors.New("invalid type")
		}

		result, err := service.ScrapeRoutes(ctx, *request)
		if err != nil {
			return nil, fmt.Errorf("scraper service: %w", err)
		}

		return result, nil
	}
}

func makeScrapeDateGridEndpoint(service ScraperService) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*dto.DateGridRequest)
		if !ok || request == nil {
			return nil, errors.New("invalid type")
		}

		result, err := service.ScrapeDateGrid(ctx, *request)
		if err != nil {
			return nil, fmt.Errorf("scraper service: %w", err)
		}

		return result, nil
	}
}
