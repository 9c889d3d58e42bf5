//go:build unit

package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farescout/flight-scraper-service/internal/app/dto"
)

func TestResolveRelativity(t *testing.T) {
	resolve := func(insight, want string) func(t *testing.T) {
		return func(t *testing.T) {
			assert.Equal(t, want, ResolveRelativity(insight))
		}
	}

	t.Run("cheaper_with_amount", resolve("$57 cheaper than usual for your search", "$57"))
	t.Run("cheaper_with_grouped_amount", resolve("$1,204 cheaper than usual", "$1,204"))
	t.Run("typical", resolve("Prices are currently typical for your search", "$0"))
	t.Run("high", resolve("Prices are currently high for your search", "$0"))
	t.Run("cheaper_without_amount", resolve("Prices are cheaper than usual", "NA"))
	t.Run("no_baseline", resolve("", "NA"))
	t.Run("unrelated_text", resolve("Track prices for this trip", "NA"))
}

func TestFindPriceInsight(t *testing.T) {
	t.Run("badge_present", func(t *testing.T) {
		doc := docFromHTML(t, `<html><body><div role="main">`+
			`<div><div>$57 cheaper than usual for your search</div></div>`+
			`</div></body></html>`)

		insight, ok := FindPriceInsight(doc)
		assert.True(t, ok)
		assert.Contains(t, insight, "cheaper")
	})

	t.Run("badge_absent", func(t *testing.T) {
		doc := docFromHTML(t, `<html><body><div role="main"><div>Best departing flights</div></div></body></html>`)

		_, ok := FindPriceInsight(doc)
		assert.False(t, ok)
	})
}

func TestSumLegPrices(t *testing.T) {
	leg := func(price string) *dto.FlightLeg {
		return &dto.FlightLeg{Price: price}
	}

	t.Run("both_legs", func(t *testing.T) {
		total := SumLegPrices(leg("$209"), leg("$209"))
		require.NotNil(t, total)
		assert.Equal(t, "$418", *total)
	})

	t.Run("grouped_total", func(t *testing.T) {
		total := SumLegPrices(leg("$1,040"), leg("$980"))
		require.NotNil(t, total)
		assert.Equal(t, "$2,020", *total)
	})

	t.Run("departure_only", func(t *testing.T) {
		total := SumLegPrices(leg("$312"), nil)
		require.NotNil(t, total)
		assert.Equal(t, "$312", *total)
	})

	t.Run("return_only", func(t *testing.T) {
		total := SumLegPrices(nil, leg("$275"))
		require.NotNil(t, total)
		assert.Equal(t, "$275", *total)
	})

	t.Run("no_legs", func(t *testing.T) {
		assert.Nil(t, SumLegPrices(nil, nil))
	})

	t.Run("unparseable_price_ignored", func(t *testing.T) {
		total := SumLegPrices(leg("Price unavailable"), leg("$275"))
		require.NotNil(t, total)
		assert.Equal(t, "$275", *total)
	})
}
