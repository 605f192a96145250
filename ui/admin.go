package ui

import (
	"sort"

	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	. "maragu.dev/gomponents/html"

	"github.com/parts-pile/valuator/cache"
	"github.com/parts-pile/valuator/estimator"
)

const (
	cacheStatsEndpoint = "/api/admin/prediction-cache"
	cacheClearEndpoint = "/api/admin/prediction-cache/clear"
)

// AdminStatus is what the admin page shows about the running service.
type AdminStatus struct {
	Source       string
	Listings     int
	Companies    int
	Years        int
	FuelTypes    int
	Artifacts    estimator.Summary
	CacheEnabled bool
	Cache        cache.Stats
}

func AdminPage(status AdminStatus) g.Node {
	cachePanel := P(Class("text-gray-600"), g.Text("Prediction cache is disabled."))
	if status.CacheEnabled {
		cachePanel = CacheStatsPanel(status.Cache)
	}

	return Page("Valuator Admin", []g.Node{
		pageHeader("Valuator Admin"),
		Section(
			Class("mb-8"),
			sectionHeader("Artifacts"),
			Div(
				Class("grid grid-cols-2 md:grid-cols-4 gap-4"),
				statCard("Source", "%s", status.Source),
				statCard("Encoded Width", "%d", status.Artifacts.Encoded),
				statCard("Scaled Width", "%d", status.Artifacts.Scaled),
				statCard("Input Dimension", "%d", status.Artifacts.InputDim),
			),
			vocabularyTable(status.Artifacts.Vocabulary),
		),
		Section(
			Class("mb-8"),
			sectionHeader("Dataset"),
			Div(
				Class("grid grid-cols-2 md:grid-cols-4 gap-4"),
				statCard("Listings", "%d", status.Listings),
				statCard("Companies", "%d", status.Companies),
				statCard("Years", "%d", status.Years),
				statCard("Fuel Types", "%d", status.FuelTypes),
			),
		),
		Section(
			sectionHeader("Prediction Cache"),
			Div(ID("cache-stats"), cachePanel),
		),
	})
}

// CacheStatsPanel renders the cache metrics with refresh and clear buttons.
// Both buttons swap the panel in place.
func CacheStatsPanel(stats cache.Stats) g.Node {
	return Div(
		Class("bg-gray-100 p-4 rounded-lg mb-4"),
		Div(
			Class("grid grid-cols-2 md:grid-cols-4 gap-4 mb-4"),
			statCard("Hits", "%d", stats.Hits),
			statCard("Misses", "%d", stats.Misses),
			statCard("Hit Rate", "%.1f%%", stats.HitRate),
			statCard("Sets", "%d", stats.Sets),
			statCard("Evicted", "%d", stats.Evicted),
			statCard("Current Items", "%d", stats.CurrentItems),
			statCard("Dropped Sets", "%d", stats.SetsDropped),
			statCard("TTL", "%.0fs", stats.TTLSeconds),
		),
		Div(
			Class("flex gap-4"),
			buttonDanger("Clear Cache",
				withClass("px-4 py-2"),
				withAttributes(
					hx.Post(cacheClearEndpoint),
					hx.Target("#cache-stats"),
					hx.Swap("innerHTML"),
				),
			),
			button("Refresh Stats",
				withClass("px-4 py-2"),
				withAttributes(
					hx.Get(cacheStatsEndpoint),
					hx.Target("#cache-stats"),
					hx.Swap("innerHTML"),
				),
			),
		),
	)
}

func statCard(label, format string, value interface{}) g.Node {
	return Div(
		Class("bg-white p-3 rounded border"),
		Strong(g.Text(label+": ")),
		g.Textf(format, value),
	)
}

func vocabularyTable(vocab map[string]int) g.Node {
	features := make([]string, 0, len(vocab))
	for f := range vocab {
		features = append(features, f)
	}
	sort.Strings(features)

	return Table(
		Class("mt-4 min-w-full bg-white border"),
		THead(Tr(
			Th(Class("text-left p-2 border-b"), g.Text("Feature")),
			Th(Class("text-left p-2 border-b"), g.Text("Categories")),
		)),
		TBody(g.Map(features, func(f string) g.Node {
			return Tr(
				Td(Class("p-2 border-b"), g.Text(f)),
				Td(Class("p-2 border-b"), g.Textf("%d", vocab[f])),
			)
		})),
	)
}
