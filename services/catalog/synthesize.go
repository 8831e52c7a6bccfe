package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ahmadluay9/movie-recommendation-chatbot/models"
)

// AbsentValue stands in for an empty or missing text value.
const AbsentValue = "N/A"

const (
	fieldSeparator = ", "
	labelSeparator = ": "
)

type contextField struct {
	label string
	value func(models.EnrichedItem) string
}

func textValue(s string) string {
	if strings.TrimSpace(s) == "" {
		return AbsentValue
	}
	return s
}

var (
	genreField = contextField{"genre", func(it models.EnrichedItem) string {
		names := it.GenreNames
		if names == nil {
			names = []string{}
		}
		return fmt.Sprint(names)
	}}
	posterField = contextField{"poster_path", func(it models.EnrichedItem) string {
		return textValue(it.PosterPath)
	}}
	popularityField = contextField{"popularity", func(it models.EnrichedItem) string {
		return strconv.FormatFloat(it.Popularity, 'f', -1, 64)
	}}
	overviewField = contextField{"overview", func(it models.EnrichedItem) string {
		return textValue(it.Overview)
	}}
	titleValue = func(it models.EnrichedItem) string { return textValue(it.Title) }
	dateValue  = func(it models.EnrichedItem) string { return textValue(it.ReleaseDate) }
)

// contextFields is the single declaration of which fields make up a context
// record, in order, per kind.
var contextFields = map[models.Kind][]contextField{
	models.KindMovie: {
		{"title", titleValue},
		{"release_date", dateValue},
		genreField,
		posterField,
		popularityField,
		overviewField,
	},
	models.KindSeries: {
		{"name", titleValue},
		{"first_air_date", dateValue},
		genreField,
		posterField,
		popularityField,
		overviewField,
	},
}

// Synthesizer turns enriched items into flat "label: value, ..." records.
type Synthesizer struct {
	fields map[models.Kind][]contextField
}

// NewSynthesizer builds a synthesizer. With includeOverview false the
// overview field is left out of every record.
func NewSynthesizer(includeOverview bool) *Synthesizer {
	fields := make(map[models.Kind][]contextField, len(contextFields))
	for kind, list := range contextFields {
		selected := make([]contextField, 0, len(list))
		for _, f := range list {
			if f.label == overviewField.label && !includeOverview {
				continue
			}
			selected = append(selected, f)
		}
		fields[kind] = selected
	}
	return &Synthesizer{fields: fields}
}

// Synthesize renders one context record. Items of an unrecognized kind are
// rendered with the movie field set.
func (s *Synthesizer) Synthesize(item models.EnrichedItem) string {
	kind := item.Kind
	if !kind.Valid() {
		kind = models.KindMovie
	}
	list := s.fields[kind]
	var b strings.Builder
	for i, f := range list {
		if i > 0 {
			b.WriteString(fieldSeparator)
		}
		b.WriteString(f.label)
		b.WriteString(labelSeparator)
		b.WriteString(f.value(item))
	}
	return b.String()
}

// Enrich resolves genres and synthesizes the context record of every item,
// keeping fetch order.
func (s *Synthesizer) Enrich(items []models.CatalogItem) []models.EnrichedItem {
	out := make([]models.EnrichedItem, 0, len(items))
	for _, item := range items {
		enriched := models.EnrichedItem{
			CatalogItem: item,
			GenreNames:  ResolveGenres(item.GenreIDs),
		}
		enriched.CombinedInfo = s.Synthesize(enriched)
		out = append(out, enriched)
	}
	return out
}

// Records returns the context records of items in order.
func Records(items []models.EnrichedItem) []string {
	records := make([]string, len(items))
	for i, item := range items {
		records[i] = item.CombinedInfo
	}
	return records
}

var knownLabels = func() map[string]bool {
	labels := map[string]bool{}
	for _, list := range contextFields {
		for _, f := range list {
			labels[f.label] = true
		}
	}
	return labels
}()

// ParseContextRecord splits a record back into its label/value map. A
// segment that does not start with a known label is treated as part of the
// previous value, so commas inside an overview survive; a value that itself
// contains ", <label>: " cannot be recovered.
func ParseContextRecord(record string) map[string]string {
	fields := map[string]string{}
	last := ""
	for _, segment := range strings.Split(record, fieldSeparator) {
		label, value, ok := strings.Cut(segment, labelSeparator)
		if !ok {
			label, ok = strings.CutSuffix(segment, strings.TrimSpace(labelSeparator))
			value = ""
		}
		if ok && knownLabels[label] {
			fields[label] = value
			last = label
			continue
		}
		if last != "" {
			fields[last] += fieldSeparator + segment
		}
	}
	return fields
}
