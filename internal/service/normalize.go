package service

import (
	"bytes"
	"encoding/json"

	jsoniter "github.com/json-iterator/go"

	"github.com/jpeggirl/gacha-dashboard/internal/domain/entity"
)

var jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

// pagedShape is the current paginated response generation. Pagination
// fields are pointers so that absent values can fall back the same way the
// dashboard always has (page ?? 1, limit ?? len, total ?? len).
type pagedShape[T any] struct {
	Data       []T  `json:"data"`
	Page       *int `json:"page"`
	Limit      *int `json:"limit"`
	Total      *int `json:"total"`
	TotalPages *int `json:"totalPages"`
}

// NormalizeList converts a raw list-shaped API field into the canonical
// envelope. Three variants are accepted, tried in order: a flat array
// (legacy and mock responses), an object with an array-valued data field
// (current paginated responses), and anything else, which degrades to the
// empty envelope instead of erroring.
func NormalizeList[T any](raw json.RawMessage) entity.Envelope[T] {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return entity.EmptyEnvelope[T]()
	}

	switch trimmed[0] {
	case '[':
		var items []T
		if err := jsonCodec.Unmarshal(trimmed, &items); err != nil {
			return entity.EmptyEnvelope[T]()
		}
		if items == nil {
			items = []T{}
		}
		return entity.Envelope[T]{
			Items:      items,
			Page:       1,
			Limit:      len(items),
			Total:      len(items),
			TotalPages: 1,
		}
	case '{':
		var paged pagedShape[T]
		if err := jsonCodec.Unmarshal(trimmed, &paged); err != nil || paged.Data == nil {
			return entity.EmptyEnvelope[T]()
		}
		env := entity.Envelope[T]{
			Items:      paged.Data,
			Page:       intOr(paged.Page, 1),
			Limit:      intOr(paged.Limit, len(paged.Data)),
			Total:      intOr(paged.Total, len(paged.Data)),
			TotalPages: intOr(paged.TotalPages, 0),
		}
		if env.TotalPages < 1 {
			env.TotalPages = derivedTotalPages(env.Total, env.Limit)
		}
		// Page is clamped to [1, totalPages].
		if env.Page < 1 {
			env.Page = 1
		}
		if env.Page > env.TotalPages {
			env.Page = env.TotalPages
		}
		return env
	default:
		return entity.EmptyEnvelope[T]()
	}
}

func derivedTotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 1
	}
	pages := (total + limit - 1) / limit
	if pages < 1 {
		return 1
	}
	return pages
}

func intOr(v *int, fallback int) int {
	if v != nil {
		return *v
	}
	return fallback
}
