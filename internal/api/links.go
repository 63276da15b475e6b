package api

import (
	"fmt"
	"net/http"
	"strconv"
)

// Links is the _links map attached to responses.
type Links map[string]string

const apiPrefix = "/api/v1"

func movieLinks(movieID int) Links {
	base := fmt.Sprintf("%s/movies/%d", apiPrefix, movieID)
	return Links{
		"self":    base,
		"update":  base,
		"delete":  base,
		"credits": base + "/credits",
		"ratings": base + "/ratings",
	}
}

func collectionLinks(path string) Links {
	return Links{
		"self":   apiPrefix + path,
		"search": apiPrefix + path + "/search",
	}
}

// paginationLinks produces first/prev/next/last relations for an offset
// paginated listing.
func paginationLinks(path string, page, perPage int, total int64) Links {
	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}

	pageURL := func(p int) string {
		return fmt.Sprintf("%s%s?page=%d&per_page=%d", apiPrefix, path, p, perPage)
	}

	links := Links{
		"first": pageURL(1),
		"last":  pageURL(lastPage),
	}
	if page > 1 {
		links["prev"] = pageURL(page - 1)
	}
	if page < lastPage {
		links["next"] = pageURL(page + 1)
	}
	return links
}

func mergeLinks(links ...Links) Links {
	out := Links{}
	for _, l := range links {
		for rel, href := range l {
			out[rel] = href
		}
	}
	return out
}

// pageParams extracts page/per_page from the query string, removing them
// from the given filter map when present. Values below 1 are rejected.
func pageParams(r *http.Request, filters map[string]string) (int, int, error) {
	page, perPage := 1, 20

	if raw, ok := filters["page"]; ok {
		delete(filters, "page")
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return 0, 0, fmt.Errorf("page must be a positive integer")
		}
		page = parsed
	}
	if raw, ok := filters["per_page"]; ok {
		delete(filters, "per_page")
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return 0, 0, fmt.Errorf("per_page must be a positive integer")
		}
		perPage = parsed
	}
	return page, perPage, nil
}

// queryFilters flattens the raw query string into the single-valued filter
// map the query builder consumes.
func queryFilters(r *http.Request) map[string]string {
	filters := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			filters[key] = values[0]
		}
	}
	return filters
}
