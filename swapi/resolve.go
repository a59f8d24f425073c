package swapi

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var urlIDPattern = regexp.MustCompile(`/(\d+)/?$`)

// ExtractID pulls the numeric ID from a SWAPI URL. Returns 0 when the
// URL carries no trailing ID.
func ExtractID(url string) int {
	m := urlIDPattern.FindStringSubmatch(url)
	if m == nil {
		return 0
	}
	id, _ := strconv.Atoi(m[1])
	return id
}

// isSwapiURL reports whether v is a SWAPI reference URL.
func isSwapiURL(v interface{}) bool {
	s, ok := v.(string)
	return ok && strings.HasPrefix(s, "https://swapi")
}

// urlCategory extracts the referenced category from a SWAPI URL, e.g.
// "people" from "https://swapi.info/api/people/1/".
func urlCategory(url string) string {
	parts := strings.Split(strings.TrimSuffix(url, "/"), "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2]
}

// displayName returns an entity's name, falling back to its title for
// films.
func displayName(e Entity) (string, bool) {
	if name, ok := e["name"].(string); ok {
		return name, true
	}
	if title, ok := e["title"].(string); ok {
		return title, true
	}
	return "", false
}

// lookup finds an entity by its 1-based ID within a category.
func lookup(dataset Dataset, category string, id int) (Entity, bool) {
	entities := dataset[category]
	if id < 1 || id > len(entities) {
		return nil, false
	}
	return entities[id-1], true
}

// resolveURL turns one reference URL into a {id, name} object. The
// second return is false when the target cannot be found.
func resolveURL(url string, dataset Dataset) (Entity, bool) {
	id := ExtractID(url)
	category := urlCategory(url)
	if id == 0 || category == "" {
		return nil, false
	}
	if _, known := dataset[category]; !known {
		return nil, false
	}

	target, found := lookup(dataset, category, id)
	if !found {
		return nil, false
	}

	name, ok := displayName(target)
	if !ok {
		name = fmt.Sprintf("Unknown %s", category)
	}
	return Entity{"id": id, "name": name}, true
}

// resolveValue rewrites URL references within one field value.
func resolveValue(value interface{}, dataset Dataset) interface{} {
	switch v := value.(type) {
	case []interface{}:
		if len(v) == 0 || !isSwapiURL(v[0]) {
			out := make([]interface{}, len(v))
			for i, item := range v {
				out[i] = resolveValue(item, dataset)
			}
			return out
		}

		resolved := make([]interface{}, 0, len(v))
		hits := 0
		for _, item := range v {
			url, ok := item.(string)
			if !ok {
				continue
			}
			if ref, ok := resolveURL(url, dataset); ok {
				resolved = append(resolved, ref)
				hits++
			}
		}
		// Keep the original URLs when nothing resolved.
		if hits == 0 {
			return v
		}
		return resolved

	case string:
		if !isSwapiURL(v) {
			return v
		}
		if ref, ok := resolveURL(v, dataset); ok {
			return ref
		}
		return v

	case map[string]interface{}:
		return map[string]interface{}(resolveEntity(v, dataset))

	default:
		return value
	}
}

func resolveEntity(e Entity, dataset Dataset) Entity {
	resolved := make(Entity, len(e))
	for key, value := range e {
		// An entity's own URL is its identity, not a reference.
		if key == "url" {
			resolved[key] = value
			continue
		}
		resolved[key] = resolveValue(value, dataset)
	}
	return resolved
}

// ResolveAll replaces SWAPI URL cross-references throughout the dataset
// with {id, name} objects. Unresolvable references keep their URLs.
func ResolveAll(dataset Dataset) Dataset {
	resolved := make(Dataset, len(dataset))
	for category, entities := range dataset {
		out := make([]Entity, len(entities))
		for i, e := range entities {
			out[i] = resolveEntity(e, dataset)
		}
		resolved[category] = out
	}
	return resolved
}
