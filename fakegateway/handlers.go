package fakegateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

var validName = regexp.MustCompile(`^[0-9A-Za-z.\-_~]+$`)

// assigned fields are never taken from a request body
var assignedFields = []string{"id", "created_at", "updated_at", "name", "tags", "service"}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{"message": message})
}

func writeSchemaViolation(w http.ResponseWriter, fields map[string]string) {
	var parts []string
	for k, v := range fields {
		parts = append(parts, k+": "+v)
	}
	sort.Strings(parts)
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"code":    2,
		"name":    "schema violation",
		"message": fmt.Sprintf("schema violation (%s)", strings.Join(parts, "; ")),
		"fields":  fields,
	})
}

func decodeBody(r *http.Request) (map[string]interface{}, error) {
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("cannot parse JSON body: %w", err)
	}
	if body == nil {
		return nil, fmt.Errorf("body must be a JSON object")
	}
	return body, nil
}

func (g *Gateway) tagsOf(body map[string]interface{}, fields map[string]string) []string {
	raw, ok := body["tags"]
	if !ok || raw == nil {
		return nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		fields["tags"] = "expected a set"
		return nil
	}
	tags := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			fields["tags"] = "expected a string"
			return nil
		}
		tags = append(tags, s)
	}
	if g.opts.ReverseTags {
		for i, j := 0, len(tags)-1; i < j; i, j = i+1, j-1 {
			tags[i], tags[j] = tags[j], tags[i]
		}
	}
	return tags
}

func nameOf(body map[string]interface{}, fields map[string]string) string {
	raw, ok := body["name"]
	if !ok || raw == nil {
		return ""
	}
	name, ok := raw.(string)
	if !ok || !validName.MatchString(name) {
		fields["name"] = "invalid value '" + fmt.Sprint(raw) + "': the only accepted ascii characters are alphanumerics or ., -, _, and ~"
		return ""
	}
	return name
}

func checkIntRange(body map[string]interface{}, key string, min, max float64, fields map[string]string) {
	raw, ok := body[key]
	if !ok || raw == nil {
		return
	}
	n, ok := raw.(float64)
	if !ok || n != float64(int64(n)) {
		fields[key] = "expected an integer"
		return
	}
	if n < min || n > max {
		fields[key] = fmt.Sprintf("value should be between %d and %d", int64(min), int64(max))
	}
}

// checkService applies the service schema and returns the violations by field.
func (g *Gateway) checkService(body map[string]interface{}) (string, []string, map[string]string) {
	fields := make(map[string]string)
	name := nameOf(body, fields)
	tags := g.tagsOf(body, fields)

	rawURL, _ := body["url"].(string)
	host, _ := body["host"].(string)
	switch {
	case rawURL != "":
		u, err := url.Parse(rawURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			fields["url"] = "missing host in url"
		}
	case host == "":
		fields["host"] = "required field missing"
	}
	checkIntRange(body, "port", 0, 65535, fields)
	checkIntRange(body, "retries", 0, 32767, fields)
	for _, key := range []string{"connect_timeout", "read_timeout", "write_timeout"} {
		checkIntRange(body, key, 1, 2147483646, fields)
	}
	return name, tags, fields
}

func copyFields(body map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(body))
	for k, v := range body {
		out[k] = v
	}
	for _, k := range assignedFields {
		delete(out, k)
	}
	return out
}

func (g *Gateway) validateService(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, _, fields := g.checkService(body); len(fields) != 0 {
		writeSchemaViolation(w, fields)
		return
	}
	writeMessage(w, http.StatusOK, "schema validation successful")
}

func uniqueViolation(w http.ResponseWriter, name string) {
	writeJSON(w, http.StatusConflict, map[string]interface{}{
		"code":    5,
		"name":    "unique constraint violation",
		"message": fmt.Sprintf(`UNIQUE violation detected on '{name="%s"}'`, name),
	})
}

func (g *Gateway) createService(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	name, tags, fields := g.checkService(body)
	if len(fields) != 0 {
		writeSchemaViolation(w, fields)
		return
	}

	g.store.lock.Lock()
	defer g.store.lock.Unlock()
	if name != "" && g.store.services.find(name) != nil {
		uniqueViolation(w, name)
		return
	}
	e := g.store.add(g.store.services, Entity{Name: name, Tags: tags, Fields: copyFields(body)})
	writeJSON(w, http.StatusCreated, e.toJSON())
}

func (g *Gateway) createRoute(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	fields := make(map[string]string)
	name := nameOf(body, fields)
	tags := g.tagsOf(body, fields)
	if rawPaths, ok := body["paths"].([]interface{}); ok {
		for _, p := range rawPaths {
			if s, ok := p.(string); !ok || !strings.HasPrefix(s, "/") {
				fields["paths"] = "should start with: / (fixed path) or ~/ (regex path)"
			}
		}
	}
	var serviceID string
	if ref, ok := body["service"].(map[string]interface{}); ok {
		serviceID, _ = ref["id"].(string)
	}
	if serviceID == "" {
		fields["service"] = "required field missing"
	}
	if len(fields) != 0 {
		writeSchemaViolation(w, fields)
		return
	}

	g.store.lock.Lock()
	defer g.store.lock.Unlock()
	if _, ok := g.store.services.byID[serviceID]; !ok {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"code":    4,
			"name":    "foreign key violation",
			"message": fmt.Sprintf(`the foreign key '{id="%s"}' does not reference an existing 'services' entity.`, serviceID),
		})
		return
	}
	if name != "" && g.store.routes.find(name) != nil {
		uniqueViolation(w, name)
		return
	}
	e := g.store.add(g.store.routes, Entity{Name: name, Tags: tags, ServiceID: serviceID, Fields: copyFields(body)})
	writeJSON(w, http.StatusCreated, e.toJSON())
}

func (g *Gateway) listEntities(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		size := defaultPageSize
		if s := q.Get("size"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > maxPageSize {
				writeSchemaViolation(w, map[string]string{"size": fmt.Sprintf("size must be an integer between 1 and %d", maxPageSize)})
				return
			}
			size = n
		}
		start := 0
		if o := q.Get("offset"); o != "" {
			n, err := strconv.Atoi(o)
			if err != nil || n < 0 {
				writeMessage(w, http.StatusBadRequest, "invalid offset")
				return
			}
			start = n
		}
		desc := q.Get("sort_desc") == "1" || q.Get("sort_desc") == "true"
		nameFilter := q.Get("name")

		g.store.lock.Lock()
		all := g.store.collection(collection).list(q.Get("sort_by"), desc)
		g.store.lock.Unlock()

		if nameFilter != "" {
			filtered := all[:0]
			for _, e := range all {
				if e.Name == nameFilter {
					filtered = append(filtered, e)
				}
			}
			all = filtered
		}

		data := make([]interface{}, 0, size)
		end := start + size
		if end > len(all) {
			end = len(all)
		}
		for i := start; i < end; i++ {
			data = append(data, all[i].toJSON())
		}
		resp := map[string]interface{}{"data": data, "next": nil}
		if end < len(all) {
			next := strconv.Itoa(end)
			resp["offset"] = next
			nq := url.Values{}
			for k, v := range q {
				nq[k] = v
			}
			nq.Set("offset", next)
			resp["next"] = "/" + g.opts.Workspace + "/" + collection + "?" + nq.Encode()
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (g *Gateway) getEntity(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g.store.lock.Lock()
		e := g.store.collection(collection).find(chi.URLParam(r, "nameOrID"))
		var body map[string]interface{}
		if e != nil {
			body = e.toJSON()
		}
		g.store.lock.Unlock()
		if body == nil {
			writeMessage(w, http.StatusNotFound, "Not found")
			return
		}
		writeJSON(w, http.StatusOK, body)
	}
}

func (g *Gateway) deleteEntity(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if status := g.deleteFaultFor(collection); status != 0 {
			writeMessage(w, status, "injected delete failure")
			return
		}

		g.store.lock.Lock()
		defer g.store.lock.Unlock()
		c := g.store.collection(collection)
		e := c.find(chi.URLParam(r, "nameOrID"))
		if e == nil {
			writeMessage(w, http.StatusNotFound, "Not found")
			return
		}
		if collection == "services" {
			if n := g.store.routesReferencing(e.ID); n != 0 {
				writeJSON(w, http.StatusBadRequest, map[string]interface{}{
					"code":    4,
					"name":    "foreign key violation",
					"message": "an existing 'routes' entity references this 'services' entity",
				})
				return
			}
		}
		delete(c.byID, e.ID)
		w.WriteHeader(http.StatusNoContent)
	}
}
