package fakegateway

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Entity is a service or route held by the fake gateway. Fields holds the request body as
// it was received; the gateway-assigned fields are kept separately.
type Entity struct {
	ID        string
	Name      string
	Tags      []string
	ServiceID string // routes only
	CreatedAt int64
	Fields    map[string]interface{}
}

func (e Entity) toJSON() map[string]interface{} {
	out := make(map[string]interface{}, len(e.Fields)+4)
	for k, v := range e.Fields {
		out[k] = v
	}
	out["id"] = e.ID
	out["name"] = e.Name
	out["tags"] = e.Tags
	out["created_at"] = e.CreatedAt
	if e.ServiceID != "" {
		out["service"] = map[string]interface{}{"id": e.ServiceID}
	}
	return out
}

// collection is one in-memory entity collection. Names and IDs are both unique keys.
type collection struct {
	byID map[string]*Entity
}

func newCollection() *collection {
	return &collection{byID: make(map[string]*Entity)}
}

func (c *collection) find(nameOrID string) *Entity {
	if e, ok := c.byID[nameOrID]; ok {
		return e
	}
	for _, e := range c.byID {
		if e.Name == nameOrID {
			return e
		}
	}
	return nil
}

func (c *collection) list(sortBy string, desc bool) []Entity {
	ret := make([]Entity, 0, len(c.byID))
	for _, e := range c.byID {
		ret = append(ret, *e)
	}
	sort.Slice(ret, func(i, j int) bool {
		a, b := ret[i], ret[j]
		if desc {
			a, b = b, a
		}
		if sortBy == "name" && a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.CreatedAt < b.CreatedAt
	})
	return ret
}

// store is the gateway's whole state.
type store struct {
	services *collection
	routes   *collection
	clock    int64
	lock     sync.Mutex
}

func newStore() *store {
	return &store{services: newCollection(), routes: newCollection()}
}

func (s *store) collection(name string) *collection {
	if name == "routes" {
		return s.routes
	}
	return s.services
}

// add inserts an entity, assigning its ID and creation time. The caller holds the lock.
func (s *store) add(c *collection, e Entity) Entity {
	s.clock++
	e.ID = uuid.NewString()
	e.CreatedAt = s.clock
	c.byID[e.ID] = &e
	return e
}

func (s *store) routesReferencing(serviceID string) int {
	n := 0
	for _, r := range s.routes.byID {
		if r.ServiceID == serviceID {
			n++
		}
	}
	return n
}
