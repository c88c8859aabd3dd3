// Package fakegateway is an in-memory implementation of the parts of the gateway admin API
// that the contract tests use. The tests of the test suite run against it, and the CLI's
// -fake mode starts one so that the suite can be tried without a real gateway.
//
// It follows the real API closely enough for the suite's protocol to matter: names are
// unique, a route must reference an existing service, a service cannot be deleted while
// routes reference it, and listings are paged.
package fakegateway

import (
	"net/http"
	"sync"
	"time"

	"github.com/gatewayadmin/admin-contract-tests/framework"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const (
	defaultWorkspace = "default"
	defaultPageSize  = 100
	maxPageSize      = 1000
)

// Options configures a Gateway.
type Options struct {
	// Workspace is the only workspace the gateway serves. Defaults to "default".
	Workspace string

	// Logger receives one line per request. Defaults to no logging.
	Logger framework.Logger

	// ReverseTags makes the gateway store and return tags in reverse order, to simulate a
	// gateway that does not preserve tag order.
	ReverseTags bool
}

// Gateway is an http.Handler serving the fake admin API.
type Gateway struct {
	router      chi.Router
	store       *store
	opts        Options
	deleteFault map[string]int
	faultLock   sync.Mutex
}

// New creates a Gateway with empty collections.
func New(opts Options) *Gateway {
	if opts.Workspace == "" {
		opts.Workspace = defaultWorkspace
	}
	if opts.Logger == nil {
		opts.Logger = framework.NullLogger()
	}
	g := &Gateway{
		store:       newStore(),
		opts:        opts,
		deleteFault: make(map[string]int),
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(g.requestLog)
	r.Get("/", g.nodeInfo)
	r.Route("/{workspace}", func(r chi.Router) {
		r.Use(g.requireWorkspace)
		r.Post("/schemas/services/validate", g.validateService)
		for name, create := range map[string]http.HandlerFunc{
			"services": g.createService,
			"routes":   g.createRoute,
		} {
			name, create := name, create
			r.Route("/"+name, func(r chi.Router) {
				r.Post("/", create)
				r.Get("/", g.listEntities(name))
				r.Get("/{nameOrID}", g.getEntity(name))
				r.Delete("/{nameOrID}", g.deleteEntity(name))
			})
		}
	})
	g.router = r
	return g
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.router.ServeHTTP(w, r)
}

// Services returns a snapshot of all services, oldest first.
func (g *Gateway) Services() []Entity {
	g.store.lock.Lock()
	defer g.store.lock.Unlock()
	return g.store.services.list("", false)
}

// Routes returns a snapshot of all routes, oldest first.
func (g *Gateway) Routes() []Entity {
	g.store.lock.Lock()
	defer g.store.lock.Unlock()
	return g.store.routes.list("", false)
}

// AddService creates a service directly, bypassing the API.
func (g *Gateway) AddService(name string, tags ...string) Entity {
	g.store.lock.Lock()
	defer g.store.lock.Unlock()
	return g.store.add(g.store.services, Entity{Name: name, Tags: tags, Fields: map[string]interface{}{}})
}

// AddRoute creates a route bound to a service directly, bypassing the API. The service is not
// required to exist, so that tests can set up inconsistent state.
func (g *Gateway) AddRoute(name, serviceID string, tags ...string) Entity {
	g.store.lock.Lock()
	defer g.store.lock.Unlock()
	return g.store.add(g.store.routes, Entity{Name: name, Tags: tags, ServiceID: serviceID, Fields: map[string]interface{}{}})
}

// FailDeletes makes every delete request on the collection ("services" or "routes") return
// the given status without deleting anything. A status of zero removes the fault.
func (g *Gateway) FailDeletes(collection string, status int) {
	g.faultLock.Lock()
	defer g.faultLock.Unlock()
	if status == 0 {
		delete(g.deleteFault, collection)
		return
	}
	g.deleteFault[collection] = status
}

func (g *Gateway) deleteFaultFor(collection string) int {
	g.faultLock.Lock()
	defer g.faultLock.Unlock()
	return g.deleteFault[collection]
}

func (g *Gateway) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		g.opts.Logger.Printf("[fake gateway] %s %s -> %d (%s)", r.Method, r.URL.RequestURI(), ww.Status(), time.Since(started))
	})
}

func (g *Gateway) requireWorkspace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "workspace") != g.opts.Workspace {
			writeMessage(w, http.StatusNotFound, "Not found")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (g *Gateway) nodeInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tagline": "Welcome to the fake gateway admin API",
		"version": "0.0.0-fake",
	})
}
