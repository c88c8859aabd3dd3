package gatewaytests

import (
	"sync"

	"github.com/gatewayadmin/admin-contract-tests/admindef"
)

// ledger remembers what this run has seen and created, so that later phases can check their
// results against earlier ones.
type ledger struct {
	listedServices map[string]bool
	createdByKind  map[string][]admindef.Resource
	lock           sync.Mutex
}

func newLedger() *ledger {
	return &ledger{
		listedServices: make(map[string]bool),
		createdByKind:  make(map[string][]admindef.Resource),
	}
}

func (l *ledger) created(collection string, r admindef.Resource) {
	l.lock.Lock()
	l.createdByKind[collection] = append(l.createdByKind[collection], r)
	l.lock.Unlock()
}

func (l *ledger) createdCount(collection string) int {
	l.lock.Lock()
	defer l.lock.Unlock()
	return len(l.createdByKind[collection])
}

func (l *ledger) serviceListed(id string) {
	l.lock.Lock()
	l.listedServices[id] = true
	l.lock.Unlock()
}

func (l *ledger) wasServiceListed(id string) bool {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.listedServices[id]
}
