package gatewaytests

import (
	"github.com/gatewayadmin/admin-contract-tests/admindef"
)

func DoServiceCreationTests(t *T) {
	for _, tc := range t.Cases().CreateService {
		tc := tc
		t.Run(tc.Name, func(t *T) {
			services := t.Services()
			services.EnsureAbsent(tc.Name)
			services.Create(admindef.NewServiceParams(tc.Name, tc.Tags), tc.Name, tc.Tags)
		})
	}
}
